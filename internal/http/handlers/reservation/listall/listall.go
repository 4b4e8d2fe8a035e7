// Package listall реализует HTTP-обработчик списка всех броней с пагинацией.
package listall

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-crm/internal/http/response"
	"github.com/magabrotheeeer/gym-crm/internal/lib/sl"
	"github.com/magabrotheeeer/gym-crm/internal/models"
	services "github.com/magabrotheeeer/gym-crm/internal/services/reservation"
)

// Handler обрабатывает запросы на получение всех броней.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка всех броней.
type Service interface {
	ListAll(ctx context.Context, limit, offset int, status string) ([]*models.Reservation, int, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Все брони
// @Description Возвращает все брони с пагинацией. Доступно администратору.
// @Tags Reservations
// @Produce  json
// @Param limit query int false "Размер страницы, по умолчанию 10"
// @Param offset query int false "Смещение, по умолчанию 0"
// @Param status query string false "Фильтр по статусу"
// @Success 200 {object} response.Response "Список броней с метаданными"
// @Failure 400 {object} response.Response "Неизвестный статус"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /reservations [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reservation.listall"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	status := r.URL.Query().Get("status")

	res, total, err := h.service.ListAll(r.Context(), limit, offset, status)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			log.Error("invalid status filter", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		log.Error("failed to list reservations", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list reservations"))
		return
	}

	log.Info("list reservations", "count", len(res), "total", total)
	render.JSON(w, r, response.OKWithList(res, total, limit, offset))
}
