// Package listuser реализует HTTP-обработчик списка броней текущего пользователя.
package listuser

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-crm/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-crm/internal/http/response"
	"github.com/magabrotheeeer/gym-crm/internal/lib/sl"
	"github.com/magabrotheeeer/gym-crm/internal/models"
	services "github.com/magabrotheeeer/gym-crm/internal/services/reservation"
)

// Handler обрабатывает запросы на получение списка броней пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка броней пользователя.
type Service interface {
	ListByUser(ctx context.Context, userUID, status string) ([]*models.Reservation, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Брони текущего пользователя
// @Description Возвращает брони пользователя, опционально отфильтрованные по статусу.
// @Tags Reservations
// @Produce  json
// @Param status query string false "Фильтр по статусу: PENDING, CONFIRMED или CANCELLED"
// @Success 200 {object} response.Response "Список броней"
// @Failure 400 {object} response.Response "Неизвестный статус"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /reservations/my [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reservation.listuser"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	status := r.URL.Query().Get("status")

	res, err := h.service.ListByUser(r.Context(), userUID, status)
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

	log.Info("list reservations", "count", len(res))
	render.JSON(w, r, response.OKWithData(res))
}
