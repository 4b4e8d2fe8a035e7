// Package listall реализует HTTP-обработчик списка всех абонементов с пагинацией.
package listall

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-crm/internal/http/response"
	"github.com/magabrotheeeer/gym-crm/internal/lib/sl"
	"github.com/magabrotheeeer/gym-crm/internal/models"
)

// Handler обрабатывает запросы на получение всех абонементов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка всех абонементов.
type Service interface {
	ListAll(ctx context.Context, limit, offset int) ([]*models.Membership, int, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Все абонементы
// @Description Возвращает все абонементы с пагинацией. Доступно администратору.
// @Tags Memberships
// @Produce  json
// @Param limit query int false "Размер страницы, по умолчанию 10"
// @Param offset query int false "Смещение, по умолчанию 0"
// @Success 200 {object} response.Response "Список абонементов с метаданными"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /memberships [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.listall"

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

	res, total, err := h.service.ListAll(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list memberships", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list memberships"))
		return
	}

	log.Info("list memberships", "count", len(res), "total", total)
	render.JSON(w, r, response.OKWithList(res, total, limit, offset))
}
