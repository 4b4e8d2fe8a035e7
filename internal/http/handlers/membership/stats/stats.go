// Package stats реализует HTTP-обработчик сводной статистики по абонементам.
package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-crm/internal/http/response"
	"github.com/magabrotheeeer/gym-crm/internal/lib/sl"
	"github.com/magabrotheeeer/gym-crm/internal/models"
)

// Handler обрабатывает запросы статистики по абонементам.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики статистики абонементов.
type Service interface {
	Stats(ctx context.Context) (*models.MembershipStats, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Статистика по абонементам
// @Description Возвращает счётчики по статусам, распределение по типам и текущую выручку. Доступно администратору.
// @Tags Memberships
// @Produce  json
// @Success 200 {object} response.Response "Сводная статистика"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /memberships/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.stats"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.Stats(r.Context())
	if err != nil {
		log.Error("failed to get membership stats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get membership stats"))
		return
	}

	log.Info("membership stats collected", slog.Int("total", res.Total))
	render.JSON(w, r, response.OKWithData(res))
}
