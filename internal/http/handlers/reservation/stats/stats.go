// Package stats реализует HTTP-обработчик сводной статистики по броням.
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

// Handler обрабатывает запросы статистики по броням.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики статистики броней.
type Service interface {
	Stats(ctx context.Context) (*models.ReservationStats, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Статистика по броням
// @Description Возвращает счётчики броней по статусам и периодам. Доступно администратору.
// @Tags Reservations
// @Produce  json
// @Success 200 {object} response.Response "Сводная статистика"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /reservations/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reservation.stats"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.Stats(r.Context())
	if err != nil {
		log.Error("failed to get reservation stats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get reservation stats"))
		return
	}

	log.Info("reservation stats collected", slog.Int("total", res.Total))
	render.JSON(w, r, response.OKWithData(res))
}
