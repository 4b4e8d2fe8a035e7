// Package overview реализует HTTP-обработчик сводной статистики по клубу.
package overview

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

// Handler обрабатывает запросы сводной статистики.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики сводной статистики.
type Service interface {
	Overview(ctx context.Context) (*models.OverviewStats, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сводная статистика по клубу
// @Description Возвращает счётчики пользователей, занятий, броней и абонементов. Доступно администратору.
// @Tags Stats
// @Produce  json
// @Success 200 {object} response.Response "Сводная статистика"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /stats/overview [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.overview"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.Overview(r.Context())
	if err != nil {
		log.Error("failed to get overview stats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get overview stats"))
		return
	}

	log.Info("overview stats collected")
	render.JSON(w, r, response.OKWithData(res))
}
