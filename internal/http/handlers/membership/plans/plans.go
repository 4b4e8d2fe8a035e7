// Package plans реализует HTTP-обработчик списка тарифных планов.
package plans

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-crm/internal/http/response"
	"github.com/magabrotheeeer/gym-crm/internal/models"
)

// Handler обрабатывает запросы списка тарифных планов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики тарифных планов.
type Service interface {
	Plans() []models.Plan
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Тарифные планы
// @Description Возвращает фиксированный список тарифных планов с ценами.
// @Tags Memberships
// @Produce  json
// @Success 200 {object} response.Response "Список планов"
// @Router /memberships/plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.plans"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res := h.service.Plans()

	log.Info("plans listed", "count", len(res))
	render.JSON(w, r, response.OKWithData(res))
}
