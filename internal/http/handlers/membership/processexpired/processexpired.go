// Package processexpired реализует HTTP-обработчик ручного запуска
// обработки просроченных абонементов.
package processexpired

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-crm/internal/http/response"
	"github.com/magabrotheeeer/gym-crm/internal/lib/sl"
)

// Handler обрабатывает запросы ручной обработки просроченных абонементов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики обработки просроченных абонементов.
type Service interface {
	ProcessExpired(ctx context.Context) (int, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Обработать просроченные абонементы
// @Description Переводит все абонементы ACTIVE с истёкшей датой окончания в EXPIRED. Доступно администратору.
// @Tags Memberships
// @Produce  json
// @Success 200 {object} response.Response "Число обработанных абонементов"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /memberships/process-expired [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.processexpired"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	count, err := h.service.ProcessExpired(r.Context())
	if err != nil {
		log.Error("failed to process expired memberships", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not process expired memberships"))
		return
	}

	log.Info("expired memberships processed", slog.Int("count", count))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"processed": count,
	}))
}
