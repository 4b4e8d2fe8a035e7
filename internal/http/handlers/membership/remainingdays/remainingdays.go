// Package remainingdays реализует HTTP-обработчик подсчёта оставшихся дней
// действующего абонемента текущего пользователя.
package remainingdays

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-crm/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-crm/internal/http/response"
	"github.com/magabrotheeeer/gym-crm/internal/lib/sl"
)

// Handler обрабатывает запросы подсчёта оставшихся дней абонемента.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики оставшихся дней.
type Service interface {
	RemainingDays(ctx context.Context, userUID string) (int, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Оставшиеся дни абонемента
// @Description Возвращает число оставшихся дней действующего абонемента, ноль без абонемента.
// @Tags Memberships
// @Produce  json
// @Success 200 {object} response.Response "Число оставшихся дней"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /memberships/remaining-days [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.remainingdays"

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

	days, err := h.service.RemainingDays(r.Context(), userUID)
	if err != nil {
		log.Error("failed to count remaining days", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not count remaining days"))
		return
	}

	log.Info("remaining days counted", slog.Int("days", days))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"remaining_days": days,
	}))
}
