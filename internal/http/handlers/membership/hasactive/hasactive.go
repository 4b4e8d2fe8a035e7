// Package hasactive реализует HTTP-обработчик проверки наличия
// действующего абонемента у текущего пользователя.
package hasactive

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

// Handler обрабатывает запросы проверки наличия действующего абонемента.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики проверки абонемента.
type Service interface {
	HasActive(ctx context.Context, userUID string) (bool, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Есть ли действующий абонемент
// @Tags Memberships
// @Produce  json
// @Success 200 {object} response.Response "Признак наличия действующего абонемента"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /memberships/has-active [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.hasactive"

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

	has, err := h.service.HasActive(r.Context(), userUID)
	if err != nil {
		log.Error("failed to check active membership", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not check active membership"))
		return
	}

	log.Info("active membership checked", slog.Bool("has_active", has))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"has_active": has,
	}))
}
