// Package active реализует HTTP-обработчик получения действующего
// абонемента текущего пользователя.
package active

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
	"github.com/magabrotheeeer/gym-crm/internal/storage/repository"
)

// Handler обрабатывает запросы на получение действующего абонемента.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики действующего абонемента.
type Service interface {
	Active(ctx context.Context, userUID string) (*models.Membership, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Действующий абонемент пользователя
// @Description Возвращает самый свежий действующий абонемент текущего пользователя.
// @Tags Memberships
// @Produce  json
// @Success 200 {object} response.Response "Данные абонемента"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 404 {object} response.Response "Действующий абонемент не найден"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /memberships/active [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.active"

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

	res, err := h.service.Active(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("no active membership", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("no active membership"))
			return
		}
		log.Error("failed to get active membership", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get active membership"))
		return
	}

	log.Info("active membership found", slog.String("id", res.ID))
	render.JSON(w, r, response.OKWithData(res))
}
