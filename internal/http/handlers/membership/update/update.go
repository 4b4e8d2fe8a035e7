// Package update реализует HTTP-обработчик частичного обновления абонемента.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/gym-crm/internal/http/response"
	"github.com/magabrotheeeer/gym-crm/internal/lib/sl"
	"github.com/magabrotheeeer/gym-crm/internal/models"
	services "github.com/magabrotheeeer/gym-crm/internal/services/membership"
	"github.com/magabrotheeeer/gym-crm/internal/storage/repository"
)

// Handler обрабатывает запросы на обновление абонемента.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления абонемента.
type Service interface {
	Update(ctx context.Context, id string, req models.DummyMembershipUpdate) (int, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить абонемент
// @Description Обновляет непустые поля абонемента. Доступно администратору.
// @Tags Memberships
// @Accept  json
// @Produce  json
// @Param id path string true "ID абонемента"
// @Param request body models.DummyMembershipUpdate true "Поля для обновления"
// @Success 200 {object} response.Response "Абонемент обновлён"
// @Failure 400 {object} response.Response "Некорректный JSON или значения полей"
// @Failure 404 {object} response.Response "Абонемент не найден"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /memberships/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Error("missing id in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing id in url"))
		return
	}

	var req models.DummyMembershipUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	count, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			log.Error("invalid update request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, repository.ErrNotFound):
			log.Error("membership not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("membership not found"))
		default:
			log.Error("failed to update membership", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update membership"))
		}
		return
	}
	if count == 0 {
		log.Error("membership not found", slog.String("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("membership not found"))
		return
	}

	log.Info("success to update membership", slog.String("id", id))
	render.JSON(w, r, response.OKWithMessage("membership updated"))
}
