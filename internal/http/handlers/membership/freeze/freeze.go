// Package freeze реализует HTTP-обработчик заморозки абонемента.
//
// Заморозка сдвигает дату окончания вперёд на длительность от текущего
// момента до freeze_until, статус абонемента не меняется.
package freeze

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

// Request — структура входных данных заморозки.
type Request struct {
	FreezeUntil string `json:"freeze_until" validate:"required"`
}

// Handler обрабатывает запросы на заморозку абонемента.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики заморозки абонемента.
type Service interface {
	Freeze(ctx context.Context, id, freezeUntil string) (*models.Membership, error)
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
// @Summary Заморозить абонемент
// @Description Сдвигает дату окончания вперёд на длительность заморозки, не меняя статус.
// @Tags Memberships
// @Accept  json
// @Produce  json
// @Param id path string true "ID абонемента"
// @Param request body Request true "Дата окончания заморозки"
// @Success 200 {object} response.Response "Обновлённый абонемент"
// @Failure 400 {object} response.Response "Некорректный JSON или дата"
// @Failure 404 {object} response.Response "Абонемент не найден"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /memberships/{id}/freeze [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.freeze"

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

	var req Request
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

	res, err := h.service.Freeze(r.Context(), id, req.FreezeUntil)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			log.Error("invalid freeze request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, repository.ErrNotFound):
			log.Error("membership not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("membership not found"))
		default:
			log.Error("failed to freeze membership", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not freeze membership"))
		}
		return
	}

	log.Info("membership frozen", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(res))
}
