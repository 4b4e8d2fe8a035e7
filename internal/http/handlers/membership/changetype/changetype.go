// Package changetype реализует HTTP-обработчик смены типа абонемента.
//
// Цена нового типа берётся из фиксированной таблицы планов,
// цена из запроса клиента никогда не используется.
package changetype

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

// Request — структура входных данных смены типа.
type Request struct {
	Type string `json:"type" validate:"required,oneof=BASIC PREMIUM UNLIMITED"`
}

// Handler обрабатывает запросы на смену типа абонемента.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики смены типа абонемента.
type Service interface {
	ChangeType(ctx context.Context, id, newType string) (*models.Membership, error)
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
// @Summary Сменить тип абонемента
// @Description Меняет тип абонемента, цена берётся из таблицы планов.
// @Tags Memberships
// @Accept  json
// @Produce  json
// @Param id path string true "ID абонемента"
// @Param request body Request true "Новый тип абонемента"
// @Success 200 {object} response.Response "Обновлённый абонемент"
// @Failure 400 {object} response.Response "Некорректный JSON или тип"
// @Failure 404 {object} response.Response "Абонемент не найден"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /memberships/{id}/change-type [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.changetype"

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

	res, err := h.service.ChangeType(r.Context(), id, req.Type)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			log.Error("invalid membership type", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, repository.ErrNotFound):
			log.Error("membership not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("membership not found"))
		default:
			log.Error("failed to change membership type", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not change membership type"))
		}
		return
	}

	log.Info("membership type changed", slog.String("id", id), slog.String("type", req.Type))
	render.JSON(w, r, response.OKWithData(res))
}
