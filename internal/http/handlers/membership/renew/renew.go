// Package renew реализует HTTP-обработчик продления абонемента.
//
// Продление прибавляет календарные месяцы к текущей дате окончания,
// а не к текущему моменту, и возвращает абонемент в статус ACTIVE.
package renew

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

// Request — структура входных данных продления.
type Request struct {
	Months int `json:"months" validate:"required,gt=0"`
}

// Handler обрабатывает запросы на продление абонемента.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики продления абонемента.
type Service interface {
	Renew(ctx context.Context, id string, months int) (*models.Membership, error)
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
// @Summary Продлить абонемент
// @Description Прибавляет календарные месяцы к дате окончания и возвращает абонемент в статус ACTIVE.
// @Tags Memberships
// @Accept  json
// @Produce  json
// @Param id path string true "ID абонемента"
// @Param request body Request true "Число месяцев продления"
// @Success 200 {object} response.Response "Обновлённый абонемент"
// @Failure 400 {object} response.Response "Некорректный JSON или число месяцев"
// @Failure 404 {object} response.Response "Абонемент не найден"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /memberships/{id}/renew [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.renew"

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

	res, err := h.service.Renew(r.Context(), id, req.Months)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			log.Error("invalid renew request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, repository.ErrNotFound):
			log.Error("membership not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("membership not found"))
		default:
			log.Error("failed to renew membership", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not renew membership"))
		}
		return
	}

	log.Info("membership renewed", slog.String("id", id), slog.Int("months", req.Months))
	render.JSON(w, r, response.OKWithData(res))
}
