// Package schedule реализует HTTP-обработчик недельного расписания занятия.
package schedule

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-crm/internal/http/response"
	"github.com/magabrotheeeer/gym-crm/internal/lib/sl"
	"github.com/magabrotheeeer/gym-crm/internal/models"
	"github.com/magabrotheeeer/gym-crm/internal/storage/repository"
)

// Handler обрабатывает запросы на получение расписания занятия.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики расписания занятий.
type Service interface {
	Schedule(ctx context.Context, classID string) ([]*models.ClassSchedule, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Расписание занятия
// @Description Возвращает недельное расписание занятия.
// @Tags Reservations
// @Produce  json
// @Param id path string true "ID занятия"
// @Success 200 {object} response.Response "Расписание занятия"
// @Failure 404 {object} response.Response "Занятие не найдено"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Security BearerAuth
// @Router /classes/{id}/schedule [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reservation.schedule"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	classID := chi.URLParam(r, "id")
	if classID == "" {
		log.Error("missing class id in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing class id in url"))
		return
	}

	res, err := h.service.Schedule(r.Context(), classID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("class not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("class not found"))
			return
		}
		log.Error("failed to list class schedule", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list class schedule"))
		return
	}

	log.Info("list class schedule", "count", len(res))
	render.JSON(w, r, response.OKWithData(res))
}
