// Package availability реализует HTTP-обработчик проверки свободных мест
// на занятии в заданном окне времени.
package availability

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
	services "github.com/magabrotheeeer/gym-crm/internal/services/reservation"
	"github.com/magabrotheeeer/gym-crm/internal/storage/repository"
)

// Handler обрабатывает запросы проверки доступности занятия.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики проверки доступности.
type Service interface {
	Availability(ctx context.Context, classID, startStr, endStr string) (*models.Availability, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Проверить доступность занятия
// @Description Возвращает число активных броней в окне времени и признак наличия свободных мест.
// @Tags Reservations
// @Produce  json
// @Param id path string true "ID занятия"
// @Param start_time query string true "Начало окна, RFC3339"
// @Param end_time query string true "Конец окна, RFC3339"
// @Success 200 {object} response.Response "Доступность занятия"
// @Failure 400 {object} response.Response "Некорректное окно времени"
// @Failure 404 {object} response.Response "Занятие не найдено"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /classes/{id}/availability [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reservation.availability"

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

	startStr := r.URL.Query().Get("start_time")
	endStr := r.URL.Query().Get("end_time")
	if startStr == "" || endStr == "" {
		log.Error("missing time window in query")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("start_time and end_time are required"))
		return
	}

	res, err := h.service.Availability(r.Context(), classID, startStr, endStr)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			log.Error("invalid time window", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, repository.ErrNotFound):
			log.Error("class not found", slog.String("class_id", classID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("class not found"))
		default:
			log.Error("failed to check availability", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not check availability"))
		}
		return
	}

	log.Info("availability checked", slog.String("class_id", classID),
		slog.Bool("available", res.Available))
	render.JSON(w, r, response.OKWithData(res))
}
