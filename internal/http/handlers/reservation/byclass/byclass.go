// Package byclass реализует HTTP-обработчик списка броней конкретного занятия.
package byclass

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-crm/internal/http/response"
	"github.com/magabrotheeeer/gym-crm/internal/lib/sl"
	"github.com/magabrotheeeer/gym-crm/internal/models"
)

// Handler обрабатывает запросы на получение броней занятия.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики броней занятия.
type Service interface {
	ListByClass(ctx context.Context, classID string, day *time.Time) ([]*models.Reservation, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Брони занятия
// @Description Возвращает брони занятия, опционально за конкретную дату.
// @Tags Reservations
// @Produce  json
// @Param id path string true "ID занятия"
// @Param date query string false "Дата в формате 2006-01-02"
// @Success 200 {object} response.Response "Список броней"
// @Failure 400 {object} response.Response "Некорректная дата"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /classes/{id}/reservations [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reservation.byclass"

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

	var day *time.Time
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			log.Error("failed to parse date", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid date, expected format 2006-01-02"))
			return
		}
		day = &parsed
	}

	res, err := h.service.ListByClass(r.Context(), classID, day)
	if err != nil {
		log.Error("failed to list class reservations", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list class reservations"))
		return
	}

	log.Info("list class reservations", "count", len(res))
	render.JSON(w, r, response.OKWithData(res))
}
