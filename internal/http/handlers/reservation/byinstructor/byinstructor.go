// Package byinstructor реализует HTTP-обработчик списка броней тренера.
package byinstructor

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

// Handler обрабатывает запросы на получение броней тренера.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики броней тренера.
type Service interface {
	ListByInstructor(ctx context.Context, instructorUID string, day *time.Time) ([]*models.Reservation, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Брони тренера
// @Description Возвращает брони занятий тренера, опционально за конкретную дату.
// @Tags Reservations
// @Produce  json
// @Param uid path string true "UID тренера"
// @Param date query string false "Дата в формате 2006-01-02"
// @Success 200 {object} response.Response "Список броней"
// @Failure 400 {object} response.Response "Некорректная дата"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /instructors/{uid}/reservations [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reservation.byinstructor"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	instructorUID := chi.URLParam(r, "uid")
	if instructorUID == "" {
		log.Error("missing instructor uid in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing instructor uid in url"))
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

	res, err := h.service.ListByInstructor(r.Context(), instructorUID, day)
	if err != nil {
		log.Error("failed to list instructor reservations", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list instructor reservations"))
		return
	}

	log.Info("list instructor reservations", "count", len(res))
	render.JSON(w, r, response.OKWithData(res))
}
