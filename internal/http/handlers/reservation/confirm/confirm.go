// Package confirm реализует HTTP-обработчик подтверждения брони.
//
// Подтверждение идемпотентно: повторный запрос для уже подтверждённой
// брони возвращает успех.
package confirm

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
	"github.com/magabrotheeeer/gym-crm/internal/storage/repository"
)

// Handler обрабатывает запросы на подтверждение брони.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики подтверждения брони.
type Service interface {
	Confirm(ctx context.Context, id string) (int, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Подтвердить бронь
// @Description Переводит бронь в статус CONFIRMED. Доступно администратору и тренеру.
// @Tags Reservations
// @Produce  json
// @Param id path string true "ID брони"
// @Success 200 {object} response.Response "Бронь подтверждена"
// @Failure 404 {object} response.Response "Бронь не найдена"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /reservations/{id}/confirm [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reservation.confirm"

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

	count, err := h.service.Confirm(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("reservation not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("reservation not found"))
			return
		}
		log.Error("failed to confirm reservation", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not confirm reservation"))
		return
	}
	if count == 0 {
		log.Error("reservation not found", slog.String("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("reservation not found"))
		return
	}

	log.Info("reservation confirmed", slog.String("id", id))
	render.JSON(w, r, response.OKWithMessage("reservation confirmed"))
}
