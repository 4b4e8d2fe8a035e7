// Package cancel реализует HTTP-обработчик отмены брони.
//
// Клиент может отменить только собственную бронь, администратор — любую.
// Отмена переводит бронь в терминальный статус CANCELLED и освобождает
// место на занятии.
package cancel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-crm/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-crm/internal/http/response"
	"github.com/magabrotheeeer/gym-crm/internal/lib/sl"
	"github.com/magabrotheeeer/gym-crm/internal/models"
	"github.com/magabrotheeeer/gym-crm/internal/storage/repository"
)

// Handler обрабатывает запросы на отмену брони.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики отмены брони.
type Service interface {
	Cancel(ctx context.Context, id string, userUID *string) (int, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отменить бронь
// @Description Переводит бронь в статус CANCELLED. Клиент может отменить только свою бронь.
// @Tags Reservations
// @Produce  json
// @Param id path string true "ID брони"
// @Success 200 {object} response.Response "Бронь отменена"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 404 {object} response.Response "Бронь не найдена"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /reservations/{id}/cancel [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reservation.cancel"

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

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	role, _ := r.Context().Value(middlewarectx.Role).(string)

	// админ отменяет любую бронь, остальные только свою
	var owner *string
	if role != string(models.RoleAdmin) {
		owner = &userUID
	}

	count, err := h.service.Cancel(r.Context(), id, owner)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("reservation not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("reservation not found"))
			return
		}
		log.Error("failed to cancel reservation", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not cancel reservation"))
		return
	}
	if count == 0 {
		log.Error("reservation not found", slog.String("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("reservation not found"))
		return
	}

	log.Info("reservation cancelled", slog.String("id", id))
	render.JSON(w, r, response.OKWithMessage("reservation cancelled"))
}
