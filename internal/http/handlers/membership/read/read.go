// Package read реализует HTTP-обработчик получения абонемента по ID
// вместе с историей его платежей.
package read

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

// Handler обрабатывает запросы на получение абонемента по идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения абонемента.
type Service interface {
	Read(ctx context.Context, id string) (*models.MembershipDetails, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить абонемент по ID
// @Description Возвращает абонемент вместе с историей платежей.
// @Tags Memberships
// @Produce  json
// @Param id path string true "ID абонемента"
// @Success 200 {object} response.Response "Данные абонемента"
// @Failure 404 {object} response.Response "Абонемент не найден"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /memberships/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.read"

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

	res, err := h.service.Read(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("membership not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("membership not found"))
			return
		}
		log.Error("failed to read membership", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read membership"))
		return
	}

	log.Info("success to read membership", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(res))
}
