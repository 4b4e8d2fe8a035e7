// Package cancel реализует HTTP-обработчик отмены абонемента.
//
// Отмена переводит абонемент в терминальный статус CANCELLED,
// дата окончания становится моментом отмены.
package cancel

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

// Handler обрабатывает запросы на отмену абонемента.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики отмены абонемента.
type Service interface {
	Cancel(ctx context.Context, id string) (*models.Membership, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отменить абонемент
// @Description Переводит абонемент в статус CANCELLED, дата окончания становится текущим моментом.
// @Tags Memberships
// @Produce  json
// @Param id path string true "ID абонемента"
// @Success 200 {object} response.Response "Отменённый абонемент"
// @Failure 404 {object} response.Response "Абонемент не найден"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /memberships/{id}/cancel [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.cancel"

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

	res, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("membership not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("membership not found"))
			return
		}
		log.Error("failed to cancel membership", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not cancel membership"))
		return
	}

	log.Info("membership cancelled", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(res))
}
