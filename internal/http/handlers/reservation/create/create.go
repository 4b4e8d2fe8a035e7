// Package create реализует HTTP-обработчик для создания новых броней занятий.
//
// Handler принимает JSON-запрос с данными брони, валидирует их, извлекает
// идентификатор пользователя из контекста, вызывает бизнес-логику создания
// брони через сервис и возвращает ID созданной записи в JSON-формате.
//
// Пересечение с другой бронью пользователя и заполненность занятия
// возвращаются как ошибки уровня запроса, а не сервера.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/gym-crm/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-crm/internal/http/response"
	"github.com/magabrotheeeer/gym-crm/internal/lib/sl"
	"github.com/magabrotheeeer/gym-crm/internal/models"
	services "github.com/magabrotheeeer/gym-crm/internal/services/reservation"
	"github.com/magabrotheeeer/gym-crm/internal/storage/repository"
)

// Handler управляет HTTP-запросами на создание новых броней.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики броней
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания брони.
type Service interface {
	Create(ctx context.Context, userUID string, req models.DummyReservation) (string, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать новую бронь
// @Description Создает бронь занятия для текущего пользователя в статусе PENDING. Возвращает ID созданной записи.
// @Tags Reservations
// @Accept  json
// @Produce  json
// @Param request body models.DummyReservation true "Данные новой брони"
// @Success 200 {object} response.Response "Успешное создание брони"
// @Failure 400 {object} response.Response "Некорректный JSON, пересечение броней или занятие заполнено"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 404 {object} response.Response "Занятие или тренер не найдены"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 500 {object} response.Response "Ошибка сервера при создании брони"
// @Router /reservations [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reservation.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyReservation
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, err := h.service.Create(r.Context(), userUID, req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			log.Error("reservation overlaps with existing one", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("already booked for this time"))
		case errors.Is(err, repository.ErrCapacityFull):
			log.Error("class is full", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("class is full"))
		case errors.Is(err, repository.ErrNotFound):
			log.Error("class or instructor not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("class or instructor not found"))
		case errors.Is(err, services.ErrInvalidInput):
			log.Error("invalid reservation window", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("failed to create reservation", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create reservation"))
		}
		return
	}

	log.Info("success to create reservation", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
