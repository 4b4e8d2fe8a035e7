// Package services содержит бизнес-логику для управления бронями занятий и кешированием.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/gym-crm/internal/lib/timeutil"
	"github.com/magabrotheeeer/gym-crm/internal/metrics"
	"github.com/magabrotheeeer/gym-crm/internal/models"
	"github.com/magabrotheeeer/gym-crm/internal/storage/repository"
)

// ReservationRepository определяет методы для работы с бронями в хранилище.
type ReservationRepository interface {
	// CreateReservation добавляет новую бронь и возвращает её ID.
	// Проверка пересечений и вместимости выполняется в одной транзакции.
	CreateReservation(ctx context.Context, r models.Reservation) (string, error)
	// GetReservation возвращает бронь по ID.
	GetReservation(ctx context.Context, id string) (*models.Reservation, error)
	// ListUserReservations возвращает брони пользователя с опциональным фильтром по статусу.
	ListUserReservations(ctx context.Context, userUID string, status *models.ReservationStatus) ([]*models.Reservation, error)
	// ListClassReservations возвращает брони занятия, опционально за конкретный день.
	ListClassReservations(ctx context.Context, classID string, day *time.Time) ([]*models.Reservation, error)
	// ListInstructorReservations возвращает брони тренера, опционально за конкретный день.
	ListInstructorReservations(ctx context.Context, instructorUID string, day *time.Time) ([]*models.Reservation, error)
	// ListAllReservations возвращает все брони с пагинацией.
	ListAllReservations(ctx context.Context, limit, offset int, status *models.ReservationStatus) ([]*models.Reservation, error)
	// CountReservations подсчитывает брони по опциональному статусу.
	CountReservations(ctx context.Context, status *models.ReservationStatus) (int, error)
	// ListUpcomingReservations возвращает будущие активные брони пользователя.
	ListUpcomingReservations(ctx context.Context, userUID string) ([]*models.Reservation, error)
	// ListPastReservations возвращает прошедшие брони пользователя.
	ListPastReservations(ctx context.Context, userUID string) ([]*models.Reservation, error)
	// UpdateReservation обновляет непустые поля брони и возвращает число затронутых строк.
	UpdateReservation(ctx context.Context, id string, startTime, endTime *time.Time, status *models.ReservationStatus, notes *string) (int, error)
	// SetReservationStatus выставляет статус брони без дополнительных проверок.
	SetReservationStatus(ctx context.Context, id string, status models.ReservationStatus) (int, error)
	// CancelReservation отменяет бронь, опционально проверяя владельца.
	CancelReservation(ctx context.Context, id string, userUID *string) (int, error)
	// CountOverlappingReservations считает активные брони занятия, пересекающие окно.
	CountOverlappingReservations(ctx context.Context, classID string, startTime, endTime time.Time) (int, error)
	// GetReservationStats возвращает сводную статистику по броням.
	GetReservationStats(ctx context.Context, startOfDay, startOfWeek, startOfMonth time.Time) (*models.ReservationStats, error)
	// GetClass возвращает занятие по ID.
	GetClass(ctx context.Context, classID string) (*models.Class, error)
	// ListClassSchedules возвращает недельное расписание занятия.
	ListClassSchedules(ctx context.Context, classID string) ([]*models.ClassSchedule, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// ReservationService реализует бизнес-логику работы с бронями, включая кеширование.
type ReservationService struct {
	repo  ReservationRepository
	cache Cache
	log   *slog.Logger
}

// NewReservationService создает новый экземпляр ReservationService.
func NewReservationService(repo ReservationRepository, cache Cache, log *slog.Logger) *ReservationService {
	return &ReservationService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// ErrInvalidInput помечает ошибки разбора и согласованности входных данных,
// которые обработчик должен вернуть клиенту, а не как ошибку сервера.
var ErrInvalidInput = errors.New("invalid input")

func parseWindow(startStr, endStr string) (time.Time, time.Time, error) {
	startTime, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid start time", ErrInvalidInput)
	}
	endTime, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid end time", ErrInvalidInput)
	}
	if !startTime.Before(endTime) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start time must be before end time", ErrInvalidInput)
	}
	return startTime, endTime, nil
}

// Create создает новую бронь для пользователя и возвращает её ID.
// Бронь всегда создаётся в статусе PENDING.
func (s *ReservationService) Create(ctx context.Context, userUID string, req models.DummyReservation) (string, error) {
	startTime, endTime, err := parseWindow(req.StartTime, req.EndTime)
	if err != nil {
		return "", err
	}

	reservation := models.Reservation{
		UserUID:       userUID,
		ClassID:       req.ClassID,
		InstructorUID: req.InstructorUID,
		StartTime:     startTime,
		EndTime:       endTime,
		Status:        models.ReservationPending,
		Notes:         req.Notes,
	}

	id, err := s.repo.CreateReservation(ctx, reservation)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			metrics.ReservationsRejected.WithLabelValues("overlap").Inc()
		case errors.Is(err, repository.ErrCapacityFull):
			metrics.ReservationsRejected.WithLabelValues("capacity").Inc()
		}
		return "", err
	}
	metrics.ReservationsCreated.Inc()

	s.log.Info("created new reservation", slog.String("id", id))

	reservation.ID = id
	cacheKey := fmt.Sprintf("reservation:%s", id)
	if err := s.cache.Set(cacheKey, reservation, time.Hour); err != nil {
		s.log.Warn("failed to cache reservation", slog.String("key", cacheKey), slog.Any("err", err))
	}

	return id, nil
}

// Read возвращает бронь по ID, используя кеш или репозиторий.
func (s *ReservationService) Read(ctx context.Context, id string) (*models.Reservation, error) {
	var result *models.Reservation
	cacheKey := fmt.Sprintf("reservation:%s", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	if result != nil {
		if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", cacheKey),
				slog.Any("err", err))
		}
	}
	return result, nil
}

// Update обновляет непустые поля брони и инвалидирует кеш.
func (s *ReservationService) Update(ctx context.Context, id string, req models.DummyReservationUpdate) (int, error) {
	var startTime, endTime *time.Time
	if req.StartTime != "" {
		t, err := time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid start time", ErrInvalidInput)
		}
		startTime = &t
	}
	if req.EndTime != "" {
		t, err := time.Parse(time.RFC3339, req.EndTime)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid end time", ErrInvalidInput)
		}
		endTime = &t
	}
	if startTime != nil && endTime != nil && !startTime.Before(*endTime) {
		return 0, fmt.Errorf("%w: start time must be before end time", ErrInvalidInput)
	}

	var status *models.ReservationStatus
	if req.Status != "" {
		st := models.ReservationStatus(req.Status)
		if !st.Valid() {
			return 0, fmt.Errorf("%w: unknown reservation status %s", ErrInvalidInput, req.Status)
		}
		status = &st
	}

	var notes *string
	if req.Notes != "" {
		notes = &req.Notes
	}

	res, err := s.repo.UpdateReservation(ctx, id, startTime, endTime, status, notes)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated reservation in storage", slog.String("id", id))

	cacheKey := fmt.Sprintf("reservation:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return res, nil
}

// Confirm переводит бронь в статус CONFIRMED. Операция идемпотентна:
// повторное подтверждение уже подтверждённой брони не является ошибкой.
func (s *ReservationService) Confirm(ctx context.Context, id string) (int, error) {
	count, err := s.repo.SetReservationStatus(ctx, id, models.ReservationConfirmed)
	if err != nil {
		return 0, err
	}

	cacheKey := fmt.Sprintf("reservation:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return count, nil
}

// Cancel отменяет бронь. Если userUID задан, отмена выполняется только
// для брони этого пользователя.
func (s *ReservationService) Cancel(ctx context.Context, id string, userUID *string) (int, error) {
	count, err := s.repo.CancelReservation(ctx, id, userUID)
	if err != nil {
		return 0, err
	}

	cacheKey := fmt.Sprintf("reservation:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return count, nil
}

func parseStatus(status string) (*models.ReservationStatus, error) {
	if status == "" {
		return nil, nil
	}
	st := models.ReservationStatus(status)
	if !st.Valid() {
		return nil, fmt.Errorf("%w: unknown reservation status %s", ErrInvalidInput, status)
	}
	return &st, nil
}

// ListByUser возвращает брони пользователя с опциональным фильтром по статусу.
func (s *ReservationService) ListByUser(ctx context.Context, userUID, status string) ([]*models.Reservation, error) {
	st, err := parseStatus(status)
	if err != nil {
		return nil, err
	}
	return s.repo.ListUserReservations(ctx, userUID, st)
}

// ListAll возвращает все брони с пагинацией и общим числом для метаданных ответа.
func (s *ReservationService) ListAll(ctx context.Context, limit, offset int, status string) ([]*models.Reservation, int, error) {
	st, err := parseStatus(status)
	if err != nil {
		return nil, 0, err
	}
	reservations, err := s.repo.ListAllReservations(ctx, limit, offset, st)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountReservations(ctx, st)
	if err != nil {
		return nil, 0, err
	}
	return reservations, total, nil
}

// ListByClass возвращает брони занятия, опционально за конкретный день.
func (s *ReservationService) ListByClass(ctx context.Context, classID string, day *time.Time) ([]*models.Reservation, error) {
	return s.repo.ListClassReservations(ctx, classID, day)
}

// ListByInstructor возвращает брони тренера, опционально за конкретный день.
func (s *ReservationService) ListByInstructor(ctx context.Context, instructorUID string, day *time.Time) ([]*models.Reservation, error) {
	return s.repo.ListInstructorReservations(ctx, instructorUID, day)
}

// Upcoming возвращает будущие активные брони пользователя.
func (s *ReservationService) Upcoming(ctx context.Context, userUID string) ([]*models.Reservation, error) {
	return s.repo.ListUpcomingReservations(ctx, userUID)
}

// Past возвращает прошедшие брони пользователя.
func (s *ReservationService) Past(ctx context.Context, userUID string) ([]*models.Reservation, error) {
	return s.repo.ListPastReservations(ctx, userUID)
}

// Availability проверяет, есть ли свободные места на занятии в заданном окне.
// Отменённые брони не учитываются.
func (s *ReservationService) Availability(ctx context.Context, classID, startStr, endStr string) (*models.Availability, error) {
	startTime, endTime, err := parseWindow(startStr, endStr)
	if err != nil {
		return nil, err
	}

	class, err := s.repo.GetClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.CountOverlappingReservations(ctx, classID, startTime, endTime)
	if err != nil {
		return nil, err
	}

	return &models.Availability{
		Available:           count < class.MaxCapacity,
		CurrentReservations: count,
		MaxCapacity:         class.MaxCapacity,
	}, nil
}

// Schedule возвращает недельное расписание занятия. Занятие должно существовать.
func (s *ReservationService) Schedule(ctx context.Context, classID string) ([]*models.ClassSchedule, error) {
	if _, err := s.repo.GetClass(ctx, classID); err != nil {
		return nil, err
	}
	return s.repo.ListClassSchedules(ctx, classID)
}

// Stats возвращает сводную статистику по броням. Границы "сегодня",
// "эта неделя" и "этот месяц" считаются в локальном времени сервера,
// неделя начинается с воскресенья.
func (s *ReservationService) Stats(ctx context.Context) (*models.ReservationStats, error) {
	now := time.Now()
	return s.repo.GetReservationStats(ctx,
		timeutil.StartOfDay(now),
		timeutil.StartOfWeek(now),
		timeutil.StartOfMonth(now),
	)
}
