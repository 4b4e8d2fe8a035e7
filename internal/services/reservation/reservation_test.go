package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/magabrotheeeer/gym-crm/internal/models"
	"github.com/magabrotheeeer/gym-crm/internal/storage/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateReservation(ctx context.Context, r models.Reservation) (string, error) {
	args := m.Called(ctx, r)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}
func (m *RepoMock) ListUserReservations(ctx context.Context, userUID string, status *models.ReservationStatus) ([]*models.Reservation, error) {
	args := m.Called(ctx, userUID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reservation), args.Error(1)
}
func (m *RepoMock) ListClassReservations(ctx context.Context, classID string, day *time.Time) ([]*models.Reservation, error) {
	args := m.Called(ctx, classID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reservation), args.Error(1)
}
func (m *RepoMock) ListInstructorReservations(ctx context.Context, instructorUID string, day *time.Time) ([]*models.Reservation, error) {
	args := m.Called(ctx, instructorUID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reservation), args.Error(1)
}
func (m *RepoMock) ListAllReservations(ctx context.Context, limit, offset int, status *models.ReservationStatus) ([]*models.Reservation, error) {
	args := m.Called(ctx, limit, offset, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reservation), args.Error(1)
}
func (m *RepoMock) CountReservations(ctx context.Context, status *models.ReservationStatus) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListUpcomingReservations(ctx context.Context, userUID string) ([]*models.Reservation, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reservation), args.Error(1)
}
func (m *RepoMock) ListPastReservations(ctx context.Context, userUID string) ([]*models.Reservation, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reservation), args.Error(1)
}
func (m *RepoMock) UpdateReservation(ctx context.Context, id string, startTime, endTime *time.Time, status *models.ReservationStatus, notes *string) (int, error) {
	args := m.Called(ctx, id, startTime, endTime, status, notes)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) SetReservationStatus(ctx context.Context, id string, status models.ReservationStatus) (int, error) {
	args := m.Called(ctx, id, status)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) CancelReservation(ctx context.Context, id string, userUID *string) (int, error) {
	args := m.Called(ctx, id, userUID)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) CountOverlappingReservations(ctx context.Context, classID string, startTime, endTime time.Time) (int, error) {
	args := m.Called(ctx, classID, startTime, endTime)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) GetReservationStats(ctx context.Context, startOfDay, startOfWeek, startOfMonth time.Time) (*models.ReservationStats, error) {
	args := m.Called(ctx, startOfDay, startOfWeek, startOfMonth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReservationStats), args.Error(1)
}
func (m *RepoMock) GetClass(ctx context.Context, classID string) (*models.Class, error) {
	args := m.Called(ctx, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Class), args.Error(1)
}

func (m *RepoMock) ListClassSchedules(ctx context.Context, classID string) ([]*models.ClassSchedule, error) {
	args := m.Called(ctx, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ClassSchedule), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestReservationService_Create(t *testing.T) {
	start := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	end := start.Add(time.Hour)
	req := models.DummyReservation{
		ClassID:       "a3f1c2d4-0000-0000-0000-000000000001",
		InstructorUID: "a3f1c2d4-0000-0000-0000-000000000002",
		StartTime:     start.Format(time.RFC3339),
		EndTime:       end.Format(time.RFC3339),
		Notes:         "after work",
	}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		req        models.DummyReservation
		wantID     string
		wantErr    error
	}{
		{
			name: "успешное создание",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("CreateReservation", mock.Anything, mock.MatchedBy(func(res models.Reservation) bool {
					return res.ClassID == req.ClassID &&
						res.Status == models.ReservationPending &&
						res.UserUID == "user-1"
				})).Return("res-42", nil).Once()

				c.On("Set", "reservation:res-42", mock.Anything, time.Hour).Return(nil).Once()
			},
			req:    req,
			wantID: "res-42",
		},
		{
			name:       "некорректная дата начала",
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			req: models.DummyReservation{
				ClassID:       req.ClassID,
				InstructorUID: req.InstructorUID,
				StartTime:     "not-a-date",
				EndTime:       req.EndTime,
			},
			wantErr: errors.New("invalid start time"),
		},
		{
			name:       "начало позже конца",
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			req: models.DummyReservation{
				ClassID:       req.ClassID,
				InstructorUID: req.InstructorUID,
				StartTime:     end.Format(time.RFC3339),
				EndTime:       start.Format(time.RFC3339),
			},
			wantErr: errors.New("start time must be before end time"),
		},
		{
			name: "пересечение с другой бронью",
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("CreateReservation", mock.Anything, mock.Anything).
					Return("", repository.ErrConflict).Once()
			},
			req:     req,
			wantErr: repository.ErrConflict,
		},
		{
			name: "занятие заполнено",
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("CreateReservation", mock.Anything, mock.Anything).
					Return("", repository.ErrCapacityFull).Once()
			},
			req:     req,
			wantErr: repository.ErrCapacityFull,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repoMock := new(RepoMock)
			cacheMock := new(CacheMock)
			tt.setupMocks(repoMock, cacheMock)

			svc := NewReservationService(repoMock, cacheMock, newNoopLogger())
			id, err := svc.Create(context.Background(), "user-1", tt.req)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}
			repoMock.AssertExpectations(t)
			cacheMock.AssertExpectations(t)
		})
	}
}

func TestReservationService_Read(t *testing.T) {
	reservation := &models.Reservation{
		ID:      "res-1",
		UserUID: "user-1",
		Status:  models.ReservationPending,
	}

	t.Run("чтение из хранилища с записью в кеш", func(t *testing.T) {
		repoMock := new(RepoMock)
		cacheMock := new(CacheMock)
		cacheMock.On("Get", "reservation:res-1", mock.Anything).Return(false, nil).Once()
		repoMock.On("GetReservation", mock.Anything, "res-1").Return(reservation, nil).Once()
		cacheMock.On("Set", "reservation:res-1", reservation, time.Hour).Return(nil).Once()

		svc := NewReservationService(repoMock, cacheMock, newNoopLogger())
		got, err := svc.Read(context.Background(), "res-1")

		assert.NoError(t, err)
		assert.Equal(t, reservation, got)
		repoMock.AssertExpectations(t)
		cacheMock.AssertExpectations(t)
	})

	t.Run("не найдено", func(t *testing.T) {
		repoMock := new(RepoMock)
		cacheMock := new(CacheMock)
		cacheMock.On("Get", "reservation:res-2", mock.Anything).Return(false, nil).Once()
		repoMock.On("GetReservation", mock.Anything, "res-2").Return(nil, repository.ErrNotFound).Once()

		svc := NewReservationService(repoMock, cacheMock, newNoopLogger())
		_, err := svc.Read(context.Background(), "res-2")

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestReservationService_Confirm(t *testing.T) {
	repoMock := new(RepoMock)
	cacheMock := new(CacheMock)
	repoMock.On("SetReservationStatus", mock.Anything, "res-1", models.ReservationConfirmed).
		Return(1, nil).Twice()
	cacheMock.On("Invalidate", "reservation:res-1").Return(nil).Twice()

	svc := NewReservationService(repoMock, cacheMock, newNoopLogger())

	// повторное подтверждение не является ошибкой
	for i := 0; i < 2; i++ {
		count, err := svc.Confirm(context.Background(), "res-1")
		assert.NoError(t, err)
		assert.Equal(t, 1, count)
	}
	repoMock.AssertExpectations(t)
}

func TestReservationService_Cancel(t *testing.T) {
	userUID := "user-1"

	t.Run("отмена своей брони", func(t *testing.T) {
		repoMock := new(RepoMock)
		cacheMock := new(CacheMock)
		repoMock.On("CancelReservation", mock.Anything, "res-1", &userUID).Return(1, nil).Once()
		cacheMock.On("Invalidate", "reservation:res-1").Return(nil).Once()

		svc := NewReservationService(repoMock, cacheMock, newNoopLogger())
		count, err := svc.Cancel(context.Background(), "res-1", &userUID)

		assert.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("чужая бронь не найдена", func(t *testing.T) {
		repoMock := new(RepoMock)
		cacheMock := new(CacheMock)
		repoMock.On("CancelReservation", mock.Anything, "res-9", &userUID).
			Return(0, repository.ErrNotFound).Once()

		svc := NewReservationService(repoMock, cacheMock, newNoopLogger())
		_, err := svc.Cancel(context.Background(), "res-9", &userUID)

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestReservationService_Availability(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	class := &models.Class{ID: "class-1", MaxCapacity: 10}

	tests := []struct {
		name          string
		overlapping   int
		wantAvailable bool
	}{
		{"есть свободные места", 4, true},
		{"мест нет", 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repoMock := new(RepoMock)
			cacheMock := new(CacheMock)
			repoMock.On("GetClass", mock.Anything, "class-1").Return(class, nil).Once()
			repoMock.On("CountOverlappingReservations", mock.Anything, "class-1", start, end).
				Return(tt.overlapping, nil).Once()

			svc := NewReservationService(repoMock, cacheMock, newNoopLogger())
			got, err := svc.Availability(context.Background(), "class-1",
				start.Format(time.RFC3339), end.Format(time.RFC3339))

			assert.NoError(t, err)
			assert.Equal(t, tt.wantAvailable, got.Available)
			assert.Equal(t, tt.overlapping, got.CurrentReservations)
			assert.Equal(t, 10, got.MaxCapacity)
		})
	}
}

func TestReservationService_Update(t *testing.T) {
	t.Run("некорректный статус", func(t *testing.T) {
		svc := NewReservationService(new(RepoMock), new(CacheMock), newNoopLogger())
		_, err := svc.Update(context.Background(), "res-1", models.DummyReservationUpdate{
			Status: "DONE",
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown reservation status")
	})

	t.Run("обновление заметки", func(t *testing.T) {
		repoMock := new(RepoMock)
		cacheMock := new(CacheMock)
		notes := "reschedule request"
		repoMock.On("UpdateReservation", mock.Anything, "res-1",
			(*time.Time)(nil), (*time.Time)(nil), (*models.ReservationStatus)(nil), &notes).
			Return(1, nil).Once()
		cacheMock.On("Invalidate", "reservation:res-1").Return(nil).Once()

		svc := NewReservationService(repoMock, cacheMock, newNoopLogger())
		count, err := svc.Update(context.Background(), "res-1", models.DummyReservationUpdate{
			Notes: notes,
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, count)
		repoMock.AssertExpectations(t)
	})
}
