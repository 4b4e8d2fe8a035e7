package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/magabrotheeeer/gym-crm/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CountActiveUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) CountActiveClasses(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) CountReservations(ctx context.Context, status *models.ReservationStatus) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) CountMemberships(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestStatsService_Overview(t *testing.T) {
	t.Run("собирает все счётчики", func(t *testing.T) {
		repoMock := new(RepoMock)
		repoMock.On("CountActiveUsers", mock.Anything).Return(12, nil).Once()
		repoMock.On("CountActiveClasses", mock.Anything).Return(4, nil).Once()
		repoMock.On("CountReservations", mock.Anything, (*models.ReservationStatus)(nil)).Return(37, nil).Once()
		repoMock.On("CountMemberships", mock.Anything).Return(9, nil).Once()

		svc := NewStatsService(repoMock, newNoopLogger())
		got, err := svc.Overview(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, &models.OverviewStats{
			Users:        12,
			Classes:      4,
			Reservations: 37,
			Memberships:  9,
		}, got)
		repoMock.AssertExpectations(t)
	})

	t.Run("пустая база даёт нули", func(t *testing.T) {
		repoMock := new(RepoMock)
		repoMock.On("CountActiveUsers", mock.Anything).Return(0, nil).Once()
		repoMock.On("CountActiveClasses", mock.Anything).Return(0, nil).Once()
		repoMock.On("CountReservations", mock.Anything, (*models.ReservationStatus)(nil)).Return(0, nil).Once()
		repoMock.On("CountMemberships", mock.Anything).Return(0, nil).Once()

		svc := NewStatsService(repoMock, newNoopLogger())
		got, err := svc.Overview(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 0, got.Users)
		assert.Equal(t, 0, got.Reservations)
	})

	t.Run("ошибка хранилища", func(t *testing.T) {
		repoMock := new(RepoMock)
		repoMock.On("CountActiveUsers", mock.Anything).Return(0, errors.New("db down")).Once()

		svc := NewStatsService(repoMock, newNoopLogger())
		_, err := svc.Overview(context.Background())

		assert.Error(t, err)
	})
}
