package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/magabrotheeeer/gym-crm/internal/models"
	"github.com/stretchr/testify/mock"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ExpireDueMemberships(ctx context.Context) ([]*models.MembershipExpiryInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MembershipExpiryInfo), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSweeperService_Sweep(t *testing.T) {
	t.Run("пустой результат не публикует сообщений", func(t *testing.T) {
		repoMock := new(RepoMock)
		repoMock.On("ExpireDueMemberships", mock.Anything).
			Return([]*models.MembershipExpiryInfo{}, nil).Once()

		svc := NewSweeperService(repoMock, newNoopLogger(), time.Hour)
		svc.Sweep(context.Background(), nil)

		repoMock.AssertExpectations(t)
	})

	t.Run("ошибка хранилища не роняет цикл", func(t *testing.T) {
		repoMock := new(RepoMock)
		repoMock.On("ExpireDueMemberships", mock.Anything).
			Return(nil, errors.New("db down")).Once()

		svc := NewSweeperService(repoMock, newNoopLogger(), time.Hour)
		svc.Sweep(context.Background(), nil)

		repoMock.AssertExpectations(t)
	})
}
