package services

import (
	"context"
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

func (m *RepoMock) CreateMembership(ctx context.Context, mem models.Membership) (string, error) {
	args := m.Called(ctx, mem)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) GetMembership(ctx context.Context, id string) (*models.Membership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Membership), args.Error(1)
}
func (m *RepoMock) GetActiveMembership(ctx context.Context, userUID string) (*models.Membership, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Membership), args.Error(1)
}
func (m *RepoMock) ListUserMemberships(ctx context.Context, userUID string) ([]*models.Membership, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Membership), args.Error(1)
}
func (m *RepoMock) ListAllMemberships(ctx context.Context, limit, offset int) ([]*models.Membership, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Membership), args.Error(1)
}
func (m *RepoMock) CountMemberships(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) UpdateMembership(ctx context.Context, id string, mType *models.MembershipType, status *models.MembershipStatus, startDate, endDate *time.Time, price *float64) (int, error) {
	args := m.Called(ctx, id, mType, status, startDate, endDate, price)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) RenewMembership(ctx context.Context, id string, months int) (*models.Membership, error) {
	args := m.Called(ctx, id, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Membership), args.Error(1)
}
func (m *RepoMock) ChangeMembershipType(ctx context.Context, id string, newType models.MembershipType, price float64) (*models.Membership, error) {
	args := m.Called(ctx, id, newType, price)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Membership), args.Error(1)
}
func (m *RepoMock) CancelMembership(ctx context.Context, id string) (*models.Membership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Membership), args.Error(1)
}
func (m *RepoMock) FreezeMembership(ctx context.Context, id string, freezeUntil time.Time) (*models.Membership, error) {
	args := m.Called(ctx, id, freezeUntil)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Membership), args.Error(1)
}
func (m *RepoMock) ExpireDueMemberships(ctx context.Context) ([]*models.MembershipExpiryInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MembershipExpiryInfo), args.Error(1)
}
func (m *RepoMock) GetMembershipStats(ctx context.Context) (*models.MembershipStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MembershipStats), args.Error(1)
}
func (m *RepoMock) CreatePayment(ctx context.Context, p models.Payment) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) ListMembershipPayments(ctx context.Context, membershipID string) ([]*models.Payment, error) {
	args := m.Called(ctx, membershipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
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

func TestMembershipService_Create(t *testing.T) {
	req := models.DummyMembership{
		UserUID:   "a3f1c2d4-0000-0000-0000-000000000001",
		Type:      "PREMIUM",
		StartDate: "2025-06-01",
		EndDate:   "2025-07-01",
		Price:     89.99,
	}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		req        models.DummyMembership
		wantID     string
		wantErr    string
	}{
		{
			name: "успешное оформление с платежом",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("CreateMembership", mock.Anything, mock.MatchedBy(func(mem models.Membership) bool {
					return mem.Type == models.MembershipPremium &&
						mem.Status == models.MembershipActive &&
						mem.Price == req.Price
				})).Return("mem-1", nil).Once()
				r.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p models.Payment) bool {
					return p.Amount == req.Price && p.Status == models.PaymentCompleted &&
						p.MembershipID != nil && *p.MembershipID == "mem-1"
				})).Return("pay-1", nil).Once()
				c.On("Set", "membership:mem-1", mock.Anything, time.Hour).Return(nil).Once()
			},
			req:    req,
			wantID: "mem-1",
		},
		{
			name:       "неизвестный тип",
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			req: models.DummyMembership{
				UserUID:   req.UserUID,
				Type:      "GOLD",
				StartDate: req.StartDate,
				EndDate:   req.EndDate,
				Price:     req.Price,
			},
			wantErr: "unknown membership type",
		},
		{
			name:       "конец раньше начала",
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			req: models.DummyMembership{
				UserUID:   req.UserUID,
				Type:      req.Type,
				StartDate: "2025-07-01",
				EndDate:   "2025-06-01",
				Price:     req.Price,
			},
			wantErr: "end date must be after start date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repoMock := new(RepoMock)
			cacheMock := new(CacheMock)
			tt.setupMocks(repoMock, cacheMock)

			svc := NewMembershipService(repoMock, cacheMock, newNoopLogger())
			id, err := svc.Create(context.Background(), tt.req)

			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}
			repoMock.AssertExpectations(t)
			cacheMock.AssertExpectations(t)
		})
	}
}

func TestMembershipService_ChangeType(t *testing.T) {
	t.Run("цена берётся из таблицы планов", func(t *testing.T) {
		repoMock := new(RepoMock)
		cacheMock := new(CacheMock)
		updated := &models.Membership{
			ID:    "mem-1",
			Type:  models.MembershipUnlimited,
			Price: 129.99,
		}
		repoMock.On("ChangeMembershipType", mock.Anything, "mem-1",
			models.MembershipUnlimited, 129.99).Return(updated, nil).Once()
		cacheMock.On("Set", "membership:mem-1", updated, time.Hour).Return(nil).Once()

		svc := NewMembershipService(repoMock, cacheMock, newNoopLogger())
		got, err := svc.ChangeType(context.Background(), "mem-1", "UNLIMITED")

		assert.NoError(t, err)
		assert.Equal(t, 129.99, got.Price)
		repoMock.AssertExpectations(t)
	})

	t.Run("неизвестный тип", func(t *testing.T) {
		svc := NewMembershipService(new(RepoMock), new(CacheMock), newNoopLogger())
		_, err := svc.ChangeType(context.Background(), "mem-1", "GOLD")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown membership type")
	})
}

func TestMembershipService_Renew(t *testing.T) {
	t.Run("продление записывает платёж", func(t *testing.T) {
		repoMock := new(RepoMock)
		cacheMock := new(CacheMock)
		renewed := &models.Membership{
			ID:      "mem-1",
			UserUID: "user-1",
			Status:  models.MembershipActive,
			EndDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
			Price:   49.99,
		}
		repoMock.On("RenewMembership", mock.Anything, "mem-1", 2).Return(renewed, nil).Once()
		repoMock.On("CreatePayment", mock.Anything, mock.Anything).Return("pay-2", nil).Once()
		cacheMock.On("Set", "membership:mem-1", renewed, time.Hour).Return(nil).Once()

		svc := NewMembershipService(repoMock, cacheMock, newNoopLogger())
		got, err := svc.Renew(context.Background(), "mem-1", 2)

		assert.NoError(t, err)
		assert.Equal(t, models.MembershipActive, got.Status)
		repoMock.AssertExpectations(t)
	})

	t.Run("неположительное число месяцев", func(t *testing.T) {
		svc := NewMembershipService(new(RepoMock), new(CacheMock), newNoopLogger())
		_, err := svc.Renew(context.Background(), "mem-1", 0)
		assert.Error(t, err)
	})
}

func TestMembershipService_RemainingDays(t *testing.T) {
	t.Run("без действующего абонемента ноль", func(t *testing.T) {
		repoMock := new(RepoMock)
		repoMock.On("GetActiveMembership", mock.Anything, "user-1").
			Return(nil, repository.ErrNotFound).Once()

		svc := NewMembershipService(repoMock, new(CacheMock), newNoopLogger())
		days, err := svc.RemainingDays(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Equal(t, 0, days)
	})

	t.Run("дни округляются вверх", func(t *testing.T) {
		repoMock := new(RepoMock)
		repoMock.On("GetActiveMembership", mock.Anything, "user-1").
			Return(&models.Membership{
				ID:      "mem-1",
				EndDate: time.Now().Add(36 * time.Hour),
			}, nil).Once()

		svc := NewMembershipService(repoMock, new(CacheMock), newNoopLogger())
		days, err := svc.RemainingDays(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Equal(t, 2, days)
	})
}

func TestMembershipService_HasActive(t *testing.T) {
	t.Run("есть действующий", func(t *testing.T) {
		repoMock := new(RepoMock)
		repoMock.On("GetActiveMembership", mock.Anything, "user-1").
			Return(&models.Membership{ID: "mem-1"}, nil).Once()

		svc := NewMembershipService(repoMock, new(CacheMock), newNoopLogger())
		has, err := svc.HasActive(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("нет действующего", func(t *testing.T) {
		repoMock := new(RepoMock)
		repoMock.On("GetActiveMembership", mock.Anything, "user-1").
			Return(nil, repository.ErrNotFound).Once()

		svc := NewMembershipService(repoMock, new(CacheMock), newNoopLogger())
		has, err := svc.HasActive(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.False(t, has)
	})
}

func TestMembershipService_ProcessExpired(t *testing.T) {
	repoMock := new(RepoMock)
	expired := []*models.MembershipExpiryInfo{
		{MembershipID: "mem-1", Email: "a@example.com"},
		{MembershipID: "mem-2", Email: "b@example.com"},
		{MembershipID: "mem-3", Email: "c@example.com"},
	}
	repoMock.On("ExpireDueMemberships", mock.Anything).Return(expired, nil).Once()

	svc := NewMembershipService(repoMock, new(CacheMock), newNoopLogger())
	count, err := svc.ProcessExpired(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 3, count)
	repoMock.AssertExpectations(t)
}

func TestMembershipService_Plans(t *testing.T) {
	svc := NewMembershipService(new(RepoMock), new(CacheMock), newNoopLogger())
	plans := svc.Plans()

	assert.Len(t, plans, 3)
	assert.Equal(t, models.MembershipBasic, plans[0].Type)
	assert.Equal(t, 49.99, plans[0].Price)
	assert.Equal(t, 129.99, plans[2].Price)
}
