package services

import (
	"context"
	"testing"
	"time"

	"github.com/magabrotheeeer/gym-crm/internal/lib/jwt"
	"github.com/magabrotheeeer/gym-crm/internal/models"
	"github.com/magabrotheeeer/gym-crm/internal/lib/password"
	"github.com/magabrotheeeer/gym-crm/internal/storage/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}
func (m *UsersMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	usersMock := new(UsersMock)
	usersMock.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Email == "client@example.com" &&
			u.Role == models.RoleClient &&
			u.IsActive &&
			u.PasswordHash != "" && u.PasswordHash != "secret123"
	})).Return("uid-1", nil).Once()

	svc := NewAuthService(usersMock, jwt.NewJWTMaker("test-secret", time.Hour))
	uid, err := svc.Register(context.Background(), models.DummyRegister{
		Name:     "Ivan",
		Email:    "client@example.com",
		Password: "secret123",
	})

	assert.NoError(t, err)
	assert.Equal(t, "uid-1", uid)
	usersMock.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)

	user := &models.User{
		UID:          "uid-1",
		Name:         "Ivan",
		Email:        "client@example.com",
		PasswordHash: hash,
		Role:         models.RoleClient,
		IsActive:     true,
	}

	tests := []struct {
		name       string
		setupMocks func(m *UsersMock)
		email      string
		pass       string
		wantErr    error
	}{
		{
			name: "успешный вход",
			setupMocks: func(m *UsersMock) {
				m.On("GetUserByEmail", mock.Anything, "client@example.com").Return(user, nil).Once()
			},
			email: "client@example.com",
			pass:  "secret123",
		},
		{
			name: "неверный пароль",
			setupMocks: func(m *UsersMock) {
				m.On("GetUserByEmail", mock.Anything, "client@example.com").Return(user, nil).Once()
			},
			email:   "client@example.com",
			pass:    "wrong",
			wantErr: ErrInvalidCredentials,
		},
		{
			name: "пользователь не найден",
			setupMocks: func(m *UsersMock) {
				m.On("GetUserByEmail", mock.Anything, "nobody@example.com").
					Return(nil, repository.ErrNotFound).Once()
			},
			email:   "nobody@example.com",
			pass:    "secret123",
			wantErr: ErrInvalidCredentials,
		},
		{
			name: "деактивированная учётная запись",
			setupMocks: func(m *UsersMock) {
				inactive := *user
				inactive.IsActive = false
				m.On("GetUserByEmail", mock.Anything, "client@example.com").
					Return(&inactive, nil).Once()
			},
			email:   "client@example.com",
			pass:    "secret123",
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usersMock := new(UsersMock)
			tt.setupMocks(usersMock)

			maker := jwt.NewJWTMaker("test-secret", time.Hour)
			svc := NewAuthService(usersMock, maker)
			result, err := svc.Login(context.Background(), tt.email, tt.pass)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, result.Token)
			assert.Empty(t, result.User.PasswordHash)

			claims, err := maker.ParseToken(result.Token)
			require.NoError(t, err)
			assert.Equal(t, "client@example.com", claims.Username)
			assert.Equal(t, "client", claims.Role)
			assert.Equal(t, "uid-1", claims.UserUID)
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	svc := NewAuthService(new(UsersMock), maker)

	token, err := maker.GenerateToken("client@example.com", "client", "uid-1")
	require.NoError(t, err)

	info, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "client@example.com", info.Username)
	assert.Equal(t, "client", info.Role)
	assert.Equal(t, "uid-1", info.UserUID)

	_, err = svc.ValidateToken(context.Background(), "garbage")
	assert.Error(t, err)
}
