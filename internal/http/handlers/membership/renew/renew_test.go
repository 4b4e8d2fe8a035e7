package renew

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/gym-crm/internal/models"
	"github.com/magabrotheeeer/gym-crm/internal/storage/repository"
)

// MockService реализует интерфейс renew.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Renew(ctx context.Context, id string, months int) (*models.Membership, error) {
	args := m.Called(ctx, id, months)
	if res := args.Get(0); res != nil {
		return res.(*models.Membership), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestRenewHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		id             string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное продление абонемента",
			id:   "mem-1",
			body: `{"months": 2}`,
			setupMock: func(m *MockService) {
				membership := &models.Membership{
					ID:      "mem-1",
					Type:    models.MembershipBasic,
					Status:  models.MembershipActive,
					EndDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
				}
				m.On("Renew", mock.Anything, "mem-1", 2).Return(membership, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"Status":"ACTIVE"`,
		},
		{
			name:           "некорректный JSON",
			id:             "mem-1",
			body:           `{months`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"message":"invalid request body"`,
		},
		{
			name:           "нулевое число месяцев",
			id:             "mem-1",
			body:           `{"months": 0}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"success":false`,
		},
		{
			name: "абонемент не найден",
			id:   "mem-404",
			body: `{"months": 1}`,
			setupMock: func(m *MockService) {
				m.On("Renew", mock.Anything, "mem-404", 1).Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"message":"membership not found"`,
		},
		{
			name: "ошибка сервиса",
			id:   "mem-1",
			body: `{"months": 1}`,
			setupMock: func(m *MockService) {
				m.On("Renew", mock.Anything, "mem-1", 1).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"message":"could not renew membership"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/memberships/"+tt.id+"/renew", strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
