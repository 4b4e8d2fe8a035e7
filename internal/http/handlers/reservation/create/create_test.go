package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/gym-crm/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-crm/internal/models"
	"github.com/magabrotheeeer/gym-crm/internal/storage/repository"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, userUID string, req models.DummyReservation) (string, error) {
	args := m.Called(ctx, userUID, req)
	return args.String(0), args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validBody := `{
		"class_id": "0b4af632-3371-4cb1-8e8e-5a1f5b9b60a1",
		"instructor_uid": "9a3e5f11-14a9-4a68-9c41-0038cdd6a5af",
		"start_time": "2026-01-10T10:00:00Z",
		"end_time": "2026-01-10T11:00:00Z"
	}`

	tests := []struct {
		name           string
		body           string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешное создание брони",
			body:    validBody,
			userUID: "user-1",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "user-1", mock.Anything).Return("res-42", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"id":"res-42"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{invalid`,
			userUID:        "user-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"message":"invalid request body"`,
		},
		{
			name:           "ошибка валидации полей",
			body:           `{"class_id":"not-a-uuid","instructor_uid":"also-bad","start_time":"x","end_time":"y"}`,
			userUID:        "user-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"success":false`,
		},
		{
			name:           "нет пользователя в контексте",
			body:           validBody,
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"message":"unauthorized"`,
		},
		{
			name:    "пересечение с другой бронью",
			body:    validBody,
			userUID: "user-1",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "user-1", mock.Anything).Return("", repository.ErrConflict)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"message":"already booked for this time"`,
		},
		{
			name:    "занятие заполнено",
			body:    validBody,
			userUID: "user-1",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "user-1", mock.Anything).Return("", repository.ErrCapacityFull)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"message":"class is full"`,
		},
		{
			name:    "занятие не найдено",
			body:    validBody,
			userUID: "user-1",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "user-1", mock.Anything).Return("", repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"message":"class or instructor not found"`,
		},
		{
			name:    "ошибка сервиса",
			body:    validBody,
			userUID: "user-1",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "user-1", mock.Anything).Return("", errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"message":"could not create reservation"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(tt.body))
			if tt.userUID != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID))
			}

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
