package listusers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscription-gatekeeper/internal/models"
)

type MockService struct{ mock.Mock }

func (m *MockService) ListUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestListUsersHandler(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "список пользователей",
			setupMock: func(m *MockService) {
				m.On("ListUsers", mock.Anything).Return([]*models.User{
					{
						Email: "a@x.com",
						Name:  "A",
						Subscription: models.Subscription{
							PlanKind:  models.PlanTrial,
							ExpiresAt: now.AddDate(0, 0, 30),
						},
						CreatedAt: now,
					},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"email":"a@x.com"`,
		},
		{
			name: "пустое хранилище",
			setupMock: func(m *MockService) {
				m.On("ListUsers", mock.Anything).Return([]*models.User(nil), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"users":[]}`,
		},
		{
			name: "хранилище недоступно",
			setupMock: func(m *MockService) {
				m.On("ListUsers", mock.Anything).Return(nil, errors.New("connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"failed to list users"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(newNoopLogger(), mockService)

			req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
