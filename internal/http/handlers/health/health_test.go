package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct{ mock.Mock }

func (m *MockService) CountUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(*MockService)
		expectedCount int
	}{
		{
			name: "сервис работает",
			setupMock: func(m *MockService) {
				m.On("CountUsers", mock.Anything).Return(3, nil)
			},
			expectedCount: 3,
		},
		{
			name: "хранилище недоступно, счетчик обнуляется",
			setupMock: func(m *MockService) {
				m.On("CountUsers", mock.Anything).Return(0, errors.New("connection refused"))
			},
			expectedCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(newNoopLogger(), mockService)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)

			var resp Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "healthy", resp.Status)
			assert.Equal(t, tt.expectedCount, resp.UsersCount)
			assert.False(t, resp.Timestamp.IsZero())
			assert.NotEmpty(t, resp.Uptime)

			mockService.AssertExpectations(t)
		})
	}
}

func TestHomeHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	Home().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp HomeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "running", resp.Status)
	assert.Contains(t, resp.Endpoints, "/auth/check (GET)")
	assert.Contains(t, resp.Endpoints, "/admin/subscription (POST)")
}
