package middlewarectx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-gatekeeper/internal/session"
)

const testCookieName = "gatekeeper_session"

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSessionMiddleware(t *testing.T) {
	sessions := session.NewMemory(time.Hour)
	token, err := sessions.Create(context.Background(), session.Identity{
		Email: "user@example.com",
		Name:  "User",
	})
	require.NoError(t, err)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "user@example.com", r.Context().Value(Email))
		assert.Equal(t, "User", r.Context().Value(Name))
		w.WriteHeader(http.StatusOK)
	})
	handler := SessionMiddleware(sessions, testCookieName, newNoopLogger())(next)

	tests := []struct {
		name           string
		cookie         *http.Cookie
		expectedStatus int
	}{
		{
			name:           "действительная сессия",
			cookie:         &http.Cookie{Name: testCookieName, Value: token},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "cookie отсутствует",
			cookie:         nil,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "неизвестный токен",
			cookie:         &http.Cookie{Name: testCookieName, Value: "deadbeef"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "пустое значение cookie",
			cookie:         &http.Cookie{Name: testCookieName, Value: ""},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/auth/check", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusUnauthorized {
				assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())
			}
		})
	}
}

func TestAdminKeyMiddleware(t *testing.T) {
	const adminKey = "super-secret"

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := AdminKeyMiddleware(adminKey, newNoopLogger())(next)

	tests := []struct {
		name           string
		headerValue    string
		setHeader      bool
		expectedStatus int
	}{
		{
			name:           "правильный ключ",
			headerValue:    adminKey,
			setHeader:      true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "неправильный ключ",
			headerValue:    "wrong",
			setHeader:      true,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "заголовок отсутствует",
			setHeader:      false,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
			if tt.setHeader {
				req.Header.Set(AdminKeyHeader, tt.headerValue)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"unauthorized"}`, w.Body.String())
			}
		})
	}
}
