package google

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

	"github.com/magabrotheeeer/subscription-gatekeeper/internal/config"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/identity"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/models"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/session"
)

type MockService struct{ mock.Mock }

func (m *MockService) Authenticate(ctx context.Context, email, name string) (*models.User, models.AccessDecision, error) {
	args := m.Called(ctx, email, name)
	if args.Get(0) == nil {
		return nil, models.AccessDecision{}, args.Error(2)
	}
	return args.Get(0).(*models.User), args.Get(1).(models.AccessDecision), args.Error(2)
}

type MockVerifier struct{ mock.Mock }

func (m *MockVerifier) Verify(tokenStr string) (*identity.Claims, error) {
	args := m.Called(tokenStr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Claims), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func testCookieConfig() config.Session {
	return config.Session{
		CookieName: "gatekeeper_session",
		SessionTTL: time.Hour,
	}
}

func TestGoogleHandler(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	expiresAt := now.AddDate(0, 0, 30)

	tests := []struct {
		name           string
		body           string
		setupMocks     func(*MockService, *MockVerifier)
		expectedStatus int
		expectedBody   string
		wantCookie     bool
	}{
		{
			name: "успешная аутентификация",
			body: `{"token":"good-token"}`,
			setupMocks: func(s *MockService, v *MockVerifier) {
				v.On("Verify", "good-token").Return(&identity.Claims{Email: "a@x.com", Name: "A"}, nil)
				s.On("Authenticate", mock.Anything, "a@x.com", "A").Return(&models.User{
					Email: "a@x.com",
					Name:  "A",
					Subscription: models.Subscription{
						PlanKind:  models.PlanTrial,
						ExpiresAt: expiresAt,
					},
					CreatedAt: now,
				}, models.AccessDecision{
					Status:    models.StatusActive,
					PlanKind:  models.PlanTrial,
					ExpiresAt: &expiresAt,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"active"`,
			wantCookie:     true,
		},
		{
			name:           "некорректный JSON",
			body:           `{broken`,
			setupMocks:     func(_ *MockService, _ *MockVerifier) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid request body"}`,
		},
		{
			name:           "отсутствует токен",
			body:           `{"email":"a@x.com"}`,
			setupMocks:     func(_ *MockService, _ *MockVerifier) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field Token is a required field`,
		},
		{
			name: "невалидный токен",
			body: `{"token":"bad-token"}`,
			setupMocks: func(_ *MockService, v *MockVerifier) {
				v.On("Verify", "bad-token").Return(nil, errors.New("signature is invalid"))
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"error":"invalid token"}`,
		},
		{
			name: "ошибка сервиса",
			body: `{"token":"good-token"}`,
			setupMocks: func(s *MockService, v *MockVerifier) {
				v.On("Verify", "good-token").Return(&identity.Claims{Email: "a@x.com", Name: "A"}, nil)
				s.On("Authenticate", mock.Anything, "a@x.com", "A").
					Return(nil, models.AccessDecision{}, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"authentication failed"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			mockVerifier := new(MockVerifier)
			tt.setupMocks(mockService, mockVerifier)

			sessions := session.NewMemory(time.Hour)
			handler := New(newNoopLogger(), mockService, mockVerifier, sessions, testCookieConfig())

			req := httptest.NewRequest(http.MethodPost, "/auth/google", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			var sessionCookie *http.Cookie
			for _, c := range w.Result().Cookies() {
				if c.Name == "gatekeeper_session" {
					sessionCookie = c
				}
			}
			if tt.wantCookie {
				assert.NotNil(t, sessionCookie, "session cookie should be set")
				assert.NotEmpty(t, sessionCookie.Value)
				assert.True(t, sessionCookie.HttpOnly)
			} else {
				assert.Nil(t, sessionCookie)
			}

			mockService.AssertExpectations(t)
			mockVerifier.AssertExpectations(t)
		})
	}
}

func TestGoogleHandler_ClaimsWithoutEmailFallsBackToBody(t *testing.T) {
	mockService := new(MockService)
	mockVerifier := new(MockVerifier)

	mockVerifier.On("Verify", "good-token").Return(&identity.Claims{}, nil)
	expiresAt := time.Now().AddDate(0, 0, 30)
	mockService.On("Authenticate", mock.Anything, "body@x.com", "Body Name").Return(&models.User{
		Email: "body@x.com",
		Name:  "Body Name",
	}, models.AccessDecision{
		Status:    models.StatusActive,
		PlanKind:  models.PlanTrial,
		ExpiresAt: &expiresAt,
	}, nil)

	sessions := session.NewMemory(time.Hour)
	handler := New(newNoopLogger(), mockService, mockVerifier, sessions, testCookieConfig())

	body := `{"token":"good-token","email":"body@x.com","name":"Body Name"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/google", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}
