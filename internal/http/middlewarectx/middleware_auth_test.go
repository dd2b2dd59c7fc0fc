package middlewarectx

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

	"github.com/growthx/assignment-portal/internal/models"
	"github.com/growthx/assignment-portal/internal/services/auth"
)

type AuthServiceMock struct{ mock.Mock }

func (m *AuthServiceMock) Authenticate(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		setupMock      func(s *AuthServiceMock)
		wantStatusCode int
		wantMessage    string
		wantNextCalled bool
	}{
		{
			name:       "valid token",
			authHeader: "Bearer token-1",
			setupMock: func(s *AuthServiceMock) {
				s.On("Authenticate", mock.Anything, "token-1").Return(&models.User{
					UID:      "uid-1",
					Username: "alice",
					Role:     models.RoleUser,
				}, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantNextCalled: true,
		},
		{
			name:           "missing header",
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    "No token, authorization denied",
		},
		{
			name:           "no bearer prefix",
			authHeader:     "token-1",
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    "No token, authorization denied",
		},
		{
			name:       "invalid token",
			authHeader: "Bearer bad-token",
			setupMock: func(s *AuthServiceMock) {
				s.On("Authenticate", mock.Anything, "bad-token").
					Return(nil, auth.ErrTokenInvalid).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    "Token is not valid",
		},
		{
			// Валидный токен удалённого пользователя: identity перечитывается
			// из хранилища и её отсутствие даёт 404, а не 401.
			name:       "subject deleted",
			authHeader: "Bearer token-1",
			setupMock: func(s *AuthServiceMock) {
				s.On("Authenticate", mock.Anything, "token-1").
					Return(nil, auth.ErrUserNotFound).Once()
			},
			wantStatusCode: http.StatusNotFound,
			wantMessage:    "User not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(AuthServiceMock)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				assert.Equal(t, "alice", r.Context().Value(User))
				assert.Equal(t, models.RoleUser, r.Context().Value(Role))
				assert.Equal(t, "uid-1", r.Context().Value(UserUID))
			})

			req := httptest.NewRequest(http.MethodGet, "/api/user/admins", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			JWTMiddleware(svc, newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantNextCalled, nextCalled)

			if tt.wantMessage != "" {
				var got map[string]any
				assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.Equal(t, false, got["success"])
				assert.Equal(t, tt.wantMessage, got["message"])
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestJWTMiddleware_StorageError(t *testing.T) {
	svc := new(AuthServiceMock)
	svc.On("Authenticate", mock.Anything, "token-1").
		Return(nil, errors.New("db down")).Once()

	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("next must not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token-1")
	rec := httptest.NewRecorder()

	JWTMiddleware(svc, newNoopLogger())(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertExpectations(t)
}

func TestAdminOnly(t *testing.T) {
	tests := []struct {
		name           string
		role           any
		wantStatusCode int
		wantNextCalled bool
	}{
		{
			name:           "admin passes",
			role:           models.RoleAdmin,
			wantStatusCode: http.StatusOK,
			wantNextCalled: true,
		},
		{
			name:           "user rejected",
			role:           models.RoleUser,
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "no role in context",
			wantStatusCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				nextCalled = true
			})

			req := httptest.NewRequest(http.MethodGet, "/api/admin/assignments", nil)
			if tt.role != nil {
				req = req.WithContext(context.WithValue(req.Context(), Role, tt.role))
			}
			rec := httptest.NewRecorder()

			AdminOnly(newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantNextCalled, nextCalled)

			if !tt.wantNextCalled {
				var got map[string]any
				assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.Equal(t, "Admin access required", got["message"])
			}
		})
	}
}
