package login

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/growthx/assignment-portal/internal/models"
	"github.com/growthx/assignment-portal/internal/services/auth"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) LoginAdmin(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestAdminLoginHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		setupMock      func(s *ServiceMock)
		wantStatusCode int
		wantSuccess    bool
		wantMessage    string
		checkBody      func(t *testing.T, got map[string]any)
	}{
		{
			name: "valid login",
			requestBody: Request{
				Email:    "boss@example.com",
				Password: "password123",
			},
			setupMock: func(s *ServiceMock) {
				s.On("LoginAdmin", mock.Anything, "boss@example.com", "password123").
					Return(&models.User{
						UID:      "uid-9",
						Username: "boss",
						Email:    "boss@example.com",
						Role:     models.RoleAdmin,
					}, "token-9", nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantSuccess:    true,
			wantMessage:    "Login successful",
			checkBody: func(t *testing.T, got map[string]any) {
				assert.Equal(t, "token-9", got["token"])
				admin := got["admin"].(map[string]any)
				assert.Equal(t, "boss", admin["username"])
				assert.NotEmpty(t, admin["loginAt"])
			},
		},
		{
			// Пользовательская учётка не видна админ-логину: поиск идёт
			// с фильтром role=admin, ответ тот же Invalid credentials.
			name: "wrong credentials",
			requestBody: Request{
				Email:    "boss@example.com",
				Password: "wrongpassword",
			},
			setupMock: func(s *ServiceMock) {
				s.On("LoginAdmin", mock.Anything, "boss@example.com", "wrongpassword").
					Return(nil, "", auth.ErrInvalidCredentials).Once()
			},
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "Invalid credentials",
		},
		{
			name: "missing password",
			requestBody: Request{
				Email: "boss@example.com",
			},
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "field Password is a required field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}
			handler := New(newNoopLogger(), svc)

			bodyBytes, err := json.Marshal(tt.requestBody)
			if err != nil {
				t.Fatal(err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantSuccess, got["success"])
			assert.Equal(t, tt.wantMessage, got["message"])

			if tt.checkBody != nil {
				tt.checkBody(t, got)
			}
			svc.AssertExpectations(t)
		})
	}
}
