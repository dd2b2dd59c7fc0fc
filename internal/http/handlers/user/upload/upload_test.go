package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/growthx/assignment-portal/internal/http/middlewarectx"
	"github.com/growthx/assignment-portal/internal/models"
	"github.com/growthx/assignment-portal/internal/services/assignment"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) Upload(ctx context.Context, callerUsername string, req models.DummyAssignment) (*models.AssignmentView, error) {
	args := m.Called(ctx, callerUsername, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssignmentView), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestUploadHandler_ServeHTTP(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	validBody := models.DummyAssignment{
		User:  "alice",
		Admin: "boss",
		Task:  "build the thing",
	}

	tests := []struct {
		name           string
		requestBody    any
		ctxUsername    string
		setupMock      func(s *ServiceMock)
		wantStatusCode int
		wantSuccess    bool
		wantMessage    string
		checkBody      func(t *testing.T, got map[string]any)
	}{
		{
			name:        "valid upload",
			requestBody: validBody,
			ctxUsername: "alice",
			setupMock: func(s *ServiceMock) {
				s.On("Upload", mock.Anything, "alice", validBody).Return(&models.AssignmentView{
					ID:          "a1",
					User:        "alice",
					Admin:       "boss",
					Task:        "build the thing",
					Status:      models.StatusPending,
					SubmittedAt: now,
				}, nil).Once()
			},
			wantStatusCode: http.StatusCreated,
			wantSuccess:    true,
			wantMessage:    "Assignment uploaded successfully",
			checkBody: func(t *testing.T, got map[string]any) {
				a := got["assignment"].(map[string]any)
				assert.Equal(t, "a1", a["id"])
				assert.Equal(t, "pending", a["status"])
				assert.Equal(t, "15/06/2025, 10:30 AM", a["submittedAt"])
			},
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			ctxUsername:    "alice",
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "invalid request body",
		},
		{
			name: "missing task",
			requestBody: models.DummyAssignment{
				User:  "alice",
				Admin: "boss",
			},
			ctxUsername:    "alice",
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "field Task is a required field",
		},
		{
			name:           "no identity in context",
			requestBody:    validBody,
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    "Unauthorized",
		},
		{
			name:        "unknown admin",
			requestBody: validBody,
			ctxUsername: "alice",
			setupMock: func(s *ServiceMock) {
				s.On("Upload", mock.Anything, "alice", validBody).
					Return(nil, assignment.ErrAdminNotFound).Once()
			},
			wantStatusCode: http.StatusNotFound,
			wantMessage:    "Admin not found",
		},
		{
			name:        "foreign user",
			requestBody: validBody,
			ctxUsername: "mallory",
			setupMock: func(s *ServiceMock) {
				s.On("Upload", mock.Anything, "mallory", validBody).
					Return(nil, assignment.ErrNotOwner).Once()
			},
			wantStatusCode: http.StatusForbidden,
			wantMessage:    "You can only upload assignments for yourself",
		},
		{
			name:        "sender not found",
			requestBody: validBody,
			ctxUsername: "alice",
			setupMock: func(s *ServiceMock) {
				s.On("Upload", mock.Anything, "alice", validBody).
					Return(nil, assignment.ErrUserNotFound).Once()
			},
			wantStatusCode: http.StatusNotFound,
			wantMessage:    "User not found",
		},
		{
			name:        "storage failure leaks details",
			requestBody: validBody,
			ctxUsername: "alice",
			setupMock: func(s *ServiceMock) {
				s.On("Upload", mock.Anything, "alice", validBody).
					Return(nil, errors.New("db down")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantMessage:    "Error uploading assignment",
			checkBody: func(t *testing.T, got map[string]any) {
				assert.Equal(t, "db down", got["errorDetails"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}
			handler := New(newNoopLogger(), svc)

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/api/user/upload", bytes.NewReader(bodyBytes))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.ctxUsername != "" {
				ctx = context.WithValue(ctx, middlewarectx.User, tt.ctxUsername)
			}
			req = req.WithContext(ctx)
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
