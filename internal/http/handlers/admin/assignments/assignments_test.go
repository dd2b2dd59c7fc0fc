package assignments

import (
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
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) ListForAdmin(ctx context.Context, adminUID string) ([]*models.AssignmentView, error) {
	args := m.Called(ctx, adminUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AssignmentView), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestAssignmentsHandler_ServeHTTP(t *testing.T) {
	submitted := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	accepted := time.Date(2025, 6, 16, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		adminUID       string
		setupMock      func(s *ServiceMock)
		wantStatusCode int
		wantSuccess    bool
		wantMessage    string
		checkBody      func(t *testing.T, got map[string]any)
	}{
		{
			name:     "mixed statuses",
			adminUID: "uid-9",
			setupMock: func(s *ServiceMock) {
				s.On("ListForAdmin", mock.Anything, "uid-9").Return([]*models.AssignmentView{
					{
						ID:          "a1",
						User:        "alice",
						Admin:       "boss",
						Task:        "build the thing",
						Status:      models.StatusPending,
						SubmittedAt: submitted,
					},
					{
						ID:          "a2",
						User:        "bob",
						Admin:       "boss",
						Task:        "write the doc",
						Status:      models.StatusAccepted,
						SubmittedAt: submitted,
						AcceptedAt:  &accepted,
					},
				}, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantSuccess:    true,
			wantMessage:    "Assignments fetched successfully",
			checkBody: func(t *testing.T, got map[string]any) {
				items := got["assignments"].([]any)
				assert.Len(t, items, 2)

				first := items[0].(map[string]any)
				assert.Equal(t, "a1", first["id"])
				assert.Equal(t, "pending", first["status"])
				assert.Equal(t, "15/06/2025, 10:30 AM", first["submittedAt"])
				assert.Nil(t, first["acceptedAt"])
				assert.Nil(t, first["rejectedAt"])
				// remark в листинге не отдаётся
				_, hasRemark := first["remark"]
				assert.False(t, hasRemark)

				second := items[1].(map[string]any)
				assert.Equal(t, "accepted", second["status"])
				assert.Equal(t, "16/06/2025, 02:00 PM", second["acceptedAt"])
			},
		},
		{
			name:     "empty list",
			adminUID: "uid-9",
			setupMock: func(s *ServiceMock) {
				s.On("ListForAdmin", mock.Anything, "uid-9").
					Return([]*models.AssignmentView{}, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantSuccess:    true,
			wantMessage:    "Assignments fetched successfully",
			checkBody: func(t *testing.T, got map[string]any) {
				items, ok := got["assignments"].([]any)
				assert.True(t, ok)
				assert.Empty(t, items)
			},
		},
		{
			name:           "no identity in context",
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    "Unauthorized",
		},
		{
			name:     "storage failure",
			adminUID: "uid-9",
			setupMock: func(s *ServiceMock) {
				s.On("ListForAdmin", mock.Anything, "uid-9").
					Return(nil, errors.New("db down")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantMessage:    "Error fetching assignments",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}
			handler := New(newNoopLogger(), svc)

			req := httptest.NewRequest(http.MethodGet, "/api/admin/assignments", nil)
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.adminUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.adminUID)
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
