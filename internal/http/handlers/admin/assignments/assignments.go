// Package assignments реализует HTTP-обработчик списка заданий администратора.
package assignments

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/growthx/assignment-portal/internal/http/middlewarectx"
	"github.com/growthx/assignment-portal/internal/http/response"
	"github.com/growthx/assignment-portal/internal/lib/datefmt"
	"github.com/growthx/assignment-portal/internal/lib/sl"
	"github.com/growthx/assignment-portal/internal/models"
)

// Service описывает интерфейс бизнес-логики листинга заданий.
type Service interface {
	ListForAdmin(ctx context.Context, adminUID string) ([]*models.AssignmentView, error)
}

// Handler обрабатывает запросы списка заданий администратора.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список заданий администратора
// @Description Возвращает все задания, адресованные текущему администратору.
// @Tags Admin
// @Produce  json
// @Success 200 {object} map[string]any "Список заданий"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /api/admin/assignments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.assignments"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	adminUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || adminUID == "" {
		log.Error("admin uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("Unauthorized"))
		return
	}

	views, err := h.service.ListForAdmin(r.Context(), adminUID)
	if err != nil {
		log.Error("failed to fetch assignments", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Error fetching assignments"))
		return
	}

	// Пустой список — валидный ответ, а не ошибка.
	items := make([]map[string]any, 0, len(views))
	for _, v := range views {
		items = append(items, map[string]any{
			"id":          v.ID,
			"user":        v.User,
			"admin":       v.Admin,
			"task":        v.Task,
			"status":      v.Status,
			"submittedAt": datefmt.Format(v.SubmittedAt),
			"acceptedAt":  datefmt.FormatPtr(v.AcceptedAt),
			"rejectedAt":  datefmt.FormatPtr(v.RejectedAt),
		})
	}

	render.JSON(w, r, map[string]any{
		"success":     true,
		"message":     "Assignments fetched successfully",
		"assignments": items,
	})
}
