// Package review реализует HTTP-обработчик решения администратора по заданию.
//
// Один и тот же обработчик обслуживает accept и reject: целевой статус
// фиксируется при создании. Повторное решение по уже проверенному заданию
// разрешено и перезаписывает прежний статус и терминальные даты.
package review

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/growthx/assignment-portal/internal/http/response"
	"github.com/growthx/assignment-portal/internal/lib/datefmt"
	"github.com/growthx/assignment-portal/internal/lib/sl"
	"github.com/growthx/assignment-portal/internal/models"
	"github.com/growthx/assignment-portal/internal/services/assignment"
)

// Request — входные данные решения. Remark опционален: nil означает,
// что поле отсутствовало и прежний комментарий остаётся без изменений.
type Request struct {
	Remark *string `json:"remark" validate:"omitempty,max=100"`
}

// Service описывает интерфейс бизнес-логики переходов статуса.
type Service interface {
	Review(ctx context.Context, id, status string, remark *string) (*models.AssignmentView, error)
}

// Handler обрабатывает запросы accept/reject по заданию.
type Handler struct {
	log      *slog.Logger
	service  Service
	status   string
	validate *validator.Validate
}

// New создает Handler, применяющий переход в указанный статус
// (models.StatusAccepted или models.StatusRejected).
func New(log *slog.Logger, service Service, status string) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		status:   status,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Решение по заданию
// @Description Переводит задание в accepted или rejected и выставляет парную дату.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param id path string true "ID задания"
// @Param request body Request false "Комментарий проверяющего"
// @Success 200 {object} map[string]any "Решение применено"
// @Failure 400 {object} response.Response "Некорректный JSON или ошибка валидации"
// @Failure 404 {object} response.Response "Задание не найдено"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /api/admin/assignments/{id}/accept [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.review"
	log := h.log.With(
		slog.String("op", op),
		slog.String("status", h.status),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	// Тело может отсутствовать целиком: решение без комментария.
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	id := chi.URLParam(r, "id")

	view, err := h.service.Review(r.Context(), id, h.status, req.Remark)
	if err != nil {
		if errors.Is(err, assignment.ErrAssignmentNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("Assignment not found"))
			return
		}
		log.Error("failed to review assignment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Error reviewing assignment"))
		return
	}

	payload := map[string]any{
		"id":          view.ID,
		"user":        view.User,
		"admin":       view.Admin,
		"task":        view.Task,
		"status":      view.Status,
		"remark":      view.Remark,
		"submittedAt": datefmt.Format(view.SubmittedAt),
	}

	var message string
	if h.status == models.StatusAccepted {
		message = "Assignment accepted"
		payload["acceptedAt"] = datefmt.FormatPtr(view.AcceptedAt)
	} else {
		message = "Assignment rejected"
		payload["rejectedAt"] = datefmt.FormatPtr(view.RejectedAt)
	}

	log.Info("assignment reviewed", slog.String("id", view.ID))
	render.JSON(w, r, map[string]any{
		"success":    true,
		"message":    message,
		"assignment": payload,
	})
}
