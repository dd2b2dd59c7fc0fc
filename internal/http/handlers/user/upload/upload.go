// Package upload реализует HTTP-обработчик загрузки задания пользователем.
//
// Пользователь может загрузить задание только от своего имени и только
// существующему администратору; порядок проверок фиксирован:
// админ, затем владение, затем отправитель.
package upload

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/growthx/assignment-portal/internal/http/middlewarectx"
	"github.com/growthx/assignment-portal/internal/http/response"
	"github.com/growthx/assignment-portal/internal/lib/datefmt"
	"github.com/growthx/assignment-portal/internal/lib/sl"
	"github.com/growthx/assignment-portal/internal/models"
	"github.com/growthx/assignment-portal/internal/services/assignment"
)

// Service описывает интерфейс бизнес-логики загрузки задания.
type Service interface {
	Upload(ctx context.Context, callerUsername string, req models.DummyAssignment) (*models.AssignmentView, error)
}

// Handler управляет HTTP-запросами на загрузку заданий.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Загрузить задание
// @Description Создаёт задание со статусом pending, адресованное администратору.
// @Tags User
// @Accept  json
// @Produce  json
// @Param request body models.DummyAssignment true "Данные задания"
// @Success 201 {object} map[string]any "Задание загружено"
// @Failure 400 {object} response.Response "Некорректный JSON или ошибка валидации"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 403 {object} response.Response "Загрузка от чужого имени"
// @Failure 404 {object} response.Response "Администратор или пользователь не найден"
// @Failure 500 {object} map[string]any "Ошибка сервера при загрузке"
// @Router /api/user/upload [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.upload"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyAssignment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
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

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("Unauthorized"))
		return
	}

	view, err := h.service.Upload(r.Context(), username, req)
	if err != nil {
		switch {
		case errors.Is(err, assignment.ErrAdminNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("Admin not found"))
		case errors.Is(err, assignment.ErrNotOwner):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("You can only upload assignments for yourself"))
		case errors.Is(err, assignment.ErrUserNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("User not found"))
		default:
			log.Error("failed to upload assignment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			// Единственный эндпоинт, отдающий наружу сырой текст ошибки
			// в поле errorDetails.
			render.JSON(w, r, map[string]any{
				"success":      false,
				"message":      "Error uploading assignment",
				"errorDetails": err.Error(),
			})
		}
		return
	}

	log.Info("assignment uploaded", slog.String("id", view.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, map[string]any{
		"success": true,
		"message": "Assignment uploaded successfully",
		"assignment": map[string]any{
			"id":          view.ID,
			"user":        view.User,
			"admin":       view.Admin,
			"task":        view.Task,
			"remark":      view.Remark,
			"status":      view.Status,
			"submittedAt": datefmt.Format(view.SubmittedAt),
		},
	})
}
