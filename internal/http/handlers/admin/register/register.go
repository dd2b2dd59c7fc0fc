// Package register реализует HTTP-обработчик регистрации администратора.
//
// Дубликаты email/username проверяются только среди администраторов:
// администратор может переиспользовать данные обычного пользователя.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/growthx/assignment-portal/internal/http/response"
	"github.com/growthx/assignment-portal/internal/lib/datefmt"
	"github.com/growthx/assignment-portal/internal/lib/sl"
	"github.com/growthx/assignment-portal/internal/models"
	"github.com/growthx/assignment-portal/internal/services/auth"
)

// Request — входные данные для регистрации администратора.
type Request struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user"`
}

// Service описывает интерфейс бизнес-логики регистрации администратора.
type Service interface {
	RegisterAdmin(ctx context.Context, email, username, password string) (*models.User, string, error)
}

// Handler обрабатывает запросы регистрации администраторов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация администратора
// @Description Создаёт учётную запись с ролью admin и возвращает bearer-токен.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные регистрации"
// @Success 201 {object} map[string]any "Администратор создан"
// @Failure 400 {object} response.Response "Некорректный JSON, ошибка валидации или дубликат"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /api/admin/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.register"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
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

	admin, token, err := h.service.RegisterAdmin(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrAdminExists) {
			log.Error("duplicate admin registration", slog.String("username", req.Username))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("Admin already exists"))
			return
		}
		log.Error("admin registration failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error during admin registration"))
		return
	}

	log.Info("admin registered", slog.String("uid", admin.UID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, map[string]any{
		"success": true,
		"message": "Admin registered successfully",
		"token":   token,
		"admin": map[string]any{
			"id":        admin.UID,
			"username":  admin.Username,
			"email":     admin.Email,
			"role":      admin.Role,
			"createdAt": datefmt.Format(admin.CreatedAt),
			"updatedAt": datefmt.Format(admin.UpdatedAt),
		},
	})
}
