// Package login реализует HTTP-обработчик входа администратора.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/growthx/assignment-portal/internal/http/response"
	"github.com/growthx/assignment-portal/internal/lib/datefmt"
	"github.com/growthx/assignment-portal/internal/lib/sl"
	"github.com/growthx/assignment-portal/internal/models"
	"github.com/growthx/assignment-portal/internal/services/auth"
)

// Request — структура входных данных для авторизации администратора.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Service описывает интерфейс бизнес-логики аутентификации администратора.
type Service interface {
	LoginAdmin(ctx context.Context, email, password string) (*models.User, string, error)
}

// Handler обрабатывает HTTP-запросы для авторизации администратора.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход администратора
// @Description Аутентифицирует администратора по email и паролю, возвращает JWT.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные"
// @Success 200 {object} map[string]any "Успешная авторизация"
// @Failure 400 {object} response.Response "Некорректный JSON, валидация или неверные данные"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /api/admin/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.login"
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

	admin, token, err := h.service.LoginAdmin(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			log.Error("invalid admin credentials", slog.String("email", req.Email))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid credentials"))
			return
		}
		log.Error("admin login failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error during login"))
		return
	}

	log.Info("admin login success", slog.String("username", admin.Username))
	render.JSON(w, r, map[string]any{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"admin": map[string]any{
			"id":       admin.UID,
			"username": admin.Username,
			"email":    admin.Email,
			"role":     admin.Role,
			"loginAt":  datefmt.Format(time.Now()),
		},
	})
}
