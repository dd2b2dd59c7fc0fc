// Package admins реализует HTTP-обработчик каталога администраторов.
package admins

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/growthx/assignment-portal/internal/http/response"
	"github.com/growthx/assignment-portal/internal/lib/datefmt"
	"github.com/growthx/assignment-portal/internal/lib/sl"
	"github.com/growthx/assignment-portal/internal/models"
)

// Service описывает интерфейс бизнес-логики каталога администраторов.
type Service interface {
	ListAdmins(ctx context.Context) ([]*models.AdminInfo, error)
}

// Handler обрабатывает запросы списка администраторов.
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
// @Summary Список администраторов
// @Description Возвращает всех администраторов: только username и email.
// @Tags User
// @Produce  json
// @Success 200 {object} map[string]any "Список администраторов"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /api/user/admins [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.admins"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	admins, err := h.service.ListAdmins(r.Context())
	if err != nil {
		log.Error("failed to fetch admins", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Error fetching admins"))
		return
	}
	if admins == nil {
		admins = []*models.AdminInfo{}
	}

	render.JSON(w, r, map[string]any{
		"fetchedAt": datefmt.Format(time.Now()),
		"success":   true,
		"message":   "Admins fetched successfully",
		"admins":    admins,
	})
}
