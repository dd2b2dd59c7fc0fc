// Package health реализует служебные эндпоинты /health и /welcome.
package health

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/growthx/assignment-portal/internal/lib/datefmt"
)

// Handler обрабатывает служебные запросы.
type Handler struct {
	log       *slog.Logger
	startedAt time.Time
}

// New создает новый Handler. startedAt — момент старта процесса.
func New(log *slog.Logger, startedAt time.Time) *Handler {
	return &Handler{
		log:       log,
		startedAt: startedAt,
	}
}

// Status отвечает состоянием сервиса и аптаймом процесса.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"success":   true,
		"message":   "Server is healthy and running!",
		"uptime":    time.Since(h.startedAt).Seconds(),
		"timestamp": datefmt.Format(time.Now()),
	})
}

// Welcome отвечает приветственным сообщением портала.
func (h *Handler) Welcome(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"success": true,
		"message": "Welcome to the GrowthX Assignment Submission Portal API!",
	})
}
