package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/growthx/assignment-portal/internal/http/response"
	"github.com/growthx/assignment-portal/internal/models"
)

// AdminOnly пропускает дальше только запросы с ролью admin в контексте.
//
// Middleware проверяет роль, но не владение конкретным заданием:
// привязка проверяющего к admin_uid задания не проверяется.
func AdminOnly(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value(Role).(string)
			if !ok || role != models.RoleAdmin {
				log.Error("admin access required", slog.String("role", role))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("Admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
