// Package portal предоставляет маршруты для основного приложения.
package portal

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	adminassignments "github.com/growthx/assignment-portal/internal/http/handlers/admin/assignments"
	adminlogin "github.com/growthx/assignment-portal/internal/http/handlers/admin/login"
	adminregister "github.com/growthx/assignment-portal/internal/http/handlers/admin/register"
	"github.com/growthx/assignment-portal/internal/http/handlers/admin/review"
	"github.com/growthx/assignment-portal/internal/http/handlers/health"
	"github.com/growthx/assignment-portal/internal/http/handlers/user/admins"
	userlogin "github.com/growthx/assignment-portal/internal/http/handlers/user/login"
	userregister "github.com/growthx/assignment-portal/internal/http/handlers/user/register"
	"github.com/growthx/assignment-portal/internal/http/handlers/user/upload"
	"github.com/growthx/assignment-portal/internal/http/middlewarectx"
	"github.com/growthx/assignment-portal/internal/http/response"
	"github.com/growthx/assignment-portal/internal/models"
	assignmentservice "github.com/growthx/assignment-portal/internal/services/assignment"
	authservice "github.com/growthx/assignment-portal/internal/services/auth"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, auth *authservice.AuthService, assignments *assignmentservice.Service, startedAt time.Time) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	healthHandler := health.New(logger, startedAt)
	r.Get("/health", healthHandler.Status)
	r.Get("/welcome", healthHandler.Welcome)

	r.Route("/api/user", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", userregister.New(logger, auth).ServeHTTP)
		r.Post("/login", userlogin.New(logger, auth).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/upload", upload.New(logger, assignments).ServeHTTP)
			r.Get("/admins", admins.New(logger, assignments).ServeHTTP)
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Post("/register", adminregister.New(logger, auth).ServeHTTP)
		r.Post("/login", adminlogin.New(logger, auth).ServeHTTP)

		// Группа для администраторов
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(auth, logger))
			r.Use(middlewarectx.AdminOnly(logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/assignments", adminassignments.New(logger, assignments).ServeHTTP)
			r.Post("/assignments/{id}/accept", review.New(logger, assignments, models.StatusAccepted).ServeHTTP)
			r.Post("/assignments/{id}/reject", review.New(logger, assignments, models.StatusRejected).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("API endpoint not found"))
	})
}
