package routes

import (
	"net/http"
	"time"

	"github.com/fieldaid/backend/app"
	"github.com/fieldaid/backend/handlers"
	"github.com/fieldaid/backend/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all application routes and middleware.
//
// Every request passes actor resolution and acting-role selection before
// it reaches a handler, so the effective role is fixed once per request.
// Route-level permission gates cover checks that need no loaded resource;
// ownership-aware checks happen in the services.
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Acting-Role"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Actor resolution and acting-role selection apply to everything.
	r.Use(deps.AuthMiddleware.ResolveActor)
	r.Use(deps.ActingRoleMiddleware.SelectActingRole)

	// Health check endpoints
	healthHandler := handlers.NewHealthHandler(deps.DB.DB, deps.Logger)
	r.Get("/healthz", healthHandler.HandleHealth)
	r.Get("/readyz", healthHandler.HandleReadiness)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Get("/status", handlers.StatusHandler(deps))

		// Relief grids. Reads are open to any role the matrix grants view
		// to (including guests); mutations go through the service's
		// ownership-aware checks.
		r.Route("/grids", func(r chi.Router) {
			r.Get("/", handlers.ListGridsHandler(deps))
			r.Post("/", handlers.CreateGridHandler(deps))
			r.Get("/{id}", handlers.GetGridHandler(deps))
			r.Put("/{id}", handlers.UpdateGridHandler(deps))
			r.Delete("/{id}", handlers.DeleteGridHandler(deps))
			r.Get("/{gridID}/volunteers", handlers.ListGridVolunteersHandler(deps))
			r.Get("/{gridID}/donations", handlers.ListGridDonationsHandler(deps))
		})

		// Volunteer registrations
		r.Route("/volunteers", func(r chi.Router) {
			r.Post("/", handlers.CreateVolunteerHandler(deps))
			r.Get("/mine", handlers.ListMyVolunteersHandler(deps))
			r.Put("/{id}", handlers.UpdateVolunteerHandler(deps))
			r.Delete("/{id}", handlers.DeleteVolunteerHandler(deps))
		})

		// Supply donations
		r.Route("/donations", func(r chi.Router) {
			r.Post("/", handlers.CreateDonationHandler(deps))
			r.Get("/mine", handlers.ListMyDonationsHandler(deps))
			r.Put("/{id}", handlers.UpdateDonationHandler(deps))
			r.Delete("/{id}", handlers.DeleteDonationHandler(deps))
		})

		// Announcements
		r.Route("/announcements", func(r chi.Router) {
			r.Get("/", handlers.ListAnnouncementsHandler(deps))
			r.Post("/", handlers.CreateAnnouncementHandler(deps))
			r.Put("/{id}", handlers.UpdateAnnouncementHandler(deps))
			r.Delete("/{id}", handlers.DeleteAnnouncementHandler(deps))
		})

		// Permission matrix management
		r.Route("/permissions", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuthenticated)
			r.Get("/", handlers.ListPermissionRulesHandler(deps))
			r.Post("/", handlers.UpsertPermissionRuleHandler(deps))
			r.Delete("/{id}", handlers.DeletePermissionRuleHandler(deps))
		})

		// Audit logs, gated on the permission-view grant
		r.Route("/audit", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuthenticated)
			r.Use(deps.PermissionMiddleware.Require(models.KindPermissions, models.ActionView))
			r.Get("/logs", handlers.ListAuditLogsHandler(deps))
		})

		// User management
		r.Route("/users", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuthenticated)
			r.Get("/", handlers.ListUsersHandler(deps))
			r.Get("/me", handlers.GetCurrentUserHandler(deps))
			r.Get("/{id}", handlers.GetUserHandler(deps))
			r.Put("/{id}", handlers.UpdateUserHandler(deps))
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
