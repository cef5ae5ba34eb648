package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/gitforge/backend/app"
	"github.com/gitforge/backend/handlers"
)

// SetupRoutes configures all application routes and middleware
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
		AllowedOrigins:   deps.Config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Client-Name"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoints
	health := handlers.NewHealthHandler(deps.DB.DB, deps.Logger)
	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)

	// Session endpoints
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", handlers.LoginHandler(deps))
		r.Post("/logout", handlers.LogoutHandler(deps))
		r.Get("/token", handlers.RefreshTokenHandler(deps))
	})

	// User management
	r.Route("/users", func(r chi.Router) {
		r.Use(deps.AuthMiddleware.RequireUser)
		r.Post("/", handlers.CreateUserHandler(deps))
		r.Get("/", handlers.ListUsersHandler(deps))
		r.Get("/me", handlers.GetCurrentUserHandler(deps))
		r.Delete("/{id}", handlers.DeleteUserHandler(deps))
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
