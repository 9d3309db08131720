package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/minhnd/parklot/internal/delivery/http/middleware"
	"github.com/minhnd/parklot/internal/domain"
	"github.com/minhnd/parklot/internal/pkg/config"
	"github.com/minhnd/parklot/internal/pkg/jwt"
	"github.com/minhnd/parklot/internal/pkg/logger"
)

// Router holds every dependency of the HTTP router.
type Router struct {
	gateHandler      *GateHandler
	authHandler      *AuthHandler
	adminHandler     *AdminHandler
	inventoryHandler *InventoryHandler
	tokenService     *jwt.TokenService
	config           *config.Config
	logger           logger.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(
	gateHandler *GateHandler,
	authHandler *AuthHandler,
	adminHandler *AdminHandler,
	inventoryHandler *InventoryHandler,
	tokenService *jwt.TokenService,
	config *config.Config,
	logger logger.Logger,
) *Router {
	return &Router{
		gateHandler:      gateHandler,
		authHandler:      authHandler,
		adminHandler:     adminHandler,
		inventoryHandler: inventoryHandler,
		tokenService:     tokenService,
		config:           config,
		logger:           logger,
	}
}

// Setup wires all routes.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger))
	r.Use(middleware.CORSMiddleware(middleware.CORSConfig{
		AllowedOrigins: rt.config.CORS.AllowedOrigins,
		AllowedMethods: rt.config.CORS.AllowedMethods,
		AllowedHeaders: rt.config.CORS.AllowedHeaders,
	}))

	// Health check endpoint (public)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	r.Route("/api", func(r chi.Router) {
		// Booth screen routes (public: the booth terminal is trusted hardware
		// on the local network)
		r.Post("/scan", rt.gateHandler.Scan)
		r.Get("/search", rt.gateHandler.Search)
		r.Post("/action", rt.gateHandler.Action)
		r.Get("/search-by-plate-suffix", rt.gateHandler.SearchByPlateSuffix)
		r.Get("/recent-transactions", rt.gateHandler.RecentTransactions)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", rt.authHandler.Login)

			// Everything below requires an authenticated admin account;
			// operators work the booth routes and never see the console.
			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthMiddleware(rt.tokenService))
				r.Use(middleware.RequireRole(domain.RoleAdmin))

				r.Get("/users", rt.adminHandler.ListUsers)
				r.Post("/add-user", rt.adminHandler.AddUser)
				r.Put("/update-user/{cccd}", rt.adminHandler.UpdateUser)
				r.Delete("/delete-user/{cccd}", rt.adminHandler.DeleteUser)
				r.Get("/search-by-cccd", rt.adminHandler.SearchByCCCD)
				r.Get("/vehicles", rt.adminHandler.ListVehicles)
				r.Get("/dashboard-stats", rt.adminHandler.DashboardStats)
				r.Get("/statistics", rt.adminHandler.Statistics)

				r.Route("/inventory", func(r chi.Router) {
					r.Post("/start", rt.inventoryHandler.StartSession)
					r.Post("/check", rt.inventoryHandler.Check)
					r.Post("/end/{id}", rt.inventoryHandler.EndSession)
					r.Get("/sessions", rt.inventoryHandler.ListSessions)
					r.Get("/session/{id}", rt.inventoryHandler.SessionRecords)
					r.Get("/search-license-plate/{suffix}", rt.inventoryHandler.SearchLicensePlate)
				})
			})
		})
	})

	return r
}
