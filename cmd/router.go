package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	_ "github.com/usermatrix/backend/docs"
	"github.com/usermatrix/backend/internal/config"
	"github.com/usermatrix/backend/internal/database"
	"github.com/usermatrix/backend/internal/handlers"
	"github.com/usermatrix/backend/internal/middleware"
	"github.com/usermatrix/backend/internal/repositories"
	"github.com/usermatrix/backend/internal/services"
	"go.uber.org/zap"
)

// newRouter wires repositories, services and handlers over db
func newRouter(cfg *config.Config, db *sql.DB, log *zap.Logger) http.Handler {
	sessions := database.NewProvider(db, log)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(log)
	siteRoleRepo := repositories.NewSiteRoleRepository(log)
	orgRepo := repositories.NewOrgMembershipRepository(log)
	reportRepo := repositories.NewReportRepository(log)

	// Initialize services
	userService := services.NewUserService(userRepo, log)
	siteRoleService := services.NewSiteRoleService(siteRoleRepo, userRepo, log)
	orgService := services.NewOrgMembershipService(orgRepo, userRepo, log)
	reportService := services.NewReportService(reportRepo, log)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, reportService, sessions, log)
	siteRoleHandler := handlers.NewSiteRoleHandler(siteRoleService, sessions, log)
	orgHandler := handlers.NewOrgMembershipHandler(orgService, sessions, log)
	healthHandler := handlers.NewHealthHandler(sessions, log)

	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.MetricsMiddleware)
	r.Use(middleware.RecoveryMiddleware(log))
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(cfg.RateLimit.RequestsPerMinute, time.Minute))
	r.Use(middleware.RequestSizeLimitMiddleware(cfg.Server.MaxRequestSize))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))
	r.Handle("/metrics", promhttp.Handler())

	healthHandler.RegisterRoutes(r)
	userHandler.RegisterRoutes(r)
	siteRoleHandler.RegisterRoutes(r)
	orgHandler.RegisterRoutes(r)

	return r
}
