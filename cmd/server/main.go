package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/otcheredev/axis-clinic-core/internal/config"
	"github.com/otcheredev/axis-clinic-core/internal/database"
	"github.com/otcheredev/axis-clinic-core/internal/fixtures"
	"github.com/otcheredev/axis-clinic-core/internal/handlers"
	"github.com/otcheredev/axis-clinic-core/internal/identity"
	"github.com/otcheredev/axis-clinic-core/internal/metrics"
	"github.com/otcheredev/axis-clinic-core/internal/middleware"
	"github.com/otcheredev/axis-clinic-core/internal/repository"
	"github.com/otcheredev/axis-clinic-core/internal/services"
	"github.com/otcheredev/axis-clinic-core/internal/storage"
	"github.com/otcheredev/axis-clinic-core/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Initialize logger
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log.Info().Msg("Starting clinic dashboard core")

	checks := map[string]handlers.Checker{}

	// Connect to database when sessions or clinic data live there
	var db *gorm.DB
	if cfg.NeedsDatabase() {
		db, err = database.Connect(database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
			LogLevel: cfg.Database.LogLevel,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer database.Close()
		checks["database"] = database.Ping

		if cfg.Data.Seed {
			if err := database.Seed(context.Background(), db, fixtures.Doctors(), fixtures.Appointments()); err != nil {
				log.Fatal().Err(err).Msg("Failed to seed clinic data")
			}
			log.Info().Msg("Clinic data seeded")
		}
	}

	// Initialize session backend
	var backend storage.Store
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		backend, err = storage.NewRedisStore(storage.RedisConfig{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Session.TTL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		log.Info().Msg("Redis session store initialized")
	case config.SessionStorePostgres:
		backend = storage.NewPostgresStore(db, cfg.Session.TTL)
		log.Info().Msg("Postgres session store initialized")
	default:
		backend = storage.NewMemoryStore(cfg.Session.TTL)
		log.Info().Msg("Memory session store initialized")
	}
	defer backend.Close()

	// Initialize data source and audit trail
	var source services.AppointmentSource = fixtures.NewSource()
	if cfg.Data.Source == config.DataSourcePostgres {
		source = repository.NewClinicRepository(db)
	}
	var audit services.AuditRecorder
	if db != nil {
		audit = repository.NewAuditRepository(db)
	}

	// Initialize services
	m := metrics.New(nil)
	identities := identity.NewManager(backend, logger.Component("identity"), m,
		identity.WithIdleTimeout(cfg.Session.IdleTimeout),
		identity.WithMaxSessions(cfg.Session.MaxActive),
	)
	defer identities.Close()
	checks["sessions"] = identities.Ping
	dashboardService := services.NewDashboardService(identities, source, audit, m)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(checks)
	identityHandler := handlers.NewIdentityHandler(dashboardService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Compress(5))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Dashboard API
	r.Route("/api/v1", func(r chi.Router) {
		handlers.RegisterAPI(r, identityHandler, dashboardHandler)
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
