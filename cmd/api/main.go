package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/intake-api/internal/config"
	"github.com/jwalitptl/intake-api/internal/document"
	"github.com/jwalitptl/intake-api/internal/email"
	formHandler "github.com/jwalitptl/intake-api/internal/handler/form"
	"github.com/jwalitptl/intake-api/internal/handler/health"
	patientHandler "github.com/jwalitptl/intake-api/internal/handler/patient"
	promHandler "github.com/jwalitptl/intake-api/internal/handler/prometheus"
	statusHandler "github.com/jwalitptl/intake-api/internal/handler/status"
	userHandler "github.com/jwalitptl/intake-api/internal/handler/user"
	"github.com/jwalitptl/intake-api/internal/repository/postgres"
	"github.com/jwalitptl/intake-api/internal/router"
	patientService "github.com/jwalitptl/intake-api/internal/service/patient"
	statusService "github.com/jwalitptl/intake-api/internal/service/status"
	userService "github.com/jwalitptl/intake-api/internal/service/user"
	"github.com/jwalitptl/intake-api/pkg/logger"
	"github.com/jwalitptl/intake-api/pkg/metrics"
	"github.com/jwalitptl/intake-api/pkg/security"
	"github.com/jwalitptl/intake-api/pkg/validator"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := cfg.ValidateAPI(); err != nil {
		log.Fatal().Err(err).Msg("invalid api configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Pretty:     cfg.Log.Pretty,
	})
	appLogger.SetGlobal()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	baseRepo := postgres.NewBaseRepository(db)
	userRepo := postgres.NewUserRepository(baseRepo)
	patientRepo := postgres.NewPatientRepository(baseRepo)
	documentRepo := postgres.NewDocumentRepository(baseRepo)

	sealer, err := security.NewAESEncryptorFromHex(cfg.Security.EncryptionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid document encryption key")
	}

	v := validator.New()
	sender := email.NewSender(cfg.SMTP, log.Logger)

	// Initialize services
	userSvc := userService.NewService(
		userRepo,
		security.NewBcryptHasher(cfg.Security.BcryptCost),
		security.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Issuer),
		sender,
		v,
		userService.Config{
			VerifyURL:    strings.TrimRight(cfg.Server.PublicURL, "/") + "/api/v1/users/verify",
			VerifyExpiry: cfg.JWT.VerifyExpiry,
		},
		log.Logger.With().Str("service", "user").Logger(),
	)
	patientSvc := patientService.NewService(
		patientRepo,
		documentRepo,
		userRepo,
		document.NewInspector(cfg.Security.MaxUploadBytes),
		sealer,
		v,
		log.Logger.With().Str("service", "patient").Logger(),
	)
	statusSvc := statusService.NewService()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics("intake_api", registry)

	// Setup router
	r := router.NewRouter(
		router.Handlers{
			Health:  health.NewHandler(db),
			Form:    formHandler.NewHandler(v, m),
			Status:  statusHandler.NewHandler(statusSvc),
			User:    userHandler.NewHandler(userSvc, m),
			Patient: patientHandler.NewHandler(patientSvc, m, cfg.Security.MaxUploadBytes),
		},
		promHandler.New(registry, m),
		router.RouterConfig{
			Mode:           cfg.Server.Mode,
			RateLimit:      rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:      cfg.RateLimit.Burst,
			RateLimitTTL:   cfg.RateLimit.TTL,
			RateLimitOff:   !cfg.RateLimit.Enabled,
			AllowedOrigins: cfg.Security.AllowedOrigins,
			MaxUploadSize:  cfg.Security.MaxUploadBytes,
			RequestTimeout: cfg.Server.WriteTimeout,
		},
	)
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r.Engine(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
