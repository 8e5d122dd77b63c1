package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/medibook/booking-api/internal/config"
	"github.com/medibook/booking-api/internal/handler"
	appointmentHandler "github.com/medibook/booking-api/internal/handler/appointment"
	authHandler "github.com/medibook/booking-api/internal/handler/auth"
	availabilityHandler "github.com/medibook/booking-api/internal/handler/availability"
	providerHandler "github.com/medibook/booking-api/internal/handler/provider"
	"github.com/medibook/booking-api/internal/middleware"
	"github.com/medibook/booking-api/internal/repository/postgres"
	"github.com/medibook/booking-api/internal/router"
	authService "github.com/medibook/booking-api/internal/service/auth"
	bookingService "github.com/medibook/booking-api/internal/service/booking"
	calendarService "github.com/medibook/booking-api/internal/service/calendar"
	directoryService "github.com/medibook/booking-api/internal/service/directory"
	ledgerService "github.com/medibook/booking-api/internal/service/ledger"
	pkgauth "github.com/medibook/booking-api/pkg/auth"
	"github.com/medibook/booking-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	providerRepo := postgres.NewProviderRepository(db)
	slotRepo := postgres.NewSlotRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	consumerRepo := postgres.NewConsumerRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	m := metrics.NewMetrics("medibook", "api")
	directorySvc := directoryService.NewService(providerRepo)
	calendarSvc := calendarService.NewService(slotRepo)
	ledgerSvc := ledgerService.NewService(appointmentRepo, calendarSvc, outboxRepo)
	bookingSvc := bookingService.NewService(directorySvc, calendarSvc, ledgerSvc, m)
	authSvc := authService.NewService(consumerRepo, pkgauth.Config{
		Secret:      cfg.JWT.Secret,
		ExpiryHours: cfg.JWT.ExpiryHours,
	})

	// Handlers
	h := handler.NewHandler()
	providerH := providerHandler.NewHandler(directorySvc)
	availabilityH := availabilityHandler.NewHandler(calendarSvc)
	appointmentH := appointmentHandler.NewHandler(bookingSvc, ledgerSvc)
	authH := authHandler.NewHandler(authSvc)

	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	r := router.NewRouter(authMiddleware, h, router.Config{
		RateLimit: rate.Limit(cfg.Server.RateLimit),
		RateBurst: cfg.Server.RateBurst,
		CORS:      middleware.DefaultCORSConfig(),
	})
	r.Public(authH, providerH, availabilityH)
	r.Protected(appointmentH)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
