package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studiojb-backend/config"
	"studiojb-backend/controllers"
	"studiojb-backend/metrics"
	"studiojb-backend/models"
	"studiojb-backend/repository"
	"studiojb-backend/routes"
	"studiojb-backend/services"
	"studiojb-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()
	logger := config.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		logger.Error("failed to migrate database", "err", err)
		os.Exit(1)
	}
	logger.Info("database ready")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := config.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error("failed to connect to redis", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	repos := repository.New(db)
	if err := seedAdmin(ctx, repos.Users, cfg); err != nil {
		logger.Error("failed to seed admin user", "err", err)
		os.Exit(1)
	}

	notifications := services.NewNotificationService(
		repos,
		services.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken),
		services.NotificationConfig{
			FromNumber:     cfg.TwilioPhoneNumber,
			WhatsAppNumber: cfg.TwilioWhatsAppNumber,
			ReminderSpec:   cfg.ReminderCron,
			Location:       cfg.Location(),
		},
		m,
		logger,
	)
	if err := notifications.StartScheduler(); err != nil {
		logger.Error("failed to start reminder scheduler", "err", err)
		os.Exit(1)
	}
	defer notifications.Stop()

	var sessions services.SessionStore
	var limiter *utils.RateLimiter
	if rdb != nil {
		sessions = services.NewRedisSessionStore(rdb, cfg.BookingSessionTTL)
		limiter = utils.NewRateLimiter(rdb, cfg.RateLimitPerMinute, time.Minute, "rl:booking")
	} else {
		logger.Warn("REDIS_URL not set, booking sessions kept in memory")
		sessions = services.NewMemorySessionStore(cfg.BookingSessionTTL)
	}

	var verifier services.PaymentVerifier = services.TrustingVerifier{}
	if cfg.PaymentVerifyMode == "check" {
		verifier = services.NewInfinitePayVerifier(cfg.InfinitePayCheckURL, cfg.InfinitePayHandle, nil)
	}

	availability := services.NewAvailabilityService(repos.Services, repos.Appointments)
	appointments := services.NewAppointmentService(repos.Appointments, repos.History, notifications, logger)
	checkout := services.NewCheckoutService(cfg.InfinitePayCheckoutURL, cfg.InfinitePayHandle, cfg.PublicOrigin, cfg.CORSOrigins...)
	booking := services.NewBookingService(repos, availability, checkout, appointments, sessions, verifier, m, logger)

	r := routes.SetupRouter(routes.Deps{
		Config:      cfg,
		Logger:      logger,
		Metrics:     m,
		Gatherer:    reg,
		RateLimiter: limiter,
		Booking: &controllers.BookingController{
			Booking:      booking,
			Availability: availability,
			Logger:       logger,
		},
		Admin: &controllers.AdminController{
			Repos:        repos,
			Appointments: appointments,
			Logger:       logger,
			Location:     cfg.Location(),
		},
		Auth: &controllers.AuthController{
			Users:        repos.Users,
			Secret:       cfg.JWTSecret,
			Expiry:       cfg.JWTExpiry(),
			SecureCookie: cfg.IsProduction(),
			Logger:       logger,
		},
	})
	if cfg.Env == "development" {
		printRoutes(logger, r)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "payment_verify_mode", cfg.PaymentVerifyMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "err", err)
	}
	closeStores(logger, db, rdb)
}

// seedAdmin creates the first back-office account when none exists yet.
func seedAdmin(ctx context.Context, users repository.UserRepository, cfg *config.Config) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}
	_, err := users.FindByUsername(ctx, cfg.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return users.Create(ctx, &models.User{
		Username:     cfg.AdminUsername,
		PasswordHash: cfg.AdminPassword,
		Name:         cfg.AdminUsername,
		Role:         "admin",
		IsActive:     true,
	})
}

func closeStores(logger *slog.Logger, db *gorm.DB, rdb *redis.Client) {
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("failed to close database", "err", err)
		}
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Warn("failed to close redis", "err", err)
		}
	}
}

func printRoutes(logger *slog.Logger, r *gin.Engine) {
	for _, route := range r.Routes() {
		logger.Debug("route", "method", route.Method, "path", route.Path)
	}
}
