package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"horizonhomes/internal/account"
	"horizonhomes/internal/agent"
	"horizonhomes/internal/config"
	"horizonhomes/internal/database"
	"horizonhomes/internal/favorite"
	"horizonhomes/internal/logger"
	"horizonhomes/internal/mail"
	"horizonhomes/internal/middleware"
	"horizonhomes/internal/monitoring"
	"horizonhomes/internal/property"
	"horizonhomes/internal/ratelimit"
	"horizonhomes/internal/registration"
	"horizonhomes/internal/servicerequest"
	"horizonhomes/internal/storage"
	"horizonhomes/internal/validator"
	"horizonhomes/internal/web"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/postgres/v3"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment")
	}

	cfg := config.NewConfig()

	telemetry, err := monitoring.NewOpenTelemetry(cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shut down telemetry", "error", err)
		}
	}()

	log := logger.New(*cfg)

	db := database.NewDatabase()
	if err := db.Connect(ctx, cfg.Database.DSN()); err != nil {
		return err
	}
	defer db.Close()

	if err := database.MigrateUp(cfg.Database.URL("pgx5")); err != nil {
		return err
	}
	log.Info("Database migrated")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	mailer, err := mail.NewMailer(cfg.Email)
	if err != nil {
		return err
	}
	notifier, err := mail.NewNotifier(mailer, cfg.Email.AdminTo, cfg.Server.BaseURL)
	if err != nil {
		return err
	}

	storageBackend, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	submissionLimiter := ratelimit.New(redisClient, "registration", 3, time.Hour)

	valid := validator.New()

	registrationManager := registration.NewManager(log.Logger, &db, valid, notifier, submissionLimiter, telemetry.Metrics())
	authenticator := account.NewAuthenticator(log.Logger, &db)
	propertyManager := property.NewManager(log.Logger, &db)
	agentManager := agent.NewManager(log.Logger, &db, valid, notifier)
	favoriteManager := favorite.NewManager(log.Logger, &db)
	serviceRequestManager := servicerequest.NewManager(log.Logger, &db, notifier, telemetry.Metrics())

	sessionStorage := postgres.New(postgres.Config{
		ConnectionURI: cfg.Database.URL("postgresql"),
		Table:         "tbl_session",
		GCInterval:    10 * time.Minute,
	})
	sessionStore := session.New(session.Config{
		Storage:        sessionStorage,
		Expiration:     30 * 24 * time.Hour,
		KeyLookup:      "cookie:SID",
		CookieHTTPOnly: true,
		CookieSecure:   cfg.Server.Environment == "production",
		CookieSameSite: "Lax",
	})

	handler := web.NewHandler(
		log.Logger,
		sessionStore,
		&db,
		&registrationManager,
		&authenticator,
		&propertyManager,
		&agentManager,
		&favoriteManager,
		&serviceRequestManager,
		storageBackend,
	)

	app := fiber.New(fiber.Config{
		AppName:      "Horizon Homes",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})
	app.Use(middleware.Logger())

	web.RegisterRoutes(app, &handler)

	errChan := make(chan error, 1)
	go func() {
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		log.Info("Server listening", "addr", addr)
		errChan <- app.Listen(addr)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		log.Info("Received signal, shutting down", "signal", sig.String())
	}

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("Failed to shut down server cleanly", "error", err)
		return err
	}
	return nil
}
