package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"airspring/internal/catalog"
	"airspring/internal/clock"
	"airspring/internal/config"
	"airspring/internal/database"
	"airspring/internal/emailjs"
	"airspring/internal/logger"
	"airspring/internal/page"
	"airspring/internal/repository"
	"airspring/internal/server"
	"airspring/internal/service"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, stopSessions context.CancelFunc, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The context is used to inform the server it has 30 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Cancel every page timer before the connections go away
	stopSessions()

	// Close server resources
	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

// openArchive connects the inquiry archive when a database is configured
func openArchive(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (database.Service, repository.InquiryRepository) {
	if !cfg.Enabled() {
		log.Info("Inquiry archive disabled, DB_DATABASE not set")
		return nil, nil
	}

	dbService, err := database.New(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database health check", zap.Any("health", dbService.Health(ctx)))

	// Run migrations
	if err := database.RunMigrations(dbService.DB(), log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	version, err := database.SchemaVersion(dbService.DB())
	if err != nil {
		log.Fatal("Failed to read schema version", zap.Error(err))
	}
	log.Info("Database migrations completed successfully", zap.Int64("schema_version", version))

	return dbService, repository.NewInquiryRepository(dbService.DB())
}

// openRedis connects the rate limiter backend when one is configured
func openRedis(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) *redis.Client {
	if !cfg.Enabled() {
		log.Info("Rate limiting disabled, REDIS_HOST not set")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		// The limiter fails open, so an unreachable Redis is not fatal
		log.Warn("Redis not reachable", zap.Error(err))
	}
	return client
}

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting air suspension site API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	ctx := context.Background()

	products, err := catalog.Load()
	if err != nil {
		log.Fatal("Failed to load catalog", zap.Error(err))
	}

	dbService, archive := openArchive(ctx, cfg.Database, log)
	redisClient := openRedis(ctx, cfg.Redis, log)

	mailer := emailjs.NewClient(emailjs.Config{
		ServiceID:  cfg.EmailJS.ServiceID,
		TemplateID: cfg.EmailJS.TemplateID,
		PublicKey:  cfg.EmailJS.PublicKey,
		PrivateKey: cfg.EmailJS.PrivateKey,
		BaseURL:    cfg.EmailJS.BaseURL,
		Timeout:    cfg.EmailJS.Timeout,
	}, log)
	inquiries := service.NewInquiryService(mailer, archive, log)

	registry := page.NewRegistry(page.Deps{
		Catalog:   products,
		Sender:    inquiries,
		Scheduler: clock.Real(),
		Logger:    log,
		Options: page.Options{
			LoadingDuration:  cfg.Page.LoadingDuration,
			TransitionLead:   cfg.Page.TransitionLead,
			TransitionTail:   cfg.Page.TransitionTail,
			FormResetDelay:   cfg.Page.FormSuccessReset,
			RevealAllOnMount: cfg.Page.RevealAllOnMount,
		},
	}, cfg.Page.SessionIdleTTL)

	sessionCtx, stopSessions := context.WithCancel(ctx)
	sessionsDone := make(chan struct{})
	go func() {
		registry.Run(sessionCtx)
		close(sessionsDone)
	}()

	// Create server
	srv := server.NewServer(cfg, log, server.Dependencies{
		DB:        dbService,
		Redis:     redisClient,
		Catalog:   products,
		Inquiries: inquiries,
		Registry:  registry,
	})

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(srv, stopSessions, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	// Wait for the graceful shutdown to complete
	<-done
	<-sessionsDone
	log.Info("Graceful shutdown complete")
}
