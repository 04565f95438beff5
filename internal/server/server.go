package server

import (
	"fmt"
	"net/http"
	"time"

	"airspring/internal/catalog"
	"airspring/internal/config"
	"airspring/internal/database"
	custommiddleware "airspring/internal/middleware"
	"airspring/internal/page"
	"airspring/internal/repository"
	"airspring/internal/service"
	"airspring/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Dependencies are the long-lived collaborators built by main.
// DB and Redis are optional.
type Dependencies struct {
	DB        database.Service
	Redis     *redis.Client
	Catalog   *catalog.Catalog
	Inquiries service.InquiryService
	Registry  *page.Registry
}

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	deps   Dependencies
}

// HealthResponse is served on /health
type HealthResponse struct {
	Status   string            `json:"status"`
	Sessions int               `json:"sessions"`
	Database map[string]string `json:"database,omitempty"`
	Redis    string            `json:"redis,omitempty"`
}

func NewServer(cfg *config.Config, logger *zap.Logger, deps Dependencies) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.Env == "development"))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	server := &Server{
		config: cfg,
		logger: logger,
		deps:   deps,
	}

	// Health check endpoint
	router.Get("/health", server.health)

	// Inquiry submissions share one rate limit budget per client
	rateLimit := custommiddleware.RateLimitMiddleware(deps.Redis, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.Requests,
		Window:            cfg.RateLimit.Window,
		KeyPrefix:         "inquiry_rate_limit",
	}, logger)

	// Initialize repositories
	productRepo := repository.NewProductRepository(deps.Catalog)

	// Initialize handlers
	catalogHandler := transport.NewCatalogHandler(productRepo, logger)
	inquiryHandler := transport.NewInquiryHandler(deps.Inquiries, logger)
	sessionHandler := transport.NewSessionHandler(deps.Registry, logger)

	// Register routes
	catalogHandler.RegisterRoutes(router)
	inquiryHandler.RegisterRoutes(router, rateLimit)
	sessionHandler.RegisterRoutes(router, rateLimit)

	server.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:   "ok",
		Sessions: s.deps.Registry.Len(),
	}

	if s.deps.DB != nil {
		resp.Database = s.deps.DB.Health(r.Context())
		if resp.Database["status"] != "up" {
			resp.Status = "degraded"
		}
	}

	if s.deps.Redis != nil {
		resp.Redis = "up"
		if err := s.deps.Redis.Ping(r.Context()).Err(); err != nil {
			s.logger.Warn("Redis health check failed", zap.Error(err))
			resp.Redis = "down"
			resp.Status = "degraded"
		}
	}

	custommiddleware.RespondWithJSON(w, http.StatusOK, resp)
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection
	if s.deps.DB != nil {
		if err := s.deps.DB.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.deps.Redis != nil {
		if err := s.deps.Redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
