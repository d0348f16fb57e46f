// Package api provides the HTTP API server and handlers for the Cerebero application.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cerebero/cerebero-server/internal/config"
	"github.com/cerebero/cerebero-server/internal/ratelimit"
	"github.com/cerebero/cerebero-server/internal/store"
)

// Auth endpoints get a tighter budget than the rest of the API.
const (
	authRequestsPerMinute = 20
	authBurst             = 10
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store       store.Store
	services    *Services
	router      *chi.Mux
	api         huma.API
	logger      *slog.Logger
	authLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates an HTTP server with all routes configured.
func NewServer(cfg *config.Config, st store.Store, services *Services, logger *slog.Logger) *Server {
	s := &Server{
		store:       st,
		services:    services,
		router:      chi.NewRouter(),
		logger:      logger,
		authLimiter: ratelimit.New(authRequestsPerMinute/60.0, authBurst),
	}

	s.setupMiddleware(cfg)
	s.setupAPI()
	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops background goroutines owned by the server.
func (s *Server) Close() {
	s.authLimiter.Stop()
}

func (s *Server) setupMiddleware(cfg *config.Config) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	origins := []string{"*"}
	if cfg != nil && len(cfg.Server.CORSOrigins) > 0 {
		origins = cfg.Server.CORSOrigins
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           int((10 * time.Minute).Seconds()),
	}))

	s.router.Use(authMiddleware(s.services.Auth))
	s.router.Use(rateLimitMiddleware(s.authLimiter, "/api/v1/auth", s.logger))
}

func (s *Server) setupAPI() {
	humaConfig := huma.DefaultConfig("Cerebero API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()
}

func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerContentRoutes()
	s.registerSearchRoutes()
	s.registerTagRoutes()
	s.registerTodoRoutes()
	s.registerShareRoutes()
}
