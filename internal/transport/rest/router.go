package rest

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/brainq-backend/internal/config"
	"github.com/heartmarshall/brainq-backend/internal/transport/middleware"
)

// RouterConfig collects what NewRouter needs.
type RouterConfig struct {
	Logger      *slog.Logger
	Quiz        *QuizHandler
	Health      *HealthHandler
	Tokens      middleware.TokenValidator
	CORS        config.CORSConfig
	TrustProxy  bool
	RateLimiter *middleware.RateLimiter // nil disables rate limiting
}

// NewRouter builds the HTTP handler. Health probes bypass authentication
// and rate limiting; everything under /api/ goes through the full chain.
func NewRouter(cfg RouterConfig) http.Handler {
	api := http.NewServeMux()
	cfg.Quiz.Register(api, middleware.RequireAuth)

	var limit middleware.Middleware
	if cfg.RateLimiter != nil {
		limit = cfg.RateLimiter.Middleware
	}

	apiHandler := middleware.Chain(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID,
		middleware.ClientIP(cfg.TrustProxy),
		middleware.Logger(cfg.Logger),
		middleware.CORS(cfg.CORS),
		middleware.Auth(cfg.Tokens),
		limit,
	)(api)

	probes := middleware.Chain(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID,
	)

	mux := http.NewServeMux()
	mux.Handle("GET /live", probes(http.HandlerFunc(cfg.Health.Live)))
	mux.Handle("GET /ready", probes(http.HandlerFunc(cfg.Health.Ready)))
	mux.Handle("GET /health", probes(http.HandlerFunc(cfg.Health.Health)))
	mux.Handle("/api/", apiHandler)
	return mux
}
