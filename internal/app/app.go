package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/brainq-backend/internal/adapter/postgres"
	"github.com/heartmarshall/brainq-backend/internal/adapter/postgres/attempt"
	"github.com/heartmarshall/brainq-backend/internal/adapter/postgres/deck"
	"github.com/heartmarshall/brainq-backend/internal/adapter/postgres/performance"
	"github.com/heartmarshall/brainq-backend/internal/adapter/postgres/quizsession"
	"github.com/heartmarshall/brainq-backend/internal/auth"
	"github.com/heartmarshall/brainq-backend/internal/config"
	"github.com/heartmarshall/brainq-backend/internal/service/quiz"
	"github.com/heartmarshall/brainq-backend/internal/transport/middleware"
	"github.com/heartmarshall/brainq-backend/internal/transport/rest"
)

const rateLimitCleanupInterval = time.Minute

// Run is the application entry point. It loads configuration, connects to
// PostgreSQL (and Redis when enabled), builds the quiz service and serves
// the REST API until ctx is canceled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	sink, rdb, err := NewEventSink(ctx, cfg.Redis, logger)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close() //nolint:errcheck
	}

	clock := clockwork.NewRealClock()

	health := rest.NewHealthHandler(pool, BuildVersion())
	if rdb != nil {
		health.WithComponent("redis", rest.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}))
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, rateLimitCleanupInterval, clock)
		defer limiter.Stop()
	}

	handler, err := newHandler(deps{
		cfg:     cfg,
		pool:    pool,
		sink:    sink,
		health:  health,
		limiter: limiter,
		clock:   clock,
		logger:  logger,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	return serve(ctx, srv, cfg.Server.ShutdownTimeout, logger)
}

type deps struct {
	cfg     *config.Config
	pool    *pgxpool.Pool
	sink    EventSink
	health  *rest.HealthHandler
	limiter *middleware.RateLimiter
	clock   clockwork.Clock
	logger  *slog.Logger
}

// newHandler wires repositories, the quiz service and the REST router.
func newHandler(d deps) (http.Handler, error) {
	deckRepo := deck.New(d.pool)

	quizService, err := quiz.NewService(
		d.logger,
		deckRepo,
		deckRepo,
		quizsession.New(d.pool),
		attempt.New(d.pool),
		performance.New(d.pool),
		d.sink,
		postgres.NewTxManager(d.pool),
		d.clock,
		nil,
		quiz.Config{
			Distractors:      d.cfg.Quiz.Distractors,
			MaxTimePerCard:   d.cfg.Quiz.MaxTimePerCard,
			DefaultListLimit: d.cfg.Quiz.DefaultListLimit,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("create quiz service: %w", err)
	}

	return rest.NewRouter(rest.RouterConfig{
		Logger: d.logger,
		Quiz: rest.NewQuizHandler(quizService, rest.SessionDefaults{
			Mode:         d.cfg.Quiz.Mode(),
			AdaptiveMode: d.cfg.Quiz.DefaultAdaptive,
			SRSEnabled:   d.cfg.Quiz.DefaultSRS,
		}, d.logger),
		Health:      d.health,
		Tokens:      auth.NewJWTManager(d.cfg.Auth.JWTSecret, d.cfg.Auth.JWTIssuer, d.clock),
		CORS:        d.cfg.CORS,
		TrustProxy:  d.cfg.Server.TrustProxy,
		RateLimiter: d.limiter,
	}), nil
}

// serve runs srv until ctx is canceled, then drains in-flight requests
// within shutdownTimeout.
func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
