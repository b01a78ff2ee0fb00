// Package api implements the HTTP surface of the optimizer service.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"tmsopt/internal/auth"
	"tmsopt/internal/config"
	"tmsopt/internal/logging"
	"tmsopt/internal/metrics"
	"tmsopt/internal/opt"
	"tmsopt/internal/optimize"
	"tmsopt/internal/store"
	"tmsopt/internal/webhooks"
)

type Server struct {
	Cfg       *config.Config
	Store     store.Store
	Optimizer *optimize.Service
	Pub       *webhooks.Publisher
	Auth      *auth.Verifier
	Broker    EventBroker
	Log       zerolog.Logger

	limiter *rate.Limiter
}

// NewServer wires the service from cfg. Without DATABASE_URL it uses the
// in-memory store; without REDIS_URL the in-process broker.
func NewServer(cfg *config.Config, log zerolog.Logger) (*Server, error) {
	var s store.Store
	if dsn := strings.TrimSpace(cfg.Database.URL); dsn == "" {
		s = store.NewMemory()
	} else {
		sp, err := store.NewPostgres(dsn)
		if err != nil {
			return nil, err
		}
		if cfg.Database.ShouldMigrate() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			err := sp.Migrate(ctx)
			cancel()
			if err != nil {
				_ = sp.Close()
				return nil, err
			}
		}
		s = sp
	}

	var broker EventBroker = NewBroker()
	if cfg.Redis.URL != "" {
		rb, err := NewRedisBroker(cfg.Redis.URL, logging.Component(log, "broker"))
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable; using in-process broker")
		} else {
			broker = rb
		}
	}

	engine := opt.NewEngine(
		opt.WithStallIterations(cfg.Solver.StallIterations),
		opt.WithLogger(logging.Component(log, "solver")),
	)
	return newServer(cfg, log, s, broker, engine), nil
}

func newServer(cfg *config.Config, log zerolog.Logger, st store.Store, broker EventBroker, engine *opt.Engine) *Server {
	pub := webhooks.NewPublisher(st, cfg.Webhook.URL, cfg.Webhook.Secret, logging.Component(log, "webhooks"))
	srv := &Server{
		Cfg:       cfg,
		Store:     st,
		Pub:       pub,
		Auth:      auth.NewVerifier(cfg.Server.AuthToken),
		Broker:    broker,
		Log:       log,
		Optimizer: optimize.NewService(engine, st, logging.Component(log, "optimize"), brokerSink{broker}, pub),
	}
	if cfg.Server.RateRPS > 0 {
		srv.limiter = rate.NewLimiter(rate.Limit(cfg.Server.RateRPS), cfg.Server.RateBurst)
	}
	return srv
}

// Handler returns the routed, instrumented handler tree.
func (s *Server) Handler() http.Handler {
	metrics.RegisterDefault()
	mux := http.NewServeMux()
	route := func(pattern string, h http.HandlerFunc, guarded bool) {
		var hh http.Handler = h
		if guarded {
			hh = s.requireAuth(hh)
		}
		mux.Handle(pattern, instrument(pattern, hh))
	}

	// Optimization
	route("/optimize/routes", s.OptimizeHandler, true)

	// Run history and events
	route("/v1/runs", s.RunsHandler, true)
	route("/v1/runs/", s.RunByIDHandler, true)
	route("/v1/events/stream", s.EventsStreamHandler, true)
	route("/v1/events/ws", s.EventsWSHandler, true)
	route("/v1/admin/webhook-dlq", s.WebhookDLQHandler, true)

	// Health
	route("/health", s.HealthHandler, false)
	route("/readyz", s.ReadyHandler, false)
	mux.Handle("/metrics", metrics.Handler())

	// Docs
	route("/openapi.yaml", s.OpenAPIHandler, false)
	route("/openapi.json", s.OpenAPIJSONHandler, false)
	route("/docs", s.DocsHandler, false)
	route("/debug/info", s.DebugJSON, false)

	return s.accessLog(s.rateLimit(mux))
}

// NewWebhookWorker creates a background worker for webhook deliveries.
func (s *Server) NewWebhookWorker() *webhooks.Worker {
	return webhooks.NewWorker(s.Store, s.Cfg.Webhook.MaxAttempts, logging.Component(s.Log, "webhook-worker"))
}

// Close releases the store and broker connections.
func (s *Server) Close() error {
	var errs []error
	if c, ok := s.Broker.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	errs = append(errs, s.Store.Close())
	return errors.Join(errs...)
}
