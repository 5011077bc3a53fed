package httpfiber

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	json "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/symbol/symbol-faucet/pkg/app"
	"github.com/symbol/symbol-faucet/pkg/config"
	"github.com/symbol/symbol-faucet/pkg/logger"
	"github.com/symbol/symbol-faucet/pkg/statistics"

	"go.uber.org/zap"
)

// AppProvider returns the App currently bound to a node, nil before bootstrap.
type AppProvider interface {
	Current() *app.App
}

type Server struct {
	app *fiber.App
	cfg *config.Schema

	provider AppProvider
	lister   statistics.NodeLister
	limiter  *rateLimiter
	registry *prometheus.Registry
}

type Option func(*Server)

func WithRegistry(registry *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = registry
	}
}

// WithNodeLister enables /api/nodes against the statistics service.
func WithNodeLister(lister statistics.NodeLister) Option {
	return func(s *Server) {
		s.lister = lister
	}
}

func NewServer(cfg *config.Schema, provider AppProvider, opts ...Option) (*Server, error) {
	fiberApp := fiber.New(fiber.Config{
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		DisableStartupMessage: true,
	})
	srv := &Server{
		app:      fiberApp,
		cfg:      cfg,
		provider: provider,
		registry: prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(srv)
	}
	if rl := cfg.RateLimit; rl != nil && rl.Enabled {
		srv.limiter = newRateLimiter(rl.RPS, rl.Burst)
	}

	if cfg.Global.Environment == "production" {
		level, err := zap.ParseAtomicLevel(cfg.Global.LogLevel)
		if err != nil {
			return nil, err
		}
		zapLogger, err := logger.NewZapLogger(logger.WithLevel(level.Level()))
		if err != nil {
			return nil, err
		}
		srv.app.Use(fiberzap.New(fiberzap.Config{
			Logger: zapLogger.Logger,
		}))
	}

	srv.MapRoutes()
	return srv, nil
}

func (s *Server) Run() error {
	logger.Infof("listening on %s", s.cfg.Global.ListenAddr)
	return s.app.Listen(s.cfg.Global.ListenAddr)
}

func (s *Server) Stop() {
	logger.Infof("Stopping HTTP server...")
	if err := s.app.ShutdownWithTimeout(1 * time.Second); err != nil {
		logger.Debugf("HTTP server shutdown: %v", err)
	}
	logger.Infof("HTTP server stopped")
}

func (s *Server) MapRoutes() {
	s.app.Get("/readiness", s.readiness)
	s.app.Get("/version", s.version)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		ErrorLog:      log.New(os.Stderr, log.Prefix(), log.Flags()),
		ErrorHandling: promhttp.ContinueOnError,
	})))

	api := s.app.Group("/api", s.rateLimit)
	api.Get("/health", s.health)
	api.Get("/network", s.network)
	api.Get("/faucet", s.faucet)
	api.Get("/nodes", s.nodes)
}
