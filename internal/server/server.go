package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ventureboard/risklab/internal/calculation"
	"github.com/ventureboard/risklab/internal/config"
	"github.com/ventureboard/risklab/internal/domain"
	"github.com/ventureboard/risklab/internal/narrative"
	"github.com/ventureboard/risklab/internal/observability"
	"github.com/ventureboard/risklab/internal/store"
	"go.uber.org/zap"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 10 * time.Second

// RunHistory is the subset of the run store the service uses.
type RunHistory interface {
	SaveRun(ctx context.Context, r *domain.RiskReport) error
	GetRun(ctx context.Context, id string) (*domain.RiskReport, error)
	ListRuns(ctx context.Context, startupID string, limit int) ([]store.RunSummary, error)
}

// Options configures a Server. Analysis is required; everything else is optional.
type Options struct {
	Analysis      *config.AnalysisConfig
	Simulation    calculation.MonteCarloConfig // defaults for requests that leave fields unset
	MaxIterations int
	History       RunHistory
	Narrator      narrative.Narrator
	Metrics       *observability.Metrics
	Logger        *zap.Logger
}

// Server exposes the simulator over HTTP and a live WebSocket session.
type Server struct {
	analysis      *config.AnalysisConfig
	scenarios     domain.ScenarioSet
	simulation    calculation.MonteCarloConfig
	maxIterations int
	history       RunHistory
	narrator      narrative.Narrator
	metrics       *observability.Metrics
	logger        *zap.Logger
	upgrader      websocket.Upgrader

	mu      sync.Mutex
	conns   map[*websocket.Conn]struct{}
	closing bool
	wg      sync.WaitGroup
}

// New creates a server from options.
func New(opts Options) (*Server, error) {
	if opts.Analysis == nil {
		return nil, fmt.Errorf("%w: analysis configuration is required", domain.ErrInvalidArgument)
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 100000
	}
	if opts.Simulation.Iterations <= 0 {
		opts.Simulation.Iterations = calculation.DefaultIterations
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.NewMetrics("")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	scenarios := opts.Analysis.ScenarioSet()
	opts.Metrics.SetKnownScenarios(scenarios.Names()...)
	return &Server{
		analysis:      opts.Analysis,
		scenarios:     scenarios,
		simulation:    opts.Simulation,
		maxIterations: opts.MaxIterations,
		history:       opts.History,
		narrator:      opts.Narrator,
		metrics:       opts.Metrics,
		logger:        opts.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /api/simulate", s.instrument("/api/simulate", s.handleSimulate))
	mux.Handle("GET /api/startups", s.instrument("/api/startups", s.handleStartups))
	mux.Handle("GET /api/scenarios", s.instrument("/api/scenarios", s.handleScenarios))
	mux.Handle("GET /api/runs", s.instrument("/api/runs", s.handleListRuns))
	mux.Handle("GET /api/runs/{id}", s.instrument("/api/runs/{id}", s.handleGetRun))
	mux.HandleFunc("GET /ws/simulate", s.handleLive)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", s.metrics.Handler())
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled. Open live sessions are closed on shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv.RegisterOnShutdown(s.closeLiveSessions)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("server listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	<-errCh
	s.wg.Wait()
	if err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	s.logger.Info("shutdown complete")
	return nil
}

// trackConn registers a live session. It reports false once shutdown has begun.
func (s *Server) trackConn(c *websocket.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.conns[c] = struct{}{}
	return true
}

func (s *Server) untrackConn(c *websocket.Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
}

func (s *Server) closeLiveSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closing = true
	for c := range s.conns {
		goingAway(c)
	}
}

func goingAway(c *websocket.Conn) {
	c.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
		time.Now().Add(time.Second))
	c.Close()
}
