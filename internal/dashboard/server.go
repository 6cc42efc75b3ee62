// Package dashboard serves the credit-scoring dashboard: an HTTP API,
// a live WebSocket stream, and an embedded single-page UI over the
// remote scoring agent.
package dashboard

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/soyeahso/scoredeck/internal/agentcore"
	"github.com/soyeahso/scoredeck/internal/config"
	"github.com/soyeahso/scoredeck/internal/domain"
	"github.com/soyeahso/scoredeck/internal/logging"
	"github.com/soyeahso/scoredeck/internal/sim"
	"github.com/soyeahso/scoredeck/internal/store"
)

// Server is the scoredeck dashboard HTTP + WebSocket server.
type Server struct {
	cfg     config.Config
	auth    ResolvedAuth
	log     *logging.Logger
	invoker agentcore.Invoker
	history store.History
	engine  *sim.Engine
	metrics *Metrics
	hub     *Hub
	tracker *runTracker

	mu     sync.RWMutex
	health domain.PortfolioHealth

	runCtx     context.Context
	runsWG     sync.WaitGroup
	startedAt  time.Time
	httpServer *http.Server
	upgrader   websocket.Upgrader
}

// New creates a dashboard server. The portfolio baseline starts from
// config and can be adjusted at runtime through the API.
func New(cfg config.Config, invoker agentcore.Invoker, history store.History, log *logging.Logger) *Server {
	metrics := NewMetrics()
	s := &Server{
		cfg:     cfg,
		auth:    ResolveAuth(cfg.Dashboard.Auth),
		log:     log.Sub("dashboard"),
		invoker: invoker,
		history: history,
		engine:  sim.NewEngine(invoker, cfg.Simulation.Concurrency, log),
		metrics: metrics,
		hub:     NewHub(log, metrics),
		tracker: newRunTracker(),
		health: domain.PortfolioHealth{
			AvailableCapital:          cfg.Portfolio.AvailableCapital,
			DelinquencyRate:           cfg.Portfolio.DelinquencyRate,
			MonthlyDisbursementTarget: cfg.Portfolio.MonthlyDisbursementTarget,
		},
		runCtx: context.Background(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     checkWebSocketOrigin(cfg.Dashboard.AllowedOrigins),
		},
	}
	return s
}

// portfolioHealth returns the current portfolio baseline.
func (s *Server) portfolioHealth() domain.PortfolioHealth {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.health
}

// setPortfolioHealth replaces the portfolio baseline.
func (s *Server) setPortfolioHealth(h domain.PortfolioHealth) {
	s.mu.Lock()
	s.health = h
	s.mu.Unlock()
}

// resolveBindAddr computes the listen address from config.
func resolveBindAddr(cfg config.DashboardConfig) string {
	switch cfg.Bind {
	case "loopback":
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	case "lan", "auto":
		return fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	case "custom":
		host := cfg.CustomBindHost
		if host == "" {
			host = "0.0.0.0"
		}
		return fmt.Sprintf("%s:%d", host, cfg.Port)
	default:
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	}
}

// Start begins listening for HTTP and WebSocket connections.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.runCtx = ctx
	addr := resolveBindAddr(s.cfg.Dashboard)

	handler := withMiddleware(s.routes(), s.log, s.cfg.Dashboard.AllowedOrigins)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // WebSocket connections are long-lived
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(l net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	if s.cfg.Dashboard.TLS.Enabled {
		cert, err := tls.LoadX509KeyPair(s.cfg.Dashboard.TLS.CertPath, s.cfg.Dashboard.TLS.KeyPath)
		if err != nil {
			ln.Close()
			return fmt.Errorf("loading TLS certificate: %w", err)
		}
		tlsCfg := &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
		ln = tls.NewListener(ln, tlsCfg)
		s.log.Info().Msg("TLS enabled")
	} else if s.cfg.Dashboard.Bind != "loopback" && s.auth.Enabled() {
		s.log.Warn().Msg("TLS is not enabled; the API token will be transmitted in cleartext")
	}

	s.startedAt = time.Now()

	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("bind", s.cfg.Dashboard.Bind).
		Bool("auth", s.auth.Enabled()).
		Msg("dashboard server starting")

	// Shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		s.log.Info().Msg("shutting down dashboard server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.hub.CloseAll()
		s.httpServer.Shutdown(shutdownCtx)
		s.runsWG.Wait()
	}()

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the server's listen address, or empty string if not started.
func (s *Server) Addr() string {
	if s.httpServer != nil {
		return s.httpServer.Addr
	}
	return ""
}
