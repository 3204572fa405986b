package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sanketp27/travel-concierge/internal/database"
	"github.com/sanketp27/travel-concierge/internal/types"
)

// maxRequestBodySize limits POST body sizes to prevent DoS.
const maxRequestBodySize = 1 << 20 // 1 MB

// Runner handles one chat turn for a session.
type Runner interface {
	Run(ctx context.Context, sessionID types.ID, query string) (string, error)
}

// SessionStore is the slice of session persistence the HTTP surface
// needs.
type SessionStore interface {
	Messages(ctx context.Context, sessionID types.ID) ([]database.Message, error)
	ClearSession(ctx context.Context, sessionID types.ID) error
}

// HealthChecker reports the health of one dependency.
type HealthChecker interface {
	Health(ctx context.Context) types.HealthStatus
}

// Config holds HTTP server settings.
type Config struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port"`
	CORSOrigins     []string      `mapstructure:"cors_origins" yaml:"cors_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// DefaultConfig returns sensible defaults for the HTTP server.
func DefaultConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            8080,
		CORSOrigins:     []string{"*"},
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    10 * time.Minute, // a chat turn can run several oracle rounds
		ShutdownTimeout: 15 * time.Second,
	}
}

// Server is the HTTP surface over the orchestrator and session store.
type Server struct {
	cfg      Config
	runner   Runner
	sessions SessionStore
	checks   map[string]HealthChecker
	logger   *slog.Logger
	http     *http.Server
}

// New creates a Server. checks maps dependency names to their health
// probes for the /health endpoint.
func New(cfg Config, runner Runner, sessions SessionStore, checks map[string]HealthChecker, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:      cfg,
		runner:   runner,
		sessions: sessions,
		checks:   checks,
		logger:   logger,
	}
	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler builds the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/readiness", s.handleReadiness)
	mux.HandleFunc("/liveness", s.handleLiveness)
	mux.HandleFunc("/getSession", s.handleGetSession)
	mux.HandleFunc("/chat", s.handleChat)
	mux.HandleFunc("/clearSession", s.handleClearSession)

	return s.withRequestID(s.withCORS(s.withLogging(mux)))
}

// Start runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("http server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down http server")
	return s.http.Shutdown(shutdownCtx)
}
