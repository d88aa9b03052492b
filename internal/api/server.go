package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"cinedex/internal/config"
	"cinedex/internal/library"
	"cinedex/internal/logging"
)

const moviesPrefix = "/api/collections/movies"

// Server exposes the collection service over HTTP.
type Server struct {
	bind    string
	logger  *slog.Logger
	svc     *library.Service
	started time.Time
	handler http.Handler

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
}

// NewServer builds the HTTP server for svc using the [api] config section.
func NewServer(cfg *config.Config, svc *library.Service, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("api: config required")
	}
	if svc == nil {
		return nil, errors.New("api: collection service required")
	}
	bind := strings.TrimSpace(cfg.API.Bind)
	if bind == "" {
		return nil, errors.New("api: bind address required")
	}

	s := &Server{
		bind:    bind,
		logger:  logging.NewComponentLogger(logger, "api"),
		svc:     svc,
		started: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("GET "+moviesPrefix, s.handleList)
	mux.HandleFunc("GET "+moviesPrefix+"/{$}", s.handleList)
	mux.HandleFunc("GET "+moviesPrefix+"/search", s.handleSearch)
	mux.HandleFunc("GET "+moviesPrefix+"/lookup", s.handleLookup)
	mux.HandleFunc("GET "+moviesPrefix+"/{id}", s.handleGet)
	mux.HandleFunc("POST "+moviesPrefix+"/add", s.handleAddExternal)
	mux.HandleFunc("POST "+moviesPrefix, s.handleAddManual)
	mux.HandleFunc("POST "+moviesPrefix+"/{$}", s.handleAddManual)
	mux.HandleFunc("PUT "+moviesPrefix+"/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE "+moviesPrefix+"/{id}", s.handleDelete)
	mux.HandleFunc("/", s.handleNotFound)

	s.handler = chain(mux,
		s.requestIDMiddleware,
		s.recoverMiddleware,
		corsMiddleware(cfg.API.CORSOrigins),
		s.accessLogMiddleware,
	)
	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address and serves until ctx is done or
// Stop is called.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	server := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	s.mu.Lock()
	s.listener = listener
	s.server = server
	s.mu.Unlock()

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr reports the bound listener address, or the configured bind before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.bind
}

// Stop gracefully shuts the server down, waiting up to five seconds for
// in-flight requests.
func (s *Server) Stop() {
	s.mu.Lock()
	server := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()

	if server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("api shutdown incomplete", logging.Error(err))
	}
}
