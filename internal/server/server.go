// Package server exposes the analysis pipeline and tutoring sessions
// over an HTTP REST API.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ribara/skillbridge/internal/tutor"
	"github.com/ribara/skillbridge/internal/types"
)

// AnalysisRunner runs the full CV/job extraction pipeline.
type AnalysisRunner interface {
	Analyze(ctx context.Context, cvText, jobText string) (*types.AnalysisReport, error)
}

// Config holds server configuration.
type Config struct {
	Port       int
	UploadDir  string
	UseBrowser bool
}

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	analyzer   AnalysisRunner
	tutor      *tutor.Controller
	validate   *validator.Validate
	cfg        Config
	log        *zap.Logger
}

// New creates a server instance. The returned server is not listening
// yet; call Start, or mount Handler in a test.
func New(cfg Config, analyzer AnalysisRunner, tutorCtl *tutor.Controller, log *zap.Logger) *Server {
	if cfg.UploadDir == "" {
		cfg.UploadDir = os.TempDir()
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		analyzer: analyzer,
		tutor:    tutorCtl,
		validate: validator.New(),
		cfg:      cfg,
		log:      log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("POST /sessions/{id}/messages", s.handleSessionMessage)
	mux.HandleFunc("GET /sessions/{id}/history", s.handleSessionHistory)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleEndSession)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // analysis runs several LLM passes
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}

	s.log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("encoding response", zap.Error(err))
	}
}

// errorResponse maps a domain error to a status code and writes it.
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	status := httpStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
	} else {
		s.log.Debug("request rejected", zap.Int("status", status), zap.Error(err))
	}
	s.jsonResponse(w, status, map[string]string{"error": err.Error()})
}
