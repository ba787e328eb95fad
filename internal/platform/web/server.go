// Package web serves a read-only spectator view of live sessions: a JSON
// API for scores and states, and a websocket stream of state updates.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/gravity-tap/internal/config"
	"github.com/vovakirdan/gravity-tap/internal/session"
	"github.com/vovakirdan/gravity-tap/internal/storage"
)

// ScoreSource provides finished runs.
type ScoreSource interface {
	TopScores(limit int) ([]storage.ScoreRecord, error)
	TopScoresByDifficulty(d config.Difficulty, limit int) ([]storage.ScoreRecord, error)
	Stats() (map[config.Difficulty]*storage.DifficultyStats, error)
}

// Config holds the server dependencies.
type Config struct {
	Scores   ScoreSource       // optional; score routes answer 503 without it
	Sessions *session.Registry // live sessions to spectate
	Logger   *log.Logger
}

// Server is the spectator HTTP server.
type Server struct {
	scores   ScoreSource
	sessions *session.Registry
	logger   *log.Logger
	upgrader websocket.Upgrader
	router   chi.Router
}

// NewServer creates a server and registers its routes.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	sessions := cfg.Sessions
	if sessions == nil {
		sessions = session.NewRegistry()
	}

	s := &Server{
		scores:   cfg.Scores,
		sessions: sessions,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthz)
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(15 * time.Second))
		r.Get("/scores", s.listScores)
		r.Get("/stats", s.stats)
		r.Get("/sessions", s.listSessions)
		r.Get("/state", s.state)
	})
	r.Get("/ws", s.stream)

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("spectator server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// logRequests logs each request with charmbracelet/log.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
