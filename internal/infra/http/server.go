package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// PollState exposes the poller's progress to the health endpoint.
type PollState interface {
	Cursor() int64
	LastPollAt() time.Time
}

// Server serves /health and /metrics.
type Server struct {
	addr   string
	state  PollState
	log    *logrus.Entry
	server *http.Server
}

func NewServer(addr string, state PollState, log *logrus.Logger) *Server {
	s := &Server{
		addr:  addr,
		state: state,
		log:   log.WithField("component", "http"),
	}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Router builds the handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Start blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) Start() error {
	s.log.Infof("HTTP server listening on %s", s.addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown may be called before Start; Start then returns immediately.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type healthResponse struct {
	Status     string `json:"status"`
	Cursor     int64  `json:"cursor"`
	LastPollAt string `json:"last_poll_at,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Cursor: s.state.Cursor()}
	if last := s.state.LastPollAt(); !last.IsZero() {
		resp.LastPollAt = last.UTC().Format(time.RFC3339)
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.WithError(err).Warn("Failed to write health response")
	}
}
