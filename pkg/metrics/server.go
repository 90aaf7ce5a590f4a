package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/logship/logship/pkg/logger"
)

const readHeaderTimeout = 10 * time.Second

// Server serves the scrape and liveness endpoints while a run is in flight.
type Server struct {
	srv      *http.Server
	listener net.Listener
}

// NewServer builds a server for the given listen address.
func NewServer(addr string) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           newRouter(),
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

func newRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Start binds the listener and serves in the background. It is assumed that
// the caller arranges Shutdown when the run finishes.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to bind metrics listener: %w", err)
	}
	s.listener = listener

	logger.Infof("metrics server listening on %s", listener.Addr())
	go func() {
		if err := s.srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("metrics server stopped with error: %v", err)
		}
	}()
	return nil
}

// Addr reports the bound address. Before Start it echoes the configured
// address, after Start it carries the real port even when 0 was requested.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.srv.Addr
	}
	return s.listener.Addr().String()
}

// Shutdown stops the server, letting in-flight scrapes drain.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
