package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jmorrell/longquery/internal/poll"
)

type Server struct {
	httpServer *http.Server
	runner     *poll.Runner
	defaults   poll.Options
}

// New builds the HTTP shell around a query runner. The defaults bound runs
// that do not override max_attempts or poll_interval in the request.
func New(runner *poll.Runner, defaults poll.Options) *Server {
	s := &Server{
		runner:   runner,
		defaults: defaults,
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/v1/queries", s.handleRunQuery)

	s.httpServer = &http.Server{Handler: r}
	return s
}

func (s *Server) Start(port string) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", port, err)
	}

	slog.Info("starting http server", "port", port)
	return s.httpServer.Serve(lis)
}

// Serve starts the server on an existing listener.
func (s *Server) Serve(lis net.Listener) error {
	return s.httpServer.Serve(lis)
}

func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		slog.Warn("shutdown did not complete cleanly", "error", err)
	}
}
