package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/psantana5/cpxanno/internal/logging"
)

const (
	shutdownTimeout = 10 * time.Second
	limiterIdle     = 10 * time.Minute
)

// Server is the HTTP front end of the annotation printer
type Server struct {
	srv     *http.Server
	limiter *Limiter
	log     *logging.Logger
}

// New wires the handler's routes onto a fresh router
func New(addr string, h *Handler, limiter *Limiter, log *logging.Logger) *Server {
	router := mux.NewRouter()
	h.RegisterRoutes(router, limiter)

	return &Server{
		srv: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		limiter: limiter,
		log:     log,
	}
}

// Handler returns the routed handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("annotation server listening", map[string]interface{}{"addr": s.srv.Addr})
		errCh <- s.srv.ListenAndServe()
	}()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ticker.C:
			if s.limiter != nil {
				if n := s.limiter.Cleanup(limiterIdle); n > 0 {
					s.log.Debug("dropped idle rate limiters", map[string]interface{}{"count": n})
				}
			}
		case <-ctx.Done():
			s.log.Info("shutting down annotation server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return s.srv.Shutdown(shutdownCtx)
		}
	}
}
