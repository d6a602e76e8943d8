// Package server exposes the blog search over HTTP.
//
// Routes:
//
//	GET /api/search?q=&lang=&limit=   search one locale
//	GET /api/posts?lang=              list posts
//	GET /healthz                      health and corpus sizes
//	GET /metrics                      Prometheus scrape
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"blogsearch/internal/locale"
	"blogsearch/internal/logging"
	"blogsearch/internal/metrics"
)

// Options configure a Server
type Options struct {
	Addr            string
	Limits          Limits
	ShutdownTimeout time.Duration
}

// Server is the HTTP front end
type Server struct {
	opts    Options
	handler http.Handler
	logger  *slog.Logger
}

// New builds the route table and middleware chain. m may be nil, in which
// case /metrics is not served.
func New(catalog Catalog, m *metrics.Metrics, opts Options) *Server {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	logger := logging.WithComponent("server")
	h := NewHandler(catalog, opts.Limits)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.Health)
	mux.HandleFunc("GET /api/search", h.Search)
	mux.HandleFunc("GET /api/posts", h.Posts)
	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}

	// request → Locale → Logging → Metrics → mux
	var chain http.Handler = mux
	if m != nil {
		chain = Metrics(m)(chain)
	}
	chain = Logging(logger)(chain)
	chain = Locale(locale.NewNegotiator(catalog.Locales()))(chain)

	return &Server{opts: opts, handler: chain, logger: logger}
}

// Handler returns the full middleware chain
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on Options.Addr until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts on ln until ctx is cancelled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server started", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}
