// Package server runs the local HTTP API the timeline page uses to persist
// ignored commits and remarks and to fetch commit diffs.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/masmgr/branchdiff-go/internal/annotation"
	"github.com/masmgr/branchdiff-go/internal/git"
	"github.com/masmgr/branchdiff-go/internal/server/middleware"
)

// PageFunc renders the page served at /.
type PageFunc func() (string, error)

// ShowFunc loads the patch of one commit.
type ShowFunc func(ctx context.Context, repoPath, hash string) (*git.CommitDetail, error)

// Server holds the HTTP server state and dependencies.
type Server struct {
	config Config
	store  *annotation.Store
	diffs  *gocache.Cache
	show   ShowFunc
	logger *zerolog.Logger

	mu       sync.RWMutex
	page     PageFunc
	listener net.Listener
}

// Option configures a Server.
type Option func(*Server)

// WithPage sets the page served at /.
func WithPage(page PageFunc) Option {
	return func(s *Server) { s.page = page }
}

// WithShowFunc replaces the commit loader used by /git/show.
func WithShowFunc(show ShowFunc) Option {
	return func(s *Server) { s.show = show }
}

// New creates a server backed by store.
func New(cfg Config, store *annotation.Store, logger *zerolog.Logger, opts ...Option) *Server {
	cfg = cfg.withDefaults()
	s := &Server{
		config: cfg,
		store:  store,
		diffs:  gocache.New(cfg.DiffCacheTTL, cfg.DiffCacheTTL*2),
		show:   git.ShowCommit,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetPage replaces the page served at /.
func (s *Server) SetPage(page PageFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = page
}

func (s *Server) currentPage() PageFunc {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

// Handler returns the routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)

	return middleware.Chain(
		middleware.Recovery(s.logger),
		middleware.Logger(s.logger),
		middleware.CORS(middleware.DefaultCORSConfig()),
	)(mux)
}

// Listen binds the first free port starting at the configured one.
// Calling it again returns the existing listener.
func (s *Server) Listen() (net.Listener, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener, nil
	}

	ln, err := listenFree(s.config.Host, s.config.Port, s.config.PortAttempts)
	if err != nil {
		return nil, err
	}
	s.listener = ln
	s.logger.Debug().Str("addr", ln.Addr().String()).Msg("Server listening")
	return ln, nil
}

func listenFree(host string, port, attempts int) (net.Listener, error) {
	if port == 0 {
		return net.Listen("tcp", net.JoinHostPort(host, "0"))
	}

	var lastErr error
	for p := port; p < port+attempts && p <= 65535; p++ {
		ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(p)))
		if err == nil {
			return ln, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("no free port in %d-%d: %w", port, port+attempts-1, lastErr)
}

// URL returns the base URL of the bound listener, or "" before Listen.
func (s *Server) URL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	addr, ok := s.listener.Addr().(*net.TCPAddr)
	if !ok {
		return "http://" + s.listener.Addr().String()
	}
	host := s.config.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(addr.Port))
}

// Serve handles requests until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info().Str("url", s.URL()).Msg("Server starting")
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info().Msg("Server stopped gracefully")
	return nil
}
