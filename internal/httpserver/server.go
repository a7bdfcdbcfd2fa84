package httpserver

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/db"
)

const (
	readHeaderTimeout = 5 * time.Second
	// Stripe gives up on a webhook delivery after about 10s.
	writeTimeout = 15 * time.Second
	idleTimeout  = 60 * time.Second
	pingTimeout  = time.Second
)

// Server serves the storefront API and releases background resources when it stops.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
	closers    []namedCloser
}

type namedCloser struct {
	name string
	c    io.Closer
}

func New(addr string, logger *log.Logger, pool *pgxpool.Pool, deps Deps) (*Server, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	router, err := buildRouter(logger, pool, deps)
	if err != nil {
		return nil, err
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: readHeaderTimeout,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       idleTimeout,
		},
		logger: logger,
	}, nil
}

// CloseOnShutdown registers c to be closed after in-flight requests drain.
func (s *Server) CloseOnShutdown(name string, c io.Closer) {
	s.closers = append(s.closers, namedCloser{name: name, c: c})
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting requests, waits for the in-flight ones, then closes registered
// resources in reverse order. Events queued by the last requests are flushed that way.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	for i := len(s.closers) - 1; i >= 0; i-- {
		nc := s.closers[i]
		if cerr := nc.c.Close(); cerr != nil {
			s.logger.Printf("server: close %s error=%v", nc.name, cerr)
			err = errors.Join(err, cerr)
		}
	}
	s.closers = nil
	return err
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// readyHandler reports whether the order ledger can be reached.
func readyHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pool == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": gin.H{"db": "not configured"}})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()
		if err := db.Ping(ctx, pool); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": gin.H{"db": "unreachable"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "checks": gin.H{"db": "ok"}})
	}
}
