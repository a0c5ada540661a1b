// Package server implements the TCP protocol engine: the per-connection
// handshake state machine and READY dispatch loop described by the wire
// protocol, bridging client requests to the cache and its write-through
// backing store.
package server

import (
	"context"
	"fmt"
	"net"
	"runtime"

	"github.com/H2Owater425/dqache/internal/breaker"
	"github.com/H2Owater425/dqache/internal/cache"
	"github.com/H2Owater425/dqache/internal/logger"
	"github.com/H2Owater425/dqache/internal/metrics"
	"github.com/H2Owater425/dqache/internal/retry"
	"github.com/H2Owater425/dqache/internal/storage"
	"github.com/H2Owater425/dqache/internal/wire"
	"github.com/H2Owater425/dqache/internal/workerpool"
)

// Server owns the cache, its backing store, and the connection-handling
// worker pool. One Server serves exactly one TCP listener.
type Server struct {
	cache     *cache.Cache
	storage   *storage.Storage
	breaker   *breaker.CircuitBreaker
	retryOpts []retry.Option
	version   wire.Version
	log       logger.ILogger
	metrics   *metrics.Cache
	pool      *workerpool.Pool[net.Conn]
	workers   int
}

// Option configures a Server.
type Option func(*Server)

// WithBreaker overrides the default circuit breaker guarding storage calls.
func WithBreaker(cb *breaker.CircuitBreaker) Option {
	return func(s *Server) { s.breaker = cb }
}

// WithRetryOptions overrides the default retry policy around storage calls.
func WithRetryOptions(opts ...retry.Option) Option {
	return func(s *Server) { s.retryOpts = opts }
}

// WithWorkers overrides the default worker count (2 × runtime.NumCPU()).
func WithWorkers(n int) Option {
	return func(s *Server) { s.workers = n }
}

// New constructs a Server. The worker pool is created lazily in Serve so it
// can be bound to the serve context's lifetime.
func New(c *cache.Cache, st *storage.Storage, version wire.Version, log logger.ILogger, m *metrics.Cache, opts ...Option) *Server {
	s := &Server{
		cache:   c,
		storage: st,
		breaker: breaker.New(),
		version: version,
		log:     log.Sub("server"),
		metrics: m,
		workers: 2 * runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ListenAndServe opens a TCP listener on address and serves connections on
// it until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", address, err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections from listener and dispatches each to the
// worker pool until ctx is cancelled or Accept fails, then waits for the
// worker pool to drain before returning. Split out from
// ListenAndServe so tests can bind an ephemeral port and read back its
// actual address before serving.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	defer listener.Close()

	s.pool = workerpool.New(ctx, s.handleConn, workerpool.WithWorkers[net.Conn](s.workers))
	defer s.pool.Shutdown()

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	s.log.Infof("listening on %s (server version %s)", listener.Addr(), s.version)

	for {
		conn, acceptErr := listener.Accept()
		if acceptErr != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return fmt.Errorf("server: accept: %w", acceptErr)
			}
		}
		s.pool.Submit(conn)
	}
}
