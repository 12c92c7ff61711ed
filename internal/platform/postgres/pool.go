package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/promoterhq/promoter-api/internal/store"
)

// PoolConfig sizes the connection pool and its admission policy.
type PoolConfig struct {
	// MinSize is the number of connections kept open even when idle.
	MinSize int32

	// MaxSize caps concurrently open connections.
	MaxSize int32

	// MaxWaiting caps callers blocked waiting for a connection. The next
	// caller past the cap fails fast with store.ErrPoolOverloaded.
	MaxWaiting int64

	// MaxLifetime retires and replaces connections older than this.
	MaxLifetime time.Duration

	// AcquireTimeout bounds acquisition when the caller's context carries
	// no deadline of its own.
	AcquireTimeout time.Duration
}

// DefaultPoolConfig mirrors the sizing the service has always run with.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MinSize:        5,
		MaxSize:        20,
		MaxWaiting:     100,
		MaxLifetime:    time.Hour,
		AcquireTimeout: 30 * time.Second,
	}
}

// PoolStats is the health snapshot exposed at /health/db.
type PoolStats struct {
	Size    int32 `json:"size"`
	MinSize int32 `json:"min_size"`
	MaxSize int32 `json:"max_size"`
	Idle    int32 `json:"idle"`
	Busy    int32 `json:"busy"`
}

// Pool wraps pgxpool with a bounded waiting queue. pgxpool itself queues
// acquirers without limit; the wrapper adds the admission policy the
// gateway's overload contract requires.
type Pool struct {
	inner *pgxpool.Pool
	cfg   PoolConfig

	slots   chan struct{}
	waiting atomic.Int64

	closeOnce sync.Once
}

// NewPool connects to the database and verifies connectivity before
// returning. The URL is the standard pgx connection string.
func NewPool(ctx context.Context, url string, cfg PoolConfig) (*Pool, error) {
	pgxCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	pgxCfg.MinConns = cfg.MinSize
	pgxCfg.MaxConns = cfg.MaxSize
	pgxCfg.MaxConnLifetime = cfg.MaxLifetime

	inner, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := inner.Ping(pingCtx); err != nil {
		inner.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slots := make(chan struct{}, cfg.MaxSize)
	for i := int32(0); i < cfg.MaxSize; i++ {
		slots <- struct{}{}
	}

	return &Pool{inner: inner, cfg: cfg, slots: slots}, nil
}

// Conn is one acquired connection. Release returns it to the pool and is
// safe to call more than once.
type Conn struct {
	conn        *pgxpool.Conn
	pool        *Pool
	releaseOnce sync.Once
}

// Release returns the connection and its admission slot.
func (c *Conn) Release() {
	c.releaseOnce.Do(func() {
		c.conn.Release()
		c.pool.releaseSlot()
	})
}

// Pgx exposes the underlying pgxpool connection for queries.
func (c *Conn) Pgx() *pgxpool.Conn {
	return c.conn
}

// acquireSlot implements the admission policy: take a free slot
// immediately, otherwise join the bounded waiting queue. A failed
// acquisition never consumes capacity.
func (p *Pool) acquireSlot(ctx context.Context) error {
	// Fast path: a slot is free, nobody waits.
	select {
	case <-p.slots:
		return nil
	default:
	}

	// Saturated; join the bounded waiting queue.
	if p.waiting.Add(1) > p.cfg.MaxWaiting {
		p.waiting.Add(-1)
		return store.ErrPoolOverloaded
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.AcquireTimeout)
		defer cancel()
	}

	select {
	case <-p.slots:
		p.waiting.Add(-1)
		return nil
	case <-ctx.Done():
		p.waiting.Add(-1)
		return fmt.Errorf("%w: %v", store.ErrAcquireTimeout, ctx.Err())
	}
}

func (p *Pool) releaseSlot() {
	p.slots <- struct{}{}
}

// Acquire obtains a connection, honoring the context's deadline and the
// pool's admission policy.
func (p *Pool) Acquire(ctx context.Context) (*Conn, error) {
	if err := p.acquireSlot(ctx); err != nil {
		return nil, err
	}

	conn, err := p.inner.Acquire(ctx)
	if err != nil {
		p.releaseSlot()
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %v", store.ErrAcquireTimeout, err)
		}
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}

	return &Conn{conn: conn, pool: p}, nil
}

// Ping verifies end-to-end connectivity with a trivial query.
func (p *Pool) Ping(ctx context.Context) error {
	conn, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	var one int
	if err := conn.Pgx().QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("health check query failed: %w", err)
	}
	return nil
}

// Stats reports the pool's current shape.
func (p *Pool) Stats() PoolStats {
	s := p.inner.Stat()
	return PoolStats{
		Size:    s.TotalConns(),
		MinSize: p.cfg.MinSize,
		MaxSize: p.cfg.MaxSize,
		Idle:    s.IdleConns(),
		Busy:    s.AcquiredConns(),
	}
}

// Close drains and closes the pool. Idempotent; safe to call from multiple
// shutdown triggers.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.inner.Close()
	})
}
