package workers

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrQueueTimeout is returned when no slot frees up within the queue timeout.
var ErrQueueTimeout = errors.New("timed out waiting for a crypto worker")

// Options configures a Pool.
type Options struct {
	// MaxConcurrent is the number of operations admitted at once.
	// Zero or less means runtime.NumCPU().
	MaxConcurrent int

	// QueueTimeout bounds how long a caller waits for a slot. Zero waits
	// until the caller's context is done.
	QueueTimeout time.Duration
}

// Pool is a context-aware bound on concurrent work.
type Pool struct {
	sem          *semaphore.Weighted
	size         int
	queueTimeout time.Duration
}

// NewPool creates a Pool from opts.
func NewPool(opts Options) *Pool {
	size := opts.MaxConcurrent
	if size <= 0 {
		size = runtime.NumCPU()
	}
	return &Pool{
		sem:          semaphore.NewWeighted(int64(size)),
		size:         size,
		queueTimeout: opts.QueueTimeout,
	}
}

// Size returns the number of concurrent slots.
func (p *Pool) Size() int {
	if p == nil {
		return 0
	}
	return p.size
}

// Run executes fn once a slot is free.
func (p *Pool) Run(ctx context.Context, fn func() error) error {
	release, err := p.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

// Do runs fn in pool and returns its result.
func Do[T any](ctx context.Context, pool *Pool, fn func() (T, error)) (T, error) {
	var result T
	err := pool.Run(ctx, func() error {
		var err error
		result, err = fn()
		return err
	})
	return result, err
}

func (p *Pool) acquire(ctx context.Context) (func(), error) {
	if p == nil {
		return func() {}, nil
	}

	waitCtx := ctx
	if p.queueTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, p.queueTimeout)
		defer cancel()
	}

	if err := p.sem.Acquire(waitCtx, 1); err != nil {
		// The caller's own cancellation wins over the queue timeout.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w after %s", ErrQueueTimeout, p.queueTimeout)
	}
	return func() { p.sem.Release(1) }, nil
}
