package kit

import (
	"context"
	"errors"
	"sync"
)

// ErrNotConfigured is returned by the package-level accessor before
// Configure has installed a builder.
var ErrNotConfigured = errors.New("kit: not configured")

// Future is a shared, write-once promise of the composed kit. All callers
// awaiting it observe the same result, success or failure.
type Future struct {
	done chan struct{}
	kit  *ComposedKit
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func completedFuture(kit *ComposedKit, err error) *Future {
	f := newFuture()
	f.complete(kit, err)
	return f
}

func (f *Future) complete(kit *ComposedKit, err error) {
	f.kit = kit
	f.err = err
	close(f.done)
}

// Await blocks until the kit is composed or the caller's context ends.
// Abandoning an await does not cancel the shared build.
func (f *Future) Await(ctx context.Context) (*ComposedKit, error) {
	select {
	case <-f.done:
		return f.kit, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done reports whether the build has finished.
func (f *Future) Done() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Cache memoizes one composition per process. The first call installs a
// pending future and starts the build; every later call returns the same
// future. There is no invalidation.
type Cache struct {
	mu      sync.Mutex
	builder *Builder
	future  *Future
}

// NewCache creates a cache around a builder.
func NewCache(builder *Builder) *Cache {
	return &Cache{builder: builder}
}

// Composed returns the shared kit future, starting the build on first call.
// The build runs detached from any caller's context: callers may abandon
// their await without affecting the shared result.
func (c *Cache) Composed() *Future {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.future != nil {
		return c.future
	}

	f := newFuture()
	c.future = f
	go func() {
		kit, err := c.builder.Build(context.Background())
		f.complete(kit, err)
	}()
	return f
}

// Package-level default cache. Configure installs the builder; Composed is
// the parameterless accessor.
var (
	defaultMu    sync.Mutex
	defaultCache *Cache
)

// Configure installs the process-wide builder. It must be called before
// the first Composed call; once the kit has been requested, further
// configuration is rejected.
func Configure(builder *Builder) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultCache != nil && defaultCache.started() {
		return errors.New("kit: already composed, configuration is fixed for the process lifetime")
	}
	defaultCache = NewCache(builder)
	return nil
}

// Composed returns the process-wide kit future. Calling it before
// Configure yields a future failed with ErrNotConfigured.
func Composed() *Future {
	defaultMu.Lock()
	cache := defaultCache
	defaultMu.Unlock()

	if cache == nil {
		return completedFuture(nil, ErrNotConfigured)
	}
	return cache.Composed()
}

func (c *Cache) started() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.future != nil
}
