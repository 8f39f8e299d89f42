package kit_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/quillkit-dev/quillkit-host-sdk/extension"
	"github.com/quillkit-dev/quillkit-host-sdk/kit"
	"github.com/quillkit-dev/quillkit-host-sdk/registry"
	"github.com/quillkit-dev/quillkit-host-sdk/resolver"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// countingRegistry counts Descriptors calls to prove single-build behavior.
type countingRegistry struct {
	*registry.Registry
	queries atomic.Int32
	gate    chan struct{} // optional: holds the query open
}

func (c *countingRegistry) Descriptors(ctx context.Context) ([]registry.Entry, error) {
	c.queries.Add(1)
	if c.gate != nil {
		<-c.gate
	}
	return c.Registry.Descriptors(ctx)
}

func TestCache_SingleBuildUnderConcurrentCallers(t *testing.T) {
	reg := &countingRegistry{
		Registry: registry.NewRegistry(registry.WithLogger(testLogger())),
		gate:     make(chan struct{}),
	}
	builder := kit.NewBuilder(reg, resolver.NewLocalStrategy(), nil, kit.WithLogger(testLogger()))
	cache := kit.NewCache(builder)

	const callers = 16
	results := make([]*kit.ComposedKit, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = cache.Composed().Await(context.Background())
		}(i)
	}

	// Let every caller queue up against the pending future, then release
	// the registry query.
	time.Sleep(10 * time.Millisecond)
	close(reg.gate)
	wg.Wait()

	if n := reg.queries.Load(); n != 1 {
		t.Errorf("expected exactly one registry query, got %d", n)
	}
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d failed: %v", i, errs[i])
		}
		if results[i] != results[0] {
			t.Errorf("caller %d received a different kit instance", i)
		}
	}
}

func TestCache_FailureSharedByAllCallers(t *testing.T) {
	reg := registry.NewRegistry(registry.WithLogger(testLogger()))
	ref, _ := extension.ParseFactoryReference("ghost")
	if err := reg.Register(150, ref); err != nil {
		t.Fatalf("register: %v", err)
	}

	// No local factory for "ghost": the build fails.
	builder := kit.NewBuilder(reg, resolver.NewLocalStrategy(), nil, kit.WithLogger(testLogger()))
	cache := kit.NewCache(builder)

	first := cache.Composed()
	_, err1 := first.Await(context.Background())
	if err1 == nil {
		t.Fatal("expected build failure")
	}

	// Later callers observe the same failure; no rebuild happens.
	second := cache.Composed()
	if second != first {
		t.Error("expected the same shared future")
	}
	_, err2 := second.Await(context.Background())
	if !errors.Is(err2, err1) && err2.Error() != err1.Error() {
		t.Errorf("expected identical failure, got %v vs %v", err1, err2)
	}
}

func TestCache_AbandonedAwaitDoesNotCancelBuild(t *testing.T) {
	reg := &countingRegistry{
		Registry: registry.NewRegistry(registry.WithLogger(testLogger())),
		gate:     make(chan struct{}),
	}
	builder := kit.NewBuilder(reg, resolver.NewLocalStrategy(), nil, kit.WithLogger(testLogger()))
	cache := kit.NewCache(builder)

	ctx, cancel := context.WithCancel(context.Background())
	future := cache.Composed()
	cancel()

	if _, err := future.Await(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}

	// The shared build keeps going and completes for a patient caller.
	close(reg.gate)
	composed, err := future.Await(context.Background())
	if err != nil {
		t.Fatalf("Await failed: %v", err)
	}
	if composed.Len() == 0 {
		t.Error("expected composed kit")
	}
}

func TestFuture_Done(t *testing.T) {
	reg := registry.NewRegistry(registry.WithLogger(testLogger()))
	builder := kit.NewBuilder(reg, resolver.NewLocalStrategy(), nil, kit.WithLogger(testLogger()))
	cache := kit.NewCache(builder)

	future := cache.Composed()
	if _, err := future.Await(context.Background()); err != nil {
		t.Fatalf("Await failed: %v", err)
	}
	if !future.Done() {
		t.Error("future should report done after completion")
	}
}

func TestComposed_Unconfigured(t *testing.T) {
	// The package-level accessor without Configure yields a failed future
	// rather than hanging.
	_, err := kit.Composed().Await(context.Background())
	if !errors.Is(err, kit.ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}
