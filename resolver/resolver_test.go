package resolver

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/quillkit-dev/quillkit-host-sdk/extension"
)

func staticFactory(name string) extension.Factory {
	return func(ctx context.Context, bctx extension.BuildContext) (*extension.Extension, error) {
		return extension.New(name, nil), nil
	}
}

func TestLocalStrategy(t *testing.T) {
	t.Run("ResolvesRegisteredFactory", func(t *testing.T) {
		s := NewLocalStrategy()
		if err := s.Register("drawboard", staticFactory("drawboard")); err != nil {
			t.Fatalf("Register failed: %v", err)
		}

		ref, _ := extension.ParseFactoryReference("drawboard")
		factory, err := s.Resolve(context.Background(), ref)
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}

		ext, err := factory(context.Background(), extension.BuildContext{})
		if err != nil || ext.Name() != "drawboard" {
			t.Errorf("unexpected factory result: %v, %v", ext, err)
		}
	})

	t.Run("RejectsDuplicateRegistration", func(t *testing.T) {
		s := NewLocalStrategy()
		if err := s.Register("drawboard", staticFactory("drawboard")); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if err := s.Register("drawboard", staticFactory("drawboard")); err == nil {
			t.Error("expected duplicate registration error")
		}
	})

	t.Run("RejectsNilFactory", func(t *testing.T) {
		s := NewLocalStrategy()
		if err := s.Register("drawboard", nil); err == nil {
			t.Error("expected nil factory error")
		}
	})

	t.Run("DelegatesUnknownName", func(t *testing.T) {
		s := NewLocalStrategy()
		ref, _ := extension.ParseFactoryReference("missing")

		_, err := s.Resolve(context.Background(), ref)
		var notFound *extension.FactoryNotFoundError
		if !errors.As(err, &notFound) {
			t.Errorf("expected FactoryNotFoundError at chain end, got %v", err)
		}
	})

	t.Run("DelegatesRemoteReference", func(t *testing.T) {
		s := NewLocalStrategy()
		next := &stubStrategy{factory: staticFactory("remote")}
		s.SetNext(next)

		ref, _ := extension.ParseFactoryReference("ghcr.io/quillkit/editor-extensions/remote:1.0.0")
		_, err := s.Resolve(context.Background(), ref)
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if !next.called {
			t.Error("expected delegation to next strategy")
		}
	})
}

func TestChain(t *testing.T) {
	first := NewLocalStrategy()
	second := &stubStrategy{factory: staticFactory("fallback")}

	head := Chain(first, second)
	if head != Strategy(first) {
		t.Fatal("Chain should return the first strategy")
	}

	ref, _ := extension.ParseFactoryReference("anything")
	if _, err := head.Resolve(context.Background(), ref); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !second.called {
		t.Error("expected fallthrough to second strategy")
	}
}

func TestResolveAll(t *testing.T) {
	t.Run("PreservesRequestOrder", func(t *testing.T) {
		s := NewLocalStrategy()
		for _, name := range []string{"alpha", "beta", "gamma"} {
			if err := s.Register(name, staticFactory(name)); err != nil {
				t.Fatalf("Register failed: %v", err)
			}
		}

		requests := []Request{
			{Reference: mustRef(t, "gamma"), Priority: 300},
			{Reference: mustRef(t, "alpha"), Priority: 100},
			{Reference: mustRef(t, "beta"), Priority: 200},
		}

		results, err := ResolveAll(context.Background(), s, requests)
		if err != nil {
			t.Fatalf("ResolveAll failed: %v", err)
		}
		if len(results) != 3 {
			t.Fatalf("expected 3 results, got %d", len(results))
		}
		for i, want := range []string{"gamma", "alpha", "beta"} {
			if results[i].Reference.Name() != want {
				t.Errorf("result %d: expected %s, got %s", i, want, results[i].Reference.Name())
			}
			if results[i].Priority != requests[i].Priority {
				t.Errorf("result %d: priority not carried through", i)
			}
		}
	})

	t.Run("FailsFastOnAnyError", func(t *testing.T) {
		s := NewLocalStrategy()
		if err := s.Register("alpha", staticFactory("alpha")); err != nil {
			t.Fatalf("Register failed: %v", err)
		}

		requests := []Request{
			{Reference: mustRef(t, "alpha")},
			{Reference: mustRef(t, "missing")},
		}

		_, err := ResolveAll(context.Background(), s, requests)
		if err == nil {
			t.Fatal("expected resolution failure")
		}
		var notFound *extension.FactoryNotFoundError
		if !errors.As(err, &notFound) {
			t.Errorf("expected FactoryNotFoundError, got %v", err)
		}
	})

	t.Run("EmptyRequests", func(t *testing.T) {
		results, err := ResolveAll(context.Background(), NewLocalStrategy(), nil)
		if err != nil || results != nil {
			t.Errorf("expected nil results, got %v, %v", results, err)
		}
	})

	t.Run("ResolvesConcurrently", func(t *testing.T) {
		// Both resolutions must be in flight at once before either may
		// finish; serial resolution would never release the barrier.
		var entered atomic.Int32
		release := make(chan struct{})
		s := &stubStrategy{resolve: func(ctx context.Context, ref extension.FactoryReference) (extension.Factory, error) {
			if entered.Add(1) == 2 {
				close(release)
			}
			<-release
			return staticFactory(ref.Name()), nil
		}}

		requests := []Request{
			{Reference: mustRef(t, "alpha")},
			{Reference: mustRef(t, "beta")},
		}

		if _, err := ResolveAll(context.Background(), s, requests); err != nil {
			t.Fatalf("ResolveAll failed: %v", err)
		}
	})
}

func mustRef(t *testing.T, s string) extension.FactoryReference {
	t.Helper()
	ref, err := extension.ParseFactoryReference(s)
	if err != nil {
		t.Fatalf("parse reference %q: %v", s, err)
	}
	return ref
}

type stubStrategy struct {
	BaseStrategy
	factory extension.Factory
	resolve func(ctx context.Context, ref extension.FactoryReference) (extension.Factory, error)
	called  bool
}

func (s *stubStrategy) Resolve(ctx context.Context, ref extension.FactoryReference) (extension.Factory, error) {
	s.called = true
	if s.resolve != nil {
		return s.resolve(ctx, ref)
	}
	if s.factory != nil {
		return s.factory, nil
	}
	return s.ResolveNext(ctx, ref)
}
