package resolvers

import (
	"context"
	"errors"
	"testing"

	"github.com/quillkit-dev/quillkit-host-sdk/bundle"
	"github.com/quillkit-dev/quillkit-host-sdk/extension"
)

func TestCachedBundleResolver(t *testing.T) {
	ref := extension.NewFactoryReference("reg", "org", "repo", "name", "1.0")
	b := bundle.NewBundle(ref, bundle.Digest{}, bundle.Metadata{})

	t.Run("ReturnsCachedBundle", func(t *testing.T) {
		repo := &bundle.MockRepository{FindBundle: b}
		resolver := NewCachedBundleResolver(repo, NewSemverResolver())

		got, err := resolver.Resolve(context.Background(), ref)
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if got != b {
			t.Error("expected cached bundle")
		}
	})

	t.Run("DelegatesOnCacheMiss", func(t *testing.T) {
		repo := &bundle.MockRepository{FindErr: errors.New("not found")}
		resolver := NewCachedBundleResolver(repo, NewSemverResolver())
		next := &bundle.MockResolver{Err: errors.New("delegated")}
		resolver.SetNext(next)

		_, err := resolver.Resolve(context.Background(), ref)
		if err == nil || err.Error() != "delegated" {
			t.Errorf("expected delegation error, got %v", err)
		}
	})

	t.Run("PinsConstrainedReference", func(t *testing.T) {
		constrained, err := extension.ParseFactoryReference("name@^1.0")
		if err != nil {
			t.Fatalf("parse reference: %v", err)
		}
		pinned := bundle.NewBundle(constrained.WithVersion("1.2.0"), bundle.Digest{}, bundle.Metadata{})
		repo := &bundle.MockRepository{
			FindBundle:  pinned,
			VersionList: []string{"1.0.0", "1.2.0", "2.0.0"},
		}
		resolver := NewCachedBundleResolver(repo, NewSemverResolver())

		got, err := resolver.Resolve(context.Background(), constrained)
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if got != pinned {
			t.Error("expected pinned cached bundle")
		}
	})

	t.Run("DelegatesWhenNoVersionSatisfies", func(t *testing.T) {
		constrained, err := extension.ParseFactoryReference("name@^3.0")
		if err != nil {
			t.Fatalf("parse reference: %v", err)
		}
		repo := &bundle.MockRepository{VersionList: []string{"1.0.0", "2.0.0"}}
		resolver := NewCachedBundleResolver(repo, NewSemverResolver())
		next := &bundle.MockResolver{Err: errors.New("delegated")}
		resolver.SetNext(next)

		_, err = resolver.Resolve(context.Background(), constrained)
		if err == nil || err.Error() != "delegated" {
			t.Errorf("expected delegation error, got %v", err)
		}
	})
}

func TestRegistryBundleResolver(t *testing.T) {
	logger := bundle.NewTestLogger()
	ref := extension.NewFactoryReference("reg", "org", "repo", "name", "1.0")
	b := bundle.NewBundle(ref, bundle.Digest{}, bundle.Metadata{})
	artifact := bundle.NewArtifact(b, nil)

	t.Run("PullAndCacheSuccess", func(t *testing.T) {
		registry := &bundle.MockRegistry{PullArtifact: artifact}
		repo := &bundle.MockRepository{}
		resolver := NewRegistryBundleResolver(registry, repo, logger)

		got, err := resolver.Resolve(context.Background(), ref)
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if got != b {
			t.Error("expected pulled bundle")
		}
	})

	t.Run("PullFailure", func(t *testing.T) {
		registry := &bundle.MockRegistry{PullErr: errors.New("network error")}
		repo := &bundle.MockRepository{}
		resolver := NewRegistryBundleResolver(registry, repo, logger)

		_, err := resolver.Resolve(context.Background(), ref)
		if err == nil {
			t.Error("expected pull error")
		}
	})

	t.Run("CacheStorageFailure", func(t *testing.T) {
		registry := &bundle.MockRegistry{PullArtifact: artifact}
		repo := &bundle.MockRepository{StoreErr: errors.New("disk full")}
		resolver := NewRegistryBundleResolver(registry, repo, logger)

		_, err := resolver.Resolve(context.Background(), ref)
		if err == nil {
			t.Error("expected cache storage error")
		}
	})
}
