// Package resolvers implements the bundle resolution chain.
package resolvers

import (
	"context"

	"github.com/quillkit-dev/quillkit-host-sdk/bundle"
	"github.com/quillkit-dev/quillkit-host-sdk/extension"
)

// CachedBundleResolver checks the local cache for bundles. Constrained
// references are pinned against the cached version list before lookup.
type CachedBundleResolver struct {
	bundle.BaseResolver
	repository bundle.Repository
	versions   bundle.VersionResolver
}

// NewCachedBundleResolver creates a cached bundle resolver.
func NewCachedBundleResolver(repository bundle.Repository, versions bundle.VersionResolver) *CachedBundleResolver {
	return &CachedBundleResolver{
		repository: repository,
		versions:   versions,
	}
}

// Resolve checks cache, otherwise delegates to next.
func (r *CachedBundleResolver) Resolve(ctx context.Context, ref extension.FactoryReference) (*bundle.Bundle, error) {
	lookup := ref
	if ref.IsConstrained() {
		available, err := r.repository.Versions(ctx, ref.Name())
		if err != nil || len(available) == 0 {
			return r.ResolveNext(ctx, ref)
		}
		pinned, err := r.versions.Resolve(ref.Constraint(), available)
		if err != nil {
			// No cached version satisfies the constraint
			return r.ResolveNext(ctx, ref)
		}
		lookup = ref.WithVersion(pinned)
	}

	b, _, err := r.repository.Find(ctx, lookup)
	if err == nil {
		return b, nil // Found in cache
	}

	// Not in cache, try next resolver
	return r.ResolveNext(ctx, ref)
}
