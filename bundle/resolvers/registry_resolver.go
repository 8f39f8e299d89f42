package resolvers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quillkit-dev/quillkit-host-sdk/bundle"
	"github.com/quillkit-dev/quillkit-host-sdk/extension"
)

// RegistryBundleResolver pulls bundles from OCI registries.
type RegistryBundleResolver struct {
	bundle.BaseResolver
	registry   bundle.Registry
	repository bundle.Repository
	logger     *slog.Logger
}

// NewRegistryBundleResolver creates a registry resolver.
func NewRegistryBundleResolver(
	registry bundle.Registry,
	repository bundle.Repository,
	logger *slog.Logger,
) *RegistryBundleResolver {
	return &RegistryBundleResolver{
		registry:   registry,
		repository: repository,
		logger:     logger,
	}
}

// Resolve pulls from the registry and caches.
func (r *RegistryBundleResolver) Resolve(ctx context.Context, ref extension.FactoryReference) (*bundle.Bundle, error) {
	r.logger.Info("pulling bundle from registry", "ref", ref.String())

	artifact, err := r.registry.Pull(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("registry pull failed: %w", err)
	}
	defer func() {
		if cerr := artifact.Close(); cerr != nil {
			r.logger.Warn("failed to close artifact", "ref", ref.String(), "error", cerr)
		}
	}()

	// Store in cache
	_, err = r.repository.Store(ctx, artifact.Bundle, artifact.WASM)
	if err != nil {
		return nil, fmt.Errorf("cache storage failed: %w", err)
	}

	r.logger.Info("bundle cached", "ref", ref.String())

	return artifact.Bundle, nil
}
