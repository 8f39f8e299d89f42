package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quillkit-dev/quillkit-host-sdk/bundle"
	"github.com/quillkit-dev/quillkit-host-sdk/extension"
)

// BundleLoader instantiates a capability factory from a WASM binary on disk.
// Implemented by the host executor.
type BundleLoader interface {
	Load(ctx context.Context, wasmPath string) (extension.Factory, error)
}

// BundleStrategy resolves references to WASM bundles through the bundle
// service, then instantiates them with a BundleLoader.
type BundleStrategy struct {
	BaseStrategy

	service  *bundle.Service
	loader   BundleLoader
	lockfile *bundle.Lockfile
	logger   *slog.Logger
}

// BundleStrategyOption configures a BundleStrategy.
type BundleStrategyOption func(*BundleStrategy)

// WithLockfile pins bundle digests from a lockfile during resolution.
func WithLockfile(lockfile *bundle.Lockfile) BundleStrategyOption {
	return func(s *BundleStrategy) { s.lockfile = lockfile }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) BundleStrategyOption {
	return func(s *BundleStrategy) { s.logger = logger }
}

// NewBundleStrategy creates a bundle-backed resolution strategy.
func NewBundleStrategy(service *bundle.Service, loader BundleLoader, opts ...BundleStrategyOption) *BundleStrategy {
	s := &BundleStrategy{
		service: service,
		loader:  loader,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve loads the referenced bundle and instantiates its factory.
func (s *BundleStrategy) Resolve(ctx context.Context, ref extension.FactoryReference) (extension.Factory, error) {
	if ref.IsLocal() {
		return s.ResolveNext(ctx, ref)
	}

	wasmPath, err := s.service.LoadBundle(ctx, ref, s.pinnedDigest(ref))
	if err != nil {
		return nil, fmt.Errorf("loading bundle %q: %w", ref.String(), err)
	}

	s.logger.Debug("bundle resolved", "ref", ref.String(), "path", wasmPath)

	factory, err := s.loader.Load(ctx, wasmPath)
	if err != nil {
		return nil, fmt.Errorf("instantiating bundle %q: %w", ref.String(), err)
	}
	return factory, nil
}

func (s *BundleStrategy) pinnedDigest(ref extension.FactoryReference) bundle.Digest {
	if s.lockfile == nil {
		return bundle.Digest{}
	}
	entry := s.lockfile.GetBundle(ref.Name())
	if entry == nil {
		return bundle.Digest{}
	}
	digest, err := bundle.ParseDigest(entry.Digest)
	if err != nil {
		return bundle.Digest{}
	}
	return digest
}
