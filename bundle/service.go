package bundle

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/quillkit-dev/quillkit-host-sdk/extension"
)

// Service orchestrates bundle management use cases.
// Coordinates domain services and infrastructure adapters.
type Service struct {
	resolver          ResolutionStrategy
	repository        Repository
	registry          Registry
	integrityVerifier IntegrityVerifier
	integrityService  *IntegrityService
	logger            *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// NewService creates a bundle service with the given options.
// Repository and registry are required dependencies.
func NewService(repository Repository, registry Registry, opts ...ServiceOption) *Service {
	s := &Service{
		repository:       repository,
		registry:         registry,
		logger:           slog.Default(),
		integrityService: NewIntegrityService(false),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithResolver sets the bundle resolution strategy.
func WithResolver(r ResolutionStrategy) ServiceOption {
	return func(s *Service) { s.resolver = r }
}

// WithIntegrityVerifier sets the integrity verifier.
func WithIntegrityVerifier(iv IntegrityVerifier) ServiceOption {
	return func(s *Service) { s.integrityVerifier = iv }
}

// WithIntegrityService sets the integrity service.
func WithIntegrityService(is *IntegrityService) ServiceOption {
	return func(s *Service) { s.integrityService = is }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// LoadBundle is the main use case for loading an extension bundle.
// Returns the file path to the WASM binary.
// expectedDigest may be the zero value when no lockfile entry pins the bundle.
func (s *Service) LoadBundle(ctx context.Context, ref extension.FactoryReference, expectedDigest Digest) (string, error) {
	// Resolve bundle using the chain of responsibility
	b, err := s.resolver.Resolve(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("bundle resolution failed: %w", err)
	}

	// Verify digest if provided (lockfile enforcement)
	if expectedDigest.Value() != "" {
		if err := s.integrityService.VerifyDigest(b, expectedDigest); err != nil {
			return "", fmt.Errorf("integrity verification failed: %w", err)
		}
	}

	// Verify signature if required by policy
	if s.integrityService.ShouldVerifySignature() {
		result, err := s.integrityVerifier.VerifySignature(ctx, b.Reference())
		if err != nil {
			return "", fmt.Errorf("signature verification failed: %w", err)
		}
		s.logger.Info("bundle signature verified",
			"bundle", b.Reference().String(),
			"signer", result.Signer,
			"signed_at", result.SignedAt)
	}

	// Get WASM path from repository
	_, wasmPath, err := s.repository.Find(ctx, b.Reference())
	if err != nil {
		return "", fmt.Errorf("failed to locate bundle binary: %w", err)
	}

	return wasmPath, nil
}

// PublishBundle uploads a bundle to a registry.
func (s *Service) PublishBundle(ctx context.Context, b *Bundle, wasm io.Reader, shouldSign bool) error {
	artifact := NewArtifact(b, io.NopCloser(wasm))
	defer func() {
		if err := artifact.Close(); err != nil {
			s.logger.Warn("failed to close artifact", "ref", b.Reference().String(), "error", err)
		}
	}()

	if err := s.registry.Push(ctx, artifact); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}

	if shouldSign {
		if err := s.integrityVerifier.Sign(ctx, b.Reference()); err != nil {
			return fmt.Errorf("signing failed: %w", err)
		}
		s.logger.Info("bundle signed", "ref", b.Reference().String())
	}

	return nil
}

// ListCachedBundles returns all bundles in local cache.
func (s *Service) ListCachedBundles(ctx context.Context) ([]*Bundle, error) {
	return s.repository.List(ctx)
}

// PruneCache removes old bundle versions.
func (s *Service) PruneCache(ctx context.Context, keepVersions int) error {
	return s.repository.Prune(ctx, keepVersions)
}
