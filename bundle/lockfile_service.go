package bundle

import (
	"context"
	"fmt"
	"time"

	"github.com/quillkit-dev/quillkit-host-sdk/extension"
)

// LockfileService orchestrates bundle version resolution and locking.
type LockfileService struct {
	repo     LockfileRepository
	versions VersionResolver
	registry Registry
}

// NewLockfileService creates a new LockfileService.
func NewLockfileService(repo LockfileRepository, versions VersionResolver, registry Registry) *LockfileService {
	return &LockfileService{
		repo:     repo,
		versions: versions,
		registry: registry,
	}
}

// ResolveBundles resolves bundle declarations using the lockfile if available,
// or falls back to resolving constraints and updating the lockfile.
// declarations is a list of reference strings (e.g. "drawboard@^1.2",
// "ghcr.io/quillkit/editor-extensions/drawboard:1.0.2").
func (s *LockfileService) ResolveBundles(ctx context.Context, declarations []string, lockfilePath string) (*Lockfile, error) {
	// 1. Load existing lockfile
	lock, err := s.repo.Load(ctx, lockfilePath)
	if err != nil {
		return nil, fmt.Errorf("loading lockfile: %w", err)
	}

	if lock == nil {
		lock = NewLockfile()
	}

	// 2. Resolve each declaration
	updated := false
	for _, decl := range declarations {
		ref, err := extension.ParseFactoryReference(decl)
		if err != nil {
			return nil, fmt.Errorf("parsing bundle declaration %q: %w", decl, err)
		}
		if ref.IsLocal() {
			// In-process factories carry no version to lock.
			continue
		}

		constraint := ref.Constraint()
		if constraint == "" {
			constraint = ref.Version()
		}

		// Check if locked
		locked := lock.GetBundle(ref.Name())
		if locked != nil && locked.Requested == constraint {
			continue // Already satisfied
		}

		resolved, digest, err := s.resolveDeclaration(ctx, ref, constraint)
		if err != nil {
			return nil, fmt.Errorf("resolving bundle %q: %w", ref.Name(), err)
		}

		updated = true
		newLock := Lock{
			Requested: constraint,
			Resolved:  resolved,
			Source:    ref.Registry(),
			Digest:    digest,
			Fetched:   time.Now().UTC(),
		}

		if err := lock.AddBundle(ref.Name(), newLock); err != nil {
			return nil, err
		}
	}

	// 3. Save if updated
	if updated {
		lock.Generated = time.Now().UTC()
		if err := s.repo.Save(ctx, lock, lockfilePath); err != nil {
			return nil, fmt.Errorf("saving lockfile: %w", err)
		}
	}

	return lock, nil
}

// resolveDeclaration pins a constraint to an exact version and fetches its
// content digest from the registry.
func (s *LockfileService) resolveDeclaration(ctx context.Context, ref extension.FactoryReference, constraint string) (string, string, error) {
	resolved := ref.Version()
	if ref.IsConstrained() {
		// Constrained declarations need the registry's tag list; until the
		// registry exposes tag listing, an exact-looking constraint pins
		// itself and ranges resolve against it alone.
		v, err := s.versions.Resolve(constraint, []string{constraint})
		if err != nil {
			return "", "", err
		}
		resolved = v
	}

	pinned := ref.WithVersion(resolved)
	digest, err := s.registry.Resolve(ctx, pinned)
	if err != nil {
		return "", "", fmt.Errorf("fetching digest: %w", err)
	}

	return resolved, digest.String(), nil
}
