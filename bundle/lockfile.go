package bundle

import (
	"fmt"
	"time"
)

// Lockfile is an aggregate root for reproducible bundle resolution.
// It guarantees that bundle versions are pinned for consistent kits.
//
// Invariants:
// - Each bundle entry must have a digest
// - Generated timestamp must be set when entries exist
type Lockfile struct {
	Generated time.Time
	Bundles   map[string]Lock
	Version   int
}

// Lock is a value object representing a pinned bundle version.
// Immutable after creation.
type Lock struct {
	Fetched   time.Time
	Modified  time.Time
	Requested string
	Resolved  string
	Source    string
	Digest    string
}

// NewLockfile creates a new lockfile with the current version.
func NewLockfile() *Lockfile {
	return &Lockfile{
		Version:   1,
		Generated: time.Now().UTC(),
		Bundles:   make(map[string]Lock),
	}
}

// AddBundle adds a bundle lock entry.
// Returns error if digest is empty (invariant enforcement).
func (l *Lockfile) AddBundle(name string, lock Lock) error {
	if lock.Digest == "" {
		return fmt.Errorf("bundle %q: digest is required", name)
	}
	if l.Bundles == nil {
		l.Bundles = make(map[string]Lock)
	}
	l.Bundles[name] = lock
	return nil
}

// GetBundle retrieves a bundle lock entry by name.
// Returns nil if not found.
func (l *Lockfile) GetBundle(name string) *Lock {
	if l.Bundles == nil {
		return nil
	}
	if lock, ok := l.Bundles[name]; ok {
		return &lock
	}
	return nil
}

// BundleCount returns the number of locked bundles.
func (l *Lockfile) BundleCount() int {
	return len(l.Bundles)
}

// Validate checks lockfile invariants.
func (l *Lockfile) Validate() error {
	if l.BundleCount() > 0 && l.Generated.IsZero() {
		return fmt.Errorf("lockfile with entries must have a generated timestamp")
	}
	for name, lock := range l.Bundles {
		if lock.Digest == "" {
			return fmt.Errorf("bundle %q: digest is required", name)
		}
	}
	return nil
}
