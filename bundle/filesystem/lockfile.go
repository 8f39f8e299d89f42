package filesystem

import (
	"time"

	"github.com/quillkit-dev/quillkit-host-sdk/bundle"
)

// Lockfile represents the YAML structure of a lockfile.
type Lockfile struct {
	Generated time.Time             `yaml:"generated"`
	Bundles   map[string]BundleLock `yaml:"bundles"`
	Version   int                   `yaml:"lockfile_version"`
}

// BundleLock represents a pinned bundle version in YAML.
type BundleLock struct {
	Fetched   time.Time `yaml:"fetched,omitempty"`
	Modified  time.Time `yaml:"modified,omitempty"`
	Requested string    `yaml:"requested"`
	Resolved  string    `yaml:"resolved"`
	Source    string    `yaml:"source"`
	Digest    string    `yaml:"sha256"`
}

// ToEntity converts the lockfile to a domain entity.
func (l *Lockfile) ToEntity() *bundle.Lockfile {
	entity := &bundle.Lockfile{
		Generated: l.Generated,
		Version:   l.Version,
		Bundles:   make(map[string]bundle.Lock, len(l.Bundles)),
	}

	for name, lock := range l.Bundles {
		entity.Bundles[name] = bundle.Lock{
			Fetched:   lock.Fetched,
			Modified:  lock.Modified,
			Requested: lock.Requested,
			Resolved:  lock.Resolved,
			Source:    lock.Source,
			Digest:    lock.Digest,
		}
	}

	return entity
}

// FromEntity converts a domain lockfile to YAML representation.
func FromEntity(entity *bundle.Lockfile) *Lockfile {
	if entity == nil {
		return nil
	}

	l := &Lockfile{
		Generated: entity.Generated,
		Version:   entity.Version,
		Bundles:   make(map[string]BundleLock, len(entity.Bundles)),
	}

	for name, lock := range entity.Bundles {
		l.Bundles[name] = BundleLock{
			Fetched:   lock.Fetched,
			Modified:  lock.Modified,
			Requested: lock.Requested,
			Resolved:  lock.Resolved,
			Source:    lock.Source,
			Digest:    lock.Digest,
		}
	}

	return l
}
