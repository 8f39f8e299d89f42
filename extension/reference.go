package extension

import (
	"fmt"
	"strings"
)

// FactoryReference is the opaque, named pointer to a capability factory as
// registered by an external author. It must be resolved before use.
// Forms:
//   - name (in-process factory)
//   - name@constraint (cached bundle, semver constraint)
//   - registry.io/org/repo/name:version (remote bundle)
type FactoryReference struct {
	registry   string // ghcr.io
	org        string // quillkit
	repo       string // editor-extensions
	name       string // drawboard
	version    string // 1.0.2 (exact, remote form)
	constraint string // ^1.0 (bundle form)
}

// NewFactoryReference creates a remote reference from components.
func NewFactoryReference(registry, org, repo, name, version string) FactoryReference {
	return FactoryReference{
		registry: registry,
		org:      org,
		repo:     repo,
		name:     name,
		version:  version,
	}
}

// ParseFactoryReference parses a factory reference string.
// Examples:
//   - drawboard (in-process)
//   - drawboard@^1.2 (cached bundle)
//   - ghcr.io/quillkit/editor-extensions/drawboard:1.0.2 (remote bundle)
func ParseFactoryReference(ref string) (FactoryReference, error) {
	// Version-constrained bundle (name@constraint)
	if !strings.Contains(ref, "/") && strings.Contains(ref, "@") {
		parts := strings.SplitN(ref, "@", 2)
		if parts[0] == "" || parts[1] == "" {
			return FactoryReference{}, fmt.Errorf("invalid constrained reference: %s", ref)
		}
		if _, err := NewName(parts[0]); err != nil {
			return FactoryReference{}, err
		}
		return FactoryReference{name: parts[0], constraint: parts[1]}, nil
	}

	// In-process factory (simple name)
	if !strings.Contains(ref, "/") && !strings.Contains(ref, ":") {
		if _, err := NewName(ref); err != nil {
			return FactoryReference{}, err
		}
		return FactoryReference{name: ref}, nil
	}

	// OCI reference: registry.io/org/repo/name:version
	parts := strings.Split(ref, "/")
	if len(parts) < 4 {
		return FactoryReference{}, fmt.Errorf("invalid OCI reference: %s", ref)
	}

	nameVersion := strings.Split(parts[len(parts)-1], ":")
	if len(nameVersion) != 2 {
		return FactoryReference{}, fmt.Errorf("missing version tag: %s", ref)
	}

	return FactoryReference{
		registry: parts[0],
		org:      parts[1],
		repo:     parts[2],
		name:     nameVersion[0],
		version:  nameVersion[1],
	}, nil
}

// String returns the canonical reference string.
func (r FactoryReference) String() string {
	if r.constraint != "" {
		return fmt.Sprintf("%s@%s", r.name, r.constraint)
	}
	if r.IsLocal() {
		return r.name
	}
	return fmt.Sprintf("%s/%s/%s/%s:%s",
		r.registry, r.org, r.repo, r.name, r.version)
}

// IsLocal returns true if this names an in-process factory.
func (r FactoryReference) IsLocal() bool {
	return r.registry == "" && r.constraint == ""
}

// IsConstrained returns true if this is a version-constrained bundle
// reference that still needs version resolution.
func (r FactoryReference) IsConstrained() bool {
	return r.constraint != ""
}

// Name returns the factory name.
func (r FactoryReference) Name() string {
	return r.name
}

// Version returns the exact version tag, if any.
func (r FactoryReference) Version() string {
	return r.version
}

// Constraint returns the semver constraint, if any.
func (r FactoryReference) Constraint() string {
	return r.constraint
}

// Registry returns the registry hostname.
func (r FactoryReference) Registry() string {
	return r.registry
}

// WithVersion returns a copy of the reference pinned to an exact version.
func (r FactoryReference) WithVersion(version string) FactoryReference {
	pinned := r
	pinned.version = version
	pinned.constraint = ""
	return pinned
}

// Equals checks equality with another reference.
func (r FactoryReference) Equals(other FactoryReference) bool {
	return r.registry == other.registry &&
		r.org == other.org &&
		r.repo == other.repo &&
		r.name == other.name &&
		r.version == other.version &&
		r.constraint == other.constraint
}
