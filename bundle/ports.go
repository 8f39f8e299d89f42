package bundle

import (
	"context"
	"io"
	"time"

	"github.com/quillkit-dev/quillkit-host-sdk/extension"
)

// Repository manages persistent storage of cached bundles.
type Repository interface {
	// Find retrieves a cached bundle by reference.
	// Returns the bundle, the path to its WASM binary, and an error.
	Find(ctx context.Context, ref extension.FactoryReference) (*Bundle, string, error)

	// Store persists a bundle with its WASM binary.
	// Returns the path to the stored WASM file.
	Store(ctx context.Context, b *Bundle, wasm io.Reader) (string, error)

	// List returns all cached bundles.
	List(ctx context.Context) ([]*Bundle, error)

	// Versions returns the cached versions of a bundle name.
	Versions(ctx context.Context, name string) ([]string, error)

	// Prune removes old versions, keeping only the specified number.
	Prune(ctx context.Context, keepVersions int) error

	// Delete removes a specific bundle from cache.
	Delete(ctx context.Context, ref extension.FactoryReference) error
}

// Registry provides access to remote OCI registries holding bundles.
type Registry interface {
	// Pull downloads a bundle artifact from the registry.
	Pull(ctx context.Context, ref extension.FactoryReference) (*Artifact, error)

	// Push uploads a bundle artifact to the registry.
	Push(ctx context.Context, artifact *Artifact) error

	// Resolve resolves a reference to its content digest.
	Resolve(ctx context.Context, ref extension.FactoryReference) (Digest, error)
}

// IntegrityVerifier verifies cryptographic signatures on bundle artifacts.
type IntegrityVerifier interface {
	// VerifySignature checks the signature of a bundle in the registry.
	VerifySignature(ctx context.Context, ref extension.FactoryReference) (*SignatureResult, error)

	// Sign signs a bundle artifact (for publishing).
	Sign(ctx context.Context, ref extension.FactoryReference) error
}

// SignatureResult contains signature verification details.
type SignatureResult struct {
	SignedAt        time.Time
	Signer          string
	TransparencyLog string
	Certificate     []byte
	Verified        bool
}

// VersionResolver converts version constraints to exact versions.
type VersionResolver interface {
	Resolve(constraint string, available []string) (string, error)
}

// LockfileRepository manages lockfile persistence.
type LockfileRepository interface {
	Load(ctx context.Context, path string) (*Lockfile, error)
	Save(ctx context.Context, lockfile *Lockfile, path string) error
	Exists(ctx context.Context, path string) (bool, error)
}

// AuthProvider retrieves authentication credentials for registries.
type AuthProvider interface {
	// GetCredentials returns (username, password, error).
	GetCredentials(ctx context.Context, registry string) (string, string, error)
}
