package bundle

import (
	"context"
	"io"
	"log/slog"

	"github.com/quillkit-dev/quillkit-host-sdk/extension"
)

// MockResolver implements ResolutionStrategy for testing
type MockResolver struct {
	BaseResolver
	FoundBundle *Bundle
	Err         error
	Called      bool
}

func (m *MockResolver) Resolve(ctx context.Context, ref extension.FactoryReference) (*Bundle, error) {
	m.Called = true
	if m.Err != nil {
		return nil, m.Err
	}
	if m.FoundBundle != nil {
		return m.FoundBundle, nil
	}
	return m.ResolveNext(ctx, ref)
}

func (m *MockResolver) SetNext(next ResolutionStrategy) {
	m.BaseResolver.SetNext(next)
}

// MockRepository implements Repository
type MockRepository struct {
	FindBundle *Bundle
	FindPath   string
	FindErr    error

	StorePath string
	StoreErr  error

	ListBundles []*Bundle
	ListErr     error

	VersionList []string
	VersionsErr error
}

func (m *MockRepository) Find(ctx context.Context, ref extension.FactoryReference) (*Bundle, string, error) {
	if m.FindErr != nil {
		return nil, "", m.FindErr
	}
	return m.FindBundle, m.FindPath, nil
}

func (m *MockRepository) Store(ctx context.Context, b *Bundle, wasm io.Reader) (string, error) {
	if m.StoreErr != nil {
		return "", m.StoreErr
	}
	return m.StorePath, nil
}

func (m *MockRepository) List(ctx context.Context) ([]*Bundle, error) {
	return m.ListBundles, m.ListErr
}

func (m *MockRepository) Versions(ctx context.Context, name string) ([]string, error) {
	return m.VersionList, m.VersionsErr
}

func (m *MockRepository) Prune(ctx context.Context, keep int) error {
	return nil
}

func (m *MockRepository) Delete(ctx context.Context, ref extension.FactoryReference) error {
	return nil
}

// MockRegistry implements Registry
type MockRegistry struct {
	PullArtifact *Artifact
	PullErr      error
	PushErr      error

	ResolveDigest Digest
	ResolveErr    error
}

func (m *MockRegistry) Pull(ctx context.Context, ref extension.FactoryReference) (*Artifact, error) {
	if m.PullErr != nil {
		return nil, m.PullErr
	}
	return m.PullArtifact, nil
}

func (m *MockRegistry) Push(ctx context.Context, artifact *Artifact) error {
	return m.PushErr
}

func (m *MockRegistry) Resolve(ctx context.Context, ref extension.FactoryReference) (Digest, error) {
	if m.ResolveErr != nil {
		return Digest{}, m.ResolveErr
	}
	if m.ResolveDigest.Value() != "" {
		return m.ResolveDigest, nil
	}
	d, _ := NewDigest("sha256", "mockdigest")
	return d, nil
}

// MockVerifier implements IntegrityVerifier
type MockVerifier struct {
	VerifyResult *SignatureResult
	VerifyErr    error
	SignErr      error
}

func (m *MockVerifier) VerifySignature(ctx context.Context, ref extension.FactoryReference) (*SignatureResult, error) {
	if m.VerifyErr != nil {
		return nil, m.VerifyErr
	}
	if m.VerifyResult == nil {
		return &SignatureResult{
			Signer: "canonical",
		}, nil
	}
	return m.VerifyResult, nil
}

func (m *MockVerifier) Sign(ctx context.Context, ref extension.FactoryReference) error {
	return m.SignErr
}

// MockLockfileRepo implements LockfileRepository
type MockLockfileRepo struct {
	Lockfile *Lockfile
	LoadErr  error
	SaveErr  error
	Saved    *Lockfile
}

func (m *MockLockfileRepo) Load(ctx context.Context, path string) (*Lockfile, error) {
	return m.Lockfile, m.LoadErr
}

func (m *MockLockfileRepo) Save(ctx context.Context, lockfile *Lockfile, path string) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saved = lockfile
	return nil
}

func (m *MockLockfileRepo) Exists(ctx context.Context, path string) (bool, error) {
	return m.Lockfile != nil, nil
}

// NewTestLogger returns a logger that discards all output.
func NewTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
