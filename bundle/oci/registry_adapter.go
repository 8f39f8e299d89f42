// Package oci implements OCI registry adapters.
package oci

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/content/memory"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"

	"github.com/quillkit-dev/quillkit-host-sdk/bundle"
	"github.com/quillkit-dev/quillkit-host-sdk/extension"
)

// WASMLayerMediaType identifies the extension binary layer in a bundle
// artifact manifest.
const WASMLayerMediaType = "application/vnd.quillkit.extension.wasm.v1"

// OCIRegistryAdapter implements bundle.Registry using oras-go.
type OCIRegistryAdapter struct {
	auth bundle.AuthProvider
}

// NewOCIRegistryAdapter creates an OCI registry adapter.
func NewOCIRegistryAdapter(auth bundle.AuthProvider) *OCIRegistryAdapter {
	return &OCIRegistryAdapter{
		auth: auth,
	}
}

// Pull downloads a bundle from an OCI registry.
func (a *OCIRegistryAdapter) Pull(ctx context.Context, ref extension.FactoryReference) (*bundle.Artifact, error) {
	repo, err := a.repository(ctx, ref)
	if err != nil {
		return nil, err
	}

	// Pull manifest and layers
	memoryStore := memory.New()
	manifestDesc, err := oras.Copy(ctx, repo, ref.Version(), memoryStore, ref.Version(), oras.CopyOptions{})
	if err != nil {
		return nil, fmt.Errorf("pull artifact: %w", err)
	}

	manifestRC, err := memoryStore.Fetch(ctx, manifestDesc)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", err)
	}
	defer func() {
		_ = manifestRC.Close()
	}()

	manifestBytes, err := io.ReadAll(manifestRC)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	manifest, err := a.parseManifest(manifestBytes)
	if err != nil {
		return nil, err
	}

	// Extract metadata from config layer
	configRC, err := memoryStore.Fetch(ctx, manifest.Config)
	if err != nil {
		return nil, fmt.Errorf("fetch config: %w", err)
	}
	defer func() {
		_ = configRC.Close()
	}()

	configBytes, err := io.ReadAll(configRC)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	metadata, err := a.parseMetadata(configBytes)
	if err != nil {
		return nil, err
	}

	wasmDesc, err := a.findWASMLayer(manifest)
	if err != nil {
		return nil, err
	}

	wasmRC, err := memoryStore.Fetch(ctx, wasmDesc)
	if err != nil {
		return nil, fmt.Errorf("fetch wasm: %w", err)
	}
	defer func() {
		_ = wasmRC.Close()
	}()

	wasmBytes, err := io.ReadAll(wasmRC)
	if err != nil {
		return nil, fmt.Errorf("read wasm: %w", err)
	}

	digest, _ := bundle.ParseDigest(string(wasmDesc.Digest))
	b := bundle.NewBundle(ref, digest, metadata)

	artifact := bundle.NewArtifact(b, io.NopCloser(bytes.NewReader(wasmBytes)))

	return artifact, nil
}

// Push uploads a bundle to an OCI registry.
func (a *OCIRegistryAdapter) Push(ctx context.Context, artifact *bundle.Artifact) error {
	ref := artifact.Bundle.Reference()
	repo, err := a.repository(ctx, ref)
	if err != nil {
		return err
	}

	wasmBytes, err := io.ReadAll(artifact.WASM)
	if err != nil {
		return fmt.Errorf("read wasm: %w", err)
	}

	configBytes, err := a.encodeMetadata(artifact.Bundle.Metadata())
	if err != nil {
		return err
	}

	memoryStore := memory.New()

	wasmDesc, err := pushBlob(ctx, memoryStore, WASMLayerMediaType, wasmBytes)
	if err != nil {
		return fmt.Errorf("stage wasm layer: %w", err)
	}

	configDesc, err := pushBlob(ctx, memoryStore, ocispec.MediaTypeImageConfig, configBytes)
	if err != nil {
		return fmt.Errorf("stage config: %w", err)
	}

	manifestDesc, err := oras.PackManifest(ctx, memoryStore, oras.PackManifestVersion1_1,
		ocispec.MediaTypeImageManifest, oras.PackManifestOptions{
			ConfigDescriptor: &configDesc,
			Layers:           []ocispec.Descriptor{wasmDesc},
		})
	if err != nil {
		return fmt.Errorf("pack manifest: %w", err)
	}

	if err := memoryStore.Tag(ctx, manifestDesc, ref.Version()); err != nil {
		return fmt.Errorf("tag manifest: %w", err)
	}

	if _, err := oras.Copy(ctx, memoryStore, ref.Version(), repo, ref.Version(), oras.CopyOptions{}); err != nil {
		return fmt.Errorf("push artifact: %w", err)
	}

	return nil
}

// Resolve resolves a reference tag to its content digest.
func (a *OCIRegistryAdapter) Resolve(ctx context.Context, ref extension.FactoryReference) (bundle.Digest, error) {
	repo, err := a.repository(ctx, ref)
	if err != nil {
		return bundle.Digest{}, err
	}

	desc, err := repo.Resolve(ctx, ref.Version())
	if err != nil {
		return bundle.Digest{}, fmt.Errorf("resolve tag %q: %w", ref.Version(), err)
	}

	return bundle.ParseDigest(string(desc.Digest))
}

// Helper methods

func (a *OCIRegistryAdapter) repository(ctx context.Context, ref extension.FactoryReference) (*remote.Repository, error) {
	// oras wants the repository path without the tag.
	repoPath := strings.TrimSuffix(ref.String(), ":"+ref.Version())
	repo, err := remote.NewRepository(repoPath)
	if err != nil {
		return nil, fmt.Errorf("create repository: %w", err)
	}

	username, password, err := a.auth.GetCredentials(ctx, ref.Registry())
	if err == nil && username != "" {
		repo.Client = &auth.Client{
			Credential: func(ctx context.Context, registry string) (auth.Credential, error) {
				return auth.Credential{
					Username: username,
					Password: password,
				}, nil
			},
		}
	}

	return repo, nil
}

func (a *OCIRegistryAdapter) parseManifest(data []byte) (*ocispec.Manifest, error) {
	var manifest ocispec.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("invalid manifest JSON: %w", err)
	}
	return &manifest, nil
}

func (a *OCIRegistryAdapter) parseMetadata(data []byte) (bundle.Metadata, error) {
	var meta struct {
		Name        string   `json:"name"`
		Version     string   `json:"version"`
		Description string   `json:"description"`
		Kinds       []string `json:"kinds"`
	}

	if err := json.Unmarshal(data, &meta); err != nil {
		return bundle.Metadata{}, fmt.Errorf("invalid config JSON: %w", err)
	}

	return bundle.NewMetadata(meta.Name, meta.Version, meta.Description, meta.Kinds), nil
}

func (a *OCIRegistryAdapter) encodeMetadata(m bundle.Metadata) ([]byte, error) {
	meta := struct {
		Name        string   `json:"name"`
		Version     string   `json:"version"`
		Description string   `json:"description"`
		Kinds       []string `json:"kinds"`
	}{
		Name:        m.Name(),
		Version:     m.Version(),
		Description: m.Description(),
		Kinds:       m.Kinds(),
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

func (a *OCIRegistryAdapter) findWASMLayer(manifest *ocispec.Manifest) (ocispec.Descriptor, error) {
	for _, layer := range manifest.Layers {
		if layer.MediaType == WASMLayerMediaType {
			return layer, nil
		}
	}
	return ocispec.Descriptor{}, fmt.Errorf("no WASM layer found")
}

func pushBlob(ctx context.Context, store *memory.Store, mediaType string, data []byte) (ocispec.Descriptor, error) {
	desc := content.NewDescriptorFromBytes(mediaType, data)
	if err := store.Push(ctx, desc, bytes.NewReader(data)); err != nil {
		return ocispec.Descriptor{}, err
	}
	return desc, nil
}
