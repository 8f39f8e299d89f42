// Package repository implements bundle repository adapters.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/quillkit-dev/quillkit-host-sdk/bundle"
	"github.com/quillkit-dev/quillkit-host-sdk/extension"
)

// FSBundleRepository implements bundle.Repository using the filesystem.
type FSBundleRepository struct {
	root string // ~/.quillkit/bundles
}

// NewFSBundleRepository creates a filesystem-based repository.
func NewFSBundleRepository(root string) (*FSBundleRepository, error) {
	if root == "" {
		home, _ := os.UserHomeDir()
		root = filepath.Join(home, ".quillkit", "bundles")
	}

	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	return &FSBundleRepository{root: root}, nil
}

// Find retrieves a bundle from cache.
func (r *FSBundleRepository) Find(ctx context.Context, ref extension.FactoryReference) (*bundle.Bundle, string, error) {
	path, err := r.bundlePath(ref)
	if err != nil {
		return nil, "", err
	}

	wasmPath := filepath.Join(path, "bundle.wasm")
	if _, err := os.Stat(wasmPath); err != nil {
		return nil, "", &bundle.NotFoundError{Reference: ref}
	}

	metadata, err := r.loadMetadata(path)
	if err != nil {
		return nil, "", err
	}

	digest, err := r.loadDigest(path)
	if err != nil {
		return nil, "", err
	}

	b := bundle.NewBundle(ref, digest, metadata)
	return b, wasmPath, nil
}

// Store persists a bundle and its WASM binary.
func (r *FSBundleRepository) Store(ctx context.Context, b *bundle.Bundle, wasm io.Reader) (string, error) {
	path, err := r.bundlePath(b.Reference())
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(path, 0o750); err != nil {
		return "", err
	}

	wasmPath := filepath.Join(path, "bundle.wasm")
	wasmFile, err := os.Create(filepath.Clean(wasmPath))
	if err != nil {
		return "", err
	}
	defer func() { _ = wasmFile.Close() }()

	if _, err := io.Copy(wasmFile, wasm); err != nil {
		return "", fmt.Errorf("write wasm: %w", err)
	}

	if err := r.saveMetadata(path, b.Metadata()); err != nil {
		return "", err
	}

	if err := r.saveDigest(path, b.Digest()); err != nil {
		return "", err
	}

	return wasmPath, nil
}

// List returns all cached bundles.
func (r *FSBundleRepository) List(ctx context.Context) ([]*bundle.Bundle, error) {
	var bundles []*bundle.Bundle

	err := filepath.Walk(r.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.Name() == "bundle.wasm" {
			ref, err := r.parseRefFromPath(filepath.Dir(path))
			if err != nil {
				return nil //nolint:nilerr // Skip invalid entries
			}

			b, _, err := r.Find(ctx, ref)
			if err == nil {
				bundles = append(bundles, b)
			}
		}

		return nil
	})

	return bundles, err
}

// Versions returns the cached versions of the named bundle, in cache order.
func (r *FSBundleRepository) Versions(ctx context.Context, name string) ([]string, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	var versions []string
	for _, b := range all {
		if b.Reference().Name() == name {
			versions = append(versions, b.Reference().Version())
		}
	}
	return versions, nil
}

// Prune removes old versions, keeping the newest keepVersions of each bundle.
func (r *FSBundleRepository) Prune(ctx context.Context, keepVersions int) error {
	all, err := r.List(ctx)
	if err != nil {
		return err
	}

	byName := make(map[string][]*bundle.Bundle)
	for _, b := range all {
		byName[b.Reference().Name()] = append(byName[b.Reference().Name()], b)
	}

	for _, versions := range byName {
		if len(versions) <= keepVersions {
			continue
		}
		// Cache order is oldest-first; drop the head.
		for _, b := range versions[:len(versions)-keepVersions] {
			if err := r.Delete(ctx, b.Reference()); err != nil {
				return err
			}
		}
	}
	return nil
}

// Delete removes a bundle.
func (r *FSBundleRepository) Delete(ctx context.Context, ref extension.FactoryReference) error {
	path, err := r.bundlePath(ref)
	if err != nil {
		return err
	}
	return os.RemoveAll(path)
}

// Helper methods

func (r *FSBundleRepository) bundlePath(ref extension.FactoryReference) (string, error) {
	// Structure: ~/.quillkit/bundles/ghcr.io/quillkit/editor-extensions/drawboard/1.0.0
	refStr := strings.ReplaceAll(ref.String(), ":", "/")

	// Security: Reject absolute paths before filepath.Join (which may ignore root on Unix)
	if filepath.IsAbs(refStr) {
		return "", fmt.Errorf("security violation: absolute paths not allowed in bundle reference %q", refStr)
	}

	fullPath := filepath.Join(r.root, refStr)

	// Clean paths to resolve any ".." sequences
	cleanRoot := filepath.Clean(r.root)
	cleanPath := filepath.Clean(fullPath)

	// Security: Verify the resolved path is still within the root directory
	// This prevents path traversal attacks via malicious bundle references
	if !strings.HasPrefix(cleanPath, cleanRoot+string(os.PathSeparator)) && cleanPath != cleanRoot {
		return "", fmt.Errorf("security violation: path traversal detected for bundle reference %q", refStr)
	}

	return cleanPath, nil
}

func (r *FSBundleRepository) loadMetadata(path string) (bundle.Metadata, error) {
	cleanPath := filepath.Clean(filepath.Join(path, "metadata.json"))
	file, err := os.Open(cleanPath)
	if err != nil {
		return bundle.Metadata{}, err
	}
	defer func() { _ = file.Close() }()

	var meta struct {
		Name        string   `json:"name"`
		Version     string   `json:"version"`
		Description string   `json:"description"`
		Kinds       []string `json:"kinds"`
	}

	if err := json.NewDecoder(file).Decode(&meta); err != nil {
		return bundle.Metadata{}, err
	}

	return bundle.NewMetadata(meta.Name, meta.Version, meta.Description, meta.Kinds), nil
}

func (r *FSBundleRepository) saveMetadata(path string, metadata bundle.Metadata) error {
	cleanPath := filepath.Clean(filepath.Join(path, "metadata.json"))
	file, err := os.Create(cleanPath)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	meta := struct {
		Name        string   `json:"name"`
		Version     string   `json:"version"`
		Description string   `json:"description"`
		Kinds       []string `json:"kinds"`
	}{
		Name:        metadata.Name(),
		Version:     metadata.Version(),
		Description: metadata.Description(),
		Kinds:       metadata.Kinds(),
	}

	return json.NewEncoder(file).Encode(meta)
}

func (r *FSBundleRepository) loadDigest(path string) (bundle.Digest, error) {
	cleanPath := filepath.Clean(filepath.Join(path, "digest.txt"))
	data, err := os.ReadFile(cleanPath) // Validated internal path
	if err != nil {
		return bundle.Digest{}, err
	}
	return bundle.ParseDigest(string(data))
}

func (r *FSBundleRepository) saveDigest(path string, digest bundle.Digest) error {
	return os.WriteFile(filepath.Join(path, "digest.txt"), []byte(digest.String()), 0o600)
}

func (r *FSBundleRepository) parseRefFromPath(path string) (extension.FactoryReference, error) {
	relPath, err := filepath.Rel(r.root, path)
	if err != nil {
		return extension.FactoryReference{}, err
	}

	// The last path segment is the version, joined back with ':'.
	dir, version := filepath.Split(relPath)
	dir = strings.TrimSuffix(dir, string(os.PathSeparator))
	if dir == "" || version == "" {
		return extension.FactoryReference{}, fmt.Errorf("unrecognized cache path %q", relPath)
	}
	return extension.ParseFactoryReference(filepath.ToSlash(dir) + ":" + version)
}
