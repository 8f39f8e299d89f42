// Package bundle manages WASM extension bundles: the packaged form of
// dynamically registered capability factories. It covers the on-disk cache,
// OCI registry transport, integrity verification, and version locking.
package bundle

import (
	"github.com/quillkit-dev/quillkit-host-sdk/extension"
)

// Bundle is the aggregate root for extension bundle management.
// Represents a WASM extension bundle with verified integrity and metadata.
type Bundle struct {
	reference extension.FactoryReference
	digest    Digest
	metadata  Metadata
}

// NewBundle creates a new bundle entity.
func NewBundle(ref extension.FactoryReference, digest Digest, metadata Metadata) *Bundle {
	return &Bundle{
		reference: ref,
		digest:    digest,
		metadata:  metadata,
	}
}

// Reference returns the bundle's unique identifier.
func (b *Bundle) Reference() extension.FactoryReference {
	return b.reference
}

// Digest returns the bundle's content hash.
func (b *Bundle) Digest() Digest {
	return b.digest
}

// Metadata returns the bundle's descriptive information.
func (b *Bundle) Metadata() Metadata {
	return b.metadata
}

// VerifyIntegrity checks if the bundle's digest matches the expected value.
func (b *Bundle) VerifyIntegrity(expected Digest) error {
	if !b.digest.Equals(expected) {
		return &IntegrityError{
			Expected: expected,
			Actual:   b.digest,
		}
	}
	return nil
}

// Metadata contains descriptive information about an extension bundle.
type Metadata struct {
	name        string
	version     string
	description string
	kinds       []string
}

// NewMetadata creates bundle metadata.
func NewMetadata(name, version, description string, kinds []string) Metadata {
	return Metadata{
		name:        name,
		version:     version,
		description: description,
		kinds:       kinds,
	}
}

// Name returns the bundle name.
func (m Metadata) Name() string {
	return m.name
}

// Version returns the semantic version.
func (m Metadata) Version() string {
	return m.version
}

// Description returns human-readable description.
func (m Metadata) Description() string {
	return m.description
}

// Kinds returns the extension kinds the bundle provides.
func (m Metadata) Kinds() []string {
	return m.kinds
}
