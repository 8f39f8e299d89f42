// Package parser parses extension bundle manifests.
package parser

import "github.com/quillkit-dev/quillkit-host-sdk/extension"

// ManifestParser parses raw manifest bytes into a Manifest.
type ManifestParser interface {
	// Parse unmarshals manifest bytes into a Manifest struct.
	Parse(data []byte) (*extension.Manifest, error)
}
