package bundle

import "io"

// Artifact carries a bundle entity together with its WASM binary stream,
// as pulled from or pushed to a registry.
type Artifact struct {
	Bundle *Bundle
	WASM   io.ReadCloser
}

// NewArtifact creates an artifact from a bundle and its binary.
func NewArtifact(b *Bundle, wasm io.ReadCloser) *Artifact {
	return &Artifact{
		Bundle: b,
		WASM:   wasm,
	}
}

// Close releases the underlying binary stream.
func (a *Artifact) Close() error {
	if a.WASM != nil {
		return a.WASM.Close()
	}
	return nil
}
