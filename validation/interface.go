// Package validation checks extension manifests against registered
// configuration schemas.
package validation

import "github.com/quillkit-dev/quillkit-host-sdk/extension"

// ManifestValidator validates an extension manifest's config block against
// the schema registered for its kind.
type ManifestValidator interface {
	Validate(manifest *extension.Manifest) (*ValidationResult, error)
}

// ValidationResult carries the outcome of a manifest validation.
type ValidationResult struct {
	Errors []string
	Valid  bool
}

func (r *ValidationResult) addError(msg string) {
	r.Valid = false
	r.Errors = append(r.Errors, msg)
}
