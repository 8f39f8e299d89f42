package bundle

import (
	"errors"
	"fmt"

	"github.com/quillkit-dev/quillkit-host-sdk/extension"
)

// Sentinel errors for common error patterns.
// These allow both errors.Is() checks and errors.As() for detailed information.
var (
	// ErrBundleNotFound is returned when a bundle cannot be found in any source.
	ErrBundleNotFound = errors.New("bundle not found")

	// ErrIntegrityCheckFailed is returned when digest verification fails.
	ErrIntegrityCheckFailed = errors.New("integrity check failed")
)

// IntegrityError indicates digest mismatch.
// Provides detailed information about expected vs actual digest.
type IntegrityError struct {
	Expected Digest
	Actual   Digest
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf(
		"integrity check failed: expected %s, got %s",
		e.Expected.String(),
		e.Actual.String(),
	)
}

// Is implements error matching for errors.Is() checks.
// This allows: errors.Is(err, bundle.ErrIntegrityCheckFailed)
func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrityCheckFailed
}

// NotFoundError indicates the bundle doesn't exist in a source.
type NotFoundError struct {
	Reference extension.FactoryReference
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("bundle not found: %s", e.Reference.String())
}

// Is implements error matching for errors.Is() checks.
// This allows: errors.Is(err, bundle.ErrBundleNotFound)
func (e *NotFoundError) Is(target error) bool {
	return target == ErrBundleNotFound
}
