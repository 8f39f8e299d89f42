package extension

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error patterns.
// These allow both errors.Is() checks and errors.As() for detailed information.
var (
	// ErrFactoryNotFound is returned when no resolver can locate the factory
	// behind a reference.
	ErrFactoryNotFound = errors.New("factory not found")
)

// FactoryNotFoundError indicates a registered reference could not be
// resolved to an invocable factory. Resolution is fail-fast: a missing
// factory indicates a misconfigured registry and fails the whole build.
type FactoryNotFoundError struct {
	Reference FactoryReference
}

func (e *FactoryNotFoundError) Error() string {
	return fmt.Sprintf("factory not found: %s", e.Reference.String())
}

// Is implements error matching for errors.Is() checks.
// This allows: errors.Is(err, extension.ErrFactoryNotFound)
func (e *FactoryNotFoundError) Is(target error) bool {
	return target == ErrFactoryNotFound
}

// FactoryInvocationError indicates a dynamic factory failed while producing
// its extension. Under the fail-fast policy this fails the composition.
type FactoryInvocationError struct {
	Reference FactoryReference
	Err       error
}

func (e *FactoryInvocationError) Error() string {
	return fmt.Sprintf("factory %s: invocation failed: %v", e.Reference.String(), e.Err)
}

func (e *FactoryInvocationError) Unwrap() error {
	return e.Err
}
