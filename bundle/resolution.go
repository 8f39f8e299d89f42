package bundle

import (
	"context"

	"github.com/quillkit-dev/quillkit-host-sdk/extension"
)

// ResolutionStrategy defines the interface for bundle resolution.
// Implements Chain of Responsibility pattern.
type ResolutionStrategy interface {
	// Resolve attempts to locate a bundle matching the reference.
	Resolve(ctx context.Context, ref extension.FactoryReference) (*Bundle, error)

	// SetNext sets the next resolver in the chain.
	SetNext(next ResolutionStrategy)
}

// BaseResolver provides common chain-of-responsibility logic.
type BaseResolver struct {
	next ResolutionStrategy
}

// SetNext sets the next resolver in chain.
func (b *BaseResolver) SetNext(next ResolutionStrategy) {
	b.next = next
}

// ResolveNext delegates to next resolver in chain.
func (b *BaseResolver) ResolveNext(ctx context.Context, ref extension.FactoryReference) (*Bundle, error) {
	if b.next == nil {
		return nil, &NotFoundError{Reference: ref}
	}
	return b.next.Resolve(ctx, ref)
}
