// Package resolver turns opaque factory references into invocable
// capability factories. Resolution runs as a chain: in-process factories
// first, then WASM bundles loaded through the bundle service.
package resolver

import (
	"context"

	"github.com/quillkit-dev/quillkit-host-sdk/extension"
)

// Strategy attempts to resolve a factory reference.
// Implements Chain of Responsibility pattern.
type Strategy interface {
	// Resolve attempts to produce a factory for the reference.
	Resolve(ctx context.Context, ref extension.FactoryReference) (extension.Factory, error)

	// SetNext sets the next strategy in the chain.
	SetNext(next Strategy)
}

// BaseStrategy provides common chain-of-responsibility logic.
type BaseStrategy struct {
	next Strategy
}

// SetNext sets the next strategy in chain.
func (b *BaseStrategy) SetNext(next Strategy) {
	b.next = next
}

// ResolveNext delegates to the next strategy in chain.
func (b *BaseStrategy) ResolveNext(ctx context.Context, ref extension.FactoryReference) (extension.Factory, error) {
	if b.next == nil {
		return nil, &extension.FactoryNotFoundError{Reference: ref}
	}
	return b.next.Resolve(ctx, ref)
}

// Chain links strategies in order and returns the head.
func Chain(strategies ...Strategy) Strategy {
	if len(strategies) == 0 {
		return nil
	}
	for i := 0; i < len(strategies)-1; i++ {
		strategies[i].SetNext(strategies[i+1])
	}
	return strategies[0]
}
