package resolver

import (
	"context"
	"fmt"
	"sync"

	"github.com/quillkit-dev/quillkit-host-sdk/extension"
)

// LocalStrategy resolves references naming in-process factories.
type LocalStrategy struct {
	BaseStrategy

	mu        sync.RWMutex
	factories map[string]extension.Factory
}

// NewLocalStrategy creates a local strategy with no registered factories.
func NewLocalStrategy() *LocalStrategy {
	return &LocalStrategy{
		factories: make(map[string]extension.Factory),
	}
}

// Register adds an in-process factory under the given name.
func (s *LocalStrategy) Register(name string, factory extension.Factory) error {
	if _, err := extension.NewName(name); err != nil {
		return err
	}
	if factory == nil {
		return fmt.Errorf("factory %q is nil", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.factories[name]; exists {
		return fmt.Errorf("factory %q already registered", name)
	}
	s.factories[name] = factory
	return nil
}

// Resolve returns the registered factory, or delegates for non-local
// references and unknown names.
func (s *LocalStrategy) Resolve(ctx context.Context, ref extension.FactoryReference) (extension.Factory, error) {
	if !ref.IsLocal() {
		return s.ResolveNext(ctx, ref)
	}

	s.mu.RLock()
	factory, ok := s.factories[ref.Name()]
	s.mu.RUnlock()

	if !ok {
		return s.ResolveNext(ctx, ref)
	}
	return factory, nil
}
