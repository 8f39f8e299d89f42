package resolver

import (
	"context"
	"sync"

	"github.com/quillkit-dev/quillkit-host-sdk/extension"
)

// Request pairs a factory reference with the priority it was registered
// under.
type Request struct {
	Reference extension.FactoryReference
	Priority  extension.Priority
}

// Resolved is a successfully resolved factory with its registration
// priority.
type Resolved struct {
	Reference extension.FactoryReference
	Priority  extension.Priority
	Factory   extension.Factory
}

// ResolveAll resolves every request concurrently through the strategy
// chain. Results preserve request order. Any single failure fails the
// whole batch; remaining in-flight resolutions are cancelled.
func ResolveAll(ctx context.Context, strategy Strategy, requests []Request) ([]Resolved, error) {
	if len(requests) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]Resolved, len(requests))
	errs := make([]error, len(requests))

	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		go func(i int, req Request) {
			defer wg.Done()

			factory, err := strategy.Resolve(ctx, req.Reference)
			if err != nil {
				errs[i] = err
				cancel()
				return
			}
			results[i] = Resolved{
				Reference: req.Reference,
				Priority:  req.Priority,
				Factory:   factory,
			}
		}(i, req)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
