// Package registry implements the in-memory factory registry: the list of
// (priority, factory-reference) pairs externally registered for a
// document/workspace, plus the JSON schemas their config blocks are
// validated against.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/quillkit-dev/quillkit-host-sdk/extension"
)

// Registry implements FactoryRegistry using in-memory storage.
type Registry struct {
	entries   []Entry
	names     map[string]struct{}
	schemas   map[string]string
	mu        sync.RWMutex
	reflector *jsonschema.Reflector
	logger    *slog.Logger
}

// Option configures the Registry.
type Option func(*Registry)

// WithLogger sets the logger used for registration events.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// NewRegistry creates a new factory registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		names:     make(map[string]struct{}),
		schemas:   make(map[string]string),
		reflector: new(jsonschema.Reflector),
		logger:    slog.Default(),
	}

	r.reflector.ExpandedStruct = true

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register records a (priority, factory-reference) pair.
// The reference name must be unique within the registry.
func (r *Registry) Register(priority extension.Priority, ref extension.FactoryReference) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.names[ref.Name()]; exists {
		return fmt.Errorf("factory with name %q already registered", ref.Name())
	}

	r.logger.Debug("registering factory reference", "ref", ref.String(), "priority", int(priority))
	r.names[ref.Name()] = struct{}{}
	r.entries = append(r.entries, Entry{Reference: ref, Priority: priority})
	return nil
}

// Descriptors returns all registered entries in registration order.
func (r *Registry) Descriptors(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, len(r.entries))
	copy(entries, r.entries)
	return entries, nil
}

// RegisterSchema adds a config schema for an extension kind.
// model can be a Go struct (to generate schema) or a raw JSON schema string/map.
func (r *Registry) RegisterSchema(kind string, model interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[kind]; exists {
		return fmt.Errorf("extension kind already registered: %s", kind)
	}

	var schemaStr string

	switch v := model.(type) {
	case string:
		schemaStr = v
	case []byte:
		schemaStr = string(v)
	case map[string]interface{}:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal schema map: %w", err)
		}
		schemaStr = string(b)
	default:
		// Assume a Go struct, generate schema via reflection
		s := r.reflector.Reflect(model)
		b, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal generated schema: %w", err)
		}
		schemaStr = string(b)
	}

	r.schemas[kind] = schemaStr
	return nil
}

// Schema retrieves the JSON Schema for an extension kind.
func (r *Registry) Schema(kind string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[kind]
	return s, ok
}

// Kinds returns all registered extension kinds.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.schemas))
	for k := range r.schemas {
		kinds = append(kinds, k)
	}
	return kinds
}
