package registry

import (
	"context"

	"github.com/quillkit-dev/quillkit-host-sdk/extension"
)

// Entry pairs a registered factory reference with the priority its extension
// will take in the composed kit.
type Entry struct {
	Reference extension.FactoryReference
	Priority  extension.Priority
}

// FactoryRegistry supplies the factory descriptors registered for the
// current document/workspace and manages JSON schemas for extension
// configuration kinds.
type FactoryRegistry interface {
	// Register records a (priority, factory-reference) pair.
	// Duplicate reference names are rejected.
	Register(priority extension.Priority, ref extension.FactoryReference) error

	// Descriptors returns all registered entries in registration order.
	// The composition engine queries this exactly once per build.
	Descriptors(ctx context.Context) ([]Entry, error)

	// RegisterSchema adds a config schema for an extension kind.
	// model can be a struct (to generate schema) or a JSON schema string/map.
	RegisterSchema(kind string, model interface{}) error

	// Schema returns the JSON schema for an extension kind.
	Schema(kind string) (string, bool)

	// Kinds returns all registered extension kinds.
	Kinds() []string
}
