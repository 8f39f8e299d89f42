// Package extension defines the core model shared by the composition engine:
// opaque extension instances, priority-tagged descriptors, factory signatures,
// and the build context handed to every dynamic factory.
package extension

// Extension is a self-configuring unit of editing behavior. The composition
// engine treats it as opaque: it carries a name and a configuration payload
// and is never inspected beyond that.
type Extension struct {
	name   string
	config map[string]any
}

// New creates an extension with the given name and configuration.
func New(name string, config map[string]any) *Extension {
	return &Extension{
		name:   name,
		config: config,
	}
}

// Name returns the extension's identifying name.
func (e *Extension) Name() string {
	return e.name
}

// Config returns the extension's configuration payload.
func (e *Extension) Config() map[string]any {
	return e.config
}
