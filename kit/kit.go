// Package kit composes the editing capability set for a rich-text surface.
// It merges the static capability table with dynamically registered
// factories, resolves and invokes them once per process, and memoizes the
// result as a shared future.
package kit

import (
	"github.com/quillkit-dev/quillkit-host-sdk/extension"
)

// KitName is the name the composed aggregate is exposed under. Consumers
// see a single capability, not a list.
const KitName = "quillkit"

// ComposedKit is the final ordered aggregate of all active extensions for
// one editing session. Immutable after composition.
type ComposedKit struct {
	name       string
	extensions []*extension.Extension
}

func newComposedKit(extensions []*extension.Extension) *ComposedKit {
	return &ComposedKit{
		name:       KitName,
		extensions: extensions,
	}
}

// Name returns the kit's capability name.
func (k *ComposedKit) Name() string {
	return k.name
}

// Extensions returns the ordered extension sequence.
func (k *ComposedKit) Extensions() []*extension.Extension {
	return k.extensions
}

// Len returns the number of composed extensions.
func (k *ComposedKit) Len() int {
	return len(k.extensions)
}
