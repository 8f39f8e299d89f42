// Package wazero adapts the host function registry to the wazero runtime,
// defining the wire types and packed pointer ABI shared with extension
// bundles.
package wazero

import "context"

// WireContext carries correlation metadata from the guest across the WASM
// boundary.
type WireContext struct {
	RequestID   string `json:"request_id,omitempty"`
	ObjectID    string `json:"object_id,omitempty"`
	ObjectClass string `json:"object_class,omitempty"`
}

// LogMessage is the wire shape of the log_message host function payload.
type LogMessage struct {
	Level   string      `json:"level"`
	Message string      `json:"message"`
	Context WireContext `json:"context,omitempty"`
	Attrs   []LogAttr   `json:"attrs,omitempty"`
}

// LogAttr is a single typed log attribute. Values cross the boundary as
// strings; Type selects how the host decodes them.
type LogAttr struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

type wireContextKey string

const (
	objectIDKey    wireContextKey = "object_id"
	objectClassKey wireContextKey = "object_class"
)

// CreateContextFromWire derives a host context carrying the guest's
// correlation metadata.
func CreateContextFromWire(ctx context.Context, wire WireContext) context.Context {
	if wire.ObjectID != "" {
		ctx = context.WithValue(ctx, objectIDKey, wire.ObjectID)
	}
	if wire.ObjectClass != "" {
		ctx = context.WithValue(ctx, objectClassKey, wire.ObjectClass)
	}
	return ctx
}
