package hostsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// ByteHandler is the uniform host function signature: JSON payload in,
// JSON payload out. All host functions exposed to extension bundles are
// ByteHandlers so middleware can wrap them generically.
type ByteHandler func(ctx context.Context, payload []byte) ([]byte, error)

// HostContext is the context passed to handlers and middleware; it carries
// the invoked function's name alongside the standard context.
type HostContext interface {
	context.Context
	FunctionName() string
}

type hostContext struct {
	context.Context
	name string
}

func (h hostContext) FunctionName() string { return h.name }

// WithFunctionName wraps ctx with the invoked host function's name.
func WithFunctionName(ctx context.Context, name string) HostContext {
	return hostContext{Context: ctx, name: name}
}

// HandlerRegistry holds the named host functions exposed to extension
// bundles, with the middleware chain already applied.
type HandlerRegistry struct {
	handlers map[string]ByteHandler
}

type registryBuilder struct {
	handlers    map[string]ByteHandler
	middlewares []Middleware
	httpOpts    []HTTPOption
}

// WithHandler registers a named host function.
func WithHandler(name string, handler ByteHandler) RegistryOption {
	return func(b *registryBuilder) {
		b.handlers[name] = handler
	}
}

// WithRegistryMiddleware appends middleware to the chain. Middleware wraps
// in FIFO order: the first registered is the outermost.
func WithRegistryMiddleware(m Middleware) RegistryOption {
	return func(b *registryBuilder) {
		b.middlewares = append(b.middlewares, m)
	}
}

// WithHTTPOptions configures the built-in http_request handler.
func WithHTTPOptions(opts ...HTTPOption) RegistryOption {
	return func(b *registryBuilder) {
		b.httpOpts = append(b.httpOpts, opts...)
	}
}

// NewRegistry creates a handler registry. The built-in http_request
// handler is always present; options add handlers and middleware.
func NewRegistry(opts ...RegistryOption) (*HandlerRegistry, error) {
	b := &registryBuilder{
		handlers: make(map[string]ByteHandler),
	}
	for _, opt := range opts {
		opt(b)
	}

	if _, ok := b.handlers["http_request"]; !ok {
		b.handlers["http_request"] = httpRequestHandler(b.httpOpts)
	}

	reg := &HandlerRegistry{
		handlers: make(map[string]ByteHandler, len(b.handlers)),
	}
	for name, handler := range b.handlers {
		if handler == nil {
			return nil, fmt.Errorf("handler %q is nil", name)
		}
		wrapped := handler
		for i := len(b.middlewares) - 1; i >= 0; i-- {
			wrapped = b.middlewares[i](wrapped)
		}
		reg.handlers[name] = wrapped
	}
	return reg, nil
}

// Handler returns the named handler.
func (r *HandlerRegistry) Handler(name string) (ByteHandler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Names returns the registered function names, sorted.
func (r *HandlerRegistry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke calls the named handler with the function name on the context.
func (r *HandlerRegistry) Invoke(ctx context.Context, name string, payload []byte) ([]byte, error) {
	handler, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("unknown host function %q", name)
	}
	return handler(WithFunctionName(ctx, name), payload)
}

// httpRequestHandler adapts PerformHTTPRequest to the ByteHandler shape.
func httpRequestHandler(opts []HTTPOption) ByteHandler {
	return func(ctx context.Context, payload []byte) ([]byte, error) {
		var req HTTPRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return NewValidationError(fmt.Sprintf("invalid http_request payload: %v", err)).ToJSON(), nil
		}
		resp := PerformHTTPRequest(ctx, req, opts...)
		return json.Marshal(resp)
	}
}
