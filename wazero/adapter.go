package wazero

import (
	"context"
	"fmt"

	hostsdk "github.com/quillkit-dev/quillkit-host-sdk"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// HostModuleName is the import module name extension bundles link against.
const HostModuleName = "quillkit"

// PackPtrLen packs a guest pointer and length into the single uint64 the
// ABI passes across the boundary.
func PackPtrLen(ptr, length uint32) uint64 {
	return uint64(ptr)<<32 | uint64(length)
}

// UnpackPtrLen splits a packed uint64 into guest pointer and length.
func UnpackPtrLen(packed uint64) (ptr, length uint32) {
	//nolint:gosec // WASM pointers and lengths are 32-bit
	return uint32(packed >> 32), uint32(packed)
}

// CustomHandler describes a host function registered with its raw wazero
// signature instead of the uniform ByteHandler shape.
type CustomHandler struct {
	Name        string
	ParamTypes  []api.ValueType
	ResultTypes []api.ValueType
	Handler     api.GoModuleFunc
}

// AdapterOption configures RegisterWithRuntime.
type AdapterOption func(*adapterConfig)

type adapterConfig struct {
	customHandlers []CustomHandler
}

// WithCustomHandler registers an additional host function with a raw
// wazero signature. Custom handlers take precedence over registry handlers
// of the same name.
func WithCustomHandler(h CustomHandler) AdapterOption {
	return func(c *adapterConfig) {
		c.customHandlers = append(c.customHandlers, h)
	}
}

// RegisterWithRuntime exports every handler in the registry, plus any
// custom handlers, as host functions on the runtime. Registry handlers use
// the packed ABI: one i64 parameter (payload ptr+len) and one i64 result
// (response ptr+len), with the response written into guest memory via the
// bundle's exported allocate function.
func RegisterWithRuntime(ctx context.Context, runtime wazero.Runtime, registry *hostsdk.HandlerRegistry, opts ...AdapterOption) error {
	cfg := &adapterConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	builder := runtime.NewHostModuleBuilder(HostModuleName)

	custom := make(map[string]bool, len(cfg.customHandlers))
	for _, h := range cfg.customHandlers {
		custom[h.Name] = true
		builder.NewFunctionBuilder().
			WithGoModuleFunction(h.Handler, h.ParamTypes, h.ResultTypes).
			Export(h.Name)
	}

	for _, name := range registry.Names() {
		if custom[name] {
			continue
		}
		builder.NewFunctionBuilder().
			WithGoModuleFunction(packedHandler(registry, name),
				[]api.ValueType{api.ValueTypeI64},
				[]api.ValueType{api.ValueTypeI64}).
			Export(name)
	}

	if _, err := builder.Instantiate(ctx); err != nil {
		return fmt.Errorf("instantiating host module %q: %w", HostModuleName, err)
	}
	return nil
}

// packedHandler bridges a registry handler to the packed ptr+len ABI.
func packedHandler(registry *hostsdk.HandlerRegistry, name string) api.GoModuleFunc {
	return func(ctx context.Context, mod api.Module, stack []uint64) {
		ptr, length := UnpackPtrLen(stack[0])

		var payload []byte
		if length > 0 {
			data, ok := mod.Memory().Read(ptr, length)
			if !ok {
				stack[0] = writeResponse(ctx, mod, hostsdk.NewInternalError("failed to read payload from guest memory").ToJSON())
				return
			}
			payload = make([]byte, length)
			copy(payload, data)
		}

		resp, err := registry.Invoke(ctx, name, payload)
		if err != nil {
			resp = hostsdk.NewInternalError(err.Error()).ToJSON()
		}

		stack[0] = writeResponse(ctx, mod, resp)
	}
}

// writeResponse allocates guest memory through the bundle's allocate export
// and writes the response into it, returning the packed location. A zero
// return signals the guest that no response was delivered.
func writeResponse(ctx context.Context, mod api.Module, resp []byte) uint64 {
	if len(resp) == 0 {
		return 0
	}

	allocate := mod.ExportedFunction("allocate")
	if allocate == nil {
		return 0
	}

	res, err := allocate.Call(ctx, uint64(len(resp)))
	if err != nil {
		return 0
	}

	//nolint:gosec // WASM pointers are 32-bit
	ptr := uint32(res[0])
	if !mod.Memory().Write(ptr, resp) {
		return 0
	}

	//nolint:gosec // WASM lengths are 32-bit
	return PackPtrLen(ptr, uint32(len(resp)))
}
