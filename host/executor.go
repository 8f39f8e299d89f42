// Package host provides the WASM runtime that loads extension bundles and
// turns their compose export into kit factories.
package host

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	hostsdk "github.com/quillkit-dev/quillkit-host-sdk"
	"github.com/quillkit-dev/quillkit-host-sdk/extension"
	qwazero "github.com/quillkit-dev/quillkit-host-sdk/wazero"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// Executor manages the lifecycle of WASM extension bundles.
type Executor struct {
	runtime  wazero.Runtime
	registry *hostsdk.HandlerRegistry
	cache    wazero.CompilationCache
	logger   *slog.Logger
	verbose  bool
}

// NewExecutor creates a new executor with the given options.
func NewExecutor(ctx context.Context, opts ...Option) (*Executor, error) {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.registry == nil {
		reg, err := hostsdk.NewRegistry()
		if err != nil {
			return nil, fmt.Errorf("failed to create default registry: %w", err)
		}
		e.registry = reg
	}

	cfg := wazero.NewRuntimeConfig()
	if e.cache != nil {
		cfg = cfg.WithCompilationCache(e.cache)
	}
	rt := wazero.NewRuntimeWithConfig(ctx, cfg)
	wasi_snapshot_preview1.MustInstantiate(ctx, rt)
	e.runtime = rt

	if err := e.registerHostFunctions(ctx); err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("failed to register host functions: %w", err)
	}

	return e, nil
}

// registerHostFunctions exports the handler registry plus the log_message
// host function to the runtime.
func (e *Executor) registerHostFunctions(ctx context.Context) error {
	return qwazero.RegisterWithRuntime(ctx, e.runtime, e.registry,
		qwazero.WithCustomHandler(qwazero.LogMessageHandler()),
	)
}

// Close releases resources held by the executor.
func (e *Executor) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// LoadBundle instantiates a WASM extension bundle from its raw bytes.
func (e *Executor) LoadBundle(ctx context.Context, wasmBytes []byte) (*BundleInstance, error) {
	mod, err := e.runtime.Instantiate(ctx, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate module: %w", err)
	}

	// Reactor-style modules initialize explicitly
	if init := mod.ExportedFunction("_initialize"); init != nil {
		if _, err := init.Call(ctx); err != nil {
			return nil, fmt.Errorf("failed to call _initialize: %w", err)
		}
	}

	if e.verbose {
		e.logger.Debug("bundle instantiated", "module", mod.Name())
	}

	return &BundleInstance{module: mod}, nil
}

// Load reads a WASM bundle from disk and returns its factory. It satisfies
// the resolver's bundle loader contract.
func (e *Executor) Load(ctx context.Context, wasmPath string) (extension.Factory, error) {
	wasmBytes, err := os.ReadFile(wasmPath)
	if err != nil {
		return nil, fmt.Errorf("reading bundle %s: %w", wasmPath, err)
	}

	instance, err := e.LoadBundle(ctx, wasmBytes)
	if err != nil {
		return nil, err
	}

	manifest, err := instance.Manifest(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading bundle manifest: %w", err)
	}

	return instance.Factory(manifest), nil
}

// BundleInstance represents an instantiated WASM extension bundle.
type BundleInstance struct {
	module api.Module
}

// Manifest returns the bundle manifest via its manifest export.
func (b *BundleInstance) Manifest(ctx context.Context) (extension.Manifest, error) {
	var manifest extension.Manifest
	packed, err := b.callRaw(ctx, "manifest", nil)
	if err != nil {
		return manifest, err
	}
	err = b.unmarshalPacked(packed, &manifest)
	return manifest, err
}

// Schema calls the schema export of the bundle, returning the JSON schema
// its config is validated against.
func (b *BundleInstance) Schema(ctx context.Context) ([]byte, error) {
	packed, err := b.callRaw(ctx, "schema", nil)
	if err != nil {
		return nil, err
	}
	ptr, length := qwazero.UnpackPtrLen(packed)
	data, ok := b.module.Memory().Read(ptr, length)
	if !ok {
		return nil, fmt.Errorf("failed to read schema from memory")
	}
	// Copy out of guest memory before it can be reused
	schemaCopy := make([]byte, length)
	copy(schemaCopy, data)
	return schemaCopy, nil
}

// composeResult is the wire shape returned by the compose export. A null
// result or an explicit absent marker means the bundle contributes nothing
// for this build context.
type composeResult struct {
	Absent bool           `json:"absent,omitempty"`
	Name   string         `json:"name"`
	Config map[string]any `json:"config,omitempty"`
}

// Factory wraps the bundle's compose export as a kit factory. The factory
// returns nil without error when the bundle does not support the requested
// mode or composes to nothing, so the kit builder filters it out.
func (b *BundleInstance) Factory(manifest extension.Manifest) extension.Factory {
	return func(ctx context.Context, bctx extension.BuildContext) (*extension.Extension, error) {
		if !manifest.SupportsMode(bctx.EffectiveMode()) {
			return nil, nil
		}

		input, err := json.Marshal(bctx)
		if err != nil {
			return nil, fmt.Errorf("encoding build context: %w", err)
		}

		packed, err := b.callRaw(ctx, "compose", input)
		if err != nil {
			return nil, fmt.Errorf("bundle %s: %w", manifest.Name, err)
		}

		var result *composeResult
		if err := b.unmarshalPacked(packed, &result); err != nil {
			return nil, fmt.Errorf("bundle %s: decoding compose result: %w", manifest.Name, err)
		}
		if result == nil || result.Absent {
			return nil, nil
		}

		return extension.New(result.Name, result.Config), nil
	}
}

// callRaw invokes a bundle export with raw bytes using the packed ABI.
func (b *BundleInstance) callRaw(ctx context.Context, name string, input []byte) (uint64, error) {
	fn := b.module.ExportedFunction(name)
	if fn == nil {
		return 0, fmt.Errorf("function %q not found", name)
	}

	var ptr uint32
	if len(input) > 0 {
		allocate := b.module.ExportedFunction("allocate")
		if allocate == nil {
			return 0, fmt.Errorf("function 'allocate' not exported")
		}
		res, err := allocate.Call(ctx, uint64(len(input)))
		if err != nil {
			return 0, fmt.Errorf("allocate failed: %w", err)
		}
		//nolint:gosec // WASM pointers are 32-bit
		ptr = uint32(res[0])

		if !b.module.Memory().Write(ptr, input) {
			return 0, fmt.Errorf("failed to write input to memory")
		}
	}

	//nolint:gosec // WASM lengths are 32-bit
	packedInput := qwazero.PackPtrLen(ptr, uint32(len(input)))

	res, err := fn.Call(ctx, packedInput)
	if err != nil {
		return 0, fmt.Errorf("call failed: %w", err)
	}

	return res[0], nil
}

// unmarshalPacked reads JSON from packed ptr+len and unmarshals it.
func (b *BundleInstance) unmarshalPacked(packed uint64, v any) error {
	ptr, length := qwazero.UnpackPtrLen(packed)

	if length == 0 {
		return nil
	}

	data, ok := b.module.Memory().Read(ptr, length)
	if !ok {
		return fmt.Errorf("failed to read result from memory")
	}

	return json.Unmarshal(data, v)
}
