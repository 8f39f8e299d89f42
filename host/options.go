package host

import (
	"log/slog"

	hostsdk "github.com/quillkit-dev/quillkit-host-sdk"
	"github.com/tetratelabs/wazero"
)

// Option defines a functional option for configuring the Executor.
type Option func(*Executor)

// WithHostFunctions configures the executor with a host function registry.
func WithHostFunctions(registry *hostsdk.HandlerRegistry) Option {
	return func(e *Executor) {
		e.registry = registry
	}
}

// WithLogger sets the logger used for runtime diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithVerbose enables verbose logging from the WASM runtime and bundles.
func WithVerbose(verbose bool) Option {
	return func(e *Executor) {
		e.verbose = verbose
	}
}

// WithCompilationCache configures the executor with a compilation cache,
// so repeated loads of the same bundle skip recompilation.
func WithCompilationCache(cache wazero.CompilationCache) Option {
	return func(e *Executor) {
		e.cache = cache
	}
}
