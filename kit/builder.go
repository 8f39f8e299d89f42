package kit

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/quillkit-dev/quillkit-host-sdk/extension"
	"github.com/quillkit-dev/quillkit-host-sdk/registry"
	"github.com/quillkit-dev/quillkit-host-sdk/resolver"
)

// Builder composes the capability kit from the static table and the
// factory registry.
type Builder struct {
	registry registry.FactoryRegistry
	strategy resolver.Strategy
	opts     *options
	logger   *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets the builder's logger.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) { b.logger = logger }
}

// NewBuilder creates a kit builder. Caller options are captured here, once;
// they cannot change after the first build.
func NewBuilder(reg registry.FactoryRegistry, strategy resolver.Strategy, opts []Option, builderOpts ...BuilderOption) *Builder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	b := &Builder{
		registry: reg,
		strategy: strategy,
		opts:     o,
		logger:   slog.Default(),
	}
	for _, opt := range builderOpts {
		opt(b)
	}
	return b
}

// Build composes the kit: table band, then dynamic factories, then the
// static list, merged and stable-sorted by priority with absent entries
// removed. Any registry, resolution, or invocation failure fails the whole
// build; no partial kit is produced.
func (b *Builder) Build(ctx context.Context) (*ComposedKit, error) {
	bctx := b.opts.buildContext()
	mode := bctx.EffectiveMode()

	descriptors := tableExtensions()

	dynamic, err := b.buildDynamic(ctx, bctx)
	if err != nil {
		return nil, err
	}
	descriptors = append(descriptors, dynamic...)

	descriptors = append(descriptors, staticExtensions(mode, b.opts)...)

	// Filter absent entries before sorting; a factory opting out for this
	// mode never reaches the final sequence.
	kept := descriptors[:0]
	for _, d := range descriptors {
		if d.IsAbsent() {
			continue
		}
		if b.suppressed(d.Ext.Name()) {
			b.logger.Debug("extension suppressed", "name", d.Ext.Name())
			continue
		}
		kept = append(kept, d)
	}

	// Ties keep construction order: table band, then dynamic, then static.
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Priority < kept[j].Priority
	})

	extensions := make([]*extension.Extension, len(kept))
	for i, d := range kept {
		extensions[i] = d.Ext
	}

	b.logger.Info("kit composed",
		"mode", string(mode),
		"extensions", len(extensions),
		"dynamic", len(dynamic))

	return newComposedKit(extensions), nil
}

// buildDynamic queries the registry once, resolves every reference, and
// invokes each factory with the build context. Priorities are attached at
// issue time, so completion order never affects kit ordering.
func (b *Builder) buildDynamic(ctx context.Context, bctx extension.BuildContext) ([]extension.Descriptor, error) {
	entries, err := b.registry.Descriptors(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying factory registry: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	requests := make([]resolver.Request, len(entries))
	for i, e := range entries {
		requests[i] = resolver.Request{Reference: e.Reference, Priority: e.Priority}
	}

	resolved, err := resolver.ResolveAll(ctx, b.strategy, requests)
	if err != nil {
		return nil, fmt.Errorf("resolving factories: %w", err)
	}

	descriptors := make([]extension.Descriptor, 0, len(resolved))
	for _, r := range resolved {
		ext, err := r.Factory(ctx, bctx)
		if err != nil {
			return nil, &extension.FactoryInvocationError{Reference: r.Reference, Err: err}
		}
		// A nil extension is a normal opt-out for this mode; keep the
		// descriptor and let the absent filter drop it.
		descriptors = append(descriptors, extension.Descriptor{Ext: ext, Priority: r.Priority})
	}
	return descriptors, nil
}

func (b *Builder) suppressed(name string) bool {
	for _, pattern := range b.opts.suppressPatterns {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
