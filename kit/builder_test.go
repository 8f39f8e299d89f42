package kit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/quillkit-dev/quillkit-host-sdk/extension"
	"github.com/quillkit-dev/quillkit-host-sdk/kit"
	"github.com/quillkit-dev/quillkit-host-sdk/registry"
	"github.com/quillkit-dev/quillkit-host-sdk/resolver"
)

func testLoggerOpt() kit.BuilderOption {
	return kit.WithLogger(testLogger())
}

func presentFactory(name string) extension.Factory {
	return func(ctx context.Context, bctx extension.BuildContext) (*extension.Extension, error) {
		return extension.New(name, nil), nil
	}
}

// fixture wires a real in-memory registry to a local resolution strategy.
type fixture struct {
	registry *registry.Registry
	strategy *resolver.LocalStrategy
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		registry: registry.NewRegistry(registry.WithLogger(testLogger())),
		strategy: resolver.NewLocalStrategy(),
	}
}

func (f *fixture) register(t *testing.T, name string, priority extension.Priority, factory extension.Factory) {
	t.Helper()
	ref, err := extension.ParseFactoryReference(name)
	if err != nil {
		t.Fatalf("parse reference %q: %v", name, err)
	}
	if err := f.registry.Register(priority, ref); err != nil {
		t.Fatalf("register %q: %v", name, err)
	}
	if err := f.strategy.Register(name, factory); err != nil {
		t.Fatalf("register factory %q: %v", name, err)
	}
}

func (f *fixture) build(t *testing.T, opts ...kit.Option) *kit.ComposedKit {
	t.Helper()
	builder := kit.NewBuilder(f.registry, f.strategy, opts, testLoggerOpt())
	composed, err := builder.Build(context.Background())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return composed
}

func names(k *kit.ComposedKit) []string {
	out := make([]string, 0, k.Len())
	for _, ext := range k.Extensions() {
		out = append(out, ext.Name())
	}
	return out
}

func assertNames(t *testing.T, k *kit.ComposedKit, want []string) {
	t.Helper()
	got := names(k)
	if len(got) != len(want) {
		t.Fatalf("expected %d extensions %v, got %d: %v", len(want), want, len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: expected %s, got %s (full: %v)", i, want[i], got[i], got)
		}
	}
}

func TestBuilder_StaticOnlyDefaultMode(t *testing.T) {
	f := newFixture(t)
	composed := f.build(t)

	assertNames(t, composed, []string{
		"table", "tableRow", "tableCell", "tableHeader",
		"base", "code", "codeBlock", "hardBreak",
		"submit", "listKeys", "uniqueID", "fileEmbed", "image",
	})

	if composed.Name() != kit.KitName {
		t.Errorf("expected kit name %q, got %q", kit.KitName, composed.Name())
	}
}

func TestBuilder_CompactMode(t *testing.T) {
	f := newFixture(t)
	composed := f.build(t, kit.WithMode(extension.ModeCompact))

	assertNames(t, composed, []string{
		"table", "tableRow", "tableCell", "tableHeader",
		"base", "code", "codeBlock", "hardBreak",
		"submit", "paragraph", "listKeys", "uniqueID", "fileEmbed", "image",
	})

	// Compact mode relaxes the submit modifier requirement.
	for _, ext := range composed.Extensions() {
		if ext.Name() == "submit" {
			if ext.Config()["useModKey"] != false {
				t.Error("compact mode should not require a modifier key for submit")
			}
		}
	}
}

func TestBuilder_FullModeRequiresSubmitModifier(t *testing.T) {
	f := newFixture(t)
	composed := f.build(t)

	for _, ext := range composed.Extensions() {
		if ext.Name() == "submit" {
			if ext.Config()["useModKey"] != true {
				t.Error("full mode should require a modifier key for submit")
			}
		}
	}
}

func TestBuilder_SubmitModifierOverride(t *testing.T) {
	f := newFixture(t)
	composed := f.build(t, kit.WithSubmitModifier(false))

	for _, ext := range composed.Extensions() {
		if ext.Name() == "submit" {
			if ext.Config()["useModKey"] != false {
				t.Error("explicit override should win over mode default")
			}
		}
	}
}

func TestBuilder_DisableSubmit(t *testing.T) {
	f := newFixture(t)
	composed := f.build(t, kit.DisableSubmit())

	assertNames(t, composed, []string{
		"table", "tableRow", "tableCell", "tableHeader",
		"base", "code", "codeBlock", "hardBreak",
		"listKeys", "uniqueID", "fileEmbed", "image",
	})
}

func TestBuilder_DisableEmbeds(t *testing.T) {
	f := newFixture(t)
	composed := f.build(t, kit.DisableFileEmbed(), kit.DisableImageEmbed())

	got := names(composed)
	for _, name := range got {
		if name == "fileEmbed" || name == "image" {
			t.Errorf("disabled capability %s present in kit", name)
		}
	}
}

func TestBuilder_DynamicFactoryAt150(t *testing.T) {
	f := newFixture(t)
	f.register(t, "mentions", 150, presentFactory("mentions"))

	composed := f.build(t)

	assertNames(t, composed, []string{
		"table", "tableRow", "tableCell", "tableHeader",
		"base", "mentions", "code", "codeBlock", "hardBreak",
		"submit", "listKeys", "uniqueID", "fileEmbed", "image",
	})
}

func TestBuilder_TieBreakConstructionOrder(t *testing.T) {
	// A dynamic factory sharing priority 100 with the static base entry
	// sorts before it: table band, then dynamic, then static.
	f := newFixture(t)
	f.register(t, "shadow-base", 100, presentFactory("shadow-base"))

	composed := f.build(t)
	got := names(composed)

	var shadowIdx, baseIdx int = -1, -1
	for i, name := range got {
		switch name {
		case "shadow-base":
			shadowIdx = i
		case "base":
			baseIdx = i
		}
	}
	if shadowIdx == -1 || baseIdx == -1 {
		t.Fatalf("missing entries in %v", got)
	}
	if shadowIdx >= baseIdx {
		t.Errorf("dynamic entry should precede static entry at equal priority: %v", got)
	}
}

func TestBuilder_AbsentFactoryFiltered(t *testing.T) {
	compactOnly := func(ctx context.Context, bctx extension.BuildContext) (*extension.Extension, error) {
		if bctx.EffectiveMode() != extension.ModeCompact {
			return nil, nil
		}
		return extension.New("quick-reply", nil), nil
	}

	t.Run("full mode excludes it", func(t *testing.T) {
		f := newFixture(t)
		f.register(t, "quick-reply", 350, compactOnly)

		composed := f.build(t)
		for _, name := range names(composed) {
			if name == "quick-reply" {
				t.Error("absent factory result should be filtered in full mode")
			}
		}
	})

	t.Run("compact mode includes it", func(t *testing.T) {
		f := newFixture(t)
		f.register(t, "quick-reply", 350, compactOnly)

		composed := f.build(t, kit.WithMode(extension.ModeCompact))
		found := false
		for _, name := range names(composed) {
			if name == "quick-reply" {
				found = true
			}
		}
		if !found {
			t.Errorf("compact mode should include the factory: %v", names(composed))
		}
	})
}

func TestBuilder_BuildContextPassedToFactories(t *testing.T) {
	f := newFixture(t)
	var seen extension.BuildContext
	f.register(t, "ctx-probe", 150, func(ctx context.Context, bctx extension.BuildContext) (*extension.Extension, error) {
		seen = bctx
		return extension.New("ctx-probe", nil), nil
	})

	f.build(t,
		kit.WithMode(extension.ModeCompact),
		kit.WithObject("doc-1", "document", "space-9"),
	)

	if seen.Mode != extension.ModeCompact || seen.ObjectID != "doc-1" ||
		seen.ObjectClass != "document" || seen.ObjectSpace != "space-9" {
		t.Errorf("unexpected build context: %+v", seen)
	}
}

func TestBuilder_FailFast(t *testing.T) {
	t.Run("unresolvable reference", func(t *testing.T) {
		f := newFixture(t)
		ref, _ := extension.ParseFactoryReference("ghost")
		if err := f.registry.Register(150, ref); err != nil {
			t.Fatalf("register: %v", err)
		}

		builder := kit.NewBuilder(f.registry, f.strategy, nil, testLoggerOpt())
		_, err := builder.Build(context.Background())
		var notFound *extension.FactoryNotFoundError
		if !errors.As(err, &notFound) {
			t.Errorf("expected FactoryNotFoundError, got %v", err)
		}
	})

	t.Run("factory invocation error", func(t *testing.T) {
		f := newFixture(t)
		f.register(t, "broken", 150, func(ctx context.Context, bctx extension.BuildContext) (*extension.Extension, error) {
			return nil, errors.New("boom")
		})

		builder := kit.NewBuilder(f.registry, f.strategy, nil, testLoggerOpt())
		_, err := builder.Build(context.Background())
		var invocation *extension.FactoryInvocationError
		if !errors.As(err, &invocation) {
			t.Errorf("expected FactoryInvocationError, got %v", err)
		}
	})
}

func TestBuilder_SuppressPatterns(t *testing.T) {
	f := newFixture(t)
	f.register(t, "beta-embed", 150, presentFactory("beta-embed"))
	f.register(t, "mentions", 160, presentFactory("mentions"))

	composed := f.build(t, kit.WithSuppressed("beta-*"))

	got := names(composed)
	for _, name := range got {
		if name == "beta-embed" {
			t.Errorf("suppressed extension present: %v", got)
		}
	}
	found := false
	for _, name := range got {
		if name == "mentions" {
			found = true
		}
	}
	if !found {
		t.Errorf("non-matching extension should survive suppression: %v", got)
	}
}
