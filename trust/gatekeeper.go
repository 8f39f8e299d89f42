package trust

import (
	"fmt"
	"log/slog"
	"os"
)

// Level controls the gatekeeper's prompting behavior.
type Level string

const (
	LevelStrict     Level = "strict"
	LevelStandard   Level = "standard"
	LevelPermissive Level = "permissive"
)

// Gatekeeper handles bundle trust: loads stored grants, checks the
// requesting bundle against them, prompts for unknown publishers, and
// persists decisions.
type Gatekeeper struct {
	store    Store
	prompter Prompter
	level    Level
	trustAll bool
}

// Option configures a Gatekeeper.
type Option func(*Gatekeeper)

// WithStore sets the grant store.
func WithStore(s Store) Option {
	return func(g *Gatekeeper) { g.store = s }
}

// WithPrompter sets the prompter.
func WithPrompter(p Prompter) Option {
	return func(g *Gatekeeper) { g.prompter = p }
}

// WithLevel sets the trust policy level.
func WithLevel(level Level) Option {
	return func(g *Gatekeeper) { g.level = level }
}

// WithTrustAll bypasses prompting and allows every bundle. Intended for CI
// and scripted environments.
func WithTrustAll(trustAll bool) Option {
	return func(g *Gatekeeper) { g.trustAll = trustAll }
}

// NewGatekeeper creates a trust gatekeeper with pluggable store and
// prompter.
func NewGatekeeper(opts ...Option) *Gatekeeper {
	g := &Gatekeeper{
		level: LevelStandard,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.store == nil {
		g.store = NewFileStore()
	}
	if g.prompter == nil {
		g.prompter = NewTerminalPrompter()
	}
	return g
}

// Authorize decides whether the bundle may be loaded. A nil return means
// the bundle is trusted; any error means it must not run.
func (g *Gatekeeper) Authorize(req Request) error {
	if g.trustAll {
		slog.Warn("auto-trusting bundle (trust-all enabled)",
			"bundle", req.Reference.String())
		return nil
	}

	if g.level == LevelStrict && !req.Verified {
		slog.Error("unsigned bundle denied by trust policy",
			"level", "strict",
			"bundle", req.Reference.String())
		return fmt.Errorf("unsigned bundle denied by strict trust policy: %s", req.Reference.String())
	}

	grants, err := g.store.Load()
	if err != nil {
		grants = &Grants{}
	}

	if grants.TrustsBundle(req.Reference.String()) || grants.TrustsPublisher(req.Publisher) {
		return nil
	}

	if g.level == LevelPermissive {
		slog.Warn("auto-trusting bundle (permissive mode)",
			"bundle", req.Reference.String())
		return nil
	}

	if !g.prompter.IsInteractive() {
		return g.prompter.FormatNonInteractiveError(req)
	}

	granted, always, err := g.prompter.PromptForTrust(req)
	if err != nil {
		return err
	}
	if !granted {
		return fmt.Errorf("bundle denied by user: %s", req.Reference.String())
	}

	if always {
		grants.AddBundle(req.Reference.String())
		grants.Normalize()
		if err := g.store.Save(grants); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save trust grants: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Trust decision saved to %s\n", g.store.ConfigPath())
		}
	}

	return nil
}
