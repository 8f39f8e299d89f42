// Package trust decides whether an extension bundle may be loaded: it
// checks stored trust grants, prompts the user for unknown publishers, and
// persists "always" decisions.
package trust

import (
	"sort"

	"github.com/quillkit-dev/quillkit-host-sdk/extension"
)

// Request describes a bundle awaiting a trust decision.
type Request struct {
	Reference extension.FactoryReference
	Publisher string
	Digest    string

	// Verified reports whether the bundle carried a valid signature.
	Verified bool
}

// Grants is the set of trusted publishers and individually trusted bundles.
type Grants struct {
	Publishers []string `yaml:"publishers,omitempty"`
	Bundles    []string `yaml:"bundles,omitempty"`
}

// TrustsPublisher reports whether the publisher has a standing grant.
func (g *Grants) TrustsPublisher(publisher string) bool {
	return contains(g.Publishers, publisher)
}

// TrustsBundle reports whether the bundle reference has a standing grant.
func (g *Grants) TrustsBundle(ref string) bool {
	return contains(g.Bundles, ref)
}

// AddPublisher records a publisher grant.
func (g *Grants) AddPublisher(publisher string) {
	if publisher != "" && !g.TrustsPublisher(publisher) {
		g.Publishers = append(g.Publishers, publisher)
	}
}

// AddBundle records a bundle grant.
func (g *Grants) AddBundle(ref string) {
	if ref != "" && !g.TrustsBundle(ref) {
		g.Bundles = append(g.Bundles, ref)
	}
}

// IsEmpty reports whether the grant set holds no grants.
func (g *Grants) IsEmpty() bool {
	return len(g.Publishers) == 0 && len(g.Bundles) == 0
}

// Normalize sorts and deduplicates the grant lists.
func (g *Grants) Normalize() {
	g.Publishers = dedupe(g.Publishers)
	g.Bundles = dedupe(g.Bundles)
}

// Store persists and retrieves trust grants.
type Store interface {
	Load() (*Grants, error)
	Save(grants *Grants) error
	ConfigPath() string
}

// Prompter handles interactive trust authorization.
type Prompter interface {
	IsInteractive() bool
	PromptForTrust(req Request) (granted bool, always bool, err error)
	FormatNonInteractiveError(req Request) error
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func dedupe(list []string) []string {
	if len(list) == 0 {
		return list
	}
	sort.Strings(list)
	out := list[:1]
	for _, v := range list[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
