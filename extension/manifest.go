package extension

// Manifest describes a packaged extension bundle: identity, the priority its
// factory registers at, the modes it supports, and the configuration block
// validated against the schema registered for its kind.
type Manifest struct {
	Name        string         `json:"name" yaml:"name"`
	Version     string         `json:"version" yaml:"version"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Kind        string         `json:"kind,omitempty" yaml:"kind,omitempty"`
	Priority    int            `json:"priority" yaml:"priority"`
	Modes       []string       `json:"modes,omitempty" yaml:"modes,omitempty"`
	Config      map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}

// SupportsMode reports whether the bundle declares support for the mode.
// An empty mode list means the bundle applies in every mode.
func (m *Manifest) SupportsMode(mode Mode) bool {
	if len(m.Modes) == 0 {
		return true
	}
	for _, declared := range m.Modes {
		if Mode(declared) == mode {
			return true
		}
	}
	return false
}
