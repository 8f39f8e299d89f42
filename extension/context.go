package extension

// Mode selects the editing surface variant a kit is composed for.
type Mode string

const (
	// ModeFull is the default full-page editing surface.
	ModeFull Mode = "full"

	// ModeCompact is the reduced inline surface (comments, inline replies).
	ModeCompact Mode = "compact"
)

// BuildContext identifies the target entity the editing surface is bound to.
// It is captured once at build time and passed uniformly to every dynamic
// factory; per-call options after the first build have no effect.
type BuildContext struct {
	Mode        Mode   `json:"mode"`
	ObjectID    string `json:"objectId,omitempty"`
	ObjectClass string `json:"objectClass,omitempty"`
	ObjectSpace string `json:"objectSpace,omitempty"`
}

// EffectiveMode returns the context's mode, defaulting to ModeFull when unset.
func (c BuildContext) EffectiveMode() Mode {
	if c.Mode == "" {
		return ModeFull
	}
	return c.Mode
}
