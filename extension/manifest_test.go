package extension

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManifest_SupportsMode(t *testing.T) {
	tests := []struct {
		name  string
		modes []string
		mode  Mode
		want  bool
	}{
		{"empty means all", nil, ModeCompact, true},
		{"declared full", []string{"full"}, ModeFull, true},
		{"declared full, asked compact", []string{"full"}, ModeCompact, false},
		{"both", []string{"full", "compact"}, ModeCompact, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Manifest{Modes: tt.modes}
			assert.Equal(t, tt.want, m.SupportsMode(tt.mode))
		})
	}
}

func TestBuildContext_EffectiveMode(t *testing.T) {
	assert.Equal(t, ModeFull, BuildContext{}.EffectiveMode())
	assert.Equal(t, ModeCompact, BuildContext{Mode: ModeCompact}.EffectiveMode())
}
