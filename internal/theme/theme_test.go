package theme

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupFallsBackToDefault(t *testing.T) {
	t.Parallel()
	require.Equal(t, "midnight", Lookup("midnight").ID)
	require.Equal(t, Default, Lookup("neon-dreams").ID)
	require.True(t, Known("paper"))
	require.False(t, Known("neon-dreams"))
}

func TestPaletteCSS(t *testing.T) {
	t.Parallel()
	css := Lookup("paper").CSS()
	require.Contains(t, css, "--text-secondary:#475569")
	require.Contains(t, css, "--bg-secondary:#ffffff")
}
