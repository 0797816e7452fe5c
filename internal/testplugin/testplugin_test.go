package testplugin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmbeddedSources(t *testing.T) {
	require.Contains(t, string(sampleSource), "cfm_plugin_name")
	require.NotContains(t, string(noSymbolSource), "cfm_plugin_name")
}

func TestSampleBuilds(t *testing.T) {
	path := Sample(t)
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NotZero(t, info.Size())
	require.Equal(t, ext(), filepath.Ext(path))
}

func TestNotALibrary(t *testing.T) {
	b, err := os.ReadFile(NotALibrary(t))
	require.NoError(t, err)
	require.NotEmpty(t, b)
}
