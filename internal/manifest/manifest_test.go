package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Missing(t *testing.T) {
	dir := t.TempDir()
	m, err := Load(dir)
	require.NoError(t, err)
	require.Empty(t, m.SearchPaths)
	require.Empty(t, m.Stdlib)
}

func TestLoad_Present(t *testing.T) {
	dir := t.TempDir()
	content := "search_paths:\n  - vendor/modules\nstdlib: /opt/etude/stdlib\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "etude.yaml"), []byte(content), 0o644))

	m, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"vendor/modules"}, m.SearchPaths)
	require.Equal(t, "/opt/etude/stdlib", m.Stdlib)
}
