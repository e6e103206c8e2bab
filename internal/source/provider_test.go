package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileProvider_WorkDirHit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.et"), []byte("fun main() Int { return 1; }"), 0o644))

	p, err := NewFileProvider(dir)
	require.NoError(t, err)

	content, abs, err := p.Open("main")
	require.NoError(t, err)
	require.Contains(t, string(content), "fun main")
	require.True(t, filepath.IsAbs(abs))
}

func TestFileProvider_MissingStdlib(t *testing.T) {
	dir := t.TempDir()
	p, err := NewFileProvider(dir)
	require.NoError(t, err)
	p.StdlibEnv = ""

	_, _, err = p.Open("std/list")
	require.Error(t, err)
}

func TestFileProvider_StdlibFallback(t *testing.T) {
	workDir := t.TempDir()
	stdlib := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(stdlib, "std_list.et"), []byte("fun nil() Int { return 0; }"), 0o644))

	p, err := NewFileProvider(workDir)
	require.NoError(t, err)
	p.StdlibEnv = stdlib

	content, _, err := p.Open("std_list")
	require.NoError(t, err)
	require.Contains(t, string(content), "fun nil")
}
