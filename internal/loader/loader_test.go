package loader

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/etude/internal/errors"
)

// memProvider serves module source from an in-memory map, for loader
// tests that don't want a real filesystem.
type memProvider map[string]string

func (m memProvider) Open(name string) ([]byte, string, error) {
	src, ok := m[name]
	if !ok {
		return nil, "", errors.New(errors.LDR001, "loader", "module %q not found", name)
	}
	return []byte(src), name + ".et", nil
}

func TestLoad_SingleModuleNoImports(t *testing.T) {
	p := memProvider{
		"main": "module main\nfun f() Int { 1 }\n",
	}
	mods, err := New(p).Load("main")
	require.NoError(t, err)
	require.Len(t, mods, 1)
	assert.Equal(t, "main", mods[0].Name)
}

func TestLoad_OrdersDependenciesFirst(t *testing.T) {
	p := memProvider{
		"main": "module main\nimport a\nfun f() Int { 1 }\n",
		"a":    "module a\nfun g() Int { 2 }\n",
	}
	mods, err := New(p).Load("main")
	require.NoError(t, err)
	require.Len(t, mods, 2)
	assert.Equal(t, "a", mods[0].Name)
	assert.Equal(t, "main", mods[1].Name)
}

func TestLoad_DetectsImportCycle(t *testing.T) {
	p := memProvider{
		"main": "module main\nimport a\nfun f() Int { 1 }\n",
		"a":    "module a\nimport main\nfun g() Int { 2 }\n",
	}
	_, err := New(p).Load("main")
	require.Error(t, err)
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.LDR002, rep.Code)
	require.NotNil(t, rep.Loc)
}

func TestLoad_MissingModuleFails(t *testing.T) {
	p := memProvider{
		"main": "module main\nimport missing\nfun f() Int { 1 }\n",
	}
	_, err := New(p).Load("main")
	require.Error(t, err)
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.LDR001, rep.Code)
	require.NotNil(t, rep.Loc)
}

func TestBuildExportIndex_DetectsDuplicateExport(t *testing.T) {
	p := memProvider{
		"main": "module main\nimport a\nimport b\nfun f() Int { 1 }\n",
		"a":    "module a\nexport fun shared() Int { 1 }\n",
		"b":    "module b\nexport fun shared() Int { 2 }\n",
	}
	mods, err := New(p).Load("main")
	require.NoError(t, err)

	_, err = BuildExportIndex(mods)
	require.Error(t, err)
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.MOD002, rep.Code)
}

func TestBuildExportIndex_DeterministicAcrossRuns(t *testing.T) {
	p := memProvider{
		"main": "module main\nimport a\nfun f() Int { 1 }\n",
		"a":    "module a\nexport fun shared() Int { 1 }\n",
	}
	for i := 0; i < 3; i++ {
		t.Run(fmt.Sprintf("run-%d", i), func(t *testing.T) {
			mods, err := New(p).Load("main")
			require.NoError(t, err)
			idx, err := BuildExportIndex(mods)
			require.NoError(t, err)
			assert.NotNil(t, idx)
		})
	}
}
