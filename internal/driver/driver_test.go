package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/etude/internal/errors"
)

// memProvider serves module source from an in-memory map, mirroring
// internal/loader's test fixture so driver tests don't touch a real
// filesystem.
type memProvider map[string]string

func (m memProvider) Open(name string) ([]byte, string, error) {
	src, ok := m[name]
	if !ok {
		return nil, "", errors.New(errors.LDR001, "loader", "module %q not found", name)
	}
	return []byte(src), name + ".et", nil
}

// Scenario: a polymorphic `id` called from `main` at two distinct
// concrete types, plus a duplicate call at one of those types, must
// monomorphize to main plus exactly two specializations of id.
func TestCompile_MonomorphizesEntryAndDistinctCallSites(t *testing.T) {
	p := memProvider{
		"main": `module main

fun id(x) { x }

fun main() Int {
	id(1);
	id(true);
	id(2)
}
`,
	}
	prog, err := New(p).Compile(Options{EntryModule: "main"})
	require.NoError(t, err)

	names := map[string]int{}
	for _, fn := range prog.Functions {
		names[fn.Name]++
	}
	assert.Equal(t, 1, names["main"])
	assert.Equal(t, 2, names["id"])
}

// Scenario: importing and using an exported name from another module
// resolves across the program's export index.
func TestCompile_ResolvesCrossModuleExport(t *testing.T) {
	p := memProvider{
		"main": `module main
import a

fun main() Int {
	value()
}
`,
		"a": `module a

export fun value() Int { 42 }
`,
	}
	_, err := New(p).Compile(Options{EntryModule: "main"})
	require.NoError(t, err)
}

// Scenario: an import cycle anywhere in the graph fails the whole
// compile with LDR002, surfaced through the driver unchanged.
func TestCompile_ImportCycleFails(t *testing.T) {
	p := memProvider{
		"main": `module main
import a

fun main() Int { 1 }
`,
		"a": `module a
import main

fun g() Int { 2 }
`,
	}
	_, err := New(p).Compile(Options{EntryModule: "main"})
	require.Error(t, err)
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.LDR002, rep.Code)
}

// Scenario: test-build mode seeds the monomorphization queue from every
// @test function in the entry module instead of main.
func TestCompile_TestModeSeedsEveryTestFunction(t *testing.T) {
	p := memProvider{
		"main": `module main

@test
fun check_one() Bool { true }

@test
fun check_two() Bool { false }
`,
	}
	prog, err := New(p).Compile(Options{EntryModule: "main", TestMode: true})
	require.NoError(t, err)

	names := map[string]bool{}
	for _, fn := range prog.Functions {
		names[fn.Name] = true
	}
	assert.True(t, names["check_one"])
	assert.True(t, names["check_two"])
}

func TestCompile_MissingEntryFunctionFails(t *testing.T) {
	p := memProvider{
		"main": `module main

fun not_main() Int { 1 }
`,
	}
	_, err := New(p).Compile(Options{EntryModule: "main"})
	require.Error(t, err)
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.SCP001, rep.Code)
}
