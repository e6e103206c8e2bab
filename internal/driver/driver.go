// Package driver implements the top-level CompilationDriver (spec §3,
// §5): it owns the type arena for one compile invocation and sequences
// every stage — module loading, export indexing, scope building,
// intrinsic marking, inference, and monomorphization — end to end.
//
// Grounded on original_source/src/driver/compil_driver.hpp's
// CompilationDriver (which owns the arena and sequences TopSort →
// RegisterSymbols → per-module Infer → Compile) and
// original_source/src/driver/module.hpp's per-module Module::Compile.
package driver

import (
	"github.com/sunholo/etude/internal/ast"
	"github.com/sunholo/etude/internal/errors"
	"github.com/sunholo/etude/internal/infer"
	"github.com/sunholo/etude/internal/ir"
	"github.com/sunholo/etude/internal/loader"
	"github.com/sunholo/etude/internal/module"
	"github.com/sunholo/etude/internal/mono"
	"github.com/sunholo/etude/internal/scope"
	"github.com/sunholo/etude/internal/source"
	"github.com/sunholo/etude/internal/types"
)

// Options configures one Compile invocation, matching the CLI surface
// of spec §6: an entry module name and, exclusively, either an entry
// function name or test-build mode.
type Options struct {
	EntryModule string // default "main"
	EntryFunc   string // default "main"; ignored if TestMode
	TestMode    bool
}

// Driver runs the full pipeline against a single Source Provider. Every
// call to Compile allocates a fresh types.Arena, matching spec §3's
// requirement that the arena is cleared at the start of each compile
// invocation so a long-lived host can re-run the pipeline without
// dangling references.
type Driver struct {
	provider source.Provider
}

// New creates a Driver reading module source through provider.
func New(provider source.Provider) *Driver {
	return &Driver{provider: provider}
}

// Compile runs the entire pipeline for opts and returns the back-end
// hand-off payload.
func (d *Driver) Compile(opts Options) (*ir.Program, error) {
	entryModule := opts.EntryModule
	if entryModule == "" {
		entryModule = "main"
	}
	entryFunc := opts.EntryFunc
	if entryFunc == "" {
		entryFunc = "main"
	}

	arena := types.NewArena()

	ld := loader.New(d.provider)
	modules, err := ld.Load(entryModule)
	if err != nil {
		return nil, err
	}

	exportIdx, err := loader.BuildExportIndex(modules)
	if err != nil {
		return nil, err
	}

	for _, m := range modules {
		m.BuildScope(arena, exportIdx)
	}
	for _, m := range modules {
		m.MarkIntrinsics()
	}
	for _, m := range modules {
		if err := infer.Module(m, arena); err != nil {
			return nil, err
		}
	}

	entry := findModule(modules, entryModule)
	if entry == nil {
		return nil, errors.Internal("driver", "entry module %q vanished after load", entryModule)
	}

	// mono.Driver walks the whole program's call graph, not just the
	// entry module's, so every module's call-site maps are merged here
	// (*ast.CallExpr is unique per call site across the program, so the
	// merge can never collide). Only the entry module's scope root is
	// needed beyond that, to seed Run/RunTests with a declaration that
	// is always local to it.
	callTypes := make(map[*ast.CallExpr]*types.Type)
	callFuncs := make(map[*ast.CallExpr]*scope.Symbol)
	for _, m := range modules {
		for k, v := range m.CallSiteTypes {
			callTypes[k] = v
		}
		for k, v := range m.CallSiteFuncs {
			callFuncs[k] = v
		}
	}

	monoDriver := mono.NewDriver(entry.Root, callTypes, callFuncs)

	var items []*mono.Item
	if opts.TestMode {
		items, err = monoDriver.RunTests(entry.Tests)
	} else {
		entryDecl := findFunc(entry, entryFunc)
		if entryDecl == nil {
			return nil, errors.New(errors.SCP001, "driver", "entry function %q not found in module %q", entryFunc, entryModule)
		}
		items, err = monoDriver.Run(entryDecl)
	}
	if err != nil {
		return nil, err
	}

	return &ir.Program{
		Types:     ir.CollectTypes(items),
		Functions: items,
	}, nil
}

func findModule(modules []*module.Module, name string) *module.Module {
	for _, m := range modules {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func findFunc(m *module.Module, name string) *ast.FuncDecl {
	for _, d := range m.Decls {
		if fn, ok := d.(*ast.FuncDecl); ok && fn.Name == name {
			return fn
		}
	}
	return nil
}
