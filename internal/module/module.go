// Package module defines the Module type (spec §3) and its per-module
// passes (scope building, intrinsic marking); internal/loader builds
// the dependency-ordered list of Modules (spec §4.3). Grounded on the
// teacher's internal/module/loader.go LoadedModule shape and
// original_source/src/driver/module.hpp's Module class.
package module

import (
	"github.com/sunholo/etude/internal/ast"
	"github.com/sunholo/etude/internal/intrinsics"
	"github.com/sunholo/etude/internal/scope"
	"github.com/sunholo/etude/internal/types"
)

// Module is the compiler's in-memory representation of one source file,
// post-parse. Name is assigned exactly once, immediately after parsing,
// before any later stage observes it; FilePath is set at construction.
type Module struct {
	// Name is the module's short identifier (e.g. "main", "std/list").
	Name string

	// FilePath is the absolute canonical filesystem path the module was
	// loaded from.
	FilePath string

	// Imports is the ordered list of import names, each carrying the
	// location of its import statement.
	Imports []*ast.Import

	// Exports is the set of names this module makes visible to importers.
	Exports map[string]bool

	// Decls is the ordered list of top-level declarations.
	Decls []ast.Decl

	// Tests is the subset of Decls flagged @test, in declaration order.
	Tests []*ast.FuncDecl

	// Root is the scope tree root owned by this module. Populated by the
	// scope resolver (internal/scope) during §4.4; nil before that.
	Root *scope.Context

	// BlockScopes maps each block expression in this module to the
	// Context the scope builder opened for it, so later passes (constraint
	// generation) can resume traversal at exactly the right scope
	// without re-deriving it. Populated alongside Root.
	BlockScopes map[*ast.Block]*scope.Context

	// CallSiteTypes maps every call expression to the callee type
	// observed there (post-instantiation for a polymorphic callee).
	// Populated by internal/infer; consumed by internal/mono to walk
	// the call graph without re-inferring it.
	CallSiteTypes map[*ast.CallExpr]*types.Type

	// CallSiteFuncs maps every call expression whose callee is a bare
	// name to the scope.Symbol it resolved to, via the same usage-aware,
	// Export-Index-falling-through lookup inference itself used. Since
	// that lookup — not a bare same-module FindLocal — is the only
	// correct way to reach a callee declared in an imported module,
	// internal/mono carries this symbol through the call graph directly
	// rather than re-resolving a name against any single module's root.
	CallSiteFuncs map[*ast.CallExpr]*scope.Symbol

	// AST is the raw parsed module, retained for diagnostics and tooling.
	AST *ast.Module
}

// BuildScope runs the Scope Builder (spec §4.4) over the module,
// populating Root and BlockScopes. exports is nil until every module in
// the program has loaded; pass the program's loader.ExportIndex once
// available so cross-module lookups succeed.
func (m *Module) BuildScope(arena *types.Arena, exports scope.ExportIndex) {
	m.Root, m.BlockScopes = scope.Build(m.AST, arena, exports)
}

// FromAST builds a Module from a parsed file, assigning name and
// collecting the test-function subset. Called exactly once per file,
// immediately after parsing succeeds.
func FromAST(name, filePath string, file *ast.Module) *Module {
	m := &Module{
		Name:     name,
		FilePath: filePath,
		Imports:  file.Imports,
		Exports:  file.Exports,
		Decls:    file.Decls,
		AST:      file,
	}
	for _, d := range file.Decls {
		if fn, ok := d.(*ast.FuncDecl); ok && fn.IsTest {
			m.Tests = append(m.Tests, fn)
		}
	}
	return m
}

// MarkIntrinsics runs the Intrinsic Marker (spec §4.5) over every
// function body in the module, including trait-impl methods. Must run
// after scope building and before constraint generation, in
// declaration order (spec §5's "Ordering" note).
func (m *Module) MarkIntrinsics() {
	for _, d := range m.Decls {
		switch decl := d.(type) {
		case *ast.FuncDecl:
			intrinsics.Mark(decl)
		case *ast.ImplDecl:
			for _, method := range decl.Methods {
				intrinsics.Mark(method)
			}
		}
	}
}
