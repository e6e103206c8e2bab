// Package ir defines the back-end hand-off boundary (spec §1, §4.7):
// the concrete, fully-monomorphized program the compiler produces for
// an external code generator to consume. The generator itself (an
// external QBE-like emitter) is explicitly out of scope; this package
// only defines the contract a generator implements and the data
// crossing it.
//
// Grounded on original_source/src/driver/module.hpp's Module::Compile,
// which hands a (monomorphic function list, generic-type list) pair to
// qbe::IrEmitter via EmitTypes + one Accept call per function.
package ir

import (
	"github.com/sunholo/etude/internal/ast"
	"github.com/sunholo/etude/internal/mono"
	"github.com/sunholo/etude/internal/types"
)

// Program is the complete hand-off payload for one compilation: every
// concrete composite type referenced by the monomorphized program,
// followed by the monomorphized functions themselves, in the
// deterministic order the Monomorphization Driver produced them.
type Program struct {
	Types     []*types.Type
	Functions []*mono.Item
}

// Backend is the contract an external code generator implements. It is
// never called from within this module — defining it here documents
// the hand-off without taking on a dependency on any particular
// generator.
type Backend interface {
	EmitTypes(types []*types.Type)
	EmitFunction(name string, fnType *types.Type, def *ast.FuncDecl)
}

// Emit drives backend over prog exactly as Module::Compile drives
// qbe::IrEmitter: all composite types up front, then one call per
// function in monomorphization order.
func Emit(prog *Program, backend Backend) {
	backend.EmitTypes(prog.Types)
	for _, fn := range prog.Functions {
		backend.EmitFunction(fn.Name, fn.Type, fn.Def)
	}
}

// CollectTypes gathers every struct/sum composite type reachable from
// prog's monomorphized function signatures, deduplicated by structural
// equivalence, for Program.Types.
func CollectTypes(items []*mono.Item) []*types.Type {
	var collected []*types.Type
	seen := func(t *types.Type) bool {
		for _, c := range collected {
			if types.TypesEquivalent(c, t) {
				return true
			}
		}
		return false
	}
	var visit func(t *types.Type)
	visited := make(map[*types.Type]bool)
	visit = func(t *types.Type) {
		t = types.FindLeader(t)
		if visited[t] {
			return
		}
		visited[t] = true
		switch t.Tag {
		case types.TStruct, types.TSum:
			if !seen(t) {
				collected = append(collected, t)
			}
			if t.Tag == types.TStruct {
				for _, f := range t.Fields {
					visit(f.Type)
				}
			} else {
				for _, v := range t.Variants {
					if v.Payload != nil {
						visit(v.Payload)
					}
				}
			}
		case types.TPtr:
			visit(t.Underlying)
		case types.TFun:
			for _, p := range t.Params {
				visit(p)
			}
			visit(t.Result)
		case types.TApp:
			for _, a := range t.AppArgs {
				visit(a)
			}
		}
	}
	for _, item := range items {
		visit(item.Type)
	}
	return collected
}
