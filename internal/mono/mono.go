// Package mono implements the Monomorphization Driver (spec §4.7): from
// an entry declaration (or a list of test functions), it walks the call
// graph, specializing every polymorphic function reached to the
// concrete type it is used at, deduplicating repeat instantiations of
// the same (name, type) pair, and produces the ordered function list
// the back-end hand-off consumes.
//
// Grounded directly on original_source/src/types/instantiate/inst_driver.cpp's
// TemplateInstantiator: a FIFO work-queue (ProcessQueue/ProcessQueueItem),
// a TypesEquivalent-keyed dedup set (mono_items_/TryFindInstantiation),
// and a structural poly-to-mono map built by BuildSubstitution.
package mono

import (
	"sort"

	"github.com/sunholo/etude/internal/ast"
	"github.com/sunholo/etude/internal/errors"
	"github.com/sunholo/etude/internal/scope"
	"github.com/sunholo/etude/internal/types"
)

// Item is one monomorphized function: a concrete, fully-resolved type
// paired with the declaration it was specialized from.
type Item struct {
	Name string
	Type *types.Type
	Def  *ast.FuncDecl
}

type workItem struct {
	sym      *scope.Symbol
	monoType *types.Type
}

// maxInstantiations bounds how many items the work-queue may produce
// (spec §8/§9): a well-typed program with no recursive polymorphic
// instantiation cycle always reaches a fixed point well under this,
// since the number of distinct (function, concrete-type) pairs it can
// reach is finite. Past it, the driver is walking a cycle the type
// system should have rejected, and reports MONO001 instead of looping
// forever.
const maxInstantiations = 10000

// Driver runs the fixed-point work-queue algorithm over a program's
// whole call graph. Constructing one does no work; call Run or
// RunTests to seed the queue and drain it.
//
// callTypes and callFuncs are keyed by *ast.CallExpr, which is unique
// per call site across the whole program, so both maps may be merged
// across every loaded module before constructing a Driver: a callee's
// symbol and recorded type are looked up by the call site that reached
// it, never by re-resolving a bare name against any one module's scope
// tree (spec §4.7's "usage-aware scope lookup" — FindLocal alone
// cannot see a name exported by a different module; internal/infer
// already resolved every call site correctly once, via
// scope.Context.FindDeclForUsage, and this driver simply carries that
// resolution through instead of redoing it).
type Driver struct {
	root      *scope.Context
	callTypes map[*ast.CallExpr]*types.Type
	callFuncs map[*ast.CallExpr]*scope.Symbol

	items []*Item
	queue []workItem
}

// NewDriver builds a Driver over the entry module's root scope (used
// only to seed Run/RunTests, whose targets are always declared locally
// in the entry module) and the program-wide call-site type/func maps
// produced by internal/infer.Module and merged across every loaded
// module by internal/driver.
func NewDriver(root *scope.Context, callTypes map[*ast.CallExpr]*types.Type, callFuncs map[*ast.CallExpr]*scope.Symbol) *Driver {
	return &Driver{root: root, callTypes: callTypes, callFuncs: callFuncs}
}

// Run seeds the queue with entry at its own (already-concrete, for a
// program's `main`) type and drains it to a fixed point.
func (d *Driver) Run(entry *ast.FuncDecl) ([]*Item, error) {
	sym := d.root.FindLocal(entry.Name)
	if sym == nil || sym.Fn == nil {
		return nil, errors.Internal("mono", "entry point %q has no function symbol", entry.Name)
	}
	d.enqueue(sym, sym.Fn.Type)
	return d.drain()
}

// RunTests seeds the queue with every test function, in declaration
// order (spec §4.7's test-build entry mode), and drains it.
func (d *Driver) RunTests(tests []*ast.FuncDecl) ([]*Item, error) {
	for _, test := range tests {
		sym := d.root.FindLocal(test.Name)
		if sym == nil || sym.Fn == nil {
			return nil, errors.Internal("mono", "test %q has no function symbol", test.Name)
		}
		d.enqueue(sym, sym.Fn.Type)
	}
	return d.drain()
}

func (d *Driver) enqueue(sym *scope.Symbol, monoType *types.Type) {
	d.queue = append(d.queue, workItem{sym: sym, monoType: monoType})
}

func (d *Driver) drain() ([]*Item, error) {
	for len(d.queue) > 0 {
		if len(d.items) > maxInstantiations {
			return nil, errors.New(errors.MONO001, "mono",
				"monomorphization did not reach a fixed point after %d instantiations; "+
					"this program likely requires infinitely many instances of a polymorphic function", maxInstantiations)
		}
		item := d.queue[0]
		d.queue = d.queue[1:]
		if err := d.process(item); err != nil {
			return nil, err
		}
	}
	// Discovery order depends on call-graph traversal order, which is
	// deterministic but incidental; sort by (name, formatted type) so the
	// back-end hand-off order depends only on the program, matching spec
	// §4.7's deterministic-iteration requirement.
	sort.Slice(d.items, func(i, j int) bool {
		a, b := d.items[i], d.items[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return types.Format(a.Type) < types.Format(b.Type)
	})
	return d.items, nil
}

// alreadyInstantiated mirrors TryFindInstantiation: a (name, type) pair
// is a duplicate only if some already-produced item of the same name
// has a structurally equivalent type, not merely the same pointer —
// two call sites can each build their own fresh instantiation of the
// same polymorphic schema (spec §8's third-call-dedups scenario).
func (d *Driver) alreadyInstantiated(name string, monoType *types.Type) bool {
	for _, item := range d.items {
		if item.Name == name && types.TypesEquivalent(item.Type, monoType) {
			return true
		}
	}
	return false
}

func (d *Driver) process(item workItem) error {
	sym := item.sym
	if sym == nil || sym.Fn == nil {
		return errors.Internal("mono", "unknown function reached during monomorphization")
	}
	if d.alreadyInstantiated(sym.Name, item.monoType) {
		return nil
	}

	sub := make(map[*types.Type]*types.Type)
	if err := BuildSubstitution(sym.Fn.Type, item.monoType, sub); err != nil {
		return err
	}

	d.items = append(d.items, &Item{Name: sym.Name, Type: item.monoType, Def: sym.Fn.Def})

	if sym.Fn.Def != nil && sym.Fn.Def.Body != nil {
		collectCalls(sym.Fn.Def.Body, d.callTypes, d.callFuncs, func(calleeSym *scope.Symbol, calleeType *types.Type) {
			// calleeType was captured once, during the single shared
			// inference pass over sym's body, in terms of the
			// pre-generalization variables that pass unified (spec
			// §4.7's "Evaluate the function body under this
			// substitution"). Translate it into sym's generalized
			// schema via GenMap, then apply this instantiation's own
			// sub, so two different instantiations of sym concretize a
			// nested call differently instead of sharing one
			// permanently-unbound recording.
			concrete := concretize(calleeType, sym.Fn.GenMap, sub)
			d.enqueue(calleeSym, concrete)
		})
	}
	return nil
}

// concretize translates t — a type recorded somewhere in genMap's
// owning function's body, in terms of that function's
// pre-generalization variables — into a concrete type for one specific
// instantiation: first through genMap (old leader to generalized
// node), then through sub (generalized TParameter to this
// instantiation's concrete type). Structure outside both maps (a
// reference to some other, already-concrete or already-generic
// function) is rebuilt as-is.
func concretize(t *types.Type, genMap map[*types.Type]*types.Type, sub map[*types.Type]*types.Type) *types.Type {
	t = types.FindLeader(t)
	if generalized, ok := genMap[t]; ok {
		t = types.FindLeader(generalized)
	}
	if concrete, ok := sub[t]; ok {
		return concrete
	}
	switch t.Tag {
	case types.TPtr:
		return &types.Type{Tag: types.TPtr, Underlying: concretize(t.Underlying, genMap, sub)}
	case types.TFun:
		params := make([]*types.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = concretize(p, genMap, sub)
		}
		return &types.Type{Tag: types.TFun, Params: params, Result: concretize(t.Result, genMap, sub)}
	case types.TStruct:
		fields := make([]types.StructField, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = types.StructField{Name: f.Name, Type: concretize(f.Type, genMap, sub)}
		}
		return &types.Type{Tag: types.TStruct, Fields: fields}
	case types.TSum:
		variants := make([]types.SumVariant, len(t.Variants))
		for i, v := range t.Variants {
			variant := types.SumVariant{Tag: v.Tag}
			if v.Payload != nil {
				variant.Payload = concretize(v.Payload, genMap, sub)
			}
			variants[i] = variant
		}
		return &types.Type{Tag: types.TSum, Variants: variants}
	case types.TApp:
		args := make([]*types.Type, len(t.AppArgs))
		for i, a := range t.AppArgs {
			args[i] = concretize(a, genMap, sub)
		}
		return &types.Type{Tag: types.TApp, AppName: t.AppName, AppArgs: args, Scope: t.Scope}
	default:
		return t
	}
}

// collectCalls walks e for every reachable CallExpr whose callee
// resolved to a named function symbol, reporting (symbol, recorded
// type) for each one found in callTypes/callFuncs. Calls through a
// non-Ident callee, or an Ident that resolved to something other than
// a function (a local variable holding a function value), have no
// fixed declaration to specialize and are skipped — spec §4.7 scopes
// monomorphization to named function references.
func collectCalls(e ast.Expr, callTypes map[*ast.CallExpr]*types.Type, callFuncs map[*ast.CallExpr]*scope.Symbol, report func(sym *scope.Symbol, monoType *types.Type)) {
	if e == nil {
		return
	}
	switch expr := e.(type) {
	case *ast.CallExpr:
		if sym, ok := callFuncs[expr]; ok && sym.Kind == scope.KindFunction {
			if t, ok := callTypes[expr]; ok {
				report(sym, t)
			}
		}
		for _, a := range expr.Args {
			collectCalls(a, callTypes, callFuncs, report)
		}
	case *ast.IntrinsicExpr:
		for _, a := range expr.Args {
			collectCalls(a, callTypes, callFuncs, report)
		}
	case *ast.UnaryExpr:
		collectCalls(expr.X, callTypes, callFuncs, report)
	case *ast.BinaryExpr:
		collectCalls(expr.Left, callTypes, callFuncs, report)
		collectCalls(expr.Right, callTypes, callFuncs, report)
	case *ast.CompareExpr:
		collectCalls(expr.Left, callTypes, callFuncs, report)
		collectCalls(expr.Right, callTypes, callFuncs, report)
	case *ast.IfExpr:
		collectCalls(expr.Cond, callTypes, callFuncs, report)
		collectCalls(expr.Then, callTypes, callFuncs, report)
		collectCalls(expr.Else, callTypes, callFuncs, report)
	case *ast.Block:
		for _, sub := range expr.Exprs {
			collectCalls(sub, callTypes, callFuncs, report)
		}
	case *ast.VarExpr:
		collectCalls(expr.Value, callTypes, callFuncs, report)
	}
}

// BuildSubstitution walks poly and mono in lock-step, recording in sub
// the concrete type each TParameter of poly's schema resolves to at
// this call site. Grounded directly on
// original_source/src/types/instantiate/inst_driver.cpp's
// TemplateInstantiator::BuildSubstitution.
func BuildSubstitution(poly, mono *types.Type, sub map[*types.Type]*types.Type) error {
	poly = types.FindLeader(poly)
	mono = types.FindLeader(mono)

	switch poly.Tag {
	case types.TParameter:
		sub[poly] = mono
		return nil

	case types.TPtr:
		if mono.Tag != types.TPtr {
			return errors.Internal("mono", "substitution mismatch: expected ptr")
		}
		return BuildSubstitution(poly.Underlying, mono.Underlying, sub)

	case types.TStruct:
		if mono.Tag != types.TStruct || len(poly.Fields) != len(mono.Fields) {
			return errors.At(errors.TYP003, "mono", ast.Location{}, "struct shape mismatch during specialization")
		}
		for i := range poly.Fields {
			if err := BuildSubstitution(poly.Fields[i].Type, mono.Fields[i].Type, sub); err != nil {
				return err
			}
		}
		return nil

	case types.TSum:
		if mono.Tag != types.TSum || len(poly.Variants) != len(mono.Variants) {
			return errors.At(errors.TYP004, "mono", ast.Location{}, "sum shape mismatch during specialization")
		}
		for i := range poly.Variants {
			if poly.Variants[i].Payload == nil {
				continue
			}
			if err := BuildSubstitution(poly.Variants[i].Payload, mono.Variants[i].Payload, sub); err != nil {
				return err
			}
		}
		return nil

	case types.TFun:
		if mono.Tag != types.TFun || len(poly.Params) != len(mono.Params) {
			return errors.At(errors.TYP002, "mono", ast.Location{}, "arity mismatch during specialization")
		}
		for i := range poly.Params {
			if err := BuildSubstitution(poly.Params[i], mono.Params[i], sub); err != nil {
				return err
			}
		}
		return BuildSubstitution(poly.Result, mono.Result, sub)

	case types.TApp:
		if mono.Tag == types.TApp {
			for i := range poly.AppArgs {
				if i < len(mono.AppArgs) {
					if err := BuildSubstitution(poly.AppArgs[i], mono.AppArgs[i], sub); err != nil {
						return err
					}
				}
			}
		}
		return nil

	default:
		// Primitives and TVariable carry no parameters to substitute.
		return nil
	}
}
