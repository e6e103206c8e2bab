// Package infer implements constraint generation and solving (spec
// §4.6): it walks each module's declarations in source order, producing
// an equality constraint at every expression and unifying it
// immediately against the type the Scope Builder already assigned
// (fresh variable or lowered annotation). There is no deferred
// constraint set or fixpoint loop — unification is eager; lazy
// expansion of `app` constructors (internal/types.expandOnce) is the
// only deferred step, exactly as spec §4.6's "Solver order" specifies.
//
// Grounded on original_source/src/types/constraints/unify.cpp's
// ConstraintSolver and the per-declaration walk in
// original_source/src/driver/module.hpp's Module::Infer.
package infer

import (
	"github.com/sunholo/etude/internal/ast"
	"github.com/sunholo/etude/internal/errors"
	"github.com/sunholo/etude/internal/module"
	"github.com/sunholo/etude/internal/scope"
	"github.com/sunholo/etude/internal/types"
)

// Module infers and immediately generalizes every top-level function and
// trait-impl method in m, in declaration order. Must run after
// m.BuildScope and m.MarkIntrinsics. On success, m.CallSiteTypes is
// populated with the resolved (possibly freshly-instantiated) callee
// type observed at every call site, and m.CallSiteFuncs with the
// scope.Symbol it was resolved to (via the same usage-aware,
// Export-Index-falling-through lookup the Ident case uses) — which
// internal/mono consumes to discover and specialize reachable
// functions without re-resolving a bare name against a single module's
// scope tree.
func Module(m *module.Module, arena *types.Arena) error {
	inf := &inferer{
		arena:       arena,
		blockScopes: m.BlockScopes,
		callTypes:   make(map[*ast.CallExpr]*types.Type),
		callFuncs:   make(map[*ast.CallExpr]*scope.Symbol),
	}
	for _, d := range m.Decls {
		if err := inf.decl(m.Root, d); err != nil {
			return err
		}
	}
	m.CallSiteTypes = inf.callTypes
	m.CallSiteFuncs = inf.callFuncs
	return nil
}

type inferer struct {
	arena       *types.Arena
	blockScopes map[*ast.Block]*scope.Context
	callTypes   map[*ast.CallExpr]*types.Type
	callFuncs   map[*ast.CallExpr]*scope.Symbol
}

func (inf *inferer) decl(ctx *scope.Context, d ast.Decl) error {
	switch decl := d.(type) {
	case *ast.FuncDecl:
		return inf.inferFunc(ctx, decl)

	case *ast.VarDecl:
		sym := ctx.FindLocal(decl.Name)
		if sym == nil || decl.Value == nil {
			return nil
		}
		valType, err := inf.expr(ctx, decl.Value)
		if err != nil {
			return err
		}
		return types.Unify(sym.Var.Type, valType, decl.Pos())

	case *ast.ImplDecl:
		for _, m := range decl.Methods {
			if err := inf.inferFunc(ctx, m); err != nil {
				return err
			}
		}
	}
	return nil
}

func (inf *inferer) inferFunc(ctx *scope.Context, decl *ast.FuncDecl) error {
	if decl.Body == nil {
		return nil
	}
	sym := ctx.FindLocal(decl.Name)
	if sym == nil || sym.Fn == nil || sym.Fn.Scope == nil {
		return errors.Internal("infer", "function %q has no scope recorded by the builder", decl.Name)
	}
	bodyType, err := inf.expr(sym.Fn.Scope, decl.Body)
	if err != nil {
		return err
	}
	if err := types.Unify(sym.Fn.Type.Result, bodyType, decl.Pos()); err != nil {
		return err
	}
	sym.Fn.Type, sym.Fn.GenMap = types.GeneralizeWithMap(sym.Fn.Type)
	return nil
}

// expr infers the type of e within ctx, unifying immediately wherever
// an expression's shape constrains it (if-branches, comparison
// operands, call arity) and returning e's resulting type.
func (inf *inferer) expr(ctx *scope.Context, e ast.Expr) (*types.Type, error) {
	switch expr := e.(type) {
	case *ast.Literal:
		switch expr.Kind {
		case ast.LitInt:
			return inf.arena.Int(), nil
		case ast.LitBool:
			return inf.arena.Bool(), nil
		case ast.LitChar:
			return inf.arena.Char(), nil
		default:
			return inf.arena.Unit(), nil
		}

	case *ast.Ident:
		sym, ok := ctx.FindDeclForUsage(expr.Name, expr.Pos())
		if !ok {
			return nil, scope.Undeclared(expr.Name, expr.Pos())
		}
		t := sym.GetType()
		if t == nil {
			return nil, errors.Internal("infer", "symbol %q has no type", expr.Name)
		}
		if isPolymorphicFunction(sym) {
			return types.Instantiate(inf.arena, t, ctx), nil
		}
		return t, nil

	case *ast.UnaryExpr:
		xType, err := inf.expr(ctx, expr.X)
		if err != nil {
			return nil, err
		}
		switch expr.Op {
		case "!":
			if err := types.Unify(xType, inf.arena.Bool(), expr.Pos()); err != nil {
				return nil, err
			}
			return inf.arena.Bool(), nil
		default:
			if err := types.Unify(xType, inf.arena.Int(), expr.Pos()); err != nil {
				return nil, err
			}
			return inf.arena.Int(), nil
		}

	case *ast.BinaryExpr:
		leftType, err := inf.expr(ctx, expr.Left)
		if err != nil {
			return nil, err
		}
		rightType, err := inf.expr(ctx, expr.Right)
		if err != nil {
			return nil, err
		}
		if err := types.Unify(leftType, inf.arena.Int(), expr.Pos()); err != nil {
			return nil, err
		}
		if err := types.Unify(rightType, inf.arena.Int(), expr.Pos()); err != nil {
			return nil, err
		}
		return inf.arena.Int(), nil

	case *ast.CompareExpr:
		leftType, err := inf.expr(ctx, expr.Left)
		if err != nil {
			return nil, err
		}
		rightType, err := inf.expr(ctx, expr.Right)
		if err != nil {
			return nil, err
		}
		if err := types.Unify(leftType, rightType, expr.Pos()); err != nil {
			return nil, err
		}
		return inf.arena.Bool(), nil

	case *ast.IfExpr:
		condType, err := inf.expr(ctx, expr.Cond)
		if err != nil {
			return nil, err
		}
		if err := types.Unify(condType, inf.arena.Bool(), expr.Cond.Pos()); err != nil {
			return nil, err
		}
		thenType, err := inf.expr(ctx, expr.Then)
		if err != nil {
			return nil, err
		}
		elseType, err := inf.expr(ctx, expr.Else)
		if err != nil {
			return nil, err
		}
		if err := types.Unify(thenType, elseType, expr.Pos()); err != nil {
			return nil, err
		}
		return thenType, nil

	case *ast.CallExpr:
		calleeType, err := inf.expr(ctx, expr.Callee)
		if err != nil {
			return nil, err
		}
		calleeType = types.FindLeader(calleeType)
		inf.callTypes[expr] = calleeType
		if ident, ok := expr.Callee.(*ast.Ident); ok {
			if sym, ok := ctx.FindDeclForUsage(ident.Name, ident.Pos()); ok {
				inf.callFuncs[expr] = sym
			}
		}
		argTypes := make([]*types.Type, len(expr.Args))
		for i, a := range expr.Args {
			argTypes[i], err = inf.expr(ctx, a)
			if err != nil {
				return nil, err
			}
		}
		if calleeType.Tag != types.TFun {
			result := inf.arena.FreshVar(ctx)
			want := inf.arena.Fun(argTypes, result)
			if err := types.Unify(calleeType, want, expr.Pos()); err != nil {
				return nil, err
			}
			return result, nil
		}
		if len(calleeType.Params) != len(argTypes) {
			return nil, errors.At(errors.TYP002, "infer", expr.Pos(),
				"call expects %d argument(s), got %d", len(calleeType.Params), len(argTypes))
		}
		for i, want := range calleeType.Params {
			if err := types.Unify(want, argTypes[i], expr.Args[i].Pos()); err != nil {
				return nil, err
			}
		}
		return calleeType.Result, nil

	case *ast.IntrinsicExpr:
		for _, a := range expr.Args {
			if _, err := inf.expr(ctx, a); err != nil {
				return nil, err
			}
		}
		return inf.arena.FreshVar(ctx), nil

	case *ast.VarExpr:
		valType, err := inf.expr(ctx, expr.Value)
		if err != nil {
			return nil, err
		}
		sym, ok := ctx.FindDeclForUsage(expr.Name, expr.Pos())
		if ok && sym.DeclaredAt == expr.Pos() {
			if err := types.Unify(sym.Var.Type, valType, expr.Pos()); err != nil {
				return nil, err
			}
		}
		return inf.arena.Unit(), nil

	case *ast.Block:
		blockCtx, ok := inf.blockScopes[expr]
		if !ok {
			return nil, errors.Internal("infer", "block at %s has no recorded scope", expr.Pos())
		}
		if len(expr.Exprs) == 0 {
			return inf.arena.Unit(), nil
		}
		var last *types.Type
		var err error
		for _, sub := range expr.Exprs {
			last, err = inf.expr(blockCtx, sub)
			if err != nil {
				return nil, err
			}
		}
		return last, nil
	}
	return nil, errors.Internal("infer", "unhandled expression node %T", e)
}

// isPolymorphicFunction reports whether sym names a function whose
// declared type carries any TParameter node, i.e. whether each
// reference to it must be freshly instantiated rather than used as-is.
// Only top-level functions are ever generalized (spec §4.6).
func isPolymorphicFunction(sym *scope.Symbol) bool {
	if sym.Kind != scope.KindFunction || sym.Fn == nil {
		return false
	}
	return hasParameter(sym.Fn.Type)
}

func hasParameter(t *types.Type) bool {
	seen := make(map[*types.Type]bool)
	var walk func(t *types.Type) bool
	walk = func(t *types.Type) bool {
		t = types.FindLeader(t)
		if seen[t] {
			return false
		}
		seen[t] = true
		switch t.Tag {
		case types.TParameter:
			return true
		case types.TPtr:
			return walk(t.Underlying)
		case types.TFun:
			for _, p := range t.Params {
				if walk(p) {
					return true
				}
			}
			return walk(t.Result)
		case types.TStruct:
			for _, f := range t.Fields {
				if walk(f.Type) {
					return true
				}
			}
		case types.TSum:
			for _, v := range t.Variants {
				if v.Payload != nil && walk(v.Payload) {
					return true
				}
			}
		case types.TApp:
			for _, a := range t.AppArgs {
				if walk(a) {
					return true
				}
			}
		}
		return false
	}
	return walk(t)
}
