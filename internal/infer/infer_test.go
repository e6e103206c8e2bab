package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/etude/internal/ast"
	"github.com/sunholo/etude/internal/module"
	"github.com/sunholo/etude/internal/types"
)

func build(decls ...ast.Decl) (*module.Module, *types.Arena) {
	file := &ast.Module{Name: "main", Exports: map[string]bool{}, Decls: decls}
	m := module.FromAST("main", "/tmp/main.et", file)
	arena := types.NewArena()
	m.BuildScope(arena, nil)
	m.MarkIntrinsics()
	return m, arena
}

func TestModule_InfersConcreteLiteralBody(t *testing.T) {
	fn := &ast.FuncDecl{
		Name:       "one",
		ReturnType: &ast.NamedTypeExpr{Name: "Int"},
		Body:       &ast.Literal{Kind: ast.LitInt, Int: 1},
	}
	m, arena := build(fn)
	require.NoError(t, Module(m, arena))

	sym := m.Root.FindLocal("one")
	require.NotNil(t, sym)
	assert.Equal(t, types.TInt, types.FindLeader(sym.Fn.Type.Result).Tag)
}

func TestModule_RejectsMismatchedReturnType(t *testing.T) {
	fn := &ast.FuncDecl{
		Name:       "bad",
		ReturnType: &ast.NamedTypeExpr{Name: "Bool"},
		Body:       &ast.Literal{Kind: ast.LitInt, Int: 1},
	}
	m, arena := build(fn)
	err := Module(m, arena)
	require.Error(t, err)
}

func TestModule_IfBranchesMustUnify(t *testing.T) {
	fn := &ast.FuncDecl{
		Name: "choose",
		Body: &ast.IfExpr{
			Cond: &ast.Literal{Kind: ast.LitBool, Bool: true},
			Then: &ast.Literal{Kind: ast.LitInt, Int: 1},
			Else: &ast.Literal{Kind: ast.LitBool, Bool: false},
		},
	}
	m, arena := build(fn)
	err := Module(m, arena)
	require.Error(t, err)
}

func TestModule_PolymorphicIdentityInstantiatesFreshPerCallSite(t *testing.T) {
	idFn := &ast.FuncDecl{
		Name:   "id",
		Params: []ast.Param{{Name: "x"}},
		Body:   &ast.Ident{Name: "x"},
	}
	callInt := &ast.CallExpr{Callee: &ast.Ident{Name: "id"}, Args: []ast.Expr{&ast.Literal{Kind: ast.LitInt, Int: 1}}}
	callBool := &ast.CallExpr{Callee: &ast.Ident{Name: "id"}, Args: []ast.Expr{&ast.Literal{Kind: ast.LitBool, Bool: true}}}
	useInt := &ast.FuncDecl{Name: "use_int", Body: callInt}
	useBool := &ast.FuncDecl{Name: "use_bool", Body: callBool}

	m, arena := build(idFn, useInt, useBool)
	require.NoError(t, Module(m, arena))

	idSym := m.Root.FindLocal("id")
	require.NotNil(t, idSym)
	assert.Equal(t, types.TParameter, idSym.Fn.Type.Params[0].Tag)
}

func TestModule_CallArityMismatchFails(t *testing.T) {
	fn := &ast.FuncDecl{
		Name:   "needs_two",
		Params: []ast.Param{{Name: "a"}, {Name: "b"}},
		Body:   &ast.Ident{Name: "a"},
	}
	call := &ast.CallExpr{Callee: &ast.Ident{Name: "needs_two"}, Args: []ast.Expr{&ast.Literal{Kind: ast.LitInt, Int: 1}}}
	caller := &ast.FuncDecl{Name: "caller", Body: call}

	m, arena := build(fn, caller)
	err := Module(m, arena)
	require.Error(t, err)
}
