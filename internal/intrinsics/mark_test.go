package intrinsics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/etude/internal/ast"
)

func TestMark_RewritesBuiltinCall(t *testing.T) {
	call := &ast.CallExpr{
		Callee: &ast.Ident{Name: "print"},
		Args:   []ast.Expr{&ast.Literal{Kind: ast.LitInt, Int: 1}},
	}
	decl := &ast.FuncDecl{Name: "f", Body: call}

	Mark(decl)

	intrinsic, ok := decl.Body.(*ast.IntrinsicExpr)
	require.True(t, ok)
	assert.Equal(t, "print", intrinsic.Name)
	assert.Len(t, intrinsic.Args, 1)
}

func TestMark_LeavesOrdinaryCallsAlone(t *testing.T) {
	call := &ast.CallExpr{
		Callee: &ast.Ident{Name: "helper"},
	}
	decl := &ast.FuncDecl{Name: "f", Body: call}

	Mark(decl)

	_, stillCall := decl.Body.(*ast.CallExpr)
	assert.True(t, stillCall)
}

func TestMark_RecursesIntoNestedBlocks(t *testing.T) {
	inner := &ast.CallExpr{Callee: &ast.Ident{Name: "len"}}
	block := &ast.Block{Exprs: []ast.Expr{inner}}
	decl := &ast.FuncDecl{Name: "f", Body: block}

	Mark(decl)

	b := decl.Body.(*ast.Block)
	_, ok := b.Exprs[0].(*ast.IntrinsicExpr)
	assert.True(t, ok)
}

func TestMark_NoBodyIsNoop(t *testing.T) {
	decl := &ast.FuncDecl{Name: "extern_fn", IsExtern: true}
	assert.NotPanics(t, func() { Mark(decl) })
}
