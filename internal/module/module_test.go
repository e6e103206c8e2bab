package module

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/etude/internal/ast"
	"github.com/sunholo/etude/internal/types"
)

func TestFromAST_CollectsTestFunctions(t *testing.T) {
	regular := &ast.FuncDecl{Name: "helper"}
	tagged := &ast.FuncDecl{Name: "check_it", IsTest: true}
	file := &ast.Module{
		Exports: map[string]bool{},
		Decls:   []ast.Decl{regular, tagged},
	}

	m := FromAST("main", "/tmp/main.et", file)

	require.Len(t, m.Tests, 1)
	assert.Equal(t, "check_it", m.Tests[0].Name)
	assert.Equal(t, "main", m.Name)
	assert.Same(t, file, m.AST)
}

func TestMarkIntrinsics_RewritesCallsInEveryDecl(t *testing.T) {
	call := &ast.CallExpr{Callee: &ast.Ident{Name: "print"}}
	fn := &ast.FuncDecl{Name: "f", Body: call}
	file := &ast.Module{Exports: map[string]bool{}, Decls: []ast.Decl{fn}}
	m := FromAST("main", "/tmp/main.et", file)

	m.MarkIntrinsics()

	_, ok := fn.Body.(*ast.IntrinsicExpr)
	assert.True(t, ok)
}

func TestBuildScope_PopulatesRootAndBlockScopes(t *testing.T) {
	block := &ast.Block{Exprs: []ast.Expr{&ast.Literal{Kind: ast.LitUnit}}}
	fn := &ast.FuncDecl{Name: "f", Body: block}
	file := &ast.Module{Exports: map[string]bool{}, Decls: []ast.Decl{fn}}
	m := FromAST("main", "/tmp/main.et", file)

	m.BuildScope(types.NewArena(), nil)

	require.NotNil(t, m.Root)
	_, ok := m.BlockScopes[block]
	assert.True(t, ok)
}
