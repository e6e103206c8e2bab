package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/etude/internal/ast"
)

func TestParser_FuncAndCall(t *testing.T) {
	src := `module main
fun f() Int { return 1 + 2; }
export fun main() Int { return f(); }
`
	p := New("main", []byte(src))
	mod := p.ParseModule()
	require.Empty(t, p.Errors())
	require.Equal(t, "main", mod.Name)
	require.Len(t, mod.Decls, 2)

	f, ok := mod.Decls[0].(*ast.FuncDecl)
	require.True(t, ok)
	require.Equal(t, "f", f.Name)
	require.False(t, mod.Exports["f"])

	main, ok := mod.Decls[1].(*ast.FuncDecl)
	require.True(t, ok)
	require.Equal(t, "main", main.Name)
	require.True(t, mod.Exports["main"])
}

func TestParser_ShadowingVars(t *testing.T) {
	src := `fun f() Int { var x = 5; var x = 4; return x; }`
	p := New("main", []byte(src))
	mod := p.ParseModule()
	require.Empty(t, p.Errors())

	fn := mod.Decls[0].(*ast.FuncDecl)
	block := fn.Body.(*ast.Block)
	require.Len(t, block.Exprs, 3)
	_, ok := block.Exprs[0].(*ast.VarExpr)
	require.True(t, ok)
	_, ok = block.Exprs[1].(*ast.VarExpr)
	require.True(t, ok)
}

func TestParser_Import(t *testing.T) {
	src := `module main
import a
export fun main() Int { return x; }
`
	p := New("main", []byte(src))
	mod := p.ParseModule()
	require.Empty(t, p.Errors())
	require.Len(t, mod.Imports, 1)
	require.Equal(t, "a", mod.Imports[0].Name)
}

func TestParser_TypeDecl(t *testing.T) {
	src := `type Maybe(T) = sum { None, Some(T) }`
	p := New("main", []byte(src))
	mod := p.ParseModule()
	require.Empty(t, p.Errors())

	td := mod.Decls[0].(*ast.TypeDecl)
	require.Equal(t, "Maybe", td.Name)
	require.Equal(t, []string{"T"}, td.Params)
	require.Equal(t, ast.TypeSum, td.Kind)
	require.Len(t, td.Variants, 2)
	require.Equal(t, "None", td.Variants[0].Tag)
	require.Nil(t, td.Variants[0].Payload)
	require.Equal(t, "Some", td.Variants[1].Tag)
	require.NotNil(t, td.Variants[1].Payload)
}

func TestParser_TestAttribute(t *testing.T) {
	src := `@test
fun checks_something() Bool { true }`
	p := New("main", []byte(src))
	mod := p.ParseModule()
	require.Empty(t, p.Errors())

	fn := mod.Decls[0].(*ast.FuncDecl)
	require.Equal(t, "checks_something", fn.Name)
	require.True(t, fn.IsTest)
}

func TestParser_SyntaxError(t *testing.T) {
	src := `fun () Int { return 1; }`
	p := New("main", []byte(src))
	p.ParseModule()
	require.NotEmpty(t, p.Errors())
}
