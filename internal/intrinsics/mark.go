// Package intrinsics implements the Intrinsic Marker (spec §4.5): a
// purely mechanical, post-scope-build pass that rewrites CallExpr nodes
// whose callee names a fixed built-in into an IntrinsicExpr, so later
// stages never have to special-case a handful of magic identifiers by
// name again.
//
// Grounded on the teacher's internal/elaborate package shape (a single
// exported Mark/Elaborate entry point walking a declaration's body) and
// original_source/src/ast/elaboration/mark_intrinsics.hpp's
// MarkIntrinsics visitor, referenced from Module::MarkIntrinsics in
// original_source/src/driver/module.hpp. The original's intrinsic table
// wasn't part of the pack's retrieved source; the set below covers the
// I/O and allocation primitives a small hosted language needs beyond
// what BinaryExpr/CompareExpr already model for arithmetic and
// comparison.
package intrinsics

import "github.com/sunholo/etude/internal/ast"

// Names is the fixed table of built-in identifiers the marker rewrites.
// Arithmetic and comparison operators are already distinct AST node
// kinds (BinaryExpr, CompareExpr) by the time this pass runs, so this
// table only needs the call-form built-ins.
var Names = map[string]bool{
	"print":   true,
	"println": true,
	"alloc":   true,
	"len":     true,
	"panic":   true,
}

// Mark rewrites every CallExpr in decl's body whose callee is a bare
// Ident naming a built-in into an IntrinsicExpr, in place. Declarations
// without a body (extern functions, type/trait declarations) are no-ops.
func Mark(decl *ast.FuncDecl) {
	if decl.Body == nil {
		return
	}
	decl.Body = markExpr(decl.Body)
}

func markExpr(e ast.Expr) ast.Expr {
	switch expr := e.(type) {
	case *ast.CallExpr:
		for i, a := range expr.Args {
			expr.Args[i] = markExpr(a)
		}
		if ident, ok := expr.Callee.(*ast.Ident); ok && Names[ident.Name] {
			intrinsic := &ast.IntrinsicExpr{Name: ident.Name, Args: expr.Args}
			intrinsic.Loc = expr.Pos()
			return intrinsic
		}
		expr.Callee = markExpr(expr.Callee)
		return expr

	case *ast.UnaryExpr:
		expr.X = markExpr(expr.X)
		return expr

	case *ast.BinaryExpr:
		expr.Left = markExpr(expr.Left)
		expr.Right = markExpr(expr.Right)
		return expr

	case *ast.CompareExpr:
		expr.Left = markExpr(expr.Left)
		expr.Right = markExpr(expr.Right)
		return expr

	case *ast.IfExpr:
		expr.Cond = markExpr(expr.Cond)
		expr.Then = markExpr(expr.Then)
		expr.Else = markExpr(expr.Else)
		return expr

	case *ast.Block:
		for i, sub := range expr.Exprs {
			expr.Exprs[i] = markExpr(sub)
		}
		return expr

	case *ast.VarExpr:
		expr.Value = markExpr(expr.Value)
		return expr

	default:
		return e
	}
}
