package scope

import (
	"github.com/sunholo/etude/internal/ast"
	"github.com/sunholo/etude/internal/types"
)

// Build constructs a module's scope tree from its parsed declarations
// in two walks, matching spec §4.4's "Scope Builder": the first walk
// inserts every top-level declaration's symbol, lowering its surface
// TypeExpr annotations into internal/types.Type nodes; the second
// recurses into function bodies and blocks, inserting nested var
// bindings and recording every identifier's use-site, now that every
// top-level name in the module is visible regardless of declaration
// order.
//
// Grounded on original_source/src/driver/module.hpp's Module::BuildContext
// (ContextBuilder pass followed by ExpandTypeVariables).
func Build(mod *ast.Module, arena *types.Arena, exports ExportIndex) (*Context, map[*ast.Block]*Context) {
	root := NewRoot(mod.Name)
	root.Exports = exports

	b := &builder{root: root, arena: arena, blockScopes: make(map[*ast.Block]*Context)}
	for _, d := range mod.Decls {
		b.insertDecl(root, d)
	}
	for _, d := range mod.Decls {
		b.walkDeclBody(root, d)
	}
	return root, b.blockScopes
}

type builder struct {
	root        *Context
	arena       *types.Arena
	blockScopes map[*ast.Block]*Context
}

// insertDecl is the first walk's per-declaration step: it only creates
// the Symbol and assigns its type shape, without descending into
// executable bodies (that happens in walkDeclBody, once every top-level
// name already has a Symbol to be looked up against).
func (b *builder) insertDecl(ctx *Context, d ast.Decl) {
	switch decl := d.(type) {
	case *ast.FuncDecl:
		params := make([]*types.Type, len(decl.Params))
		for i, p := range decl.Params {
			params[i] = b.lowerTypeExpr(ctx, p.Type)
		}
		result := b.lowerTypeExpr(ctx, decl.ReturnType)
		fnType := b.arena.Fun(params, result)
		ctx.Insert(&Symbol{
			Kind:       KindFunction,
			Name:       decl.Name,
			DeclaredAt: decl.Pos(),
			IsComplete: true,
			Fn:         &FnPayload{ArgNum: len(decl.Params), Type: fnType, Def: decl},
		})

	case *ast.VarDecl:
		varType := b.lowerTypeExpr(ctx, decl.Type)
		ctx.Insert(&Symbol{
			Kind:       KindStatic,
			Name:       decl.Name,
			DeclaredAt: decl.Pos(),
			IsComplete: true,
			Var:        &VarPayload{Type: varType},
		})

	case *ast.TypeDecl:
		body := b.lowerTypeDeclBody(ctx, decl)
		cons := b.arena.Cons(decl.Params, body)
		ctx.Insert(&Symbol{
			Kind:       KindType,
			Name:       decl.Name,
			DeclaredAt: decl.Pos(),
			IsComplete: true,
			Type:       &TypePayload{Type: cons},
		})

	case *ast.TraitDecl:
		ctx.Insert(&Symbol{
			Kind:       KindTrait,
			Name:       decl.Name,
			DeclaredAt: decl.Pos(),
			IsComplete: true,
			Trait:      &TraitPayload{Decl: decl},
		})

	case *ast.ImplDecl:
		for _, m := range decl.Methods {
			params := make([]*types.Type, len(m.Params))
			for i, p := range m.Params {
				params[i] = b.lowerTypeExpr(ctx, p.Type)
			}
			result := b.lowerTypeExpr(ctx, m.ReturnType)
			fnType := b.arena.Fun(params, result)
			ctx.Insert(&Symbol{
				Kind:       KindTraitMethod,
				Name:       m.Name,
				DeclaredAt: m.Pos(),
				IsComplete: true,
				Fn:         &FnPayload{ArgNum: len(m.Params), Type: fnType, Def: m},
			})
		}
	}
}

// lowerTypeDeclBody builds the TCons body for a TypeDecl, by kind.
func (b *builder) lowerTypeDeclBody(ctx *Context, decl *ast.TypeDecl) *types.Type {
	switch decl.Kind {
	case ast.TypeStruct:
		fields := make([]types.StructField, len(decl.Fields))
		for i, f := range decl.Fields {
			fields[i] = types.StructField{Name: f.Name, Type: b.lowerTypeExpr(ctx, f.Type)}
		}
		return b.arena.Struct(fields)
	case ast.TypeSum:
		variants := make([]types.SumVariant, len(decl.Variants))
		for i, v := range decl.Variants {
			variant := types.SumVariant{Tag: v.Tag}
			if v.Payload != nil {
				variant.Payload = b.lowerTypeExpr(ctx, v.Payload)
			}
			variants[i] = variant
		}
		return b.arena.Sum(variants)
	default: // ast.TypeConstructor: alias body
		return b.lowerTypeExpr(ctx, decl.Body)
	}
}

// lowerTypeExpr lowers one surface annotation into a Type node. A nil
// annotation (the programmer omitted it) yields a fresh inference
// variable, scoped to ctx so later `app` expansion can resolve through
// it. Built-in primitive names are recognized directly; every other
// name becomes a lazily-resolved `app` node, deferring to ResolveConstructor
// at unification time (spec §4.6.1) rather than eagerly looking the
// declaration up here, which would require declaration order.
func (b *builder) lowerTypeExpr(ctx *Context, te ast.TypeExpr) *types.Type {
	if te == nil {
		return b.arena.FreshVar(ctx)
	}
	named, ok := te.(*ast.NamedTypeExpr)
	if !ok {
		return b.arena.FreshVar(ctx)
	}
	switch named.Name {
	case "Int":
		return b.arena.Int()
	case "Bool":
		return b.arena.Bool()
	case "Char":
		return b.arena.Char()
	case "Unit":
		return b.arena.Unit()
	case "Never":
		return b.arena.Never()
	}
	args := make([]*types.Type, len(named.Args))
	for i, a := range named.Args {
		args[i] = b.lowerTypeExpr(ctx, a)
	}
	return b.arena.App(named.Name, args, ctx)
}

// walkDeclBody is the second walk's executable-code half: it descends
// into function bodies (which insertDecl deliberately skipped) now that
// every top-level name is resolvable regardless of textual order.
func (b *builder) walkDeclBody(ctx *Context, d ast.Decl) {
	switch decl := d.(type) {
	case *ast.FuncDecl:
		if decl.Body == nil {
			return
		}
		fnScope := ctx.NewChild(decl.Name, decl.Pos())
		sym := ctx.FindLocal(decl.Name)
		var fnType *types.Type
		if sym != nil && sym.Fn != nil {
			fnType = sym.Fn.Type
			sym.Fn.Scope = fnScope
		}
		for i, p := range decl.Params {
			var pType *types.Type
			if fnType != nil && i < len(fnType.Params) {
				pType = fnType.Params[i]
			} else {
				pType = b.arena.FreshVar(fnScope)
			}
			fnScope.Insert(&Symbol{
				Kind:       KindVariable,
				Name:       p.Name,
				DeclaredAt: decl.Pos(),
				IsComplete: true,
				Var:        &VarPayload{Type: pType},
			})
		}
		b.walkExpr(fnScope, decl.Body)

	case *ast.VarDecl:
		if decl.Value != nil {
			b.walkExpr(ctx, decl.Value)
		}

	case *ast.ImplDecl:
		for _, m := range decl.Methods {
			if m.Body == nil {
				continue
			}
			methodScope := ctx.NewChild(m.Name, m.Pos())
			if methodSym := ctx.FindLocal(m.Name); methodSym != nil && methodSym.Fn != nil {
				methodSym.Fn.Scope = methodScope
			}
			for _, p := range m.Params {
				methodScope.Insert(&Symbol{
					Kind:       KindVariable,
					Name:       p.Name,
					DeclaredAt: m.Pos(),
					IsComplete: true,
					Var:        &VarPayload{Type: b.lowerTypeExpr(methodScope, p.Type)},
				})
			}
			b.walkExpr(methodScope, m.Body)
		}
	}
}

// walkExpr recurses through an expression tree, opening a new Context
// for each Block (spec §4.4 "scope creation"), inserting a binding for
// every VarExpr in declaration order, and recording a use-site on
// whatever Symbol resolves for every Ident encountered.
func (b *builder) walkExpr(ctx *Context, e ast.Expr) {
	if e == nil {
		return
	}
	switch expr := e.(type) {
	case *ast.Ident:
		if sym, ok := ctx.FindDeclForUsage(expr.Name, expr.Pos()); ok {
			sym.RecordUse(expr.Pos())
		}

	case *ast.Literal:
		// no sub-structure

	case *ast.UnaryExpr:
		b.walkExpr(ctx, expr.X)

	case *ast.BinaryExpr:
		b.walkExpr(ctx, expr.Left)
		b.walkExpr(ctx, expr.Right)

	case *ast.CompareExpr:
		b.walkExpr(ctx, expr.Left)
		b.walkExpr(ctx, expr.Right)

	case *ast.IfExpr:
		b.walkExpr(ctx, expr.Cond)
		b.walkExpr(ctx, expr.Then)
		b.walkExpr(ctx, expr.Else)

	case *ast.CallExpr:
		b.walkExpr(ctx, expr.Callee)
		for _, a := range expr.Args {
			b.walkExpr(ctx, a)
		}

	case *ast.IntrinsicExpr:
		for _, a := range expr.Args {
			b.walkExpr(ctx, a)
		}

	case *ast.VarExpr:
		b.walkExpr(ctx, expr.Value)
		ctx.Insert(&Symbol{
			Kind:       KindVariable,
			Name:       expr.Name,
			DeclaredAt: expr.Pos(),
			IsComplete: true,
			Var:        &VarPayload{Type: b.arena.FreshVar(ctx)},
		})

	case *ast.Block:
		child := ctx.NewChild("<block>", expr.Pos())
		b.blockScopes[expr] = child
		for _, sub := range expr.Exprs {
			b.walkExpr(child, sub)
		}
	}
}
