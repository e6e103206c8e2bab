// Package ast defines the node shapes the rest of the pipeline consumes
// from the parser. The parser itself is an external collaborator (see
// internal/parser); this package is the contract between it and every
// later stage: scope building, intrinsic marking, inference and
// monomorphization all walk these types only.
package ast

import (
	"fmt"
	"strings"
)

// Location is the (module-reference, line, column) triple every AST node
// carries. Line/column are zero-indexed internally; Display renders them
// one-indexed, matching the diagnostics format.
type Location struct {
	Module string
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.Module, l.Line+1, l.Column+1)
}

// Display renders the one-indexed "line = L, column = C" form used by
// the CLI diagnostics boundary.
func (l Location) Display() string {
	return fmt.Sprintf("line = %d, column = %d", l.Line+1, l.Column+1)
}

// Before reports whether l occurs at or before other in textual order,
// compared lexicographically by (line, column). Used by usage-aware
// lookup (internal/scope) to disambiguate shadowed bindings.
func (l Location) Before(other Location) bool {
	if l.Line != other.Line {
		return l.Line < other.Line
	}
	return l.Column <= other.Column
}

// Node is the base interface every AST node implements.
type Node interface {
	Pos() Location
}

// Expr is any expression node.
type Expr interface {
	Node
	exprNode()
}

// Decl is any top-level declaration node.
type Decl interface {
	Node
	declNode()
}

// base carries the common Location field; embedded by every node.
type base struct {
	Loc Location
}

func (b base) Pos() Location { return b.Loc }

// ---- Imports & module header ---------------------------------------------

// Import is a single import statement.
type Import struct {
	base
	Name string
}

// Module is the parsed representation of one source file, before the
// loader assigns its canonical Name/FilePath (see internal/module.Module,
// which wraps this).
type Module struct {
	base
	Name    string
	Imports []*Import
	Exports map[string]bool
	Decls   []Decl
}

func (m *Module) String() string {
	var parts []string
	for _, imp := range m.Imports {
		parts = append(parts, "import "+imp.Name)
	}
	for _, d := range m.Decls {
		parts = append(parts, fmt.Sprintf("%T", d))
	}
	return strings.Join(parts, "\n")
}

// ---- Expressions -----------------------------------------------------------

type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitBool
	LitChar
	LitUnit
)

type Literal struct {
	base
	Kind LiteralKind
	Int  int64
	Bool bool
	Char rune
}

func (*Literal) exprNode() {}
func (l *Literal) String() string {
	switch l.Kind {
	case LitInt:
		return fmt.Sprintf("%d", l.Int)
	case LitBool:
		return fmt.Sprintf("%t", l.Bool)
	case LitChar:
		return fmt.Sprintf("%q", l.Char)
	default:
		return "()"
	}
}

// Ident is an lvalue / identifier reference.
type Ident struct {
	base
	Name string
}

func (*Ident) exprNode()        {}
func (i *Ident) String() string { return i.Name }

type UnaryExpr struct {
	base
	Op string
	X  Expr
}

func (*UnaryExpr) exprNode() {}

type BinaryExpr struct {
	base
	Op          string
	Left, Right Expr
}

func (*BinaryExpr) exprNode() {}

// CompareExpr is kept distinct from BinaryExpr because the constraint
// generator treats comparisons specially: both sides unify with each
// other, never with the result, which is always Bool.
type CompareExpr struct {
	base
	Op          string
	Left, Right Expr
}

func (*CompareExpr) exprNode() {}

type IfExpr struct {
	base
	Cond, Then, Else Expr
}

func (*IfExpr) exprNode() {}

// Block is a brace-delimited sequence; its type is that of its final
// expression, or Unit if empty.
type Block struct {
	base
	Exprs []Expr
}

func (*Block) exprNode() {}

// CallExpr is a function application. After the Intrinsic Marker pass,
// calls to built-in names are rewritten into IntrinsicExpr instead.
type CallExpr struct {
	base
	Callee Expr
	Args   []Expr
}

func (*CallExpr) exprNode() {}

// IntrinsicExpr replaces a CallExpr to a built-in name (§4.5).
type IntrinsicExpr struct {
	base
	Name string
	Args []Expr
}

func (*IntrinsicExpr) exprNode() {}

// VarExpr is a local `var name = value;` binding inside a Block. Distinct
// bindings of the same name in one scope are the shadowing case
// usage-aware lookup exists to resolve (spec §8 scenario 4).
type VarExpr struct {
	base
	Name  string
	Value Expr
}

func (*VarExpr) exprNode() {}

// ---- Surface type annotations ----------------------------------------------

// TypeExpr is a surface type annotation as written by the programmer. It
// is lowered into internal/types.Type nodes by the scope resolver's
// second walk (§4.4).
type TypeExpr interface {
	Node
	typeExprNode()
}

type NamedTypeExpr struct {
	base
	Name string
	Args []TypeExpr // non-empty => a type-constructor application
}

func (*NamedTypeExpr) typeExprNode() {}

// ---- Declarations -----------------------------------------------------------

type Param struct {
	Name string
	Type TypeExpr // may be nil: inferred
}

type FuncDecl struct {
	base
	Name       string
	Params     []Param
	ReturnType TypeExpr // may be nil
	Body       Expr
	IsTest     bool // @test attribute
	IsExtern   bool // no body: declared for the back-end only
}

func (*FuncDecl) declNode() {}

type VarDecl struct {
	base
	Name  string
	Type  TypeExpr
	Value Expr
}

func (*VarDecl) declNode() {}

// TypeDeclKind distinguishes struct/sum/constructor-alias declarations,
// matching the Type tags of spec §3.
type TypeDeclKind int

const (
	TypeStruct TypeDeclKind = iota
	TypeSum
	TypeConstructor
)

type StructField struct {
	Name string
	Type TypeExpr
}

type SumVariant struct {
	Tag     string
	Payload TypeExpr // nil for a nullary variant
}

type TypeDecl struct {
	base
	Name     string
	Params   []string // type-constructor parameters, e.g. List(T)
	Kind     TypeDeclKind
	Fields   []StructField // TypeStruct
	Variants []SumVariant  // TypeSum
	Body     TypeExpr      // TypeConstructor alias body
}

func (*TypeDecl) declNode() {}

// TraitDecl and ImplDecl are accepted by the scope builder (spec §3's
// symbol kinds include trait / trait-method) but trait-method dispatch
// itself is elaborated upstream of the monomorphizer (§4.7 step 3),
// which only needs to know a symbol is NOT a function in that case.
type TraitMethodSig struct {
	Name   string
	Params []Param
	Return TypeExpr
}

type TraitDecl struct {
	base
	Name    string
	Methods []TraitMethodSig
}

func (*TraitDecl) declNode() {}

type ImplDecl struct {
	base
	Trait   string
	Type    TypeExpr
	Methods []*FuncDecl
}

func (*ImplDecl) declNode() {}
