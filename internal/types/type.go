// Package types implements the shared type graph of spec §3: a
// Hindley-Milner representation backed by a union-find arena with
// leader pointers and path compression, plus the constraint solver
// operations layered on top of it in unify.go, expand.go and
// generalize.go. Grounded directly on original_source's types::Type
// (src/types/constraints/unify.cpp, src/types/instantiate/inst_driver.cpp)
// rather than the teacher's substitution-map-based internal/types,
// per spec §9's design note to "implement with an arena plus stable
// indices".
package types

// Tag identifies the shape of a Type node, matching the table in spec §3.
type Tag int

const (
	TInt Tag = iota
	TBool
	TChar
	TUnit
	TNever
	TPtr
	TFun
	TStruct
	TSum
	TApp
	TCons
	TVariable
	TParameter
	TKind
	TUnion
)

func (t Tag) String() string {
	switch t {
	case TInt:
		return "Int"
	case TBool:
		return "Bool"
	case TChar:
		return "Char"
	case TUnit:
		return "Unit"
	case TNever:
		return "Never"
	case TPtr:
		return "ptr"
	case TFun:
		return "fun"
	case TStruct:
		return "struct"
	case TSum:
		return "sum"
	case TApp:
		return "app"
	case TCons:
		return "cons"
	case TVariable:
		return "variable"
	case TParameter:
		return "parameter"
	case TKind:
		return "kind"
	case TUnion:
		return "union"
	}
	return "?"
}

// ConsResolver resolves a type-constructor name, as seen from a given
// scope, to its (parameter names, body) definition. internal/scope.Context
// implements this; the interface lives here, not there, so this package
// never depends on internal/scope (scope depends on types for Symbol
// payloads, and the dependency cannot run both ways).
type ConsResolver interface {
	ResolveConstructor(name string) (params []string, body *Type, ok bool)
}

// StructField is one (name, type) member of a TStruct, in declaration
// order (field order matters for layout).
type StructField struct {
	Name string
	Type *Type
}

// SumVariant is one (tag, optional payload) member of a TSum.
type SumVariant struct {
	Tag     string
	Payload *Type // nil for a nullary variant
}

// Type is one node in the shared type arena. Nodes are never copied by
// value once created — always handled through *Type — so that the
// Leader union-find pointer and Scope back-reference remain meaningful.
type Type struct {
	Tag Tag

	// Leader is non-nil when this node is not its own union-find
	// representative; FindLeader path-compresses it on observation.
	Leader *Type

	// Scope resolves `app` constructor names and attaches diagnostics to
	// the right source location. Absent for primitives.
	Scope ConsResolver

	// Payloads below are selected by Tag; unused fields are zero.
	Underlying *Type         // TPtr
	Params     []*Type       // TFun (parameter types), TCons (ignored, see ConsParams)
	Result     *Type         // TFun
	Fields     []StructField // TStruct
	Variants   []SumVariant  // TSum
	AppName    string        // TApp
	AppArgs    []*Type       // TApp
	ConsParams []string      // TCons: parameter names
	ConsBody   *Type         // TCons: body
	VarName    string        // TVariable, TParameter: identifier
}

// Arena owns every Type node allocated during one compilation. Spec §3:
// "a global, per-compilation type arena is cleared at the start of
// every compile invocation so long-lived processes ... can re-run the
// pipeline without dangling references." Carrying it as an explicit
// handle (rather than a package-level global, as the design note in
// spec §9 recommends) means a host can run independent compilations
// concurrently, each with its own Arena (fresh-variable naming is
// per-Arena too), even though any single compilation's pipeline stays
// single-threaded (spec §5).
type Arena struct {
	nodes   []*Type
	freshID int // counter for FreshVar's synthetic names
}

// NewArena creates a fresh, empty type arena.
func NewArena() *Arena { return &Arena{} }

func (a *Arena) alloc(t *Type) *Type {
	a.nodes = append(a.nodes, t)
	return t
}

// Fresh variable/primitive constructors ------------------------------------

// Primitive allocates a new node for one of the payload-free primitive
// tags; primitive nodes are not interned.
func (a *Arena) Primitive(tag Tag) *Type {
	return a.alloc(&Type{Tag: tag})
}

func (a *Arena) Int() *Type  { return a.Primitive(TInt) }
func (a *Arena) Bool() *Type { return a.Primitive(TBool) }
func (a *Arena) Char() *Type { return a.Primitive(TChar) }
func (a *Arena) Unit() *Type { return a.Primitive(TUnit) }
func (a *Arena) Never() *Type { return a.Primitive(TNever) }

// FreshVar allocates a new inference unknown, scoped to sc for later
// `app` resolution.
func (a *Arena) FreshVar(sc ConsResolver) *Type {
	a.freshID++
	return a.alloc(&Type{Tag: TVariable, Scope: sc, VarName: syntheticName(a.freshID)})
}

func syntheticName(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	s := []byte{}
	for {
		s = append([]byte{letters[n%26]}, s...)
		n /= 26
		if n == 0 {
			break
		}
		n--
	}
	return "t" + string(s)
}

func (a *Arena) Ptr(underlying *Type) *Type {
	return a.alloc(&Type{Tag: TPtr, Underlying: underlying})
}

func (a *Arena) Fun(params []*Type, result *Type) *Type {
	return a.alloc(&Type{Tag: TFun, Params: params, Result: result})
}

func (a *Arena) Struct(fields []StructField) *Type {
	return a.alloc(&Type{Tag: TStruct, Fields: fields})
}

func (a *Arena) Sum(variants []SumVariant) *Type {
	return a.alloc(&Type{Tag: TSum, Variants: variants})
}

func (a *Arena) App(name string, args []*Type, sc ConsResolver) *Type {
	return a.alloc(&Type{Tag: TApp, AppName: name, AppArgs: args, Scope: sc})
}

func (a *Arena) Cons(params []string, body *Type) *Type {
	return a.alloc(&Type{Tag: TCons, ConsParams: params, ConsBody: body})
}

func (a *Arena) Parameter(name string) *Type {
	return a.alloc(&Type{Tag: TParameter, VarName: name})
}

// FindLeader returns the canonical representative of t's equivalence
// class, path-compressing the chain as it goes. Path compression is
// safe because only the arena mutates Leader pointers (spec §9).
func FindLeader(t *Type) *Type {
	if t.Leader == nil {
		return t
	}
	leader := FindLeader(t.Leader)
	t.Leader = leader
	return leader
}
