package scope

import (
	"github.com/sunholo/etude/internal/ast"
	"github.com/sunholo/etude/internal/types"
)

// Kind is one of the symbol kinds named in spec §3.
type Kind int

const (
	KindVariable Kind = iota
	KindFunction
	KindType
	KindTrait
	KindTraitMethod
	KindStatic
	KindGeneric
)

func (k Kind) String() string {
	switch k {
	case KindVariable:
		return "variable"
	case KindFunction:
		return "function"
	case KindType:
		return "type"
	case KindTrait:
		return "trait"
	case KindTraitMethod:
		return "trait-method"
	case KindStatic:
		return "static"
	case KindGeneric:
		return "generic"
	}
	return "unknown"
}

// FnPayload is the kind-specific payload for KindFunction symbols,
// mirroring FnSymbol in original_source/src/ast/scope/symbol.hpp.
type FnPayload struct {
	ArgNum int
	Type   *types.Type
	Def    *ast.FuncDecl
	Trait  *ast.TraitDecl // non-nil when Def is a trait-method implementation

	// Scope is the Context opened for this function's parameters and
	// body, so later passes (constraint generation) can resume walking
	// from exactly the scope the builder constructed rather than
	// re-deriving it.
	Scope *Context

	// GenMap is the old-leader-to-new-node correspondence produced when
	// Type was generalized (types.GeneralizeWithMap), nil until then.
	// internal/mono uses it to translate a nested call's recorded
	// (pre-generalization) type into this function's generalized schema
	// before substituting a concrete instantiation into it.
	GenMap map[*types.Type]*types.Type
}

// TypePayload is the kind-specific payload for KindType symbols: struct,
// sum, or type-constructor definitions (spec §3's Type tags).
type TypePayload struct {
	Type *types.Type
}

// TraitPayload is the kind-specific payload for KindTrait symbols.
type TraitPayload struct {
	Decl *ast.TraitDecl
}

// VarPayload is the kind-specific payload for KindVariable, KindStatic
// and KindGeneric symbols, which all carry just a type.
type VarPayload struct {
	Type *types.Type
}

// Symbol is one named entity in a scope: a variable, function, type,
// trait, trait-method, static or generic parameter (spec §3). Exactly
// one of the payload fields is populated, selected by Kind.
type Symbol struct {
	Kind       Kind
	IsComplete bool // set once the full type has been assigned

	Name       string
	DeclaredAt ast.Location
	Uses       []ast.Location

	Fn    *FnPayload
	Type  *TypePayload
	Trait *TraitPayload
	Var   *VarPayload
}

// RecordUse appends a use-site location, matching spec §3's "list of use
// locations" field.
func (s *Symbol) RecordUse(loc ast.Location) {
	s.Uses = append(s.Uses, loc)
}

// GetType returns the Type payload regardless of which kind-specific
// field carries it; callers that only need "the type of this symbol"
// (instantiation, unification call sites) use this instead of a
// kind-switch.
func (s *Symbol) GetType() *types.Type {
	switch s.Kind {
	case KindFunction, KindTraitMethod:
		if s.Fn != nil {
			return s.Fn.Type
		}
	case KindType:
		if s.Type != nil {
			return s.Type.Type
		}
	default:
		if s.Var != nil {
			return s.Var.Type
		}
	}
	return nil
}
