package types

import (
	"github.com/sunholo/etude/internal/ast"
	"github.com/sunholo/etude/internal/errors"
)

// Unify attempts to unify a and b in place, mutating the union-find
// arena. The algorithm is spec §4.6's five steps: leader resolution,
// identity, `never`-absorbs-anything, variable-points-at-other, then
// structural recursion by tag. Grounded directly on
// original_source/src/types/constraints/unify.cpp's ConstraintSolver::Unify
// / UnifyUnderlyingTypes.
func Unify(a, b *Type, at ast.Location) error {
	la := FindLeader(a)
	lb := FindLeader(b)

	if la == lb {
		return nil
	}

	if la.Tag == TNever || lb.Tag == TNever {
		return nil
	}

	// Always make la the variable, if either side is one.
	if lb.Tag == TVariable {
		la, lb = lb, la
	}

	if la.Tag == TVariable {
		la.Leader = lb
		return nil
	}

	if la.Tag != lb.Tag {
		// `app` constructors are the one tag pair allowed to mismatch
		// before failing: expand both sides lazily and retry (§4.6.1).
		if la.Tag == TApp || lb.Tag == TApp {
			return unifyViaExpansion(la, lb, at)
		}
		return errors.At(errors.TYP001, "infer", at, "cannot unify %s with %s", Format(la), Format(lb))
	}

	return unifyUnderlying(la, lb, at)
}

func unifyUnderlying(a, b *Type, at ast.Location) error {
	switch a.Tag {
	case TInt, TBool, TChar, TUnit:
		return nil

	case TPtr:
		return Unify(a.Underlying, b.Underlying, at)

	case TStruct:
		if len(a.Fields) != len(b.Fields) {
			return errors.At(errors.TYP003, "infer", at,
				"struct size mismatch: %s vs %s", Format(a), Format(b))
		}
		for i := range a.Fields {
			if err := Unify(a.Fields[i].Type, b.Fields[i].Type, at); err != nil {
				return err
			}
		}
		return nil

	case TSum:
		if len(a.Variants) != len(b.Variants) {
			return errors.At(errors.TYP004, "infer", at,
				"sum mismatch: %s vs %s", Format(a), Format(b))
		}
		for i := range a.Variants {
			if a.Variants[i].Tag != b.Variants[i].Tag {
				return errors.At(errors.TYP004, "infer", at,
					"sum tag mismatch at index %d: %s != %s", i, a.Variants[i].Tag, b.Variants[i].Tag)
			}
			if a.Variants[i].Payload == nil || b.Variants[i].Payload == nil {
				if a.Variants[i].Payload != b.Variants[i].Payload {
					return errors.At(errors.TYP004, "infer", at,
						"sum payload mismatch at tag %s", a.Variants[i].Tag)
				}
				continue
			}
			if err := Unify(a.Variants[i].Payload, b.Variants[i].Payload, at); err != nil {
				return err
			}
		}
		return nil

	case TFun:
		if len(a.Params) != len(b.Params) {
			return errors.At(errors.TYP002, "infer", at,
				"arity mismatch: %d vs %d", len(a.Params), len(b.Params))
		}
		for i := range a.Params {
			if err := Unify(a.Params[i], b.Params[i], at); err != nil {
				return err
			}
		}
		return Unify(a.Result, b.Result, at)

	case TApp:
		if a.AppName == b.AppName {
			for i := range a.AppArgs {
				if err := Unify(a.AppArgs[i], b.AppArgs[i], at); err != nil {
					return err
				}
			}
			return nil
		}
		return unifyViaExpansion(a, b, at)

	case TCons, TKind, TUnion, TVariable, TParameter, TNever:
		return errors.Internal("infer", "unreachable unification tag %s", a.Tag)
	}
	return nil
}

// unifyViaExpansion handles two `app` nodes with different constructor
// names (or one `app` against a non-`app`) by lazily expanding both
// sides (§4.6.1) until stable, then retrying. If expansion cannot make
// progress on a side, that side is left as-is for the retry, which will
// then fail with UnifyFail if the shapes truly differ (spec §8 scenario
// 6: Maybe(Int) vs Option(Int) with incompatible bodies).
func unifyViaExpansion(a, b *Type, at ast.Location) error {
	expandedA, okA := expandOnce(a)
	expandedB, okB := expandOnce(b)

	if !okA && !okB {
		return errors.At(errors.TYP001, "infer", at, "cannot unify %s with %s", Format(a), Format(b))
	}
	if okA {
		a = expandedA
	}
	if okB {
		b = expandedB
	}
	return Unify(a, b, at)
}

// TypesEquivalent compares two leader-resolved type graphs structurally
// for deduplication purposes (spec §4.7's dedup-by-equivalence, §8's
// "third id(1) call dedups"). Unlike Unify it never mutates the arena.
func TypesEquivalent(a, b *Type) bool {
	a, b = FindLeader(a), FindLeader(b)
	if a == b {
		return true
	}
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case TInt, TBool, TChar, TUnit, TNever:
		return true
	case TPtr:
		return TypesEquivalent(a.Underlying, b.Underlying)
	case TStruct:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Name != b.Fields[i].Name || !TypesEquivalent(a.Fields[i].Type, b.Fields[i].Type) {
				return false
			}
		}
		return true
	case TSum:
		if len(a.Variants) != len(b.Variants) {
			return false
		}
		for i := range a.Variants {
			if a.Variants[i].Tag != b.Variants[i].Tag {
				return false
			}
			if (a.Variants[i].Payload == nil) != (b.Variants[i].Payload == nil) {
				return false
			}
			if a.Variants[i].Payload != nil && !TypesEquivalent(a.Variants[i].Payload, b.Variants[i].Payload) {
				return false
			}
		}
		return true
	case TFun:
		if len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if !TypesEquivalent(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return TypesEquivalent(a.Result, b.Result)
	case TApp:
		if a.AppName != b.AppName || len(a.AppArgs) != len(b.AppArgs) {
			return false
		}
		for i := range a.AppArgs {
			if !TypesEquivalent(a.AppArgs[i], b.AppArgs[i]) {
				return false
			}
		}
		return true
	case TParameter, TVariable:
		return a.VarName == b.VarName
	}
	return false
}
