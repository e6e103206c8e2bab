package types

// Generalize converts every free TVariable reachable from t into a
// TParameter, binding it by name so that Instantiate can later produce
// a fresh TVariable per call site from the same name. Applied once, at
// the end of inferring a top-level function's type (spec §4.6), never
// to nested lets or intermediate expressions.
//
// Grounded on original_source/src/types/constraints/unify.cpp's
// ConstraintSolver::Generalize, which walks the solved type graph after
// unification and promotes unbound variables in place.
func Generalize(t *Type) *Type {
	out, _ := GeneralizeWithMap(t)
	return out
}

// GeneralizeWithMap behaves exactly like Generalize but also returns the
// old-leader-to-new-node correspondence built along the way: for every
// distinct union-find leader reachable from t, the node generalization
// produced in its place. internal/mono uses this to translate a type
// recorded elsewhere in the same function's body (a nested call site,
// captured once during the single shared inference pass, in terms of
// the pre-generalization variables) into the generalized schema's own
// terms before applying a per-instantiation substitution to it (spec
// §4.7).
func GeneralizeWithMap(t *Type) (*Type, map[*Type]*Type) {
	seen := make(map[*Type]*Type)
	out := generalizeRec(t, seen)
	return out, seen
}

func generalizeRec(t *Type, seen map[*Type]*Type) *Type {
	t = FindLeader(t)
	if g, ok := seen[t]; ok {
		return g
	}
	switch t.Tag {
	case TVariable:
		param := &Type{Tag: TParameter, VarName: t.VarName}
		seen[t] = param
		return param
	case TPtr:
		out := &Type{Tag: TPtr}
		seen[t] = out
		out.Underlying = generalizeRec(t.Underlying, seen)
		return out
	case TFun:
		out := &Type{Tag: TFun}
		seen[t] = out
		out.Params = make([]*Type, len(t.Params))
		for i, p := range t.Params {
			out.Params[i] = generalizeRec(p, seen)
		}
		out.Result = generalizeRec(t.Result, seen)
		return out
	case TStruct:
		out := &Type{Tag: TStruct}
		seen[t] = out
		out.Fields = make([]StructField, len(t.Fields))
		for i, f := range t.Fields {
			out.Fields[i] = StructField{Name: f.Name, Type: generalizeRec(f.Type, seen)}
		}
		return out
	case TSum:
		out := &Type{Tag: TSum}
		seen[t] = out
		out.Variants = make([]SumVariant, len(t.Variants))
		for i, v := range t.Variants {
			variant := SumVariant{Tag: v.Tag}
			if v.Payload != nil {
				variant.Payload = generalizeRec(v.Payload, seen)
			}
			out.Variants[i] = variant
		}
		return out
	case TApp:
		out := &Type{Tag: TApp, AppName: t.AppName, Scope: t.Scope}
		seen[t] = out
		out.AppArgs = make([]*Type, len(t.AppArgs))
		for i, a := range t.AppArgs {
			out.AppArgs[i] = generalizeRec(a, seen)
		}
		return out
	default:
		return t
	}
}

// Instantiate is the inverse of Generalize: every TParameter reachable
// from t is replaced by a fresh TVariable, one per distinct parameter
// name, shared across all occurrences within this single instantiation
// call (spec §4.6's "fresh TVariable per call site"). Every structural
// node (ptr, fun, struct, sum, app) is rebuilt rather than shared with
// the schema, so later unification cannot mutate it; only leaf nodes
// other than TParameter are shared.
func Instantiate(a *Arena, t *Type, sc ConsResolver) *Type {
	fresh := make(map[string]*Type)
	seen := make(map[*Type]*Type)
	return instantiateRec(a, t, fresh, seen, sc)
}

func instantiateRec(a *Arena, t *Type, fresh map[string]*Type, seen map[*Type]*Type, sc ConsResolver) *Type {
	t = FindLeader(t)
	if out, ok := seen[t]; ok {
		return out
	}
	switch t.Tag {
	case TParameter:
		v, ok := fresh[t.VarName]
		if !ok {
			v = a.FreshVar(sc)
			fresh[t.VarName] = v
		}
		seen[t] = v
		return v
	case TPtr:
		out := &Type{Tag: TPtr}
		seen[t] = out
		out.Underlying = instantiateRec(a, t.Underlying, fresh, seen, sc)
		return out
	case TFun:
		out := &Type{Tag: TFun}
		seen[t] = out
		out.Params = make([]*Type, len(t.Params))
		for i, p := range t.Params {
			out.Params[i] = instantiateRec(a, p, fresh, seen, sc)
		}
		out.Result = instantiateRec(a, t.Result, fresh, seen, sc)
		return out
	case TStruct:
		out := &Type{Tag: TStruct}
		seen[t] = out
		out.Fields = make([]StructField, len(t.Fields))
		for i, f := range t.Fields {
			out.Fields[i] = StructField{Name: f.Name, Type: instantiateRec(a, f.Type, fresh, seen, sc)}
		}
		return out
	case TSum:
		out := &Type{Tag: TSum}
		seen[t] = out
		out.Variants = make([]SumVariant, len(t.Variants))
		for i, v := range t.Variants {
			variant := SumVariant{Tag: v.Tag}
			if v.Payload != nil {
				variant.Payload = instantiateRec(a, v.Payload, fresh, seen, sc)
			}
			out.Variants[i] = variant
		}
		return out
	case TApp:
		out := &Type{Tag: TApp, AppName: t.AppName, Scope: t.Scope}
		seen[t] = out
		out.AppArgs = make([]*Type, len(t.AppArgs))
		for i, arg := range t.AppArgs {
			out.AppArgs[i] = instantiateRec(a, arg, fresh, seen, sc)
		}
		return out
	default:
		return t
	}
}
