package types

// expandOnce performs one step of lazy type-constructor application
// expansion (spec §4.6.1): given an `app` node naming a `cons`
// definition reachable from its Scope, it substitutes the cons body's
// parameters with the app's actual arguments and returns the result.
// Non-`app` nodes, or `app` nodes whose constructor cannot be resolved
// in scope, report ok=false and are left untouched by the caller.
//
// Grounded on original_source/src/types/constraints/unify.cpp's
// ApplyTyconsLazy, invoked from UnifyUnderlyingTypes exactly when two
// `app` constructor names disagree, rather than eagerly at every `app`
// node's creation.
func expandOnce(t *Type) (*Type, bool) {
	if t.Tag != TApp {
		return t, false
	}
	if t.Scope == nil {
		return t, false
	}
	params, body, ok := t.Scope.ResolveConstructor(t.AppName)
	if !ok {
		return t, false
	}
	if len(params) != len(t.AppArgs) {
		return t, false
	}
	sub := make(map[string]*Type, len(params))
	for i, p := range params {
		sub[p] = t.AppArgs[i]
	}
	return substitute(body, sub), true
}

// substitute walks a type-constructor body and replaces each TParameter
// node, or argument-less `app` node, whose name is bound in sub with the
// corresponding actual type argument. Structural nodes (ptr, fun,
// struct, sum, app) are rebuilt around their substituted children; leaf
// nodes outside sub's domain are returned unchanged (shared, not copied,
// since the arena's union-find leaders must remain reachable from every
// alias).
func substitute(t *Type, sub map[string]*Type) *Type {
	t = FindLeader(t)
	switch t.Tag {
	case TParameter:
		if repl, ok := sub[t.VarName]; ok {
			return repl
		}
		return t
	case TPtr:
		return &Type{Tag: TPtr, Underlying: substitute(t.Underlying, sub)}
	case TFun:
		params := make([]*Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = substitute(p, sub)
		}
		return &Type{Tag: TFun, Params: params, Result: substitute(t.Result, sub)}
	case TStruct:
		fields := make([]StructField, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = StructField{Name: f.Name, Type: substitute(f.Type, sub)}
		}
		return &Type{Tag: TStruct, Fields: fields}
	case TSum:
		variants := make([]SumVariant, len(t.Variants))
		for i, v := range t.Variants {
			variant := SumVariant{Tag: v.Tag}
			if v.Payload != nil {
				variant.Payload = substitute(v.Payload, sub)
			}
			variants[i] = variant
		}
		return &Type{Tag: TSum, Variants: variants}
	case TApp:
		// The scope builder lowers a bare parameter name inside a type
		// declaration's body as a nullary `app` node of that name.
		if repl, ok := sub[t.AppName]; ok && len(t.AppArgs) == 0 {
			return repl
		}
		args := make([]*Type, len(t.AppArgs))
		for i, a := range t.AppArgs {
			args[i] = substitute(a, sub)
		}
		return &Type{Tag: TApp, AppName: t.AppName, AppArgs: args, Scope: t.Scope}
	default:
		return t
	}
}
