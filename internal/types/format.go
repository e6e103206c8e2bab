package types

import "strings"

// Format renders a leader-resolved type graph as the human-readable
// syntax spec §6's diagnostics embed ("cannot unify Int with Bool").
// Primitives and applications read as in source annotations; functions,
// structs and sums use a diagnostic-only notation ("fn(Int) -> Bool",
// "struct{x: Int}", "Some(Int) | None").
func Format(t *Type) string {
	t = FindLeader(t)
	switch t.Tag {
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
		return "ptr<" + Format(t.Underlying) + ">"
	case TFun:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = Format(p)
		}
		return "fn(" + strings.Join(parts, ", ") + ") -> " + Format(t.Result)
	case TStruct:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = f.Name + ": " + Format(f.Type)
		}
		return "struct{" + strings.Join(parts, ", ") + "}"
	case TSum:
		parts := make([]string, len(t.Variants))
		for i, v := range t.Variants {
			if v.Payload != nil {
				parts[i] = v.Tag + "(" + Format(v.Payload) + ")"
			} else {
				parts[i] = v.Tag
			}
		}
		return strings.Join(parts, " | ")
	case TApp:
		parts := make([]string, len(t.AppArgs))
		for i, a := range t.AppArgs {
			parts[i] = Format(a)
		}
		return t.AppName + "(" + strings.Join(parts, ", ") + ")"
	case TCons:
		return "cons<" + strings.Join(t.ConsParams, ", ") + ">"
	case TVariable:
		return "'" + t.VarName
	case TParameter:
		return t.VarName
	case TKind:
		return "kind"
	case TUnion:
		return "union"
	}
	return "?"
}
