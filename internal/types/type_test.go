package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/etude/internal/ast"
	"github.com/sunholo/etude/internal/errors"
)

func TestUnify_PrimitivesSucceedOnMatch(t *testing.T) {
	arena := NewArena()
	err := Unify(arena.Int(), arena.Int(), ast.Location{})
	require.NoError(t, err)
}

func TestUnify_PrimitivesFailOnMismatch(t *testing.T) {
	arena := NewArena()
	err := Unify(arena.Int(), arena.Bool(), ast.Location{})
	require.Error(t, err)

	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, "TYP001", rep.Code)
}

func TestUnify_VariableBindsToConcrete(t *testing.T) {
	arena := NewArena()
	v := arena.FreshVar(nil)
	err := Unify(v, arena.Int(), ast.Location{})
	require.NoError(t, err)
	assert.Equal(t, TInt, FindLeader(v).Tag)
}

func TestUnify_VariableChainPropagatesBinding(t *testing.T) {
	arena := NewArena()
	v1 := arena.FreshVar(nil)
	v2 := arena.FreshVar(nil)
	require.NoError(t, Unify(v1, v2, ast.Location{}))
	require.NoError(t, Unify(v2, arena.Int(), ast.Location{}))
	assert.Equal(t, TInt, FindLeader(v1).Tag)
}

func TestUnify_NeverAbsorbsAnything(t *testing.T) {
	arena := NewArena()
	err := Unify(arena.Never(), arena.Bool(), ast.Location{})
	assert.NoError(t, err)
}

func TestUnify_FunArityMismatch(t *testing.T) {
	arena := NewArena()
	f1 := arena.Fun([]*Type{arena.Int()}, arena.Bool())
	f2 := arena.Fun([]*Type{arena.Int(), arena.Int()}, arena.Bool())
	err := Unify(f1, f2, ast.Location{})
	require.Error(t, err)
	rep, _ := errors.AsReport(err)
	assert.Equal(t, "TYP002", rep.Code)
}

func TestUnify_StructSizeMismatch(t *testing.T) {
	arena := NewArena()
	s1 := arena.Struct([]StructField{{Name: "x", Type: arena.Int()}})
	s2 := arena.Struct([]StructField{{Name: "x", Type: arena.Int()}, {Name: "y", Type: arena.Int()}})
	err := Unify(s1, s2, ast.Location{})
	require.Error(t, err)
	rep, _ := errors.AsReport(err)
	assert.Equal(t, "TYP003", rep.Code)
}

func TestUnify_SumMismatch(t *testing.T) {
	arena := NewArena()
	s1 := arena.Sum([]SumVariant{{Tag: "Some", Payload: arena.Int()}, {Tag: "None"}})
	s2 := arena.Sum([]SumVariant{{Tag: "Ok", Payload: arena.Int()}, {Tag: "Err", Payload: arena.Bool()}})
	err := Unify(s1, s2, ast.Location{})
	require.Error(t, err)
	rep, _ := errors.AsReport(err)
	assert.Equal(t, "TYP004", rep.Code)
}

// fakeResolver implements ConsResolver for a single `Maybe(a) = Some(a) | None` cons.
type fakeResolver struct {
	arena *Arena
}

func (f *fakeResolver) ResolveConstructor(name string) ([]string, *Type, bool) {
	if name != "Maybe" {
		return nil, nil, false
	}
	param := f.arena.Parameter("a")
	body := f.arena.Sum([]SumVariant{{Tag: "Some", Payload: param}, {Tag: "None"}})
	return []string{"a"}, body, true
}

func TestUnify_LazyAppExpansion(t *testing.T) {
	arena := NewArena()
	resolver := &fakeResolver{arena: arena}

	maybeInt := arena.App("Maybe", []*Type{arena.Int()}, resolver)
	sumForm := arena.Sum([]SumVariant{{Tag: "Some", Payload: arena.Int()}, {Tag: "None"}})

	err := Unify(maybeInt, sumForm, ast.Location{})
	require.NoError(t, err)
}

func TestUnify_LazyAppExpansionFailsOnShapeMismatch(t *testing.T) {
	arena := NewArena()
	resolver := &fakeResolver{arena: arena}

	maybeInt := arena.App("Maybe", []*Type{arena.Int()}, resolver)
	wrongForm := arena.Sum([]SumVariant{{Tag: "Ok", Payload: arena.Int()}, {Tag: "Err", Payload: arena.Bool()}})

	err := Unify(maybeInt, wrongForm, ast.Location{})
	require.Error(t, err)
}

func TestGeneralizeThenInstantiate_ProducesFreshVariablesEachTime(t *testing.T) {
	arena := NewArena()
	v := arena.FreshVar(nil)
	idType := arena.Fun([]*Type{v}, v)

	generalized := Generalize(idType)
	require.Equal(t, TFun, generalized.Tag)
	require.Equal(t, TParameter, generalized.Params[0].Tag)

	inst1 := Instantiate(arena, generalized, nil)
	inst2 := Instantiate(arena, generalized, nil)

	require.NoError(t, Unify(inst1.Params[0], arena.Int(), ast.Location{}))
	require.NoError(t, Unify(inst2.Params[0], arena.Bool(), ast.Location{}))

	assert.Equal(t, TInt, FindLeader(inst1.Params[0]).Tag)
	assert.Equal(t, TBool, FindLeader(inst2.Params[0]).Tag)
}

func TestInstantiate_SharesFreshVarAcrossOccurrences(t *testing.T) {
	arena := NewArena()
	v := arena.FreshVar(nil)
	idType := arena.Fun([]*Type{v}, v)
	generalized := Generalize(idType)

	inst := Instantiate(arena, generalized, nil)
	require.NoError(t, Unify(inst.Params[0], arena.Int(), ast.Location{}))
	assert.Equal(t, TInt, FindLeader(inst.Result).Tag)
}

func TestGeneralizeWithMap_TranslatesSharedLeaderToItsParameter(t *testing.T) {
	arena := NewArena()
	v := arena.FreshVar(nil)
	idType := arena.Fun([]*Type{v}, v)

	_, genMap := GeneralizeWithMap(idType)
	param, ok := genMap[FindLeader(v)]
	require.True(t, ok)
	assert.Equal(t, TParameter, param.Tag)
}

func TestTypesEquivalent_StructuralAfterInstantiation(t *testing.T) {
	arena := NewArena()
	v := arena.FreshVar(nil)
	idType := Generalize(arena.Fun([]*Type{v}, v))

	inst1 := Instantiate(arena, idType, nil)
	inst2 := Instantiate(arena, idType, nil)
	require.NoError(t, Unify(inst1.Params[0], arena.Int(), ast.Location{}))
	require.NoError(t, Unify(inst2.Params[0], arena.Int(), ast.Location{}))

	assert.True(t, TypesEquivalent(inst1, inst2))
}

func TestFormat_RendersReadableSyntax(t *testing.T) {
	arena := NewArena()
	fn := arena.Fun([]*Type{arena.Int(), arena.Bool()}, arena.Unit())
	assert.Equal(t, "fn(Int, Bool) -> Unit", Format(fn))
}

