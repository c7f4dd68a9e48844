package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypeString(t *testing.T) {
	str := NewBuiltin(TagString)
	num := NewBuiltin(TagNumber)
	arg := func(name string, t Type) ArgDefinition { return ArgDefinition{Pattern: NewVarDef(name, nil), Type: t} }

	tests := []struct {
		name     string
		typ      Type
		expected string
	}{
		{"builtin", str, "string"},
		{"unknown", Unknown(), "unknown"},
		{"never", Never(), "never"},
		{"literal", NewLiteralType(StringValue("a")), `"a"`},
		{"bigint literal", NewLiteralType(BigIntFromInt64(3)), "3n"},
		{"empty object", NewObjectType(nil, nil), "{}"},
		{
			"object",
			NewObjectType([]PropDefinition{
				{Name: "a", Type: num},
				{Name: "b", Type: str, Optional: true, Readonly: true},
				{Name: "my-key", Type: num},
			}, &IndexerDefinition{IndexType: str, Type: num, Readonly: true}),
			`{ a: number; readonly b?: string; "my-key": number; readonly [key: string]: number }`,
		},
		{"array", NewArrayType(num), "number[]"},
		{"array of union", NewArrayType(NewUnionType([]Type{str, num})), "(string | number)[]"},
		{"tuple", NewTupleType([]Type{str, num}, nil), "[string, number]"},
		{"tuple with rest", NewTupleType([]Type{str}, num), "[string, ...number[]]"},
		{"empty tuple", NewTupleType(nil, nil), "[]"},
		{"function", NewFuncType(str, []ArgDefinition{arg("x", num)}, nil), "(x: number) => string"},
		{
			"function with optional and rest",
			NewFuncType(str, []ArgDefinition{{Pattern: NewVarDef("x", nil), Type: num, Optional: true}},
				&ArgDefinition{Pattern: NewVarDef("xs", nil), Type: NewArrayType(str), Optional: true}),
			"(x?: number, ...xs: string[]) => string",
		},
		{
			"destructured parameter",
			NewFuncType(str, []ArgDefinition{{
				Pattern: NewObjectDestruct([]PropPattern{
					NewVarDef("a", nil),
					NewRenamedProp("b", NewArrayDestruct([]Pattern{NewVarDef("c", nil)}, nil, nil)),
				}, nil, nil),
				Type: Unknown(),
			}}, nil),
			"({a, b: [c]}: unknown) => string",
		},
		{"union", NewUnionType([]Type{str, num}), "string | number"},
		{"union of functions", NewUnionType([]Type{NewFuncType(str, nil, nil), num}), "(() => string) | number"},
		{"intersection", NewIntersectionType([]Type{NewTypeIdent("A"), NewTypeIdent("B")}), "A & B"},
		{
			"generic",
			NewGenericType([]TypeParam{{Name: "T", UpperBound: str, Default: NewLiteralType(StringValue("x"))}}, NewTypeIdent("T")),
			`<T extends string = "x">T`,
		},
		{"generic call", NewGenericCallType("Map", []Type{str, num}), "Map<string, number>"},
		{"type identifier", NewTypeIdent("Point"), "Point"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.typ.String())
		})
	}
}

func TestIsBuiltin(t *testing.T) {
	require.True(t, IsBuiltin(Unknown(), TagUnknown))
	require.False(t, IsBuiltin(Unknown(), TagNever))
	require.False(t, IsBuiltin(NewLiteralType(StringValue("a")), TagString))
	require.False(t, IsBuiltin(nil, TagString))
}

func TestObjectTypeProp(t *testing.T) {
	obj := NewObjectType([]PropDefinition{{Name: "a", Type: Never()}}, nil)
	p, ok := obj.Prop("a")
	require.True(t, ok)
	require.Equal(t, "a", p.Name)
	_, ok = obj.Prop("b")
	require.False(t, ok)
}
