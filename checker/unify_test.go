package checker

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/declaratypel/typecheck/ast"
	"github.com/declaratypel/typecheck/errors"
)

func sampleTypes() map[string]ast.Type {
	return map[string]ast.Type{
		"string":  str(),
		"number":  num(),
		"bigint":  ast.NewBuiltin(ast.TagBigInt),
		"boolean": boolT(),
		"never":   ast.Never(),
		"literal": litStr("a"),
		"null":    ast.NewLiteralType(ast.Null),
		"object":  obj(prop("x", num())),
		"array":   ast.NewArrayType(str()),
		"tuple":   ast.NewTupleType([]ast.Type{str()}, nil),
		"func":    fn(str(), arg("x", num())),
	}
}

func TestNeverIsAssignableToEverything(t *testing.T) {
	types := sampleTypes()
	types["unknown"] = ast.Unknown()
	types["union"] = ast.NewUnionType([]ast.Type{str(), num()})
	for name, typ := range types {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, New().Unify(typ, ast.Never(), nil))
		})
	}
}

func TestEverythingIsAssignableToUnknown(t *testing.T) {
	types := sampleTypes()
	types["unknown"] = ast.Unknown()
	for name, typ := range types {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, New().Unify(ast.Unknown(), typ, nil))
		})
	}
}

func TestUnknownIsOnlyAssignableToUnknown(t *testing.T) {
	for name, typ := range sampleTypes() {
		t.Run(name, func(t *testing.T) {
			err := New().Unify(typ, ast.Unknown(), nil)
			requireCode(t, err, errors.TypeMismatchCode)
		})
	}
	require.NoError(t, New().Unify(ast.Unknown(), ast.Unknown(), nil))
}

func TestNothingIsAssignableToNever(t *testing.T) {
	err := New().Unify(ast.Never(), str(), nil)
	ce := requireCode(t, err, errors.TypeMismatchCode)
	require.Equal(t, ast.Never(), ce.Expected)
	require.Equal(t, str(), ce.Inferred)
}

func TestUnifyPrimitives(t *testing.T) {
	tests := []struct {
		name     string
		expected ast.Type
		inferred ast.Type
		ok       bool
	}{
		{"same builtin", str(), str(), true},
		{"different builtin", str(), num(), false},
		{"string literal", str(), litStr("a"), true},
		{"number literal into string", str(), litNum(1), false},
		{"bigint literal", ast.NewBuiltin(ast.TagBigInt), ast.NewLiteralType(ast.BigIntFromInt64(5)), true},
		{"boolean literal", boolT(), ast.NewLiteralType(ast.BoolValue(true)), true},
		{"null into string", str(), ast.NewLiteralType(ast.Null), false},
		{"undefined into number", num(), ast.NewLiteralType(ast.Undefined), false},
		{"builtin into literal", litStr("a"), str(), false},
		{"equal literals", litStr("a"), litStr("a"), true},
		{"different literals", litStr("a"), litStr("b"), false},
		{"literal kinds differ", litNum(1), litStr("1"), false},
		{"equal bigints", ast.NewLiteralType(ast.BigIntFromInt64(7)), ast.NewLiteralType(ast.BigIntFromInt64(7)), true},
		{"NaN is not NaN", litNum(math.NaN()), litNum(math.NaN()), false},
		{"null literal", ast.NewLiteralType(ast.Null), ast.NewLiteralType(ast.Null), true},
		{"object into string", str(), obj(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New().Unify(tt.expected, tt.inferred, nil)
			if tt.ok {
				require.NoError(t, err)
				return
			}
			requireCode(t, err, errors.TypeMismatchCode)
		})
	}
}

func TestUnifyObjects(t *testing.T) {
	readonly := func(p ast.PropDefinition) ast.PropDefinition { p.Readonly = true; return p }
	optional := func(p ast.PropDefinition) ast.PropDefinition { p.Optional = true; return p }

	tests := []struct {
		name     string
		expected ast.Type
		inferred ast.Type
		code     errors.ErrorCode // empty if assignable
		propName string
	}{
		{"empty objects", obj(), obj(), "", ""},
		{"missing property", obj(prop("x", num())), obj(), errors.PropertyMissingCode, "x"},
		{"width subtyping", obj(prop("x", num())), obj(prop("x", litNum(1)), prop("y", str())), "", ""},
		{"property type mismatch", obj(prop("x", num())), obj(prop("x", str())), errors.TypeMismatchCode, ""},
		{"readonly into writable", obj(prop("x", num())), obj(readonly(prop("x", num()))), errors.PropertyReadonlyCode, "x"},
		{"writable into readonly", obj(readonly(prop("x", num()))), obj(prop("x", num())), "", ""},
		{"optional into required", obj(prop("x", num())), obj(optional(prop("x", num()))), errors.PropertyOptionalCode, "x"},
		{"required into optional", obj(optional(prop("x", num()))), obj(prop("x", num())), "", ""},
		{"absent optional", obj(optional(prop("x", num()))), obj(), "", ""},
		{"not an object", obj(), ast.NewArrayType(num()), errors.TypeMismatchCode, ""},
		{
			"props must fit expected indexer",
			ast.NewObjectType(nil, &ast.IndexerDefinition{IndexType: str(), Type: num()}),
			obj(prop("a", litNum(1)), prop("b", str())),
			errors.TypeMismatchCode, "",
		},
		{
			"props fit expected indexer",
			ast.NewObjectType(nil, &ast.IndexerDefinition{IndexType: str(), Type: num()}),
			obj(prop("a", litNum(1)), prop("b", num())),
			"", "",
		},
		{
			"number indexer ignores named props",
			ast.NewObjectType(nil, &ast.IndexerDefinition{IndexType: num(), Type: num()}),
			obj(prop("a", str()), prop("0", litNum(1))),
			"", "",
		},
		{
			"indexers compared",
			ast.NewObjectType(nil, &ast.IndexerDefinition{IndexType: str(), Type: num()}),
			ast.NewObjectType(nil, &ast.IndexerDefinition{IndexType: str(), Type: str()}),
			errors.TypeMismatchCode, "",
		},
		{
			"readonly indexer into writable",
			ast.NewObjectType(nil, &ast.IndexerDefinition{IndexType: str(), Type: num()}),
			ast.NewObjectType(nil, &ast.IndexerDefinition{IndexType: str(), Type: num(), Readonly: true}),
			errors.PropertyReadonlyCode, "[string]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New().Unify(tt.expected, tt.inferred, nil)
			if tt.code == "" {
				require.NoError(t, err)
				return
			}
			ce := requireCode(t, err, tt.code)
			if tt.propName != "" {
				require.Equal(t, tt.propName, ce.Name)
			}
		})
	}
}

func TestPropertyMissingCarriesTypes(t *testing.T) {
	expected := obj(prop("x", num()))
	err := New().Unify(expected, obj(), nil)
	ce := requireCode(t, err, errors.PropertyMissingCode)
	require.Equal(t, "x", ce.Name)
	require.Equal(t, expected, ce.Expected)
	require.Equal(t, obj(), ce.Inferred)
}

func TestUnifyFunctions(t *testing.T) {
	optionalArg := func(a ast.ArgDefinition) ast.ArgDefinition { a.Optional = true; return a }
	withRest := func(f *ast.FunctionalType, rest ast.Type) *ast.FunctionalType {
		f.Rest = &ast.ArgDefinition{Pattern: ast.NewVarDef("rest", nil), Type: rest, Optional: true}
		return f
	}

	tests := []struct {
		name     string
		expected ast.Type
		inferred ast.Type
		code     errors.ErrorCode
	}{
		{
			"wider parameter is accepted",
			fn(ast.Unknown(), arg("x", num())),
			fn(ast.Unknown(), arg("x", ast.Unknown())),
			"",
		},
		{
			"narrower parameter is rejected",
			fn(ast.Unknown(), arg("x", ast.Unknown())),
			fn(ast.Unknown(), arg("x", num())),
			errors.TypeMismatchCode,
		},
		{
			"result is covariant",
			fn(str()),
			fn(litStr("a")),
			"",
		},
		{
			"wider result is rejected",
			fn(litStr("a")),
			fn(str()),
			errors.TypeMismatchCode,
		},
		{
			"rest-less function fits an unknown rest",
			withRest(fn(ast.Unknown(), arg("x", ast.Unknown())), ast.Unknown()),
			fn(ast.Unknown(), arg("x", ast.Unknown())),
			"",
		},
		{
			"rest-less function fits an array rest",
			withRest(fn(ast.Unknown()), ast.NewArrayType(num())),
			fn(ast.Unknown()),
			"",
		},
		{
			"fewer parameters are accepted",
			fn(str(), arg("x", num()), arg("y", num())),
			fn(str(), arg("x", num())),
			"",
		},
		{
			"extra required parameter is rejected",
			fn(str(), arg("x", num())),
			fn(str(), arg("x", num()), arg("y", num())),
			errors.ArgumentCountCode,
		},
		{
			"extra optional parameter is accepted",
			fn(str(), arg("x", num())),
			fn(str(), arg("x", num()), optionalArg(arg("y", num()))),
			"",
		},
		{
			"extra parameter covered by expected rest",
			withRest(fn(str()), ast.NewArrayType(num())),
			fn(str(), arg("x", num())),
			"",
		},
		{
			"extra parameter narrower than expected rest",
			withRest(fn(str()), ast.NewArrayType(num())),
			fn(str(), arg("x", litNum(1))),
			errors.TypeMismatchCode,
		},
		{
			"rest parameters are contravariant",
			withRest(fn(str()), ast.NewArrayType(num())),
			withRest(fn(str()), ast.NewArrayType(ast.Unknown())),
			"",
		},
		{
			"inferred rest covers expected positions",
			fn(str(), arg("x", num())),
			withRest(fn(str()), ast.NewArrayType(str())),
			errors.TypeMismatchCode,
		},
		{
			"not a function",
			fn(str()),
			str(),
			errors.TypeMismatchCode,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New().Unify(tt.expected, tt.inferred, nil)
			if tt.code == "" {
				require.NoError(t, err)
				return
			}
			requireCode(t, err, tt.code)
		})
	}
}

func TestUnifySequences(t *testing.T) {
	tuple := func(rest ast.Type, items ...ast.Type) ast.Type { return ast.NewTupleType(items, rest) }
	array := ast.NewArrayType

	tests := []struct {
		name     string
		expected ast.Type
		inferred ast.Type
		ok       bool
	}{
		{"arrays are covariant", array(str()), array(litStr("a")), true},
		{"array item mismatch", array(str()), array(num()), false},
		{"tuple into array", array(num()), tuple(nil, litNum(1), num()), true},
		{"tuple rest into array", array(num()), tuple(str(), num()), false},
		{"array into tuple", tuple(nil, num()), array(num()), false},
		{"same tuple", tuple(nil, num(), str()), tuple(nil, litNum(1), litStr("a")), true},
		{"short tuple", tuple(nil, num(), str()), tuple(nil, num()), false},
		{"long tuple without rest", tuple(nil, num()), tuple(nil, num(), str()), false},
		{"long tuple fits rest", tuple(str(), num()), tuple(nil, num(), litStr("a"), str()), true},
		{"long tuple misfits rest", tuple(str(), num()), tuple(nil, num(), num()), false},
		{"inferred rest fits rest", tuple(num()), tuple(litNum(1)), true},
		{"inferred rest without expected rest", tuple(nil), tuple(num()), false},
		{"position mismatch", tuple(nil, str()), tuple(nil, num()), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New().Unify(tt.expected, tt.inferred, nil)
			if tt.ok {
				require.NoError(t, err)
				return
			}
			requireCode(t, err, errors.TypeMismatchCode)
		})
	}
}

func TestUnsupportedConstructors(t *testing.T) {
	union := ast.NewUnionType([]ast.Type{str(), num()})
	inter := ast.NewIntersectionType([]ast.Type{obj(prop("a", str())), obj(prop("b", str()))})
	generic := ast.NewGenericType([]ast.TypeParam{{Name: "T"}}, ast.NewTypeIdent("T"))
	call := ast.NewGenericCallType("Box", []ast.Type{str()})

	for name, typ := range map[string]ast.Type{
		"union": union, "intersection": inter, "generic": generic, "generic call": call,
	} {
		t.Run(name+" expected", func(t *testing.T) {
			requireCode(t, New().Unify(typ, str(), nil), errors.UnsupportedCode)
		})
		t.Run(name+" inferred", func(t *testing.T) {
			requireCode(t, New().Unify(str(), typ, nil), errors.UnsupportedCode)
		})
		t.Run(name+" with never and unknown", func(t *testing.T) {
			require.NoError(t, New().Unify(typ, ast.Never(), nil))
			require.NoError(t, New().Unify(ast.Unknown(), typ, nil))
		})
	}
}

func TestExpectedTypeIdentifierLearnsLowerBound(t *testing.T) {
	c := New()
	scope := c.WithTypeVar(EmptyScope(), "T", TypeBounds(nil, nil))
	frame, err := LookupType(scope, "T")
	require.NoError(t, err)

	require.NoError(t, c.Unify(ast.NewTypeIdent("T"), litNum(5), scope))
	b, err := c.Bounds(frame)
	require.NoError(t, err)
	require.Equal(t, litNum(5), b.Lower)
	require.Equal(t, ast.Unknown(), b.Upper)

	// A wider observation replaces the lower bound.
	require.NoError(t, c.Unify(ast.NewTypeIdent("T"), num(), scope))
	b, _ = c.Bounds(frame)
	require.Equal(t, num(), b.Lower)

	// A narrower one keeps it.
	require.NoError(t, c.Unify(ast.NewTypeIdent("T"), litNum(6), scope))
	b, _ = c.Bounds(frame)
	require.Equal(t, num(), b.Lower)

	// Unrelated observations join into a union.
	require.NoError(t, c.Unify(ast.NewTypeIdent("T"), str(), scope))
	b, _ = c.Bounds(frame)
	require.Equal(t, "number | string", b.Lower.String())
}

func TestExpectedTypeIdentifierChecksUpperBound(t *testing.T) {
	c := New()
	scope := c.WithTypeVar(EmptyScope(), "T", TypeBounds(str(), nil))
	err := c.Unify(ast.NewTypeIdent("T"), litNum(5), scope)
	requireCode(t, err, errors.TypeMismatchCode)

	frame, _ := LookupType(scope, "T")
	b, _ := c.Bounds(frame)
	require.Equal(t, ast.Never(), b.Lower)
}

func TestInferredTypeIdentifierNarrowsUpperBound(t *testing.T) {
	c := New()
	scope := c.WithTypeVar(EmptyScope(), "T", TypeBounds(nil, nil))
	frame, _ := LookupType(scope, "T")

	require.NoError(t, c.Unify(num(), ast.NewTypeIdent("T"), scope))
	b, _ := c.Bounds(frame)
	require.Equal(t, num(), b.Upper)

	// The learned upper bound now constrains later observations.
	err := c.Unify(ast.NewTypeIdent("T"), litStr("a"), scope)
	requireCode(t, err, errors.TypeMismatchCode)
	require.NoError(t, c.Unify(ast.NewTypeIdent("T"), litNum(1), scope))
}

func TestInferredTypeIdentifierChecksLowerBound(t *testing.T) {
	c := New()
	scope := c.WithTypeVar(EmptyScope(), "T", TypeBounds(nil, str()))
	requireCode(t, c.Unify(num(), ast.NewTypeIdent("T"), scope), errors.TypeMismatchCode)
	require.NoError(t, c.Unify(str(), ast.NewTypeIdent("T"), scope))
}

func TestSameTypeIdentifierOnBothSides(t *testing.T) {
	c := New()
	scope := c.WithTypeVar(EmptyScope(), "T", TypeBounds(nil, nil))
	require.NoError(t, c.Unify(ast.NewTypeIdent("T"), ast.NewTypeIdent("T"), scope))

	frame, _ := LookupType(scope, "T")
	b, _ := c.Bounds(frame)
	require.Equal(t, TypeBounds(nil, nil), b)
}

func TestUnknownTypeIdentifier(t *testing.T) {
	c := New()
	scope := c.WithTypeVar(EmptyScope(), "Point", TypeBounds(nil, nil))
	err := c.Unify(ast.NewTypeIdent("Pont"), str(), scope)
	ce := requireCode(t, err, errors.UnknownTypeIdentifierCode)
	require.Equal(t, "Pont", ce.Name)
	require.Len(t, ce.Suggestions, 1)
	require.Equal(t, "Point", ce.Suggestions[0].Value)
}

func TestRecursiveTypeIdentifier(t *testing.T) {
	c := New()
	scope := c.WithTypeVar(EmptyScope(), "T", TypeBounds(ast.NewTypeIdent("T"), nil))

	err := c.Unify(ast.NewTypeIdent("T"), litNum(1), scope)
	ce := requireCode(t, err, errors.RecursiveTypeCode)
	require.Equal(t, "T", ce.Name)

	// The guard is released after the failure.
	require.Empty(t, c.active)
}

func TestMutuallyRecursiveTypeIdentifiers(t *testing.T) {
	c := New()
	scope := c.WithTypeVar(EmptyScope(), "A", TypeBounds(ast.NewTypeIdent("B"), nil))
	scope = c.WithTypeVar(scope, "B", TypeBounds(ast.NewTypeIdent("A"), nil))

	err := c.Unify(ast.NewTypeIdent("A"), str(), scope)
	requireCode(t, err, errors.RecursiveTypeCode)
}

func TestInvariantViolationIsInternal(t *testing.T) {
	c := New()
	scope := c.WithTypeVar(EmptyScope(), "T", TypeBounds(str(), num()))
	frame, _ := LookupType(scope, "T")

	err := c.checkInvariant(frame, scope)
	ce := requireCode(t, err, errors.InternalCode)
	require.Equal(t, "internal", ce.Code.Category())

	ok := c.WithTypeVar(EmptyScope(), "U", TypeBounds(str(), litStr("a")))
	frame, _ = LookupType(ok, "U")
	require.NoError(t, c.checkInvariant(frame, ok))
}

func TestProbeHasNoSideEffects(t *testing.T) {
	c := New()
	scope := c.WithTypeVar(EmptyScope(), "T", TypeBounds(nil, nil))
	frame, _ := LookupType(scope, "T")

	require.True(t, c.assignable(ast.NewTypeIdent("T"), litNum(1), scope))
	b, _ := c.Bounds(frame)
	require.Equal(t, ast.Never(), b.Lower)
}

func TestAttemptRollsBackOnFailure(t *testing.T) {
	c := New()
	scope := c.WithTypeVar(EmptyScope(), "T", TypeBounds(nil, nil))
	frame, _ := LookupType(scope, "T")
	tuple := func(items ...ast.Type) ast.Type { return ast.NewTupleType(items, nil) }
	ident := ast.NewTypeIdent("T")

	// The first position narrows T before the second fails.
	err := c.attempt(func() error {
		return c.unify(tuple(ident, str()), tuple(litNum(1), num()), scope)
	})
	requireCode(t, err, errors.TypeMismatchCode)
	b, _ := c.Bounds(frame)
	require.Equal(t, ast.Never(), b.Lower)

	require.NoError(t, c.attempt(func() error {
		return c.unify(tuple(ident, str()), tuple(litNum(1), str()), scope)
	}))
	b, _ = c.Bounds(frame)
	require.Equal(t, litNum(1), b.Lower)
}

func TestJoinAndMeet(t *testing.T) {
	c := New()
	scope := EmptyScope()
	tests := []struct {
		name string
		got  ast.Type
		want string
	}{
		{"join with never", c.join(ast.Never(), str(), scope), "string"},
		{"join literal into builtin", c.join(litStr("a"), str(), scope), "string"},
		{"join builtin with literal", c.join(str(), litStr("a"), scope), "string"},
		{"join unrelated", c.join(str(), num(), scope), "string | number"},
		{"join flattens unions", c.join(c.join(str(), num(), scope), boolT(), scope), "string | number | boolean"},
		{"join dedupes", c.join(c.join(str(), num(), scope), num(), scope), "string | number"},
		{"meet with unknown", c.meet(ast.Unknown(), str(), scope), "string"},
		{"meet keeps narrower", c.meet(str(), litStr("a"), scope), "\"a\""},
		{"meet unrelated", c.meet(obj(prop("a", str())), obj(prop("b", str())), scope), "{ a: string } & { b: string }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.got.String())
		})
	}
}

func TestBoundsOfForeignScope(t *testing.T) {
	a, b := New(), New()
	scope := a.WithVar(EmptyScope(), "x", TypeBounds(str(), str()))
	_, err := b.Bounds(scope)
	requireCode(t, err, errors.InternalCode)

	_, err = a.Bounds(EmptyScope())
	requireCode(t, err, errors.InternalCode)
}
