package ast

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueKinds(t *testing.T) {
	tests := []struct {
		value  Value
		kind   ValueKind
		typeOf string
	}{
		{Undefined, KindUndefined, "undefined"},
		{Value{}, KindUndefined, "undefined"},
		{Null, KindNull, "object"},
		{StringValue("a"), KindString, "string"},
		{NumberValue(1), KindNumber, "number"},
		{BigIntFromInt64(1), KindBigInt, "bigint"},
		{BoolValue(true), KindBoolean, "boolean"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			require.Equal(t, tt.kind, tt.value.Kind())
			require.Equal(t, tt.typeOf, tt.value.TypeOf())
		})
	}
	require.Equal(t, "invalid", ValueKind(99).String())
}

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Value
		equal bool
	}{
		{"strings", StringValue("a"), StringValue("a"), true},
		{"different strings", StringValue("a"), StringValue("b"), false},
		{"numbers", NumberValue(1.5), NumberValue(1.5), true},
		{"NaN", NumberValue(math.NaN()), NumberValue(math.NaN()), false},
		{"signed zeros", NumberValue(0), NumberValue(math.Copysign(0, -1)), true},
		{"bigints by value", BigIntFromInt64(7), BigIntValue(big.NewInt(7)), true},
		{"different bigints", BigIntFromInt64(7), BigIntFromInt64(8), false},
		{"booleans", BoolValue(false), BoolValue(false), true},
		{"null", Null, Null, true},
		{"undefined", Undefined, Undefined, true},
		{"null is not undefined", Null, Undefined, false},
		{"kinds differ", NumberValue(1), StringValue("1"), false},
		{"number is not bigint", NumberValue(1), BigIntFromInt64(1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.equal, tt.a.Equal(tt.b))
			require.Equal(t, tt.equal, tt.b.Equal(tt.a))
		})
	}
}

func TestValueKeyAndString(t *testing.T) {
	tests := []struct {
		value    Value
		key      string
		rendered string
	}{
		{StringValue("a b"), "a b", `"a b"`},
		{NumberValue(1), "1", "1"},
		{NumberValue(-2.5), "-2.5", "-2.5"},
		{NumberValue(0.1), "0.1", "0.1"},
		{NumberValue(1e21), "1e+21", "1e+21"},
		{NumberValue(1e-7), "1e-7", "1e-7"},
		{NumberValue(math.NaN()), "NaN", "NaN"},
		{NumberValue(math.Inf(1)), "Infinity", "Infinity"},
		{NumberValue(math.Inf(-1)), "-Infinity", "-Infinity"},
		{NumberValue(math.Copysign(0, -1)), "0", "0"},
		{BigIntFromInt64(-12), "-12", "-12n"},
		{BoolValue(true), "true", "true"},
		{Null, "null", "null"},
		{Undefined, "undefined", "undefined"},
	}
	for _, tt := range tests {
		t.Run(tt.rendered, func(t *testing.T) {
			require.Equal(t, tt.key, tt.value.Key())
			require.Equal(t, tt.rendered, tt.value.String())
		})
	}
}

func TestBigIntValueIsCopied(t *testing.T) {
	i := big.NewInt(5)
	v := BigIntValue(i)
	i.SetInt64(6)
	require.Equal(t, "5", v.Key())

	out := v.BigInt()
	out.SetInt64(9)
	require.Equal(t, "5", v.Key())
	require.Nil(t, NumberValue(1).BigInt())
}

func TestValuePayloads(t *testing.T) {
	require.Equal(t, "s", StringValue("s").Str())
	require.Equal(t, 2.0, NumberValue(2).Number())
	require.True(t, BoolValue(true).Bool())
	require.Equal(t, "", NumberValue(2).Str())
}
