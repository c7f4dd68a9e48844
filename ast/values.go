package ast

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// ValueKind identifies the primitive kind of a Value.
type ValueKind uint8

const (
	KindUndefined ValueKind = iota
	KindNull
	KindString
	KindNumber
	KindBigInt
	KindBoolean
)

func (k ValueKind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBigInt:
		return "bigint"
	case KindBoolean:
		return "boolean"
	default:
		return "invalid"
	}
}

// Value is an immutable primitive value. It is used both for literal
// expressions and as the payload of literal types. The zero Value is
// undefined.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	big  *big.Int
	b    bool
}

var (
	// Undefined is the undefined value.
	Undefined = Value{kind: KindUndefined}
	// Null is the null value.
	Null = Value{kind: KindNull}
)

// StringValue returns a string value.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// NumberValue returns a number value.
func NumberValue(n float64) Value { return Value{kind: KindNumber, num: n} }

// BoolValue returns a boolean value.
func BoolValue(b bool) Value { return Value{kind: KindBoolean, b: b} }

// BigIntValue returns an arbitrary precision integer value. The argument
// is copied, so later changes to i do not affect the value.
func BigIntValue(i *big.Int) Value {
	return Value{kind: KindBigInt, big: new(big.Int).Set(i)}
}

// BigIntFromInt64 returns an arbitrary precision integer value.
func BigIntFromInt64(i int64) Value {
	return Value{kind: KindBigInt, big: big.NewInt(i)}
}

// Kind returns the primitive kind of the value.
func (v Value) Kind() ValueKind { return v.kind }

// TypeOf returns the name JavaScript's typeof operator yields for the value.
func (v Value) TypeOf() string {
	if v.kind == KindNull {
		return "object"
	}
	return v.kind.String()
}

// Str returns the string payload. It is empty for other kinds.
func (v Value) Str() string { return v.str }

// Number returns the number payload. It is zero for other kinds.
func (v Value) Number() float64 { return v.num }

// Bool returns the boolean payload. It is false for other kinds.
func (v Value) Bool() bool { return v.b }

// BigInt returns a copy of the bigint payload, or nil for other kinds.
func (v Value) BigInt() *big.Int {
	if v.big == nil {
		return nil
	}
	return new(big.Int).Set(v.big)
}

// Equal reports strict equality (===). NaN is not equal to itself and
// bigints compare by value.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindUndefined, KindNull:
		return true
	case KindString:
		return v.str == other.str
	case KindNumber:
		return v.num == other.num
	case KindBigInt:
		return v.big.Cmp(other.big) == 0
	case KindBoolean:
		return v.b == other.b
	}
	return false
}

// Key returns the value converted to a property key, the way String(v)
// behaves in JavaScript.
func (v Value) Key() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return formatNumber(v.num)
	case KindBigInt:
		return v.big.String()
	case KindBoolean:
		return strconv.FormatBool(v.b)
	default:
		return v.kind.String()
	}
}

// String returns the value as it would be written in source code.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.str)
	case KindBigInt:
		return v.big.String() + "n"
	default:
		return v.Key()
	}
}

func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	case math.Abs(n) < 1e21 && math.Abs(n) >= 1e-6:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		// JavaScript writes exponents without a leading zero: 1e-7, not 1e-07.
		s := strconv.FormatFloat(n, 'g', -1, 64)
		s = strings.Replace(s, "e-0", "e-", 1)
		return strings.Replace(s, "e+0", "e+", 1)
	}
}
