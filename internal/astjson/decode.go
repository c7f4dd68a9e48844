package astjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/declaratypel/typecheck/ast"
)

// Error describes malformed input. Path locates the offending node, for
// example "items[1].decls[0].pattern".
type Error struct {
	Path string
	Msg  string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return "astjson: " + e.Msg
	}
	return "astjson: " + e.Path + ": " + e.Msg
}

// DecodeModule decodes a list of top-level items.
func DecodeModule(data []byte) ([]ast.Expr, error) {
	d := &decoder{}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		f, err := d.object(data)
		if err != nil {
			return nil, err
		}
		return d.exprList(f, "items")
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, d.errorf("expected an array of items: %v", err)
	}
	return d.exprs(raw)
}

// DecodeExpr decodes a single expression.
func DecodeExpr(data []byte) (ast.Expr, error) {
	return (&decoder{}).expr(data)
}

// DecodeType decodes a single type expression.
func DecodeType(data []byte) (ast.Type, error) {
	return (&decoder{}).typ(data)
}

// DecodePattern decodes a single binding pattern.
func DecodePattern(data []byte) (ast.Pattern, error) {
	return (&decoder{}).pattern(data)
}

type fields map[string]json.RawMessage

// has reports whether key is present with a non-null value.
func (f fields) has(key string) bool {
	raw, ok := f[key]
	return ok && !isNull(raw)
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || string(raw) == "null"
}

type decoder struct {
	path []string
}

func (d *decoder) errorf(format string, args ...any) error {
	return &Error{Path: strings.Join(d.path, "."), Msg: fmt.Sprintf(format, args...)}
}

// at descends into a named field; the returned func restores the path.
func (d *decoder) at(seg string) func() {
	d.path = append(d.path, seg)
	return func() { d.path = d.path[:len(d.path)-1] }
}

func (d *decoder) object(raw json.RawMessage) (fields, error) {
	if isNull(raw) {
		return nil, d.errorf("expected an object, got null")
	}
	var f fields
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, d.errorf("expected an object: %v", err)
	}
	return f, nil
}

func (d *decoder) list(f fields, key string) ([]json.RawMessage, error) {
	if !f.has(key) {
		return nil, nil
	}
	var out []json.RawMessage
	if err := json.Unmarshal(f[key], &out); err != nil {
		defer d.at(key)()
		return nil, d.errorf("expected an array: %v", err)
	}
	return out, nil
}

func (d *decoder) str(f fields, key string) (string, error) {
	if !f.has(key) {
		return "", d.errorf("missing %q", key)
	}
	var s string
	if err := json.Unmarshal(f[key], &s); err != nil {
		defer d.at(key)()
		return "", d.errorf("expected a string: %v", err)
	}
	return s, nil
}

func (d *decoder) optStr(f fields, key string) (string, error) {
	if !f.has(key) {
		return "", nil
	}
	return d.str(f, key)
}

func (d *decoder) flag(f fields, key string) (bool, error) {
	if !f.has(key) {
		return false, nil
	}
	var b bool
	if err := json.Unmarshal(f[key], &b); err != nil {
		defer d.at(key)()
		return false, d.errorf("expected a boolean: %v", err)
	}
	return b, nil
}

// value decodes a literal value. An absent key is undefined.
func (d *decoder) value(f fields, key string) (ast.Value, error) {
	raw, ok := f[key]
	if !ok {
		return ast.Undefined, nil
	}
	defer d.at(key)()
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ast.Undefined, d.errorf("empty value")
	}
	switch raw[0] {
	case 'n':
		return ast.Null, nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return ast.Undefined, d.errorf("invalid boolean: %v", err)
		}
		return ast.BoolValue(b), nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ast.Undefined, d.errorf("invalid string: %v", err)
		}
		return ast.StringValue(s), nil
	case '{':
		return d.specialValue(raw)
	case '[':
		return ast.Undefined, d.errorf("arrays are not literal values")
	}
	n, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return ast.Undefined, d.errorf("invalid number %s", raw)
	}
	return ast.NumberValue(n), nil
}

func (d *decoder) specialValue(raw json.RawMessage) (ast.Value, error) {
	var special struct {
		BigInt    *string `json:"bigint"`
		Number    *string `json:"number"`
		Undefined bool    `json:"undefined"`
	}
	if err := json.Unmarshal(raw, &special); err != nil {
		return ast.Undefined, d.errorf("invalid value: %v", err)
	}
	switch {
	case special.BigInt != nil:
		i, ok := new(big.Int).SetString(*special.BigInt, 10)
		if !ok {
			return ast.Undefined, d.errorf("invalid bigint %q", *special.BigInt)
		}
		return ast.BigIntValue(i), nil
	case special.Number != nil:
		switch *special.Number {
		case "NaN":
			return ast.NumberValue(math.NaN()), nil
		case "Infinity":
			return ast.NumberValue(math.Inf(1)), nil
		case "-Infinity":
			return ast.NumberValue(math.Inf(-1)), nil
		}
		n, err := strconv.ParseFloat(*special.Number, 64)
		if err != nil {
			return ast.Undefined, d.errorf("invalid number %q", *special.Number)
		}
		return ast.NumberValue(n), nil
	case special.Undefined:
		return ast.Undefined, nil
	}
	return ast.Undefined, d.errorf("unrecognized value object %s", raw)
}
