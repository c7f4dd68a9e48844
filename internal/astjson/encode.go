package astjson

import (
	"encoding/json"
	"math"

	"github.com/declaratypel/typecheck/ast"
)

// MarshalType encodes a type expression in the interchange format.
func MarshalType(t ast.Type) ([]byte, error) {
	return json.Marshal(EncodeType(t))
}

// EncodeType converts a type expression into JSON-ready maps and slices.
// A nil type encodes as nil.
func EncodeType(t ast.Type) any {
	switch t := t.(type) {
	case nil:
		return nil
	case *ast.Builtin:
		return obj{"tctor": "builtin", "name": string(t.Tag)}
	case *ast.LiteralType:
		out := obj{"tctor": "literal"}
		if v, ok := encodeValue(t.Value); ok {
			out["value"] = v
		}
		return out
	case *ast.TypeIdentifier:
		return obj{"tctor": "identifier", "name": t.Name}
	case *ast.ObjectType:
		props := make([]any, 0, len(t.Props))
		for _, p := range t.Props {
			prop := obj{"name": p.Name, "type": EncodeType(p.Type)}
			flags(prop, p.Optional, p.Readonly, p.Description)
			props = append(props, prop)
		}
		out := obj{"tctor": "object", "props": props}
		if t.Indexer != nil {
			indexer := obj{"indexType": EncodeType(t.Indexer.IndexType), "type": EncodeType(t.Indexer.Type)}
			flags(indexer, t.Indexer.Optional, t.Indexer.Readonly, t.Indexer.Description)
			out["indexer"] = indexer
		}
		return out
	case *ast.ArrayType:
		return obj{"tctor": "array", "items": EncodeType(t.Items)}
	case *ast.TupleType:
		out := obj{"tctor": "tuple", "items": encodeTypes(t.Items)}
		if t.Rest != nil {
			out["rest"] = EncodeType(t.Rest)
		}
		return out
	case *ast.FunctionalType:
		args := make([]any, 0, len(t.Args))
		for _, a := range t.Args {
			args = append(args, encodeArg(a))
		}
		out := obj{"tctor": "function", "args": args, "result": EncodeType(t.Result)}
		if t.Rest != nil {
			out["rest"] = encodeArg(*t.Rest)
		}
		if t.Description != "" {
			out["description"] = t.Description
		}
		return out
	case *ast.UnionType:
		return obj{"tctor": "union", "args": encodeTypes(t.Args)}
	case *ast.IntersectionType:
		return obj{"tctor": "intersection", "args": encodeTypes(t.Args)}
	case *ast.GenericType:
		params := make([]any, 0, len(t.Params))
		for _, p := range t.Params {
			param := obj{"name": p.Name}
			if p.UpperBound != nil {
				param["upperBound"] = EncodeType(p.UpperBound)
			}
			if p.Default != nil {
				param["default"] = EncodeType(p.Default)
			}
			params = append(params, param)
		}
		return obj{"tctor": "generic", "params": params, "body": EncodeType(t.Body)}
	case *ast.GenericCallType:
		return obj{"tctor": "genericCall", "name": t.Name, "args": encodeTypes(t.Args)}
	}
	return obj{"tctor": "unknown"}
}

type obj = map[string]any

func flags(out obj, optional, readonly bool, description string) {
	if optional {
		out["optional"] = true
	}
	if readonly {
		out["readonly"] = true
	}
	if description != "" {
		out["description"] = description
	}
}

func encodeTypes(types []ast.Type) []any {
	out := make([]any, 0, len(types))
	for _, t := range types {
		out = append(out, EncodeType(t))
	}
	return out
}

// encodeArg keeps a plain parameter name; destructured parameters lose
// their pattern.
func encodeArg(a ast.ArgDefinition) obj {
	out := obj{"type": EncodeType(a.Type)}
	if v, ok := a.Pattern.(*ast.VarDef); ok {
		out["pattern"] = obj{"tag": "var", "name": v.Name.Name}
	}
	flags(out, a.Optional, false, a.Description)
	return out
}

// encodeValue returns the JSON form of v. The second result is false for
// undefined, which is written by omitting the field.
func encodeValue(v ast.Value) (any, bool) {
	switch v.Kind() {
	case ast.KindNull:
		return nil, true
	case ast.KindString:
		return v.Str(), true
	case ast.KindBoolean:
		return v.Bool(), true
	case ast.KindBigInt:
		return obj{"bigint": v.BigInt().String()}, true
	case ast.KindNumber:
		n := v.Number()
		switch {
		case math.IsNaN(n):
			return obj{"number": "NaN"}, true
		case math.IsInf(n, 1):
			return obj{"number": "Infinity"}, true
		case math.IsInf(n, -1):
			return obj{"number": "-Infinity"}, true
		}
		return n, true
	}
	return nil, false
}
