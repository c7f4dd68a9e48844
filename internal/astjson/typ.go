package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/declaratypel/typecheck/ast"
)

var builtinTags = map[string]ast.BuiltinTag{
	"string":  ast.TagString,
	"number":  ast.TagNumber,
	"bigint":  ast.TagBigInt,
	"boolean": ast.TagBoolean,
	"unknown": ast.TagUnknown,
	"never":   ast.TagNever,
}

func (d *decoder) typ(raw json.RawMessage) (ast.Type, error) {
	f, err := d.object(raw)
	if err != nil {
		return nil, err
	}
	tctor, err := d.str(f, "tctor")
	if err != nil {
		return nil, err
	}
	switch tctor {
	case "builtin":
		name, err := d.str(f, "name")
		if err != nil {
			return nil, err
		}
		tag, ok := builtinTags[name]
		if !ok {
			return nil, d.errorf("unknown builtin type %q", name)
		}
		return ast.NewBuiltin(tag), nil
	case "literal":
		v, err := d.value(f, "value")
		if err != nil {
			return nil, err
		}
		return ast.NewLiteralType(v), nil
	case "identifier":
		name, err := d.str(f, "name")
		if err != nil {
			return nil, err
		}
		return ast.NewTypeIdent(name), nil
	case "object":
		return d.objectType(f)
	case "array":
		items, err := d.typeField(f, "items")
		if err != nil {
			return nil, err
		}
		return ast.NewArrayType(items), nil
	case "tuple":
		items, err := d.typeList(f, "items")
		if err != nil {
			return nil, err
		}
		rest, err := d.optTypeField(f, "rest")
		if err != nil {
			return nil, err
		}
		return ast.NewTupleType(items, rest), nil
	case "function":
		return d.funcType(f)
	case "union":
		args, err := d.typeList(f, "args")
		if err != nil {
			return nil, err
		}
		return ast.NewUnionType(args), nil
	case "intersection":
		args, err := d.typeList(f, "args")
		if err != nil {
			return nil, err
		}
		return ast.NewIntersectionType(args), nil
	case "generic":
		return d.genericType(f)
	case "genericCall":
		name, err := d.str(f, "name")
		if err != nil {
			return nil, err
		}
		args, err := d.typeList(f, "args")
		if err != nil {
			return nil, err
		}
		return ast.NewGenericCallType(name, args), nil
	}
	return nil, d.errorf("unknown type constructor %q", tctor)
}

func (d *decoder) objectType(f fields) (ast.Type, error) {
	raws, err := d.list(f, "props")
	if err != nil {
		return nil, err
	}
	props := make([]ast.PropDefinition, 0, len(raws))
	seen := make(map[string]bool, len(raws))
	for i, raw := range raws {
		prop, err := d.propDefinition(fmt.Sprintf("props[%d]", i), raw)
		if err != nil {
			return nil, err
		}
		if seen[prop.Name] {
			defer d.at(fmt.Sprintf("props[%d]", i))()
			return nil, d.errorf("duplicate property %q", prop.Name)
		}
		seen[prop.Name] = true
		props = append(props, prop)
	}
	var indexer *ast.IndexerDefinition
	if f.has("indexer") {
		if indexer, err = d.indexerDefinition(f["indexer"]); err != nil {
			return nil, err
		}
	}
	return ast.NewObjectType(props, indexer), nil
}

func (d *decoder) propDefinition(seg string, raw json.RawMessage) (ast.PropDefinition, error) {
	defer d.at(seg)()
	var prop ast.PropDefinition
	f, err := d.object(raw)
	if err != nil {
		return prop, err
	}
	if prop.Name, err = d.str(f, "name"); err != nil {
		return prop, err
	}
	if prop.Type, err = d.typeField(f, "type"); err != nil {
		return prop, err
	}
	if prop.Optional, err = d.flag(f, "optional"); err != nil {
		return prop, err
	}
	if prop.Readonly, err = d.flag(f, "readonly"); err != nil {
		return prop, err
	}
	prop.Description, err = d.optStr(f, "description")
	return prop, err
}

func (d *decoder) indexerDefinition(raw json.RawMessage) (*ast.IndexerDefinition, error) {
	defer d.at("indexer")()
	f, err := d.object(raw)
	if err != nil {
		return nil, err
	}
	indexer := &ast.IndexerDefinition{}
	if indexer.IndexType, err = d.typeField(f, "indexType"); err != nil {
		return nil, err
	}
	if !ast.IsBuiltin(indexer.IndexType, ast.TagString) && !ast.IsBuiltin(indexer.IndexType, ast.TagNumber) {
		defer d.at("indexType")()
		return nil, d.errorf("indexer keys must be string or number, got %s", indexer.IndexType)
	}
	if indexer.Type, err = d.typeField(f, "type"); err != nil {
		return nil, err
	}
	if indexer.Optional, err = d.flag(f, "optional"); err != nil {
		return nil, err
	}
	if indexer.Readonly, err = d.flag(f, "readonly"); err != nil {
		return nil, err
	}
	if indexer.Description, err = d.optStr(f, "description"); err != nil {
		return nil, err
	}
	return indexer, nil
}

func (d *decoder) funcType(f fields) (ast.Type, error) {
	raws, err := d.list(f, "args")
	if err != nil {
		return nil, err
	}
	args := make([]ast.ArgDefinition, 0, len(raws))
	for i, raw := range raws {
		arg, err := d.argDefinition(fmt.Sprintf("args[%d]", i), raw)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	var rest *ast.ArgDefinition
	if f.has("rest") {
		arg, err := d.argDefinition("rest", f["rest"])
		if err != nil {
			return nil, err
		}
		rest = &arg
	}
	result, err := d.typeField(f, "result")
	if err != nil {
		return nil, err
	}
	fn := ast.NewFuncType(result, args, rest)
	if fn.Description, err = d.optStr(f, "description"); err != nil {
		return nil, err
	}
	return fn, nil
}

func (d *decoder) argDefinition(seg string, raw json.RawMessage) (ast.ArgDefinition, error) {
	defer d.at(seg)()
	var arg ast.ArgDefinition
	f, err := d.object(raw)
	if err != nil {
		return arg, err
	}
	if f.has("pattern") {
		if arg.Pattern, err = d.patternField(f, "pattern"); err != nil {
			return arg, err
		}
	}
	if arg.Type, err = d.typeField(f, "type"); err != nil {
		return arg, err
	}
	if arg.Optional, err = d.flag(f, "optional"); err != nil {
		return arg, err
	}
	arg.Description, err = d.optStr(f, "description")
	return arg, err
}

func (d *decoder) genericType(f fields) (ast.Type, error) {
	raws, err := d.list(f, "params")
	if err != nil {
		return nil, err
	}
	params := make([]ast.TypeParam, 0, len(raws))
	for i, raw := range raws {
		param, err := d.typeParam(fmt.Sprintf("params[%d]", i), raw)
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}
	body, err := d.typeField(f, "body")
	if err != nil {
		return nil, err
	}
	return ast.NewGenericType(params, body), nil
}

func (d *decoder) typeParam(seg string, raw json.RawMessage) (ast.TypeParam, error) {
	defer d.at(seg)()
	var param ast.TypeParam
	f, err := d.object(raw)
	if err != nil {
		return param, err
	}
	if param.Name, err = d.str(f, "name"); err != nil {
		return param, err
	}
	if param.UpperBound, err = d.optTypeField(f, "upperBound"); err != nil {
		return param, err
	}
	param.Default, err = d.optTypeField(f, "default")
	return param, err
}

func (d *decoder) typeField(f fields, key string) (ast.Type, error) {
	defer d.at(key)()
	if !f.has(key) {
		return nil, d.errorf("missing type")
	}
	return d.typ(f[key])
}

func (d *decoder) optTypeField(f fields, key string) (ast.Type, error) {
	if !f.has(key) {
		return nil, nil
	}
	return d.typeField(f, key)
}

func (d *decoder) typeList(f fields, key string) ([]ast.Type, error) {
	raws, err := d.list(f, key)
	if err != nil {
		return nil, err
	}
	out := make([]ast.Type, 0, len(raws))
	for i, raw := range raws {
		t, err := d.indexedType(fmt.Sprintf("%s[%d]", key, i), raw)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (d *decoder) indexedType(seg string, raw json.RawMessage) (ast.Type, error) {
	defer d.at(seg)()
	return d.typ(raw)
}
