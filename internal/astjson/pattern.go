package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/declaratypel/typecheck/ast"
)

func (d *decoder) pattern(raw json.RawMessage) (ast.Pattern, error) {
	f, err := d.object(raw)
	if err != nil {
		return nil, err
	}
	tag, err := d.str(f, "tag")
	if err != nil {
		return nil, err
	}
	switch tag {
	case "var":
		v, err := d.varDef(f)
		if err != nil {
			return nil, err
		}
		return v, nil
	case "objectDestruct":
		raws, err := d.list(f, "props")
		if err != nil {
			return nil, err
		}
		props := make([]ast.PropPattern, 0, len(raws))
		for i, raw := range raws {
			p, err := d.propPattern(fmt.Sprintf("props[%d]", i), raw)
			if err != nil {
				return nil, err
			}
			props = append(props, p)
		}
		rest, def, err := d.restAndDefault(f)
		if err != nil {
			return nil, err
		}
		return ast.NewObjectDestruct(props, rest, def), nil
	case "arrayDestruct":
		raws, err := d.list(f, "items")
		if err != nil {
			return nil, err
		}
		items := make([]ast.Pattern, 0, len(raws))
		for i, raw := range raws {
			p, err := d.indexedPattern(fmt.Sprintf("items[%d]", i), raw)
			if err != nil {
				return nil, err
			}
			items = append(items, p)
		}
		rest, def, err := d.restAndDefault(f)
		if err != nil {
			return nil, err
		}
		return ast.NewArrayDestruct(items, rest, def), nil
	}
	return nil, d.errorf("unknown pattern tag %q", tag)
}

func (d *decoder) varDef(f fields) (*ast.VarDef, error) {
	name, err := d.str(f, "name")
	if err != nil {
		return nil, err
	}
	def, err := d.optExprField(f, "default")
	if err != nil {
		return nil, err
	}
	v := ast.NewVarDef(name, def)
	if v.Optional, err = d.flag(f, "optional"); err != nil {
		return nil, err
	}
	return v, nil
}

func (d *decoder) propPattern(seg string, raw json.RawMessage) (ast.PropPattern, error) {
	defer d.at(seg)()
	f, err := d.object(raw)
	if err != nil {
		return nil, err
	}
	tag, err := d.str(f, "tag")
	if err != nil {
		return nil, err
	}
	switch tag {
	case "var":
		v, err := d.varDef(f)
		if err != nil {
			return nil, err
		}
		return v, nil
	case "renamed":
		key, err := d.str(f, "key")
		if err != nil {
			return nil, err
		}
		pattern, err := d.patternField(f, "pattern")
		if err != nil {
			return nil, err
		}
		return ast.NewRenamedProp(key, pattern), nil
	}
	return nil, d.errorf("unknown property pattern tag %q", tag)
}

func (d *decoder) restAndDefault(f fields) (ast.Pattern, ast.Expr, error) {
	var rest ast.Pattern
	if f.has("rest") {
		var err error
		if rest, err = d.patternField(f, "rest"); err != nil {
			return nil, nil, err
		}
	}
	def, err := d.optExprField(f, "default")
	if err != nil {
		return nil, nil, err
	}
	return rest, def, nil
}

func (d *decoder) indexedPattern(seg string, raw json.RawMessage) (ast.Pattern, error) {
	defer d.at(seg)()
	return d.pattern(raw)
}

func (d *decoder) patternField(f fields, key string) (ast.Pattern, error) {
	defer d.at(key)()
	if !f.has(key) {
		return nil, d.errorf("missing pattern")
	}
	return d.pattern(f[key])
}
