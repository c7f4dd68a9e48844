package checker

import (
	"github.com/declaratypel/typecheck/ast"
	"github.com/declaratypel/typecheck/errors"
)

// checkArg binds pattern against expected and returns the extended scope
// together with the slot type the pattern was bound to. A nil expected
// type means there is no expectation: the pattern's default value, if
// any, supplies the type, otherwise it is unknown.
func (c *Checker) checkArg(pattern ast.Pattern, expected ast.Type, scope *Scope) (*Scope, ast.Type, error) {
	slot, err := c.slotType(pattern.DefaultValue(), expected, scope)
	if err != nil {
		return nil, nil, err
	}
	next, err := c.bindPattern(pattern, slot, scope)
	if err != nil {
		return nil, nil, err
	}
	return next, slot, nil
}

// slotType reconciles a default value with the expected type of a slot. A
// default replaces an expected undefined, since it applies exactly when
// the value is absent.
func (c *Checker) slotType(def ast.Expr, expected ast.Type, scope *Scope) (ast.Type, error) {
	if def == nil {
		if expected == nil {
			return ast.Unknown(), nil
		}
		return expected, nil
	}
	dt, err := c.infer(def, scope)
	if err != nil {
		return nil, err
	}
	if expected == nil || isUndefined(expected) {
		return dt, nil
	}
	if err := c.unify(expected, dt, scope); err != nil {
		return nil, attribute(err, def)
	}
	return expected, nil
}

// bindPattern binds the variables of pattern against slot. The pattern's
// own default value has already been accounted for in slot.
func (c *Checker) bindPattern(pattern ast.Pattern, slot ast.Type, scope *Scope) (*Scope, error) {
	switch p := pattern.(type) {
	case *ast.VarDef:
		return c.WithVar(scope, p.Name.Name, Bounds{Upper: slot, Lower: slot}), nil
	case *ast.ArrayDestruct:
		return c.bindArray(p, slot, scope)
	case *ast.ObjectDestruct:
		return c.bindObject(p, slot, scope)
	case nil:
		return nil, errors.Internal("bind called with a nil pattern")
	}
	return nil, errors.Internal("bind: unhandled pattern %T", pattern)
}

func (c *Checker) bindArray(p *ast.ArrayDestruct, slot ast.Type, scope *Scope) (*Scope, error) {
	var err error
	switch t := c.shape(slot, scope).(type) {
	case *ast.ArrayType:
		for _, item := range p.Items {
			if scope, _, err = c.checkArg(item, nested(t.Items), scope); err != nil {
				return nil, err
			}
		}
		if p.Rest != nil {
			return c.bindPattern(p.Rest, t, scope)
		}
		return scope, nil
	case *ast.TupleType:
		for i, item := range p.Items {
			var it ast.Type
			switch {
			case i < len(t.Items):
				it = t.Items[i]
			case t.Rest != nil:
				it = t.Rest
			case c.cfg.tupleOverflow == TupleOverflowReject:
				want := make([]ast.Type, len(p.Items))
				for j := range want {
					want[j] = ast.Unknown()
				}
				return nil, errors.TypeMismatch(ast.NewTupleType(want, nil), slot)
			default:
				it = ast.NewLiteralType(ast.Undefined)
			}
			if scope, _, err = c.checkArg(item, nested(it), scope); err != nil {
				return nil, err
			}
		}
		if p.Rest != nil {
			return nil, errors.Unsupported("rest patterns against tuple types")
		}
		return scope, nil
	}
	return nil, errors.TypeMismatch(ast.NewArrayType(ast.Unknown()), slot)
}

func (c *Checker) bindObject(p *ast.ObjectDestruct, slot ast.Type, scope *Scope) (*Scope, error) {
	obj, ok := c.shape(slot, scope).(*ast.ObjectType)
	if !ok {
		return nil, errors.TypeMismatch(ast.NewObjectType(nil, nil), slot)
	}
	var err error
	for _, prop := range p.Props {
		key, sub := ast.PropKey(prop)
		if sub == nil {
			return nil, errors.Internal("bind: unhandled property pattern %T", prop)
		}
		var pt ast.Type
		if pd, found := obj.Prop(key); found {
			pt = pd.Type
		} else if obj.Indexer != nil {
			pt = obj.Indexer.Type
		} else {
			want := ast.NewObjectType([]ast.PropDefinition{{Name: key, Type: ast.Unknown()}}, nil)
			return nil, errors.PropertyMissing(want, slot, key)
		}
		if scope, _, err = c.checkArg(sub, nested(pt), scope); err != nil {
			return nil, err
		}
	}
	if p.Rest != nil {
		return nil, errors.Unsupported("rest patterns in object destructuring")
	}
	return scope, nil
}

// nested turns the type of a destructured slot into the expectation for
// its sub-pattern. An unknown slot places no expectation, so a default
// value may supply the type.
func nested(t ast.Type) ast.Type {
	if ast.IsBuiltin(t, ast.TagUnknown) {
		return nil
	}
	return t
}

// shape follows type identifiers to the upper bound that every value of
// the type satisfies.
func (c *Checker) shape(t ast.Type, scope *Scope) ast.Type {
	seen := map[BoundsID]bool{}
	for {
		id, ok := t.(*ast.TypeIdentifier)
		if !ok {
			return t
		}
		frame, err := LookupType(scope, id.Name)
		if err != nil || seen[frame.bounds] {
			return t
		}
		seen[frame.bounds] = true
		b, err := c.Bounds(frame)
		if err != nil {
			return t
		}
		t = b.Upper
	}
}

func isUndefined(t ast.Type) bool {
	lit, ok := t.(*ast.LiteralType)
	return ok && lit.Value.Kind() == ast.KindUndefined
}
