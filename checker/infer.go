package checker

import (
	"github.com/declaratypel/typecheck/ast"
	"github.com/declaratypel/typecheck/errors"
)

func (c *Checker) infer(expr ast.Expr, scope *Scope) (ast.Type, error) {
	defer c.leave()
	if err := c.enter(); err != nil {
		return nil, attribute(err, expr)
	}
	t, err := c.inferExpr(expr, scope)
	if err != nil {
		return nil, attribute(err, expr)
	}
	return t, nil
}

func (c *Checker) inferExpr(expr ast.Expr, scope *Scope) (ast.Type, error) {
	switch x := expr.(type) {
	case *ast.Ident:
		frame, err := LookupVar(scope, x.Name)
		if err != nil {
			return nil, err
		}
		b, err := c.Bounds(frame)
		if err != nil {
			return nil, err
		}
		return b.Lower, nil
	case *ast.Literal:
		return ast.NewLiteralType(x.Value), nil
	case *ast.ObjectTemplate:
		return c.inferObject(x, scope)
	case *ast.ArrayTemplate:
		return c.inferArray(x, scope)
	case *ast.Lambda:
		return c.inferLambda(x, scope)
	case *ast.Unary:
		return c.inferUnary(x, scope)
	case *ast.Binary:
		return c.inferBinary(x, scope)
	case *ast.Ternary:
		return c.inferTernary(x, scope)
	case *ast.Call:
		return c.inferCall(x, scope)
	case *ast.TypeAnnotation:
		return c.inferAnnotation(x, scope)
	case *ast.Ellipsis:
		return nil, errors.Unsupported("spread outside of a template or call")
	case *ast.Definition, *ast.TypeDefinition, *ast.Import, *ast.Export:
		return nil, errors.Unsupported("a declaration in expression position")
	case nil:
		return nil, errors.Internal("infer called with a nil expression")
	}
	return nil, errors.Internal("infer: unhandled expression %T", expr)
}

func (c *Checker) inferObject(x *ast.ObjectTemplate, scope *Scope) (ast.Type, error) {
	obj := ast.NewObjectType(nil, nil)
	for _, item := range x.Items {
		switch item := item.(type) {
		case *ast.Property:
			t, err := c.infer(item.Value, scope)
			if err != nil {
				return nil, err
			}
			setProp(obj, item.Key, t)
		case *ast.Indexer:
			it, err := c.infer(item.Index, scope)
			if err != nil {
				return nil, err
			}
			vt, err := c.infer(item.Value, scope)
			if err != nil {
				return nil, err
			}
			switch it := it.(type) {
			case *ast.LiteralType:
				if k := it.Value.Kind(); k != ast.KindString && k != ast.KindNumber {
					return nil, errors.IndexTypeMismatch(item.Index, it)
				}
				setProp(obj, it.Value.Key(), vt)
			case *ast.Builtin:
				if it.Tag != ast.TagString && it.Tag != ast.TagNumber {
					return nil, errors.IndexTypeMismatch(item.Index, it)
				}
				obj.Indexer = &ast.IndexerDefinition{IndexType: it, Type: vt}
			default:
				return nil, errors.IndexTypeMismatch(item.Index, it)
			}
		case *ast.Ellipsis:
			return nil, errors.Unsupported("spread in object templates (needs exact types)")
		default:
			return nil, errors.Internal("infer: unhandled object item %T", item)
		}
	}
	return obj, nil
}

// setProp adds a property, or replaces the type of an earlier property
// with the same name in place.
func setProp(obj *ast.ObjectType, name string, t ast.Type) {
	for i := range obj.Props {
		if obj.Props[i].Name == name {
			obj.Props[i].Type = t
			return
		}
	}
	obj.Props = append(obj.Props, ast.PropDefinition{Name: name, Type: t})
}

func (c *Checker) inferArray(x *ast.ArrayTemplate, scope *Scope) (ast.Type, error) {
	items := make([]ast.Type, 0, len(x.Items))
	for _, item := range x.Items {
		if _, ok := item.(*ast.Ellipsis); ok {
			return nil, errors.Unsupported("spread in array templates")
		}
		t, err := c.infer(item, scope)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return ast.NewTupleType(items, nil), nil
}

// inferLambda binds parameters left to right, so a default value may refer
// to earlier parameters only.
func (c *Checker) inferLambda(x *ast.Lambda, scope *Scope) (ast.Type, error) {
	var args []ast.ArgDefinition
	for _, decl := range x.Args {
		next, t, err := c.checkArg(decl.Pattern, decl.Type, scope)
		if err != nil {
			return nil, err
		}
		scope = next
		args = append(args, ast.ArgDefinition{
			Pattern:     decl.Pattern,
			Description: decl.Description,
			Type:        t,
			Optional:    isOptional(decl.Pattern),
		})
	}

	var rest *ast.ArgDefinition
	if x.Rest != nil {
		def := x.RestValue
		if def == nil {
			def = x.Rest.DefaultValue()
		}
		restType := x.RestType
		if restType == nil && def == nil {
			restType = ast.NewArrayType(ast.Unknown())
		}
		slot, err := c.slotType(def, restType, scope)
		if err != nil {
			return nil, err
		}
		if scope, err = c.bindPattern(x.Rest, slot, scope); err != nil {
			return nil, err
		}
		rest = &ast.ArgDefinition{Pattern: x.Rest, Type: slot, Optional: true}
	}

	result := x.ResultType
	if result == nil {
		var err error
		if result, err = c.infer(x.Body, scope); err != nil {
			return nil, err
		}
	}
	return ast.NewFuncType(result, args, rest), nil
}

func isOptional(p ast.Pattern) bool {
	if v, ok := p.(*ast.VarDef); ok && v.Optional {
		return true
	}
	return p.DefaultValue() != nil
}

// inferTernary infers each branch under a refinement frame recording the
// condition that selects it.
func (c *Checker) inferTernary(x *ast.Ternary, scope *Scope) (ast.Type, error) {
	if _, err := c.infer(x.Cond, scope); err != nil {
		return nil, err
	}
	whenTrue, err := c.infer(x.IfTrue, c.WithRefinement(scope, x.Cond))
	if err != nil {
		return nil, err
	}
	whenFalse, err := c.infer(x.IfFalse, c.WithRefinement(scope, ast.NewUnary(ast.OpNot, x.Cond)))
	if err != nil {
		return nil, err
	}
	return c.join(whenTrue, whenFalse, scope), nil
}

// inferAnnotation accepts upcasts and downcasts. The downcast is only
// probed, so it narrows nothing.
func (c *Checker) inferAnnotation(x *ast.TypeAnnotation, scope *Scope) (ast.Type, error) {
	t, err := c.infer(x.X, scope)
	if err != nil {
		return nil, err
	}
	upcast := c.attempt(func() error { return c.unify(x.Type, t, scope) })
	if upcast == nil {
		return x.Type, nil
	}
	if c.assignable(t, x.Type, scope) {
		return x.Type, nil
	}
	return nil, upcast
}

func (c *Checker) inferCall(x *ast.Call, scope *Scope) (ast.Type, error) {
	callee, err := c.infer(x.Func, scope)
	if err != nil {
		return nil, err
	}
	if ast.IsBuiltin(callee, ast.TagNever) {
		return callee, nil
	}
	fnScope := scope
	fnType := callee
	var params []ast.TypeParam
	if g, ok := callee.(*ast.GenericType); ok {
		params = g.Params
		fnScope, fnType = c.instantiate(g, scope)
	}
	fn, ok := fnType.(*ast.FunctionalType)
	if !ok {
		anyFunc := ast.NewFuncType(ast.Unknown(), nil, &ast.ArgDefinition{
			Pattern: ast.NewVarDef("args", nil),
			Type:    ast.NewArrayType(ast.Unknown()),
		})
		return nil, errors.TypeMismatch(anyFunc, callee)
	}

	required := requiredArgs(fn)
	if len(x.Args) < required {
		return nil, errors.ArgumentCount(fn, required, len(x.Args))
	}
	if len(x.Args) > len(fn.Args) && fn.Rest == nil {
		return nil, errors.ArgumentCount(fn, len(fn.Args), len(x.Args))
	}
	for i, arg := range x.Args {
		if _, ok := arg.(*ast.Ellipsis); ok {
			return nil, errors.Unsupported("spread in call arguments")
		}
		at, err := c.infer(arg, scope)
		if err != nil {
			return nil, err
		}
		if fnScope != scope {
			// The instantiated parameters may shadow identifiers the
			// argument type names in the caller's scope.
			if at, err = c.Resolve(at, scope); err != nil {
				return nil, attribute(err, arg)
			}
		}
		var pt ast.Type
		if i < len(fn.Args) {
			pt = fn.Args[i].Type
		} else {
			pt = restElement(fn.Rest.Type)
		}
		if err := c.unify(pt, at, fnScope); err != nil {
			return nil, attribute(err, arg)
		}
	}
	if err := c.applyDefaults(params, fnScope); err != nil {
		return nil, err
	}
	return c.Resolve(fn.Result, fnScope)
}

// instantiate binds a fresh type variable for each parameter of g.
func (c *Checker) instantiate(g *ast.GenericType, scope *Scope) (*Scope, ast.Type) {
	for _, p := range g.Params {
		scope = c.WithTypeVar(scope, p.Name, TypeBounds(p.UpperBound, nil))
	}
	c.log.Debug().Str("generic", g.String()).Msg("instantiate")
	return scope, g.Body
}

// applyDefaults sets the lower bound of type parameters that learned
// nothing from the arguments to their declared default.
func (c *Checker) applyDefaults(params []ast.TypeParam, scope *Scope) error {
	for _, p := range params {
		if p.Default == nil {
			continue
		}
		frame, err := LookupType(scope, p.Name)
		if err != nil {
			return err
		}
		b, err := c.Bounds(frame)
		if err != nil {
			return err
		}
		if !ast.IsBuiltin(b.Lower, ast.TagNever) {
			continue
		}
		if err := c.unify(b.Upper, p.Default, scope); err != nil {
			return err
		}
		c.narrow(frame, Bounds{Upper: b.Upper, Lower: p.Default})
	}
	return nil
}
