package checker

import (
	"strconv"

	"github.com/declaratypel/typecheck/ast"
	"github.com/declaratypel/typecheck/errors"
)

// unify checks that inferred is assignable to expected. Type identifiers
// on either side have their bounds narrowed as a side effect.
func (c *Checker) unify(expected, inferred ast.Type, scope *Scope) error {
	defer c.leave()
	if err := c.enter(); err != nil {
		return err
	}
	if expected == nil || inferred == nil {
		return errors.Internal("unify called with a nil type")
	}
	c.log.Trace().
		Str("expected", expected.String()).
		Str("inferred", inferred.String()).
		Msg("unify")

	if id, ok := expected.(*ast.TypeIdentifier); ok {
		return c.unifyExpectedIdent(id, inferred, scope)
	}
	if id, ok := inferred.(*ast.TypeIdentifier); ok {
		return c.unifyInferredIdent(expected, id, scope)
	}
	if ast.IsBuiltin(inferred, ast.TagNever) {
		return nil
	}
	if b, ok := expected.(*ast.Builtin); ok {
		switch b.Tag {
		case ast.TagNever:
			return errors.TypeMismatch(expected, inferred)
		case ast.TagUnknown:
			return nil
		}
	}
	switch inferred.(type) {
	case *ast.UnionType:
		return errors.UnsupportedType(expected, inferred, "assigning a union type")
	case *ast.IntersectionType:
		return errors.UnsupportedType(expected, inferred, "assigning an intersection type")
	case *ast.GenericType:
		return errors.UnsupportedType(expected, inferred, "assigning a generic type")
	case *ast.GenericCallType:
		return errors.UnsupportedType(expected, inferred, "assigning a generic instantiation")
	}

	switch exp := expected.(type) {
	case *ast.Builtin:
		return unifyBuiltin(exp, inferred)
	case *ast.LiteralType:
		if lit, ok := inferred.(*ast.LiteralType); ok && exp.Value.Equal(lit.Value) {
			return nil
		}
		return errors.TypeMismatch(expected, inferred)
	case *ast.ObjectType:
		return c.unifyObject(exp, inferred, scope)
	case *ast.ArrayType:
		return c.unifyArray(exp, inferred, scope)
	case *ast.TupleType:
		return c.unifyTuple(exp, inferred, scope)
	case *ast.FunctionalType:
		return c.unifyFunc(exp, inferred, scope)
	case *ast.UnionType:
		return errors.UnsupportedType(expected, inferred, "assigning to a union type")
	case *ast.IntersectionType:
		return errors.UnsupportedType(expected, inferred, "assigning to an intersection type")
	case *ast.GenericType:
		return errors.UnsupportedType(expected, inferred, "assigning to a generic type")
	case *ast.GenericCallType:
		return errors.UnsupportedType(expected, inferred, "assigning to a generic instantiation")
	}
	return errors.Internal("unify: unhandled expected type %T", expected)
}

// unifyExpectedIdent checks inferred against the upper bound of id and then
// widens the lower bound of id to include inferred.
func (c *Checker) unifyExpectedIdent(id *ast.TypeIdentifier, inferred ast.Type, scope *Scope) error {
	frame, err := LookupType(scope, id.Name)
	if err != nil {
		return err
	}
	if other, ok := inferred.(*ast.TypeIdentifier); ok {
		if same, err := LookupType(scope, other.Name); err == nil && same == frame {
			return nil
		}
	}
	release, err := c.guard(frame, false)
	if err != nil {
		return err
	}
	defer release()

	b, err := c.Bounds(frame)
	if err != nil {
		return err
	}
	if err := c.unify(b.Upper, inferred, scope); err != nil {
		return err
	}
	if b, err = c.Bounds(frame); err != nil {
		return err
	}
	c.narrow(frame, Bounds{Upper: b.Upper, Lower: c.join(b.Lower, inferred, scope)})
	return c.checkInvariant(frame, scope)
}

// unifyInferredIdent checks the lower bound of id against expected and then
// narrows the upper bound of id to expected.
func (c *Checker) unifyInferredIdent(expected ast.Type, id *ast.TypeIdentifier, scope *Scope) error {
	frame, err := LookupType(scope, id.Name)
	if err != nil {
		return err
	}
	release, err := c.guard(frame, true)
	if err != nil {
		return err
	}
	defer release()

	b, err := c.Bounds(frame)
	if err != nil {
		return err
	}
	if err := c.unify(expected, b.Lower, scope); err != nil {
		return err
	}
	if b, err = c.Bounds(frame); err != nil {
		return err
	}
	c.narrow(frame, Bounds{Upper: c.meet(b.Upper, expected, scope), Lower: b.Lower})
	return c.checkInvariant(frame, scope)
}

func unifyBuiltin(expected *ast.Builtin, inferred ast.Type) error {
	switch inf := inferred.(type) {
	case *ast.Builtin:
		if inf.Tag == expected.Tag {
			return nil
		}
	case *ast.LiteralType:
		if tag, ok := literalTag(inf.Value); ok && tag == expected.Tag {
			return nil
		}
	}
	return errors.TypeMismatch(expected, inferred)
}

// literalTag returns the builtin a literal value belongs to. Null and
// undefined belong to none.
func literalTag(v ast.Value) (ast.BuiltinTag, bool) {
	switch v.Kind() {
	case ast.KindString:
		return ast.TagString, true
	case ast.KindNumber:
		return ast.TagNumber, true
	case ast.KindBigInt:
		return ast.TagBigInt, true
	case ast.KindBoolean:
		return ast.TagBoolean, true
	}
	return "", false
}

func (c *Checker) unifyObject(expected *ast.ObjectType, inferred ast.Type, scope *Scope) error {
	inf, ok := inferred.(*ast.ObjectType)
	if !ok {
		return errors.TypeMismatch(expected, inferred)
	}
	for _, ep := range expected.Props {
		ip, found := inf.Prop(ep.Name)
		if !found {
			if ep.Optional {
				continue
			}
			return errors.PropertyMissing(expected, inferred, ep.Name)
		}
		if ip.Readonly && !ep.Readonly {
			return errors.PropertyReadonly(expected, inferred, ep.Name)
		}
		if ip.Optional && !ep.Optional {
			return errors.PropertyOptional(expected, inferred, ep.Name)
		}
		if err := c.unify(ep.Type, ip.Type, scope); err != nil {
			return err
		}
	}
	if expected.Indexer == nil {
		return nil
	}

	ex := expected.Indexer
	if ix := inf.Indexer; ix != nil {
		if ix.Readonly && !ex.Readonly {
			return errors.PropertyReadonly(expected, inferred, "["+ex.IndexType.String()+"]")
		}
		// Keys flow into the inferred indexer, so they are contravariant.
		if err := c.unify(ix.IndexType, ex.IndexType, scope); err != nil {
			return err
		}
		if err := c.unify(ex.Type, ix.Type, scope); err != nil {
			return err
		}
	}
	numeric := ast.IsBuiltin(ex.IndexType, ast.TagNumber)
	for _, ip := range inf.Props {
		if _, named := expected.Prop(ip.Name); named {
			continue
		}
		if numeric && !isNumericKey(ip.Name) {
			continue
		}
		if err := c.unify(ex.Type, ip.Type, scope); err != nil {
			return err
		}
	}
	return nil
}

func isNumericKey(name string) bool {
	_, err := strconv.ParseFloat(name, 64)
	return err == nil
}

func (c *Checker) unifyArray(expected *ast.ArrayType, inferred ast.Type, scope *Scope) error {
	switch inf := inferred.(type) {
	case *ast.ArrayType:
		return c.unify(expected.Items, inf.Items, scope)
	case *ast.TupleType:
		for _, item := range inf.Items {
			if err := c.unify(expected.Items, item, scope); err != nil {
				return err
			}
		}
		if inf.Rest != nil {
			return c.unify(expected.Items, inf.Rest, scope)
		}
		return nil
	}
	return errors.TypeMismatch(expected, inferred)
}

func (c *Checker) unifyTuple(expected *ast.TupleType, inferred ast.Type, scope *Scope) error {
	inf, ok := inferred.(*ast.TupleType)
	if !ok || len(inf.Items) < len(expected.Items) {
		return errors.TypeMismatch(expected, inferred)
	}
	for i, item := range expected.Items {
		if err := c.unify(item, inf.Items[i], scope); err != nil {
			return err
		}
	}
	extra := inf.Items[len(expected.Items):]
	if len(extra) == 0 && inf.Rest == nil {
		return nil
	}
	if expected.Rest == nil {
		return errors.TypeMismatch(expected, inferred)
	}
	for _, item := range extra {
		if err := c.unify(expected.Rest, item, scope); err != nil {
			return err
		}
	}
	if inf.Rest != nil {
		return c.unify(expected.Rest, inf.Rest, scope)
	}
	return nil
}

// unifyFunc compares parameters contravariantly and results covariantly.
func (c *Checker) unifyFunc(expected *ast.FunctionalType, inferred ast.Type, scope *Scope) error {
	inf, ok := inferred.(*ast.FunctionalType)
	if !ok {
		return errors.TypeMismatch(expected, inferred)
	}
	for i, ea := range expected.Args {
		var param ast.Type = ast.Unknown()
		if i < len(inf.Args) {
			param = inf.Args[i].Type
		} else if inf.Rest != nil {
			param = restElement(inf.Rest.Type)
		}
		if err := c.unify(param, ea.Type, scope); err != nil {
			return err
		}
	}
	for _, ia := range inf.Args[min(len(expected.Args), len(inf.Args)):] {
		if expected.Rest == nil {
			if ia.Optional {
				continue
			}
			return errors.ArgumentCount(inferred, len(expected.Args), requiredArgs(inf))
		}
		if err := c.unify(ia.Type, restElement(expected.Rest.Type), scope); err != nil {
			return err
		}
	}
	if expected.Rest != nil {
		var rest ast.Type = ast.Unknown()
		if inf.Rest != nil {
			rest = inf.Rest.Type
		}
		if err := c.unify(rest, expected.Rest.Type, scope); err != nil {
			return err
		}
	}
	return c.unify(expected.Result, inf.Result, scope)
}

// restElement returns the type of a single argument collected by a rest
// parameter of type t.
func restElement(t ast.Type) ast.Type {
	switch t := t.(type) {
	case *ast.ArrayType:
		return t.Items
	case *ast.TupleType:
		if len(t.Items) == 0 && t.Rest != nil {
			return t.Rest
		}
	}
	return ast.Unknown()
}

func requiredArgs(fn *ast.FunctionalType) int {
	n := 0
	for _, a := range fn.Args {
		if !a.Optional {
			n++
		}
	}
	return n
}
