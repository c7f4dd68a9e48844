package checker

import (
	"github.com/declaratypel/typecheck/ast"
)

// Resolve substitutes every type identifier in t with what its bounds
// have learned: the lower bound when it is not never, else the upper bound
// when it is not unknown. Identifiers that learned nothing resolve to
// unknown. A type that refers to itself keeps the identifier at the point
// of recursion. Generic types are returned unchanged, since their
// parameters shadow the scope.
func (c *Checker) Resolve(t ast.Type, scope *Scope) (ast.Type, error) {
	r := resolver{c: c, scope: c.scopeOrEmpty(scope), visiting: map[BoundsID]bool{}}
	return r.resolve(t)
}

type resolver struct {
	c        *Checker
	scope    *Scope
	visiting map[BoundsID]bool
}

func (r *resolver) resolve(t ast.Type) (ast.Type, error) {
	switch t := t.(type) {
	case *ast.TypeIdentifier:
		frame, err := LookupType(r.scope, t.Name)
		if err != nil {
			return nil, err
		}
		if r.visiting[frame.bounds] {
			return t, nil
		}
		b, err := r.c.Bounds(frame)
		if err != nil {
			return nil, err
		}
		learned := b.Lower
		if ast.IsBuiltin(learned, ast.TagNever) {
			learned = b.Upper
		}
		r.visiting[frame.bounds] = true
		defer delete(r.visiting, frame.bounds)
		return r.resolve(learned)
	case *ast.ObjectType:
		props := make([]ast.PropDefinition, len(t.Props))
		for i, p := range t.Props {
			pt, err := r.resolve(p.Type)
			if err != nil {
				return nil, err
			}
			p.Type = pt
			props[i] = p
		}
		var indexer *ast.IndexerDefinition
		if t.Indexer != nil {
			ix := *t.Indexer
			vt, err := r.resolve(ix.Type)
			if err != nil {
				return nil, err
			}
			ix.Type = vt
			indexer = &ix
		}
		if len(props) == 0 {
			props = nil
		}
		return ast.NewObjectType(props, indexer), nil
	case *ast.ArrayType:
		items, err := r.resolve(t.Items)
		if err != nil {
			return nil, err
		}
		return ast.NewArrayType(items), nil
	case *ast.TupleType:
		items, err := r.resolveAll(t.Items)
		if err != nil {
			return nil, err
		}
		var rest ast.Type
		if t.Rest != nil {
			if rest, err = r.resolve(t.Rest); err != nil {
				return nil, err
			}
		}
		return ast.NewTupleType(items, rest), nil
	case *ast.FunctionalType:
		var args []ast.ArgDefinition
		for _, a := range t.Args {
			at, err := r.resolve(a.Type)
			if err != nil {
				return nil, err
			}
			a.Type = at
			args = append(args, a)
		}
		var rest *ast.ArgDefinition
		if t.Rest != nil {
			ra := *t.Rest
			rt, err := r.resolve(ra.Type)
			if err != nil {
				return nil, err
			}
			ra.Type = rt
			rest = &ra
		}
		result, err := r.resolve(t.Result)
		if err != nil {
			return nil, err
		}
		fn := ast.NewFuncType(result, args, rest)
		fn.Description = t.Description
		return fn, nil
	case *ast.UnionType:
		args, err := r.resolveAll(t.Args)
		if err != nil {
			return nil, err
		}
		return ast.NewUnionType(args), nil
	case *ast.IntersectionType:
		args, err := r.resolveAll(t.Args)
		if err != nil {
			return nil, err
		}
		return ast.NewIntersectionType(args), nil
	case *ast.GenericCallType:
		args, err := r.resolveAll(t.Args)
		if err != nil {
			return nil, err
		}
		return ast.NewGenericCallType(t.Name, args), nil
	}
	return t, nil
}

func (r *resolver) resolveAll(types []ast.Type) ([]ast.Type, error) {
	if types == nil {
		return nil, nil
	}
	out := make([]ast.Type, len(types))
	for i, t := range types {
		rt, err := r.resolve(t)
		if err != nil {
			return nil, err
		}
		out[i] = rt
	}
	return out, nil
}

// widen replaces literal types by their builtin, as a mutable binding may
// later hold any value of the same kind. Null and undefined stay literal.
func widen(t ast.Type) ast.Type {
	switch t := t.(type) {
	case *ast.LiteralType:
		if tag, ok := literalTag(t.Value); ok {
			return ast.NewBuiltin(tag)
		}
	case *ast.ObjectType:
		var props []ast.PropDefinition
		for _, p := range t.Props {
			p.Type = widen(p.Type)
			props = append(props, p)
		}
		var indexer *ast.IndexerDefinition
		if t.Indexer != nil {
			ix := *t.Indexer
			ix.Type = widen(ix.Type)
			indexer = &ix
		}
		return ast.NewObjectType(props, indexer)
	case *ast.TupleType:
		items := make([]ast.Type, len(t.Items))
		for i, item := range t.Items {
			items[i] = widen(item)
		}
		var rest ast.Type
		if t.Rest != nil {
			rest = widen(t.Rest)
		}
		return ast.NewTupleType(items, rest)
	case *ast.ArrayType:
		return ast.NewArrayType(widen(t.Items))
	}
	return t
}
