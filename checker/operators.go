package checker

import (
	"math"
	"math/big"

	"github.com/declaratypel/typecheck/ast"
	"github.com/declaratypel/typecheck/errors"
)

func (c *Checker) inferUnary(x *ast.Unary, scope *Scope) (ast.Type, error) {
	t, err := c.infer(x.X, scope)
	if err != nil {
		return nil, err
	}
	t = c.shape(t, scope)
	switch x.Op {
	case ast.OpNot:
		return ast.NewBuiltin(ast.TagBoolean), nil
	case ast.OpTypeof:
		return ast.NewBuiltin(ast.TagString), nil
	case ast.OpPlus:
		if tag, ok := numericTag(t); ok && tag == ast.TagBigInt {
			return nil, errors.TypeMismatch(ast.NewBuiltin(ast.TagNumber), t)
		}
		return ast.NewBuiltin(ast.TagNumber), nil
	case ast.OpNeg, ast.OpBitNot:
		if lit, ok := t.(*ast.LiteralType); ok {
			if folded, ok := foldUnary(x.Op, lit.Value); ok {
				return ast.NewLiteralType(folded), nil
			}
		}
		tag, ok := numericTag(t)
		if !ok {
			return nil, errors.TypeMismatch(ast.NewBuiltin(ast.TagNumber), t)
		}
		return ast.NewBuiltin(tag), nil
	}
	return nil, errors.Internal("infer: unhandled unary operator %q", x.Op)
}

// numericTag reports whether t is number or bigint, or a literal of either.
func numericTag(t ast.Type) (ast.BuiltinTag, bool) {
	var tag ast.BuiltinTag
	switch t := t.(type) {
	case *ast.Builtin:
		tag = t.Tag
	case *ast.LiteralType:
		tag, _ = literalTag(t.Value)
	}
	if tag == ast.TagNumber || tag == ast.TagBigInt {
		return tag, true
	}
	return "", false
}

func foldUnary(op ast.UnaryOp, v ast.Value) (ast.Value, bool) {
	switch v.Kind() {
	case ast.KindNumber:
		if op == ast.OpNeg {
			return ast.NumberValue(-v.Number()), true
		}
		return ast.NumberValue(float64(^toInt32(v.Number()))), true
	case ast.KindBigInt:
		if op == ast.OpNeg {
			return ast.BigIntValue(new(big.Int).Neg(v.BigInt())), true
		}
		return ast.BigIntValue(new(big.Int).Not(v.BigInt())), true
	}
	return ast.Value{}, false
}

// toInt32 converts n the way bitwise operators do.
func toInt32(n float64) int32 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return int32(uint32(int64(math.Mod(math.Trunc(n), 1<<32))))
}

func (c *Checker) inferBinary(x *ast.Binary, scope *Scope) (ast.Type, error) {
	switch x.Op {
	case ast.OpMember:
		return c.inferMember(x, scope)
	case ast.OpIndex:
		return c.inferIndex(x, scope)
	}
	lt, err := c.infer(x.X, scope)
	if err != nil {
		return nil, err
	}
	rt, err := c.infer(x.Y, scope)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case ast.OpAnd, ast.OpOr:
		return c.join(lt, rt, scope), nil
	case ast.OpCoalesce:
		if isNullish(lt) {
			return rt, nil
		}
		return c.join(lt, rt, scope), nil
	case ast.OpLt, ast.OpGt, ast.OpLe, ast.OpGe,
		ast.OpEq, ast.OpNe, ast.OpStrictEq, ast.OpStrictNe:
		return ast.NewBuiltin(ast.TagBoolean), nil
	}
	// Operands typed by an identifier are classified by its upper bound.
	lt, rt = c.shape(lt, scope), c.shape(rt, scope)
	switch x.Op {
	case ast.OpAdd:
		if isStringy(lt) || isStringy(rt) {
			return ast.NewBuiltin(ast.TagString), nil
		}
		return arithmetic(lt, rt, true)
	case ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpPow,
		ast.OpShl, ast.OpShr, ast.OpBitAnd, ast.OpBitOr:
		return arithmetic(lt, rt, true)
	case ast.OpUShr:
		return arithmetic(lt, rt, false)
	}
	return nil, errors.Internal("infer: unhandled binary operator %q", x.Op)
}

// arithmetic types an operator over two numbers or two bigints. Mixing
// the two is an error, as it is at run time.
func arithmetic(lt, rt ast.Type, allowBigInt bool) (ast.Type, error) {
	number := ast.NewBuiltin(ast.TagNumber)
	ltag, ok := numericTag(lt)
	if !ok {
		return nil, errors.TypeMismatch(number, lt)
	}
	rtag, ok := numericTag(rt)
	if !ok {
		return nil, errors.TypeMismatch(number, rt)
	}
	if ltag != rtag {
		return nil, errors.TypeMismatch(ast.NewBuiltin(ltag), rt)
	}
	if ltag == ast.TagBigInt && !allowBigInt {
		return nil, errors.TypeMismatch(number, lt)
	}
	return ast.NewBuiltin(ltag), nil
}

func isStringy(t ast.Type) bool {
	switch t := t.(type) {
	case *ast.Builtin:
		return t.Tag == ast.TagString
	case *ast.LiteralType:
		return t.Value.Kind() == ast.KindString
	}
	return false
}

func isNullish(t ast.Type) bool {
	lit, ok := t.(*ast.LiteralType)
	if !ok {
		return false
	}
	k := lit.Value.Kind()
	return k == ast.KindNull || k == ast.KindUndefined
}

// inferMember types "x.name". Named props win over the indexer.
func (c *Checker) inferMember(x *ast.Binary, scope *Scope) (ast.Type, error) {
	name, ok := x.Y.(*ast.Ident)
	if !ok {
		return nil, errors.Internal("member access with non-identifier property %T", x.Y)
	}
	ot, err := c.infer(x.X, scope)
	if err != nil {
		return nil, err
	}
	if ast.IsBuiltin(ot, ast.TagNever) {
		return ot, nil
	}
	want := ast.NewObjectType([]ast.PropDefinition{{Name: name.Name, Type: ast.Unknown()}}, nil)
	switch t := c.shape(ot, scope).(type) {
	case *ast.ObjectType:
		if p, found := t.Prop(name.Name); found {
			return p.Type, nil
		}
		if t.Indexer != nil && ast.IsBuiltin(t.Indexer.IndexType, ast.TagString) {
			return t.Indexer.Type, nil
		}
		return nil, errors.PropertyMissing(want, ot, name.Name)
	case *ast.TupleType:
		if name.Name == "length" {
			if t.Rest == nil {
				return ast.NewLiteralType(ast.NumberValue(float64(len(t.Items)))), nil
			}
			return ast.NewBuiltin(ast.TagNumber), nil
		}
		return nil, errors.PropertyMissing(want, ot, name.Name)
	case *ast.ArrayType:
		if name.Name == "length" {
			return ast.NewBuiltin(ast.TagNumber), nil
		}
		return nil, errors.PropertyMissing(want, ot, name.Name)
	case *ast.Builtin:
		if t.Tag == ast.TagString && name.Name == "length" {
			return ast.NewBuiltin(ast.TagNumber), nil
		}
	case *ast.LiteralType:
		if t.Value.Kind() == ast.KindString && name.Name == "length" {
			return ast.NewLiteralType(ast.NumberValue(float64(len([]rune(t.Value.Str()))))), nil
		}
	}
	return nil, errors.TypeMismatch(want, ot)
}

// inferIndex types "x[i]".
func (c *Checker) inferIndex(x *ast.Binary, scope *Scope) (ast.Type, error) {
	ot, err := c.infer(x.X, scope)
	if err != nil {
		return nil, err
	}
	it, err := c.infer(x.Y, scope)
	if err != nil {
		return nil, err
	}
	if ast.IsBuiltin(ot, ast.TagNever) {
		return ot, nil
	}
	it = c.shape(it, scope)
	switch t := c.shape(ot, scope).(type) {
	case *ast.ObjectType:
		return c.indexObject(t, ot, x.Y, it)
	case *ast.ArrayType:
		if tag, ok := numericTag(it); !ok || tag != ast.TagNumber {
			return nil, errors.IndexTypeMismatch(x.Y, it)
		}
		return t.Items, nil
	case *ast.TupleType:
		return c.indexTuple(t, ot, x.Y, it, scope)
	case *ast.Builtin, *ast.LiteralType:
		if isStringy(t) {
			if tag, ok := numericTag(it); !ok || tag != ast.TagNumber {
				return nil, errors.IndexTypeMismatch(x.Y, it)
			}
			return ast.NewBuiltin(ast.TagString), nil
		}
	}
	return nil, errors.TypeMismatch(ast.NewArrayType(ast.Unknown()), ot)
}

func (c *Checker) indexObject(obj *ast.ObjectType, ot ast.Type, index ast.Expr, it ast.Type) (ast.Type, error) {
	switch k := it.(type) {
	case *ast.LiteralType:
		if kind := k.Value.Kind(); kind != ast.KindString && kind != ast.KindNumber {
			return nil, errors.IndexTypeMismatch(index, it)
		}
		key := k.Value.Key()
		if p, found := obj.Prop(key); found {
			return p.Type, nil
		}
		if obj.Indexer != nil {
			return obj.Indexer.Type, nil
		}
		want := ast.NewObjectType([]ast.PropDefinition{{Name: key, Type: ast.Unknown()}}, nil)
		return nil, errors.PropertyMissing(want, ot, key)
	case *ast.Builtin:
		if k.Tag != ast.TagString && k.Tag != ast.TagNumber {
			return nil, errors.IndexTypeMismatch(index, it)
		}
		if obj.Indexer != nil {
			return obj.Indexer.Type, nil
		}
		want := ast.NewObjectType(nil, &ast.IndexerDefinition{IndexType: k, Type: ast.Unknown()})
		return nil, errors.TypeMismatch(want, ot)
	}
	return nil, errors.IndexTypeMismatch(index, it)
}

func (c *Checker) indexTuple(tup *ast.TupleType, ot ast.Type, index ast.Expr, it ast.Type, scope *Scope) (ast.Type, error) {
	switch k := it.(type) {
	case *ast.LiteralType:
		if k.Value.Kind() != ast.KindNumber {
			return nil, errors.IndexTypeMismatch(index, it)
		}
		n := k.Value.Number()
		if n < 0 || n != math.Trunc(n) {
			return ast.NewLiteralType(ast.Undefined), nil
		}
		if n < float64(len(tup.Items)) {
			return tup.Items[int(n)], nil
		}
		if tup.Rest != nil {
			return tup.Rest, nil
		}
		if c.cfg.tupleOverflow == TupleOverflowReject {
			want := make([]ast.Type, len(tup.Items)+1)
			for i := range want {
				want[i] = ast.Unknown()
			}
			return nil, errors.TypeMismatch(ast.NewTupleType(want, nil), ot)
		}
		return ast.NewLiteralType(ast.Undefined), nil
	case *ast.Builtin:
		if k.Tag != ast.TagNumber {
			return nil, errors.IndexTypeMismatch(index, it)
		}
		var t ast.Type = ast.Never()
		for _, item := range tup.Items {
			t = c.join(t, item, scope)
		}
		if tup.Rest != nil {
			t = c.join(t, tup.Rest, scope)
		}
		return t, nil
	}
	return nil, errors.IndexTypeMismatch(index, it)
}
