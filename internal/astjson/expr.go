package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/declaratypel/typecheck/ast"
)

func (d *decoder) expr(raw json.RawMessage) (ast.Expr, error) {
	f, err := d.object(raw)
	if err != nil {
		return nil, err
	}
	tag, err := d.str(f, "tag")
	if err != nil {
		return nil, err
	}
	switch tag {
	case "ident":
		name, err := d.str(f, "name")
		if err != nil {
			return nil, err
		}
		return ast.NewIdent(name), nil
	case "literal":
		v, err := d.value(f, "value")
		if err != nil {
			return nil, err
		}
		return ast.NewLiteral(v), nil
	case "unary":
		return d.unary(f)
	case "binary":
		return d.binary(f)
	case "ternary":
		cond, err := d.exprField(f, "cond")
		if err != nil {
			return nil, err
		}
		ifTrue, err := d.exprField(f, "then")
		if err != nil {
			return nil, err
		}
		ifFalse, err := d.exprField(f, "else")
		if err != nil {
			return nil, err
		}
		return ast.NewTernary(cond, ifTrue, ifFalse), nil
	case "ellipsis":
		x, err := d.exprField(f, "x")
		if err != nil {
			return nil, err
		}
		return ast.NewEllipsis(x), nil
	case "array":
		items, err := d.exprList(f, "items")
		if err != nil {
			return nil, err
		}
		return ast.NewArrayTemplate(items), nil
	case "object":
		return d.objectTemplate(f)
	case "call":
		fn, err := d.exprField(f, "func")
		if err != nil {
			return nil, err
		}
		args, err := d.exprList(f, "args")
		if err != nil {
			return nil, err
		}
		return ast.NewCall(fn, args), nil
	case "lambda":
		return d.lambda(f)
	case "annotation":
		x, err := d.exprField(f, "x")
		if err != nil {
			return nil, err
		}
		typ, err := d.typeField(f, "type")
		if err != nil {
			return nil, err
		}
		return ast.NewTypeAnnotation(x, typ), nil
	case "definition":
		decls, err := d.declarators(f, "decls")
		if err != nil {
			return nil, err
		}
		mutable, err := d.flag(f, "mutable")
		if err != nil {
			return nil, err
		}
		return ast.NewDefinition(decls, mutable), nil
	case "typeDefinition":
		return d.typeDefinition(f)
	case "import":
		return d.importItem(f)
	case "export":
		def, err := d.exprField(f, "def")
		if err != nil {
			return nil, err
		}
		return ast.NewExport(def), nil
	}
	return nil, d.errorf("unknown expression tag %q", tag)
}

var unaryOps = map[string]ast.UnaryOp{}

var binaryOps = map[string]ast.BinaryOp{}

func init() {
	for _, op := range []ast.UnaryOp{ast.OpPlus, ast.OpNeg, ast.OpNot, ast.OpBitNot, ast.OpTypeof} {
		unaryOps[string(op)] = op
	}
	for _, op := range []ast.BinaryOp{
		ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpPow,
		ast.OpShl, ast.OpShr, ast.OpUShr, ast.OpMember, ast.OpIndex,
		ast.OpBitAnd, ast.OpBitOr, ast.OpAnd, ast.OpOr, ast.OpCoalesce,
		ast.OpLt, ast.OpGt, ast.OpLe, ast.OpGe,
		ast.OpEq, ast.OpNe, ast.OpStrictEq, ast.OpStrictNe,
	} {
		binaryOps[string(op)] = op
	}
}

func (d *decoder) unary(f fields) (ast.Expr, error) {
	name, err := d.str(f, "op")
	if err != nil {
		return nil, err
	}
	op, ok := unaryOps[name]
	if !ok {
		return nil, d.errorf("unknown unary operator %q", name)
	}
	x, err := d.exprField(f, "x")
	if err != nil {
		return nil, err
	}
	return ast.NewUnary(op, x), nil
}

func (d *decoder) binary(f fields) (ast.Expr, error) {
	name, err := d.str(f, "op")
	if err != nil {
		return nil, err
	}
	op, ok := binaryOps[name]
	if !ok {
		return nil, d.errorf("unknown binary operator %q", name)
	}
	x, err := d.exprField(f, "x")
	if err != nil {
		return nil, err
	}
	y, err := d.exprField(f, "y")
	if err != nil {
		return nil, err
	}
	if op == ast.OpMember {
		if _, ok := y.(*ast.Ident); !ok {
			defer d.at("y")()
			return nil, d.errorf("member access expects an identifier")
		}
	}
	return ast.NewBinary(x, op, y), nil
}

func (d *decoder) objectTemplate(f fields) (ast.Expr, error) {
	raws, err := d.list(f, "items")
	if err != nil {
		return nil, err
	}
	items := make([]ast.ObjectItem, 0, len(raws))
	for i, raw := range raws {
		item, err := d.objectItem(fmt.Sprintf("items[%d]", i), raw)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return ast.NewObjectTemplate(items), nil
}

func (d *decoder) objectItem(seg string, raw json.RawMessage) (ast.ObjectItem, error) {
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
	case "property":
		key, err := d.str(f, "key")
		if err != nil {
			return nil, err
		}
		value, err := d.exprField(f, "value")
		if err != nil {
			return nil, err
		}
		return ast.NewProperty(key, value), nil
	case "indexer":
		index, err := d.exprField(f, "index")
		if err != nil {
			return nil, err
		}
		value, err := d.exprField(f, "value")
		if err != nil {
			return nil, err
		}
		return ast.NewIndexer(index, value), nil
	case "ellipsis":
		x, err := d.exprField(f, "x")
		if err != nil {
			return nil, err
		}
		return ast.NewEllipsis(x), nil
	}
	return nil, d.errorf("unknown object item tag %q", tag)
}

func (d *decoder) lambda(f fields) (ast.Expr, error) {
	args, err := d.declarators(f, "args")
	if err != nil {
		return nil, err
	}
	body, err := d.exprField(f, "body")
	if err != nil {
		return nil, err
	}
	lambda := ast.NewLambda(args, body)
	if lambda.ResultType, err = d.optTypeField(f, "resultType"); err != nil {
		return nil, err
	}
	if f.has("rest") {
		if lambda.Rest, err = d.patternField(f, "rest"); err != nil {
			return nil, err
		}
	}
	if lambda.RestType, err = d.optTypeField(f, "restType"); err != nil {
		return nil, err
	}
	if lambda.RestValue, err = d.optExprField(f, "restValue"); err != nil {
		return nil, err
	}
	return lambda, nil
}

func (d *decoder) declarators(f fields, key string) ([]*ast.Declarator, error) {
	raws, err := d.list(f, key)
	if err != nil {
		return nil, err
	}
	out := make([]*ast.Declarator, 0, len(raws))
	for i, raw := range raws {
		decl, err := d.declarator(fmt.Sprintf("%s[%d]", key, i), raw)
		if err != nil {
			return nil, err
		}
		out = append(out, decl)
	}
	return out, nil
}

func (d *decoder) declarator(seg string, raw json.RawMessage) (*ast.Declarator, error) {
	defer d.at(seg)()
	f, err := d.object(raw)
	if err != nil {
		return nil, err
	}
	pattern, err := d.patternField(f, "pattern")
	if err != nil {
		return nil, err
	}
	typ, err := d.optTypeField(f, "type")
	if err != nil {
		return nil, err
	}
	decl := ast.NewDeclarator(pattern, typ)
	if decl.Description, err = d.optStr(f, "description"); err != nil {
		return nil, err
	}
	return decl, nil
}

func (d *decoder) typeDefinition(f fields) (ast.Expr, error) {
	raws, err := d.list(f, "decls")
	if err != nil {
		return nil, err
	}
	decls := make([]*ast.TypeDeclarator, 0, len(raws))
	for i, raw := range raws {
		decl, err := d.typeDeclarator(fmt.Sprintf("decls[%d]", i), raw)
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return ast.NewTypeDefinition(decls), nil
}

func (d *decoder) typeDeclarator(seg string, raw json.RawMessage) (*ast.TypeDeclarator, error) {
	defer d.at(seg)()
	f, err := d.object(raw)
	if err != nil {
		return nil, err
	}
	decl := &ast.TypeDeclarator{}
	if decl.Name, err = d.str(f, "name"); err != nil {
		return nil, err
	}
	if decl.Description, err = d.optStr(f, "description"); err != nil {
		return nil, err
	}
	if decl.Value, err = d.typeField(f, "type"); err != nil {
		return nil, err
	}
	return decl, nil
}

func (d *decoder) importItem(f fields) (ast.Expr, error) {
	source, err := d.str(f, "source")
	if err != nil {
		return nil, err
	}
	raws, err := d.list(f, "specifiers")
	if err != nil {
		return nil, err
	}
	specs := make([]*ast.ImportSpecifier, 0, len(raws))
	for i, raw := range raws {
		spec, err := d.importSpecifier(fmt.Sprintf("specifiers[%d]", i), raw)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	imp := ast.NewImport(source, specs)
	if f.has("default") {
		if imp.Default, err = d.importSpecifier("default", f["default"]); err != nil {
			return nil, err
		}
	}
	return imp, nil
}

func (d *decoder) importSpecifier(seg string, raw json.RawMessage) (*ast.ImportSpecifier, error) {
	defer d.at(seg)()
	f, err := d.object(raw)
	if err != nil {
		return nil, err
	}
	name, err := d.str(f, "name")
	if err != nil {
		return nil, err
	}
	spec := &ast.ImportSpecifier{SourceName: ast.NewIdent(name)}
	alias, err := d.optStr(f, "alias")
	if err != nil {
		return nil, err
	}
	if alias != "" {
		spec.Alias = ast.NewIdent(alias)
	}
	if spec.IsType, err = d.flag(f, "isType"); err != nil {
		return nil, err
	}
	return spec, nil
}

func (d *decoder) exprField(f fields, key string) (ast.Expr, error) {
	defer d.at(key)()
	if !f.has(key) {
		return nil, d.errorf("missing expression")
	}
	return d.expr(f[key])
}

func (d *decoder) optExprField(f fields, key string) (ast.Expr, error) {
	if !f.has(key) {
		return nil, nil
	}
	return d.exprField(f, key)
}

func (d *decoder) exprList(f fields, key string) ([]ast.Expr, error) {
	raws, err := d.list(f, key)
	if err != nil {
		return nil, err
	}
	defer d.at(key)()
	return d.exprs(raws)
}

func (d *decoder) exprs(raws []json.RawMessage) ([]ast.Expr, error) {
	out := make([]ast.Expr, 0, len(raws))
	for i, raw := range raws {
		x, err := d.indexedExpr(i, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, nil
}

func (d *decoder) indexedExpr(i int, raw json.RawMessage) (ast.Expr, error) {
	last := len(d.path) - 1
	if last < 0 {
		defer d.at(fmt.Sprintf("[%d]", i))()
		return d.expr(raw)
	}
	saved := d.path[last]
	d.path[last] = fmt.Sprintf("%s[%d]", saved, i)
	defer func() { d.path[last] = saved }()
	return d.expr(raw)
}
