package ast

import (
	"bytes"
	"strings"
)

// Ident is an expression node that refers to a variable by name.
type Ident struct {
	Name string
}

// NewIdent returns an identifier expression.
func NewIdent(name string) *Ident { return &Ident{Name: name} }

func (x *Ident) exprNode() {}

func (x *Ident) String() string { return x.Name }

// Literal is an expression node holding a primitive value.
type Literal struct {
	Value Value
}

// NewLiteral returns a literal expression.
func NewLiteral(v Value) *Literal { return &Literal{Value: v} }

func (x *Literal) exprNode() {}

func (x *Literal) String() string { return x.Value.String() }

// UnaryOp is a prefix operator.
type UnaryOp string

const (
	OpPlus   UnaryOp = "+"
	OpNeg    UnaryOp = "-"
	OpNot    UnaryOp = "!"
	OpBitNot UnaryOp = "~"
	OpTypeof UnaryOp = "typeof"
)

// Unary is an operator expression where the operator precedes the operand.
type Unary struct {
	Op UnaryOp
	X  Expr
}

// NewUnary returns a unary expression.
func NewUnary(op UnaryOp, x Expr) *Unary { return &Unary{Op: op, X: x} }

func (x *Unary) exprNode() {}

func (x *Unary) String() string {
	if x.Op == OpTypeof {
		return "(typeof " + x.X.String() + ")"
	}
	return "(" + string(x.Op) + x.X.String() + ")"
}

// BinaryOp is an infix operator. Member access (".") and index access
// ("[]") are binary operators as well.
type BinaryOp string

const (
	OpAdd      BinaryOp = "+"
	OpSub      BinaryOp = "-"
	OpMul      BinaryOp = "*"
	OpDiv      BinaryOp = "/"
	OpPow      BinaryOp = "**"
	OpShl      BinaryOp = "<<"
	OpShr      BinaryOp = ">>"
	OpUShr     BinaryOp = ">>>"
	OpMember   BinaryOp = "."
	OpIndex    BinaryOp = "[]"
	OpBitAnd   BinaryOp = "&"
	OpBitOr    BinaryOp = "|"
	OpAnd      BinaryOp = "&&"
	OpOr       BinaryOp = "||"
	OpCoalesce BinaryOp = "??"
	OpLt       BinaryOp = "<"
	OpGt       BinaryOp = ">"
	OpLe       BinaryOp = "<="
	OpGe       BinaryOp = ">="
	OpEq       BinaryOp = "=="
	OpNe       BinaryOp = "!="
	OpStrictEq BinaryOp = "==="
	OpStrictNe BinaryOp = "!=="
)

// Binary is an operator expression where the operator is between the
// operands. For OpMember, Y is the *Ident naming the property.
type Binary struct {
	X  Expr
	Op BinaryOp
	Y  Expr
}

// NewBinary returns a binary expression.
func NewBinary(x Expr, op BinaryOp, y Expr) *Binary { return &Binary{X: x, Op: op, Y: y} }

func (x *Binary) exprNode() {}

func (x *Binary) String() string {
	switch x.Op {
	case OpMember:
		return x.X.String() + "." + x.Y.String()
	case OpIndex:
		return x.X.String() + "[" + x.Y.String() + "]"
	}
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(x.X.String())
	out.WriteString(" " + string(x.Op) + " ")
	out.WriteString(x.Y.String())
	out.WriteString(")")
	return out.String()
}

// Ternary evaluates to one of two values based on a condition.
type Ternary struct {
	Cond    Expr
	IfTrue  Expr
	IfFalse Expr
}

// NewTernary returns a ternary expression.
func NewTernary(cond, ifTrue, ifFalse Expr) *Ternary {
	return &Ternary{Cond: cond, IfTrue: ifTrue, IfFalse: ifFalse}
}

func (x *Ternary) exprNode() {}

func (x *Ternary) String() string {
	return "(" + x.Cond.String() + " ? " + x.IfTrue.String() + " : " + x.IfFalse.String() + ")"
}

// Ellipsis spreads an expression into an array template, object template
// or call argument list.
type Ellipsis struct {
	X Expr
}

// NewEllipsis returns a spread expression.
func NewEllipsis(x Expr) *Ellipsis { return &Ellipsis{X: x} }

func (x *Ellipsis) exprNode()   {}
func (x *Ellipsis) objectItem() {}

func (x *Ellipsis) String() string { return "..." + x.X.String() }

// ArrayTemplate builds an array. Items may be *Ellipsis.
type ArrayTemplate struct {
	Items []Expr
}

// NewArrayTemplate returns an array template expression.
func NewArrayTemplate(items []Expr) *ArrayTemplate { return &ArrayTemplate{Items: items} }

func (x *ArrayTemplate) exprNode() {}

func (x *ArrayTemplate) String() string {
	items := make([]string, 0, len(x.Items))
	for _, item := range x.Items {
		items = append(items, item.String())
	}
	return "[" + strings.Join(items, ", ") + "]"
}

// ObjectItem is one entry of an object template: *Property, *Indexer or
// *Ellipsis.
type ObjectItem interface {
	Node
	objectItem()
}

// Property is a "key: value" entry of an object template.
type Property struct {
	Key   string
	Value Expr
}

// NewProperty returns an object template property.
func NewProperty(key string, value Expr) *Property { return &Property{Key: key, Value: value} }

func (x *Property) objectItem() {}

func (x *Property) String() string { return propName(x.Key) + ": " + x.Value.String() }

// Indexer is a "[index]: value" entry of an object template.
type Indexer struct {
	Index Expr
	Value Expr
}

// NewIndexer returns a computed-key object template entry.
func NewIndexer(index, value Expr) *Indexer { return &Indexer{Index: index, Value: value} }

func (x *Indexer) objectItem() {}

func (x *Indexer) String() string { return "[" + x.Index.String() + "]: " + x.Value.String() }

// ObjectTemplate builds an object. Items keep their source order.
type ObjectTemplate struct {
	Items []ObjectItem
}

// NewObjectTemplate returns an object template expression.
func NewObjectTemplate(items []ObjectItem) *ObjectTemplate {
	return &ObjectTemplate{Items: items}
}

func (x *ObjectTemplate) exprNode() {}

func (x *ObjectTemplate) String() string {
	items := make([]string, 0, len(x.Items))
	for _, item := range x.Items {
		items = append(items, item.String())
	}
	return "{" + strings.Join(items, ", ") + "}"
}

// Call applies a function to arguments. Args may contain *Ellipsis.
type Call struct {
	Func Expr
	Args []Expr
}

// NewCall returns a call expression.
func NewCall(fn Expr, args []Expr) *Call { return &Call{Func: fn, Args: args} }

func (x *Call) exprNode() {}

func (x *Call) String() string {
	args := make([]string, 0, len(x.Args))
	for _, a := range x.Args {
		args = append(args, a.String())
	}
	return x.Func.String() + "(" + strings.Join(args, ", ") + ")"
}

// Declarator pairs a binding pattern with an optional type annotation.
type Declarator struct {
	Pattern     Pattern
	Type        Type // nil if not annotated
	Description string
}

// NewDeclarator returns a declarator.
func NewDeclarator(pattern Pattern, typ Type) *Declarator {
	return &Declarator{Pattern: pattern, Type: typ}
}

func (d *Declarator) String() string {
	s := patternSignature(d.Pattern)
	if v, ok := d.Pattern.(*VarDef); ok && v.Optional {
		s += "?"
	}
	if d.Type != nil {
		s += ": " + d.Type.String()
	}
	if def := d.Pattern.DefaultValue(); def != nil {
		s += " = " + def.String()
	}
	return s
}

// Lambda is a function literal.
type Lambda struct {
	Args       []*Declarator
	Body       Expr
	ResultType Type    // declared result type; nil if inferred
	Rest       Pattern // rest parameter (*VarDef or *ArrayDestruct); nil if none
	RestType   Type    // declared rest parameter type; nil if none
	RestValue  Expr    // default value of the rest parameter; nil if none
}

// NewLambda returns a lambda with positional arguments only.
func NewLambda(args []*Declarator, body Expr) *Lambda {
	return &Lambda{Args: args, Body: body}
}

func (x *Lambda) exprNode() {}

func (x *Lambda) String() string {
	var out bytes.Buffer
	params := make([]string, 0, len(x.Args)+1)
	for _, a := range x.Args {
		params = append(params, a.String())
	}
	if x.Rest != nil {
		rest := "..." + patternSignature(x.Rest)
		if x.RestType != nil {
			rest += ": " + x.RestType.String()
		}
		params = append(params, rest)
	}
	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(")")
	if x.ResultType != nil {
		out.WriteString(": ")
		out.WriteString(x.ResultType.String())
	}
	out.WriteString(" => ")
	out.WriteString(x.Body.String())
	return out.String()
}

// TypeAnnotation asserts the type of an expression ("x as T").
type TypeAnnotation struct {
	X    Expr
	Type Type
}

// NewTypeAnnotation returns a type annotation expression.
func NewTypeAnnotation(x Expr, typ Type) *TypeAnnotation {
	return &TypeAnnotation{X: x, Type: typ}
}

func (x *TypeAnnotation) exprNode() {}

func (x *TypeAnnotation) String() string {
	return "(" + x.X.String() + " as " + x.Type.String() + ")"
}
