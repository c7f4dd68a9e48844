package ast

import (
	"bytes"
	"strings"
)

// BuiltinTag names a builtin type.
type BuiltinTag string

const (
	TagString  BuiltinTag = "string"
	TagNumber  BuiltinTag = "number"
	TagBigInt  BuiltinTag = "bigint"
	TagBoolean BuiltinTag = "boolean"
	TagUnknown BuiltinTag = "unknown" // top type
	TagNever   BuiltinTag = "never"   // bottom type
)

// Builtin is a builtin type such as string or unknown.
type Builtin struct {
	Tag BuiltinTag
}

// NewBuiltin returns the builtin type with the given tag.
func NewBuiltin(tag BuiltinTag) *Builtin { return &Builtin{Tag: tag} }

// Unknown returns the top type.
func Unknown() *Builtin { return &Builtin{Tag: TagUnknown} }

// Never returns the bottom type.
func Never() *Builtin { return &Builtin{Tag: TagNever} }

func (x *Builtin) typeNode() {}

func (x *Builtin) String() string { return string(x.Tag) }

// IsBuiltin reports whether t is the builtin type with the given tag.
func IsBuiltin(t Type, tag BuiltinTag) bool {
	b, ok := t.(*Builtin)
	return ok && b.Tag == tag
}

// LiteralType is the singleton type of a primitive value.
type LiteralType struct {
	Value Value
}

// NewLiteralType returns the literal type of v.
func NewLiteralType(v Value) *LiteralType { return &LiteralType{Value: v} }

func (x *LiteralType) typeNode() {}

func (x *LiteralType) String() string { return x.Value.String() }

// PropDefinition is a named property of an object type.
type PropDefinition struct {
	Name        string
	Description string
	Type        Type
	Optional    bool
	Readonly    bool
}

func (p PropDefinition) String() string {
	var out bytes.Buffer
	if p.Readonly {
		out.WriteString("readonly ")
	}
	out.WriteString(propName(p.Name))
	if p.Optional {
		out.WriteString("?")
	}
	out.WriteString(": ")
	out.WriteString(p.Type.String())
	return out.String()
}

// IndexerDefinition governs the keys of an object type that are not named
// by a PropDefinition.
type IndexerDefinition struct {
	Description string
	IndexType   Type // string or number
	Type        Type
	Optional    bool
	Readonly    bool
}

func (d IndexerDefinition) String() string {
	var out bytes.Buffer
	if d.Readonly {
		out.WriteString("readonly ")
	}
	out.WriteString("[key: ")
	out.WriteString(d.IndexType.String())
	out.WriteString("]")
	if d.Optional {
		out.WriteString("?")
	}
	out.WriteString(": ")
	out.WriteString(d.Type.String())
	return out.String()
}

// ObjectType is a structural object type. Prop names are unique.
type ObjectType struct {
	Props   []PropDefinition
	Indexer *IndexerDefinition // nil if the object has no indexer
}

// NewObjectType returns an object type.
func NewObjectType(props []PropDefinition, indexer *IndexerDefinition) *ObjectType {
	return &ObjectType{Props: props, Indexer: indexer}
}

func (x *ObjectType) typeNode() {}

// Prop returns the property with the given name.
func (x *ObjectType) Prop(name string) (PropDefinition, bool) {
	for _, p := range x.Props {
		if p.Name == name {
			return p, true
		}
	}
	return PropDefinition{}, false
}

func (x *ObjectType) String() string {
	if len(x.Props) == 0 && x.Indexer == nil {
		return "{}"
	}
	parts := make([]string, 0, len(x.Props)+1)
	for _, p := range x.Props {
		parts = append(parts, p.String())
	}
	if x.Indexer != nil {
		parts = append(parts, x.Indexer.String())
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

// ArrayType is an open-ended homogeneous sequence type.
type ArrayType struct {
	Items Type
}

// NewArrayType returns the array type of items.
func NewArrayType(items Type) *ArrayType { return &ArrayType{Items: items} }

func (x *ArrayType) typeNode() {}

func (x *ArrayType) String() string { return wrapComposite(x.Items) + "[]" }

// TupleType is a fixed-arity sequence type with an optional variadic tail.
type TupleType struct {
	Items []Type
	Rest  Type // type of each element past Items; nil if none
}

// NewTupleType returns a tuple type.
func NewTupleType(items []Type, rest Type) *TupleType {
	return &TupleType{Items: items, Rest: rest}
}

func (x *TupleType) typeNode() {}

func (x *TupleType) String() string {
	parts := make([]string, 0, len(x.Items)+1)
	for _, item := range x.Items {
		parts = append(parts, item.String())
	}
	if x.Rest != nil {
		parts = append(parts, "..."+wrapComposite(x.Rest)+"[]")
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ArgDefinition is a parameter of a function type.
type ArgDefinition struct {
	Pattern     Pattern
	Description string
	Type        Type
	Optional    bool
}

func (a ArgDefinition) String() string {
	var out bytes.Buffer
	if a.Pattern != nil {
		out.WriteString(patternSignature(a.Pattern))
	} else {
		out.WriteString("_")
	}
	if a.Optional {
		out.WriteString("?")
	}
	out.WriteString(": ")
	out.WriteString(a.Type.String())
	return out.String()
}

// FunctionalType is the type of a function.
type FunctionalType struct {
	Result      Type
	Args        []ArgDefinition
	Rest        *ArgDefinition // variadic trailing argument; nil if none
	Description string
}

// NewFuncType returns a function type.
func NewFuncType(result Type, args []ArgDefinition, rest *ArgDefinition) *FunctionalType {
	return &FunctionalType{Result: result, Args: args, Rest: rest}
}

func (x *FunctionalType) typeNode() {}

func (x *FunctionalType) String() string {
	parts := make([]string, 0, len(x.Args)+1)
	for _, a := range x.Args {
		parts = append(parts, a.String())
	}
	if x.Rest != nil {
		rest := *x.Rest
		rest.Optional = false
		parts = append(parts, "..."+rest.String())
	}
	return "(" + strings.Join(parts, ", ") + ") => " + x.Result.String()
}

// UnionType is a set of alternatives. Order is preserved for determinism
// but carries no meaning.
type UnionType struct {
	Args []Type
}

// NewUnionType returns a union type.
func NewUnionType(args []Type) *UnionType { return &UnionType{Args: args} }

func (x *UnionType) typeNode() {}

func (x *UnionType) String() string { return joinTypes(x.Args, " | ") }

// IntersectionType is a set of constraints that all hold.
type IntersectionType struct {
	Args []Type
}

// NewIntersectionType returns an intersection type.
func NewIntersectionType(args []Type) *IntersectionType {
	return &IntersectionType{Args: args}
}

func (x *IntersectionType) typeNode() {}

func (x *IntersectionType) String() string { return joinTypes(x.Args, " & ") }

// TypeParam is a parameter of a generic type.
type TypeParam struct {
	Name       string
	UpperBound Type // nil means unknown
	Default    Type // nil if none
}

func (p TypeParam) String() string {
	s := p.Name
	if p.UpperBound != nil {
		s += " extends " + p.UpperBound.String()
	}
	if p.Default != nil {
		s += " = " + p.Default.String()
	}
	return s
}

// GenericType is a parametric type.
type GenericType struct {
	Params []TypeParam
	Body   Type
}

// NewGenericType returns a generic type.
func NewGenericType(params []TypeParam, body Type) *GenericType {
	return &GenericType{Params: params, Body: body}
}

func (x *GenericType) typeNode() {}

func (x *GenericType) String() string {
	parts := make([]string, 0, len(x.Params))
	for _, p := range x.Params {
		parts = append(parts, p.String())
	}
	return "<" + strings.Join(parts, ", ") + ">" + x.Body.String()
}

// GenericCallType instantiates the named generic type with arguments.
type GenericCallType struct {
	Name string
	Args []Type
}

// NewGenericCallType returns a generic instantiation site.
func NewGenericCallType(name string, args []Type) *GenericCallType {
	return &GenericCallType{Name: name, Args: args}
}

func (x *GenericCallType) typeNode() {}

func (x *GenericCallType) String() string {
	return x.Name + "<" + joinTypes(x.Args, ", ") + ">"
}

// TypeIdentifier refers to a type bound in the scope chain.
type TypeIdentifier struct {
	Name string
}

// NewTypeIdent returns a type identifier.
func NewTypeIdent(name string) *TypeIdentifier { return &TypeIdentifier{Name: name} }

func (x *TypeIdentifier) typeNode() {}

func (x *TypeIdentifier) String() string { return x.Name }

func joinTypes(types []Type, sep string) string {
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, wrapComposite(t))
	}
	return strings.Join(parts, sep)
}

// wrapComposite parenthesizes types that would otherwise bind loosely.
func wrapComposite(t Type) string {
	switch t.(type) {
	case *UnionType, *IntersectionType, *FunctionalType, *GenericType:
		return "(" + t.String() + ")"
	}
	return t.String()
}

func propName(name string) string {
	if isIdentifierName(name) {
		return name
	}
	return StringValue(name).String()
}

func isIdentifierName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// patternSignature renders a pattern the way it appears in a signature,
// without default values.
func patternSignature(p Pattern) string {
	switch p := p.(type) {
	case *VarDef:
		return p.Name.Name
	case *ObjectDestruct:
		parts := make([]string, 0, len(p.Props))
		for _, prop := range p.Props {
			key, sub := PropKey(prop)
			if v, ok := sub.(*VarDef); ok && v.Name.Name == key {
				parts = append(parts, key)
			} else if sub != nil {
				parts = append(parts, key+": "+patternSignature(sub))
			}
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *ArrayDestruct:
		parts := make([]string, 0, len(p.Items))
		for _, item := range p.Items {
			parts = append(parts, patternSignature(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return "_"
}
