package ast

import (
	"bytes"
	"strings"
)

// VarDef binds a single variable, optionally with a default value. When a
// VarDef is used as a definition, Default holds the initializer.
type VarDef struct {
	Name     *Ident // the bound variable
	Default  Expr   // default value; nil if none
	Optional bool   // explicitly marked optional ("x?")
}

// NewVarDef returns a VarDef pattern for name with an optional default value.
func NewVarDef(name string, def Expr) *VarDef {
	return &VarDef{Name: NewIdent(name), Default: def}
}

// NewOptionalVarDef returns a VarDef pattern explicitly marked optional.
func NewOptionalVarDef(name string) *VarDef {
	return &VarDef{Name: NewIdent(name), Optional: true}
}

func (x *VarDef) patternNode() {}
func (x *VarDef) propPattern() {}

func (x *VarDef) DefaultValue() Expr { return x.Default }
func (x *VarDef) Names() []string    { return []string{x.Name.Name} }

func (x *VarDef) String() string {
	var out bytes.Buffer
	out.WriteString(x.Name.Name)
	if x.Optional {
		out.WriteString("?")
	}
	if x.Default != nil {
		out.WriteString(" = ")
		out.WriteString(x.Default.String())
	}
	return out.String()
}

// PropPattern is one entry of an object destructure: either a shorthand
// *VarDef ({a}) or a *RenamedProp ({a: pattern}).
type PropPattern interface {
	Node
	propPattern()
}

// RenamedProp destructures the property Key into Pattern.
type RenamedProp struct {
	Key     string  // property name in the destructured object
	Pattern Pattern // target pattern
}

// NewRenamedProp returns a renamed property pattern.
func NewRenamedProp(key string, pattern Pattern) *RenamedProp {
	return &RenamedProp{Key: key, Pattern: pattern}
}

func (x *RenamedProp) propPattern() {}

func (x *RenamedProp) String() string { return x.Key + ": " + x.Pattern.String() }

// PropKey returns the property name an object destructure entry reads, and
// the pattern the property value is bound to.
func PropKey(p PropPattern) (string, Pattern) {
	switch p := p.(type) {
	case *VarDef:
		return p.Name.Name, p
	case *RenamedProp:
		return p.Key, p.Pattern
	}
	return "", nil
}

// ObjectDestruct destructures an object value: {a, b: [c], ...rest}.
type ObjectDestruct struct {
	Props   []PropPattern // properties to extract
	Rest    Pattern       // rest pattern (*VarDef or *ObjectDestruct); nil if none
	Default Expr          // default value; nil if none
}

// NewObjectDestruct returns an object destructure pattern.
func NewObjectDestruct(props []PropPattern, rest Pattern, def Expr) *ObjectDestruct {
	return &ObjectDestruct{Props: props, Rest: rest, Default: def}
}

func (x *ObjectDestruct) patternNode() {}

func (x *ObjectDestruct) DefaultValue() Expr { return x.Default }

func (x *ObjectDestruct) Names() []string {
	var names []string
	for _, p := range x.Props {
		_, pattern := PropKey(p)
		if pattern != nil {
			names = append(names, pattern.Names()...)
		}
	}
	if x.Rest != nil {
		names = append(names, x.Rest.Names()...)
	}
	return names
}

func (x *ObjectDestruct) String() string {
	parts := make([]string, 0, len(x.Props)+1)
	for _, p := range x.Props {
		parts = append(parts, p.String())
	}
	if x.Rest != nil {
		parts = append(parts, "..."+x.Rest.String())
	}
	s := "{" + strings.Join(parts, ", ") + "}"
	if x.Default != nil {
		s += " = " + x.Default.String()
	}
	return s
}

// ArrayDestruct destructures an array or tuple value: [a, {b}, ...rest].
type ArrayDestruct struct {
	Items   []Pattern // positional patterns
	Rest    Pattern   // rest pattern (*VarDef or *ArrayDestruct); nil if none
	Default Expr      // default value; nil if none
}

// NewArrayDestruct returns an array destructure pattern.
func NewArrayDestruct(items []Pattern, rest Pattern, def Expr) *ArrayDestruct {
	return &ArrayDestruct{Items: items, Rest: rest, Default: def}
}

func (x *ArrayDestruct) patternNode() {}

func (x *ArrayDestruct) DefaultValue() Expr { return x.Default }

func (x *ArrayDestruct) Names() []string {
	var names []string
	for _, item := range x.Items {
		names = append(names, item.Names()...)
	}
	if x.Rest != nil {
		names = append(names, x.Rest.Names()...)
	}
	return names
}

func (x *ArrayDestruct) String() string {
	parts := make([]string, 0, len(x.Items)+1)
	for _, item := range x.Items {
		parts = append(parts, item.String())
	}
	if x.Rest != nil {
		parts = append(parts, "..."+x.Rest.String())
	}
	s := "[" + strings.Join(parts, ", ") + "]"
	if x.Default != nil {
		s += " = " + x.Default.String()
	}
	return s
}
