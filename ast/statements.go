package ast

import (
	"bytes"
	"strings"
)

// Definition binds one or more declarators. The initializer of each
// declarator is the default value of its pattern.
type Definition struct {
	Decls   []*Declarator
	Mutable bool // "let" rather than "const"
}

// NewDefinition returns a definition.
func NewDefinition(decls []*Declarator, mutable bool) *Definition {
	return &Definition{Decls: decls, Mutable: mutable}
}

func (x *Definition) exprNode() {}

// Names returns every variable name the definition introduces.
func (x *Definition) Names() []string {
	var names []string
	for _, d := range x.Decls {
		names = append(names, d.Pattern.Names()...)
	}
	return names
}

func (x *Definition) String() string {
	var out bytes.Buffer
	if x.Mutable {
		out.WriteString("let ")
	} else {
		out.WriteString("const ")
	}
	decls := make([]string, 0, len(x.Decls))
	for _, d := range x.Decls {
		decls = append(decls, d.String())
	}
	out.WriteString(strings.Join(decls, ", "))
	return out.String()
}

// TypeDeclarator names a type.
type TypeDeclarator struct {
	Name        string
	Description string
	Value       Type
}

// TypeDefinition introduces one or more type aliases.
type TypeDefinition struct {
	Decls []*TypeDeclarator
}

// NewTypeDefinition returns a type definition.
func NewTypeDefinition(decls []*TypeDeclarator) *TypeDefinition {
	return &TypeDefinition{Decls: decls}
}

func (x *TypeDefinition) exprNode() {}

// Names returns every type name the definition introduces.
func (x *TypeDefinition) Names() []string {
	names := make([]string, 0, len(x.Decls))
	for _, d := range x.Decls {
		names = append(names, d.Name)
	}
	return names
}

func (x *TypeDefinition) String() string {
	decls := make([]string, 0, len(x.Decls))
	for _, d := range x.Decls {
		decls = append(decls, d.Name+" = "+d.Value.String())
	}
	return "type " + strings.Join(decls, ", ")
}

// ImportSpecifier names one imported binding.
type ImportSpecifier struct {
	SourceName *Ident
	Alias      *Ident // local name; nil to use SourceName
	IsType     bool   // imports a type rather than a value
}

// LocalName returns the name the specifier binds in the importing module.
func (s *ImportSpecifier) LocalName() string {
	if s.Alias != nil {
		return s.Alias.Name
	}
	return s.SourceName.Name
}

func (s *ImportSpecifier) String() string {
	var out bytes.Buffer
	if s.IsType {
		out.WriteString("type ")
	}
	out.WriteString(s.SourceName.Name)
	if s.Alias != nil && s.Alias.Name != s.SourceName.Name {
		out.WriteString(" as ")
		out.WriteString(s.Alias.Name)
	}
	return out.String()
}

// Import brings bindings from another module into scope.
type Import struct {
	Source     string
	Specifiers []*ImportSpecifier
	Default    *ImportSpecifier // default import; nil if none
}

// NewImport returns an import of named specifiers.
func NewImport(source string, specifiers []*ImportSpecifier) *Import {
	return &Import{Source: source, Specifiers: specifiers}
}

func (x *Import) exprNode() {}

func (x *Import) String() string {
	var parts []string
	if x.Default != nil {
		parts = append(parts, x.Default.LocalName())
	}
	if len(x.Specifiers) > 0 {
		specs := make([]string, 0, len(x.Specifiers))
		for _, s := range x.Specifiers {
			specs = append(specs, s.String())
		}
		parts = append(parts, "{ "+strings.Join(specs, ", ")+" }")
	}
	return "import " + strings.Join(parts, ", ") + " from " + StringValue(x.Source).String()
}

// Export publishes a definition or type definition.
type Export struct {
	Def Expr // *Definition or *TypeDefinition
}

// NewExport returns an export.
func NewExport(def Expr) *Export { return &Export{Def: def} }

func (x *Export) exprNode() {}

func (x *Export) String() string { return "export " + x.Def.String() }
