package main

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/spf13/cobra"

	"github.com/declaratypel/typecheck/ast"
	"github.com/declaratypel/typecheck/internal/astjson"
)

func (a *app) astCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ast [file]",
		Short: "Display the syntax tree of a module",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.readInput(cmd, args)
			if err != nil {
				return err
			}
			items, err := astjson.DecodeModule(data)
			if err != nil {
				return err
			}
			if a.jsonOutput() {
				nodes := make([]*ASTNode, 0, len(items))
				for _, item := range items {
					nodes = append(nodes, nodeToJSON(item))
				}
				out, err := a.marshalJSON(nodes)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, string(out))
				return nil
			}
			for _, item := range items {
				printAST(a.stdout, item)
			}
			return nil
		},
	}
}

// ASTNode represents a node in the JSON AST output
type ASTNode struct {
	Type     string     `json:"type"`
	Value    string     `json:"value,omitempty"`
	Children []*ASTNode `json:"children,omitempty"`
}

func nodeToJSON(node ast.Node) *ASTNode {
	result := &ASTNode{Type: nodeName(node), Value: nodeValue(node)}
	for _, child := range ast.Children(node) {
		result.Children = append(result.Children, nodeToJSON(child))
	}
	return result
}

// outliner prints one line per node, indented by depth.
type outliner struct {
	w     io.Writer
	depth int
}

func (o *outliner) Visit(node ast.Node) ast.Visitor {
	line := strings.Repeat("  ", o.depth) + nodeName(node)
	if v := nodeValue(node); v != "" {
		line += " " + v
	}
	fmt.Fprintln(o.w, line)
	return &outliner{w: o.w, depth: o.depth + 1}
}

func printAST(w io.Writer, node ast.Node) {
	ast.Walk(&outliner{w: w}, node)
}

func nodeName(node ast.Node) string {
	t := reflect.TypeOf(node)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// nodeValue returns the short label shown next to a node's name.
func nodeValue(node ast.Node) string {
	switch n := node.(type) {
	case *ast.Ident:
		return n.Name
	case *ast.Literal:
		return n.Value.String()
	case *ast.Unary:
		return string(n.Op)
	case *ast.Binary:
		return string(n.Op)
	case *ast.Property:
		return n.Key
	case *ast.Definition:
		if n.Mutable {
			return "let"
		}
		return "const"
	case *ast.TypeDefinition:
		return strings.Join(n.Names(), ", ")
	case *ast.Import:
		return ast.StringValue(n.Source).String()
	case *ast.ImportSpecifier:
		return n.String()
	case *ast.VarDef:
		return n.Name.Name
	case *ast.RenamedProp:
		return n.Key
	case *ast.Builtin:
		return string(n.Tag)
	case *ast.LiteralType:
		return n.Value.String()
	case *ast.TypeIdentifier:
		return n.Name
	case *ast.GenericCallType:
		return n.Name
	case *ast.ArrayTemplate:
		return fmt.Sprintf("(%d items)", len(n.Items))
	case *ast.ObjectType:
		return fmt.Sprintf("(%d props)", len(n.Props))
	}
	return ""
}
