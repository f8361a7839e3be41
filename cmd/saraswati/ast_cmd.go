package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"reflect"

	"github.com/hokaccha/go-prettyjson"
	"github.com/saraswati-lib/saraswati"
	"github.com/saraswati-lib/saraswati/ast"
	"github.com/saraswati-lib/saraswati/parser"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newASTCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ast [file]",
		Short: "Print the syntax tree as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAST(cmd, v, args)
		},
	}
	addInputFlags(cmd)
	cmd.Flags().Bool("transformed", false, "print the tree after target calls are rewritten")
	return cmd
}

func runAST(cmd *cobra.Command, v *viper.Viper, args []string) error {
	src, inline, err := inlineSource(cmd, args)
	if err != nil {
		return err
	}
	if !inline {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		src = source{name: args[0], code: string(data)}
	}
	program, err := loadProgram(cmd.Context(), v, src)
	if err != nil {
		saraswati.Emit(newHandler(cmd.ErrOrStderr(), src.name, src.code), err)
		return &exitError{}
	}
	var out []byte
	if useColor(os.Stdout) {
		out, err = prettyjson.Marshal(nodeToJSON(program))
	} else {
		out, err = json.MarshalIndent(nodeToJSON(program), "", "  ")
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func loadProgram(ctx context.Context, v *viper.Viper, src source) (*ast.Program, error) {
	if !v.GetBool("transformed") {
		return parser.Parse(ctx, src.code, parser.WithFilename(src.name))
	}
	c, _, err := newCompiler(v)
	if err != nil {
		return nil, err
	}
	res, err := c.CompileSource(ctx, src.code, src.name)
	if err != nil {
		return nil, err
	}
	return res.Program, nil
}

// ASTNode is one node of the JSON tree.
type ASTNode struct {
	Type     string     `json:"type"`
	Span     string     `json:"span,omitempty"`
	Value    any        `json:"value,omitempty"`
	Children []*ASTNode `json:"children,omitempty"`
}

func nodeToJSON(node ast.Node) *ASTNode {
	result := &ASTNode{
		Type:  reflect.TypeOf(node).Elem().Name(),
		Value: nodeValue(node),
	}
	if start, end := node.Pos(), node.End(); start.IsValid() {
		result.Span = fmt.Sprintf("%d:%d-%d:%d",
			start.LineNumber(), start.ColumnNumber(), end.LineNumber(), end.ColumnNumber())
	}
	ast.Inspect(node, func(child ast.Node) bool {
		if child == node {
			return true
		}
		result.Children = append(result.Children, nodeToJSON(child))
		return false
	})
	return result
}

func nodeValue(node ast.Node) any {
	switch n := node.(type) {
	case *ast.Ident:
		return n.Name
	case *ast.Number:
		return n.Literal
	case *ast.Bool:
		return n.Value
	case *ast.String:
		return n.Value
	case *ast.Prefix:
		return n.Op
	case *ast.Postfix:
		return n.Op
	case *ast.Infix:
		return n.Op
	case *ast.Assign:
		return n.Op
	case *ast.Var:
		return n.Kind
	case *ast.ForOf:
		return n.Kind
	case *ast.Func:
		if n.Name != nil {
			return n.Name.Name
		}
	}
	return nil
}
