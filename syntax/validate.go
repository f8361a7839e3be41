package syntax

import (
	"github.com/saraswati-lib/saraswati/ast"
	"github.com/saraswati-lib/saraswati/errors"
)

// SyntaxValidator validates an AST against a SyntaxConfig.
type SyntaxValidator struct {
	config SyntaxConfig
}

// NewSyntaxValidator creates a validator for the given configuration.
func NewSyntaxValidator(config SyntaxConfig) *SyntaxValidator {
	return &SyntaxValidator{config: config}
}

// Validate checks the AST against the syntax configuration.
func (v *SyntaxValidator) Validate(program *ast.Program) []ValidationError {
	var errs []ValidationError

	for node := range ast.Preorder(program) {
		if err := v.checkNode(node); err != nil {
			errs = append(errs, *err)
		}
		if v.config.DisallowFuncDecl {
			errs = append(errs, v.checkDecls(statementList(node))...)
		}
	}

	return errs
}

func statementList(node ast.Node) []ast.Node {
	switch n := node.(type) {
	case *ast.Program:
		return n.Stmts
	case *ast.Block:
		return n.Stmts
	case *ast.Case:
		return n.Body
	}
	return nil
}

// checkDecls reports named functions placed directly in a statement list.
func (v *SyntaxValidator) checkDecls(stmts []ast.Node) []ValidationError {
	var errs []ValidationError
	for _, stmt := range stmts {
		if fn, ok := stmt.(*ast.Func); ok && fn.Name != nil {
			errs = append(errs, disallowed(fn, "function declarations are not allowed"))
		}
	}
	return errs
}

func disallowed(node ast.Node, msg string) ValidationError {
	return ValidationError{
		Code:     errors.E3001,
		Message:  msg,
		Node:     node,
		Position: node.Pos(),
	}
}

func (v *SyntaxValidator) checkNode(node ast.Node) *ValidationError {
	var err ValidationError
	switch n := node.(type) {
	case *ast.Var:
		if n.Kind == "var" && v.config.DisallowVar {
			err = disallowed(node, "var declarations are not allowed")
		}

	case *ast.Func:
		if n.IsArrow && v.config.DisallowArrow {
			err = disallowed(node, "arrow functions are not allowed")
		}

	case *ast.Try, *ast.Throw:
		if v.config.DisallowTryCatch {
			err = disallowed(node, "try/catch/throw is not allowed")
		}

	case *ast.Switch:
		if v.config.DisallowSwitch {
			err = disallowed(node, "switch statements are not allowed")
		}

	case *ast.Break:
		if v.config.DisallowLabels {
			err = disallowed(node, "break statements are not allowed")
		}

	case *ast.Continue:
		if v.config.DisallowLabels {
			err = disallowed(node, "continue statements are not allowed")
		}

	case *ast.Spread:
		if v.config.DisallowSpread {
			err = disallowed(node, "spread syntax is not allowed")
		}

	case *ast.Template:
		if v.config.DisallowTemplates {
			err = disallowed(node, "template strings are not allowed")
		}

	case *ast.GetAttr:
		if n.Optional && v.config.DisallowOptionalChain {
			err = disallowed(node, "optional chaining is not allowed")
		}

	case *ast.Index:
		if n.Optional && v.config.DisallowOptionalChain {
			err = disallowed(node, "optional chaining is not allowed")
		}

	case *ast.Call:
		if n.Optional && v.config.DisallowOptionalChain {
			err = disallowed(node, "optional chaining is not allowed")
		}

	case *ast.New:
		if v.config.DisallowNew {
			err = disallowed(node, "new expressions are not allowed")
		}
	}

	if err.Message == "" {
		return nil
	}
	return &err
}
