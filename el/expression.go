// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package el

import (
	"fmt"
	"strings"

	"github.com/stacklok/toolhive-el/ast"
	"github.com/stacklok/toolhive-el/convert"
	"github.com/stacklok/toolhive-el/eval"
	"github.com/stacklok/toolhive-el/parser"
)

const (
	placeholderPrefix = "${"
	placeholderSuffix = "}"
)

// Expression is a compiled expression or template.
type Expression interface {
	Source() string
	Evaluate(ctx *eval.Context) (any, error)
}

// CompiledExpression is a parsed expression ready for evaluation. It is
// immutable and may be evaluated concurrently.
type CompiledExpression struct {
	source string
	node   ast.Node
}

// Source returns the original expression source string.
func (ce *CompiledExpression) Source() string {
	return ce.source
}

// Node returns the root of the syntax tree.
func (ce *CompiledExpression) Node() ast.Node {
	return ce.node
}

// String returns the expression in canonical form.
func (ce *CompiledExpression) String() string {
	return ast.String(ce.node)
}

// Evaluate executes the expression against ctx. A nil ctx evaluates with no
// root and no variables.
func (ce *CompiledExpression) Evaluate(ctx *eval.Context) (any, error) {
	out, err := eval.Evaluate(ce.node, ctx)
	if err != nil {
		return nil, newEvalError(ce.source, err)
	}
	return out, nil
}

// EvaluateBool executes the expression and returns the result as a bool.
// Returns an error if the expression does not evaluate to a boolean.
func (ce *CompiledExpression) EvaluateBool(ctx *eval.Context) (bool, error) {
	result, err := ce.Evaluate(ctx)
	if err != nil {
		return false, err
	}

	boolResult, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("%w: expected bool, got %T", ErrInvalidResult, result)
	}
	return boolResult, nil
}

// CompiledComposite is a parsed template of literal text and ${...}
// placeholders.
type CompiledComposite struct {
	source string
	tmpl   *ast.CompositeTemplate
}

// Source returns the original template string.
func (cc *CompiledComposite) Source() string {
	return cc.source
}

// Template returns the parsed template.
func (cc *CompiledComposite) Template() *ast.CompositeTemplate {
	return cc.tmpl
}

// IsLiteral reports whether the template contains no placeholders.
func (cc *CompiledComposite) IsLiteral() bool {
	for _, s := range cc.tmpl.Segments {
		if !s.IsLiteral() {
			return false
		}
	}
	return true
}

// Evaluate renders the template. A template consisting of exactly one
// placeholder returns the placeholder's value unchanged.
func (cc *CompiledComposite) Evaluate(ctx *eval.Context) (any, error) {
	out, err := eval.Evaluate(cc.tmpl, ctx)
	if err != nil {
		return nil, newEvalError(cc.source, err)
	}
	return out, nil
}

// EvaluateString renders the template as a string.
func (cc *CompiledComposite) EvaluateString(ctx *eval.Context) (string, error) {
	out, err := cc.Evaluate(ctx)
	if err != nil {
		return "", err
	}
	return convert.ToString(out), nil
}

// Parse compiles an expression with ctx. A nil ctx uses DefaultContext.
func Parse(source string, ctx *parser.Context) (*CompiledExpression, error) {
	if ctx == nil {
		ctx = DefaultContext()
	}
	node, err := parser.Parse(source, ctx)
	if err != nil {
		return nil, err
	}
	return &CompiledExpression{source: source, node: node}, nil
}

// ParseComposite compiles a template with ctx. A nil ctx uses DefaultContext.
func ParseComposite(source string, ctx *parser.Context) (*CompiledComposite, error) {
	if ctx == nil {
		ctx = DefaultContext()
	}
	tmpl, err := parser.ParseComposite(source, ctx)
	if err != nil {
		return nil, err
	}
	return &CompiledComposite{source: source, tmpl: tmpl}, nil
}

// HasPrefixAndSuffix reports whether s is wrapped in ${ and }.
func HasPrefixAndSuffix(s string) bool {
	return len(s) >= len(placeholderPrefix)+len(placeholderSuffix) &&
		strings.HasPrefix(s, placeholderPrefix) && strings.HasSuffix(s, placeholderSuffix)
}

// RemovePrefixAndSuffix strips a surrounding ${ and }, returning s
// unchanged when it is not wrapped.
func RemovePrefixAndSuffix(s string) string {
	if !HasPrefixAndSuffix(s) {
		return s
	}
	return s[len(placeholderPrefix) : len(s)-len(placeholderSuffix)]
}

// CreateValueExpression compiles a configuration value. Plain text
// evaluates to itself, "${expr}" to the native value of expr and mixed
// text to the rendered string.
func CreateValueExpression(value string, ctx *parser.Context) (Expression, error) {
	return ParseComposite(value, ctx)
}

// TryCreateValueExpression is CreateValueExpression returning nil for a
// blank value.
func TryCreateValueExpression(value string, ctx *parser.Context) (Expression, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	return CreateValueExpression(value, ctx)
}

// Test reports whether a value counts as true in a condition. Strings are
// interpreted as booleans ("true", "yes", "on", "1").
func Test(v any) bool {
	return convert.TruthyString(v)
}
