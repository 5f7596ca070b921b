// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"errors"
	"strings"

	"github.com/stacklok/toolhive-el/ast"
	"github.com/stacklok/toolhive-el/convert"
	"github.com/stacklok/toolhive-el/lexer"
	"github.com/stacklok/toolhive-el/member"
)

// Binding precedence, lowest first.
const (
	precOr = iota + 1
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
)

type binaryOp struct {
	op   ast.Operator
	prec int
}

// binaryOps maps operator symbols and keyword aliases to operators.
var binaryOps = map[string]binaryOp{
	"||":  {ast.OpOr, precOr},
	"or":  {ast.OpOr, precOr},
	"&&":  {ast.OpAnd, precAnd},
	"and": {ast.OpAnd, precAnd},
	"|":   {ast.OpBitOr, precBitOr},
	"^":   {ast.OpBitXor, precBitXor},
	"&":   {ast.OpBitAnd, precBitAnd},
	"==":  {ast.OpEq, precEquality},
	"eq":  {ast.OpEq, precEquality},
	"!=":  {ast.OpNe, precEquality},
	"ne":  {ast.OpNe, precEquality},
	"<":   {ast.OpLt, precRelational},
	"lt":  {ast.OpLt, precRelational},
	"<=":  {ast.OpLe, precRelational},
	"le":  {ast.OpLe, precRelational},
	">":   {ast.OpGt, precRelational},
	"gt":  {ast.OpGt, precRelational},
	">=":  {ast.OpGe, precRelational},
	"ge":  {ast.OpGe, precRelational},
	"<<":  {ast.OpShl, precShift},
	">>":  {ast.OpShr, precShift},
	"+":   {ast.OpAdd, precAdditive},
	"-":   {ast.OpSub, precAdditive},
	"*":   {ast.OpMul, precMultiplicative},
	"/":   {ast.OpDiv, precMultiplicative},
	"div": {ast.OpDiv, precMultiplicative},
	"%":   {ast.OpMod, precMultiplicative},
	"mod": {ast.OpMod, precMultiplicative},
}

var keywordLiterals = map[string]any{
	"true":  true,
	"false": false,
	"null":  nil,
}

// Parse parses a single expression. A nil context parses with an empty
// context and the default security policy.
func Parse(source string, ctx *Context) (ast.Node, error) {
	if ctx == nil {
		ctx = NewContext()
	}
	p := &parser{source: source, ctx: ctx}

	tokens, err := lexer.Tokenize(source)
	if err != nil {
		var lexErr *lexer.Error
		if errors.As(err, &lexErr) {
			e := p.errorf(lexErr.Pos, ErrSyntax, "%s", lexErr.Reason)
			e.cause = lexErr
			return nil, e
		}
		return nil, err
	}
	p.tokens = tokens

	node, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind != lexer.EOF {
		return nil, p.errorf(tok.Pos, ErrSyntax, "unexpected %s after end of expression, multiple expressions are not allowed", tok)
	}
	return node, nil
}

type parser struct {
	source string
	tokens []lexer.Token
	pos    int
	ctx    *Context
}

func (p *parser) peek() lexer.Token {
	return p.tokens[p.pos]
}

func (p *parser) peekAt(n int) lexer.Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *parser) next() lexer.Token {
	tok := p.tokens[p.pos]
	if tok.Kind != lexer.EOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(text string) (lexer.Token, error) {
	tok := p.next()
	if !tok.Is(text) {
		return tok, p.unexpected(tok, "'"+text+"'")
	}
	return tok, nil
}

func (p *parser) expectIdent() (lexer.Token, error) {
	tok := p.next()
	if tok.Kind != lexer.Ident {
		return tok, p.unexpected(tok, "identifier")
	}
	return tok, nil
}

func (p *parser) unexpected(tok lexer.Token, want string) *Error {
	if tok.Kind == lexer.EOF {
		return p.errorf(tok.Pos, ErrSyntax, "unexpected end of expression, expected %s", want)
	}
	return p.errorf(tok.Pos, ErrSyntax, "unexpected %s, expected %s", tok, want)
}

func (p *parser) parseTernary() (ast.Node, error) {
	cond, err := p.parseBinary(precOr)
	if err != nil {
		return nil, err
	}
	if !p.peek().Is("?") {
		return cond, nil
	}
	p.next()

	then, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(":"); err != nil {
		return nil, err
	}
	els, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return &ast.Conditional{Position: cond.Pos(), Cond: cond, Then: then, Else: els}, nil
}

func (p *parser) binaryOperator(tok lexer.Token) (binaryOp, bool) {
	if tok.Kind != lexer.Operator && tok.Kind != lexer.Ident {
		return binaryOp{}, false
	}
	op, ok := binaryOps[tok.Text]
	return op, ok
}

func (p *parser) parseBinary(minPrec int) (ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		op, ok := p.binaryOperator(tok)
		if !ok || op.prec < minPrec {
			return left, nil
		}
		p.next()

		right, err := p.parseBinary(op.prec + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Position: tok.Pos, Op: op.op, Left: left, Right: right}
	}
}

func (p *parser) parseUnary() (ast.Node, error) {
	tok := p.peek()
	switch {
	case tok.Is("!") || tok.IsIdent("not"):
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Position: tok.Pos, Op: ast.OpNot, Operand: operand}, nil
	case tok.Is("-"), tok.Is("+"):
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if lit, ok := operand.(*ast.Literal); ok && convert.IsNumber(lit.Value) {
			return foldSign(tok, lit), nil
		}
		op := ast.OpNeg
		if tok.Text == "+" {
			op = ast.OpPlus
		}
		return &ast.UnaryOp{Position: tok.Pos, Op: op, Operand: operand}, nil
	}
	return p.parsePostfix()
}

// foldSign applies a sign to a numeric literal at parse time.
func foldSign(sign lexer.Token, lit *ast.Literal) *ast.Literal {
	if sign.Text == "+" {
		return &ast.Literal{Position: sign.Pos, Value: lit.Value, Text: lit.Text}
	}

	text := "-" + lit.Text
	if strings.HasPrefix(lit.Text, "-") {
		text = lit.Text[1:]
	}
	var v any
	switch n := lit.Value.(type) {
	case int:
		v = -n
	case int64:
		v = -n
	case float32:
		v = -n
	case float64:
		v = -n
	default:
		return &ast.Literal{Position: sign.Pos, Value: lit.Value, Text: lit.Text}
	}
	return &ast.Literal{Position: sign.Pos, Value: v, Text: text}
}

func (p *parser) parsePostfix() (ast.Node, error) {
	node, static, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if static != nil {
		node, err = p.parseStaticMember(static)
		if err != nil {
			return nil, err
		}
	}

	for {
		tok := p.peek()
		switch {
		case tok.Is("."):
			p.next()
			nameTok, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if p.peek().Is("(") {
				if !p.ctx.Policy().AllowsMethod(nameTok.Text) {
					return nil, p.unsafe(nameTok.Pos, "", nameTok.Text, "method")
				}
				args, err := p.parseArgs()
				if err != nil {
					return nil, err
				}
				node = &ast.MethodCall{Position: nameTok.Pos, Target: node, Name: nameTok.Text, Args: args}
				continue
			}
			// Properties may be served by getter methods.
			if !p.ctx.Policy().AllowsMethod(nameTok.Text) {
				return nil, p.unsafe(nameTok.Pos, "", nameTok.Text, "property")
			}
			node = &ast.Property{Position: nameTok.Pos, Target: node, Name: nameTok.Text}
		case tok.Is("["):
			p.next()
			key, err := p.parseTernary()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect("]"); err != nil {
				return nil, err
			}
			node = &ast.Index{Position: tok.Pos, Target: node, Key: key}
		default:
			return node, nil
		}
	}
}

type staticRef struct {
	typ *member.Type
	pos int
}

// parseStaticMember parses the mandatory .FIELD or .method(args) after T(Name).
func (p *parser) parseStaticMember(ref *staticRef) (ast.Node, error) {
	if _, err := p.expect("."); err != nil {
		return nil, err
	}
	nameTok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	t := ref.typ

	if p.peek().Is("(") {
		if !p.ctx.Policy().AllowsStatic(t, nameTok.Text) {
			return nil, p.unsafe(nameTok.Pos, t.Name, nameTok.Text, "method")
		}
		if !t.HasMethod(nameTok.Text) {
			return nil, p.errorf(nameTok.Pos, ErrSyntax, "type %s has no method %s", t.Name, nameTok.Text)
		}
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		return &ast.StaticMethodCall{Position: ref.pos, Type: t, Name: nameTok.Text, Args: args}, nil
	}

	if !p.ctx.Policy().AllowsStatic(t, nameTok.Text) {
		return nil, p.unsafe(nameTok.Pos, t.Name, nameTok.Text, "field")
	}
	if !t.HasField(nameTok.Text) {
		return nil, p.errorf(nameTok.Pos, ErrSyntax, "type %s has no field %s", t.Name, nameTok.Text)
	}
	return &ast.StaticField{Position: ref.pos, Type: t, Name: nameTok.Text}, nil
}

func (p *parser) parsePrimary() (ast.Node, *staticRef, error) {
	tok := p.next()
	switch tok.Kind {
	case lexer.Number:
		return &ast.Literal{Position: tok.Pos, Value: tok.Value, Text: tok.Text}, nil, nil
	case lexer.String:
		return &ast.Literal{Position: tok.Pos, Value: tok.Text}, nil, nil
	case lexer.Ident:
		return p.parseIdent(tok)
	case lexer.EOF:
		return nil, nil, p.errorf(tok.Pos, ErrSyntax, "unexpected end of expression")
	}

	if tok.Is("(") {
		node, err := p.parseTernary()
		if err != nil {
			return nil, nil, err
		}
		if _, err := p.expect(")"); err != nil {
			return nil, nil, err
		}
		return node, nil, nil
	}
	return nil, nil, p.errorf(tok.Pos, ErrSyntax, "unexpected %s", tok)
}

func (p *parser) parseIdent(tok lexer.Token) (ast.Node, *staticRef, error) {
	if v, ok := keywordLiterals[tok.Text]; ok {
		return &ast.Literal{Position: tok.Pos, Value: v}, nil, nil
	}

	if tok.Text == "T" && p.peek().Is("(") {
		ref, err := p.parseTypeRef(tok)
		return nil, ref, err
	}

	if p.isPrefixedCall(tok) {
		p.next()
		nameTok := p.next()
		node, err := p.parseFunctionCall(tok.Pos, tok.Text+":"+nameTok.Text)
		return node, nil, err
	}

	if p.peek().Is("(") {
		node, err := p.parseFunctionCall(tok.Pos, tok.Text)
		return node, nil, err
	}

	if v, ok := p.ctx.Variable(tok.Text); ok {
		return &ast.Literal{Position: tok.Pos, Value: v}, nil, nil
	}
	// Unbound names fall back to properties of the root object.
	if !p.ctx.Policy().AllowsMethod(tok.Text) {
		return nil, nil, p.unsafe(tok.Pos, "", tok.Text, "property")
	}
	return &ast.VarRef{Position: tok.Pos, Name: tok.Text}, nil, nil
}

// isPrefixedCall reports whether tok starts prefix:name( with no whitespace
// around the colon, which keeps it apart from the ternary operator.
func (p *parser) isPrefixedCall(tok lexer.Token) bool {
	colon, name, paren := p.peekAt(0), p.peekAt(1), p.peekAt(2)
	return colon.Is(":") &&
		colon.Pos == tok.Pos+len(tok.Text) &&
		name.Kind == lexer.Ident &&
		name.Pos == colon.Pos+1 &&
		paren.Is("(")
}

func (p *parser) parseTypeRef(tok lexer.Token) (*staticRef, error) {
	p.next()
	first, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	typeName := first.Text
	for p.peek().Is(".") {
		p.next()
		part, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		typeName += "." + part.Text
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}

	t, ok := p.ctx.ResolveType(typeName)
	if !ok {
		return nil, p.errorf(first.Pos, ErrUnknownType, "unknown type %s", typeName)
	}
	return &staticRef{typ: t, pos: tok.Pos}, nil
}

func (p *parser) parseFunctionCall(pos int, fnName string) (ast.Node, error) {
	fn, ok := p.ctx.Function(fnName)
	if !ok {
		return nil, p.errorf(pos, ErrUnknownFunction, "unknown function %s", fnName)
	}
	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	if !fn.Accepts(len(args)) {
		return nil, p.errorf(pos, ErrSyntax, "function %s does not accept %d arguments", fnName, len(args))
	}
	return &ast.FunctionCall{Position: pos, Function: fn, Args: args}, nil
}

func (p *parser) parseArgs() ([]ast.Node, error) {
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	var args []ast.Node
	if p.peek().Is(")") {
		p.next()
		return args, nil
	}
	for {
		arg, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		tok := p.next()
		if tok.Is(")") {
			return args, nil
		}
		if !tok.Is(",") {
			return nil, p.unexpected(tok, "',' or ')'")
		}
	}
}
