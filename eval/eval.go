// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package eval

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/stacklok/toolhive-el/ast"
	"github.com/stacklok/toolhive-el/convert"
	"github.com/stacklok/toolhive-el/member"
)

// Evaluate computes the value of node against ctx. A nil ctx evaluates with
// no root and no variables.
func Evaluate(node ast.Node, ctx *Context) (any, error) {
	if ctx == nil {
		ctx = NewContext(nil, nil)
	}
	return eval(node, ctx)
}

// EvaluateAs evaluates node and converts the result to T with the context's
// converter. A nil result yields the zero value of T.
func EvaluateAs[T any](node ast.Node, ctx *Context) (T, error) {
	var zero T
	if ctx == nil {
		ctx = NewContext(nil, nil)
	}

	v, err := eval(node, ctx)
	if err != nil || v == nil {
		return zero, err
	}
	if t, ok := v.(T); ok {
		return t, nil
	}

	rv, err := ctx.Convert(v, reflect.TypeFor[T]())
	if err != nil {
		return zero, fail(node, err)
	}
	return rv.Interface().(T), nil
}

func eval(node ast.Node, ctx *Context) (any, error) {
	switch n := node.(type) {
	case *ast.Literal:
		return n.Value, nil
	case *ast.VarRef:
		return evalVar(n, ctx)
	case *ast.Property:
		return evalProperty(n, ctx)
	case *ast.Index:
		return evalIndex(n, ctx)
	case *ast.MethodCall:
		return evalMethodCall(n, ctx)
	case *ast.StaticField:
		v, err := n.Type.Field(n.Name)
		if err != nil {
			return nil, fail(n, err)
		}
		return v, nil
	case *ast.StaticMethodCall:
		args, err := evalArgs(n.Args, ctx)
		if err != nil {
			return nil, err
		}
		v, err := n.Type.Invoke(n.Name, args)
		if err != nil {
			return nil, fail(n, err)
		}
		return v, nil
	case *ast.FunctionCall:
		args, err := evalArgs(n.Args, ctx)
		if err != nil {
			return nil, err
		}
		v, err := n.Function.Call(ctx, args)
		if err != nil {
			return nil, fail(n, fmt.Errorf("function %s: %w", n.Function.Name, err))
		}
		return v, nil
	case *ast.UnaryOp:
		return evalUnary(n, ctx)
	case *ast.BinaryOp:
		return evalBinary(n, ctx)
	case *ast.Conditional:
		cond, err := eval(n.Cond, ctx)
		if err != nil {
			return nil, err
		}
		if convert.Truthy(cond) {
			return eval(n.Then, ctx)
		}
		return eval(n.Else, ctx)
	case *ast.CompositeTemplate:
		return evalComposite(n, ctx)
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported node %T", node)
	}
}

func evalVar(n *ast.VarRef, ctx *Context) (any, error) {
	v, found, err := ctx.resolve(n.Name)
	if err != nil {
		return nil, fail(n, err)
	}
	if !found && ctx.Strict() {
		return nil, fail(n, fmt.Errorf("%w: %s", ErrUndefinedVariable, n.Name))
	}
	return v, nil
}

func evalProperty(n *ast.Property, ctx *Context) (any, error) {
	target, err := eval(n.Target, ctx)
	if err != nil {
		return nil, err
	}
	v, err := member.Property(target, n.Name)
	if err != nil {
		return nil, fail(n, err)
	}
	return v, nil
}

func evalIndex(n *ast.Index, ctx *Context) (any, error) {
	target, err := eval(n.Target, ctx)
	if err != nil {
		return nil, err
	}
	key, err := eval(n.Key, ctx)
	if err != nil {
		return nil, err
	}
	v, err := member.Index(target, key)
	if err != nil {
		return nil, fail(n, err)
	}
	return v, nil
}

func evalMethodCall(n *ast.MethodCall, ctx *Context) (any, error) {
	target, err := eval(n.Target, ctx)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fail(n, fmt.Errorf("%w: method %s called on null %s", ErrNullDereference, n.Name, ast.String(n.Target)))
	}

	args, err := evalArgs(n.Args, ctx)
	if err != nil {
		return nil, err
	}
	v, err := member.Invoke(target, n.Name, args)
	if err != nil {
		return nil, fail(n, err)
	}
	return v, nil
}

func evalArgs(nodes []ast.Node, ctx *Context) ([]any, error) {
	args := make([]any, len(nodes))
	for i, arg := range nodes {
		v, err := eval(arg, ctx)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func evalUnary(n *ast.UnaryOp, ctx *Context) (any, error) {
	v, err := eval(n.Operand, ctx)
	if err != nil {
		return nil, err
	}

	var out any
	switch n.Op {
	case ast.OpNot:
		return !convert.Truthy(v), nil
	case ast.OpNeg:
		out, err = negate(v)
	case ast.OpPlus:
		out, err = plus(v)
	default:
		err = fmt.Errorf("unsupported unary operator %s", n.Op)
	}
	if err != nil {
		return nil, fail(n, err)
	}
	return out, nil
}

func evalBinary(n *ast.BinaryOp, ctx *Context) (any, error) {
	l, err := eval(n.Left, ctx)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case ast.OpAnd:
		if !convert.Truthy(l) {
			return false, nil
		}
		r, err := eval(n.Right, ctx)
		if err != nil {
			return nil, err
		}
		return convert.Truthy(r), nil
	case ast.OpOr:
		if convert.Truthy(l) {
			return true, nil
		}
		r, err := eval(n.Right, ctx)
		if err != nil {
			return nil, err
		}
		return convert.Truthy(r), nil
	}

	r, err := eval(n.Right, ctx)
	if err != nil {
		return nil, err
	}

	var out any
	switch n.Op {
	case ast.OpEq:
		return equal(l, r), nil
	case ast.OpNe:
		return !equal(l, r), nil
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		out, err = compare(n.Op, l, r)
	case ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor, ast.OpShl, ast.OpShr:
		out, err = bitwise(n.Op, l, r)
	default:
		out, err = arithmetic(n.Op, l, r)
	}
	if err != nil {
		return nil, fail(n, err)
	}
	return out, nil
}

// evalComposite returns the native value of a template made of a single
// placeholder, and the concatenated text otherwise.
func evalComposite(n *ast.CompositeTemplate, ctx *Context) (any, error) {
	if len(n.Segments) == 1 && !n.Segments[0].IsLiteral() {
		return eval(n.Segments[0].Expr, ctx)
	}

	var b strings.Builder
	for _, s := range n.Segments {
		if s.IsLiteral() {
			b.WriteString(s.Text)
			continue
		}
		v, err := eval(s.Expr, ctx)
		if err != nil {
			return nil, err
		}
		b.WriteString(convert.ToString(v))
	}
	return b.String(), nil
}
