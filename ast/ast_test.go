// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/toolhive-el/convert"
	"github.com/stacklok/toolhive-el/member"
	"github.com/stacklok/toolhive-el/recovery"
)

type emptyEnv struct{}

func (emptyEnv) Root() any                    { return nil }
func (emptyEnv) Variable(string) (any, bool) { return nil, false }

func TestString(t *testing.T) {
	t.Parallel()

	typ := member.NewType("lang.Math")
	lit := func(v any, text string) *Literal { return &Literal{Value: v, Text: text} }
	ref := func(name string) *VarRef { return &VarRef{Name: name} }

	tests := []struct {
		name string
		node Node
		want string
	}{
		{"nil", lit(nil, ""), "null"},
		{"bool", lit(true, ""), "true"},
		{"number text", lit(2.0, "2.0"), "2.0"},
		{"number without text", lit(int64(7), ""), "7"},
		{"string", lit("a'b\\c", ""), `'a\'b\\c'`},
		{"char", lit(convert.Char('x'), ""), "'x'"},
		{"unary over binary", &UnaryOp{Op: OpNot, Operand: &BinaryOp{Op: OpAnd, Left: ref("a"), Right: ref("b")}}, "!(a && b)"},
		{"bitwise and over or", &BinaryOp{Op: OpBitAnd, Left: &BinaryOp{Op: OpBitOr, Left: ref("a"), Right: ref("b")}, Right: ref("c")}, "(a | b) & c"},
		{"shift under plus", &BinaryOp{Op: OpPlus, Left: &BinaryOp{Op: OpShl, Left: ref("a"), Right: ref("b")}, Right: ref("c")}, "(a << b) + c"},
		{"xor over equality", &BinaryOp{Op: OpBitXor, Left: ref("a"), Right: &BinaryOp{Op: OpEq, Left: ref("b"), Right: ref("c")}}, "a ^ b == c"},
		{"property of binary", &Property{Target: &BinaryOp{Op: OpAdd, Left: ref("a"), Right: ref("b")}, Name: "c"}, "(a + b).c"},
		{"conditional condition", &Conditional{Cond: &Conditional{Cond: ref("a"), Then: ref("b"), Else: ref("c")}, Then: ref("d"), Else: ref("e")}, "(a ? b : c) ? d : e"},
		{"static call", &StaticMethodCall{Type: typ, Name: "max", Args: []Node{lit(1, "1"), lit(2, "2")}}, "T(lang.Math).max(1, 2)"},
		{"static field", &StaticField{Type: typ, Name: "PI"}, "T(lang.Math).PI"},
		{"composite", &CompositeTemplate{Segments: []Segment{{Text: "cost $"}, {Expr: ref("v")}}}, `cost \$${v}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, String(tt.node))
		})
	}
}

func TestWrapFunc(t *testing.T) {
	t.Parallel()

	fn, err := WrapFunc("repeat", strings.Repeat)
	require.NoError(t, err)
	assert.Equal(t, 2, fn.MinArgs)
	assert.Equal(t, 2, fn.MaxArgs)

	out, err := fn.Call(emptyEnv{}, []any{"ab", int64(2)})
	require.NoError(t, err)
	assert.Equal(t, "abab", out)

	_, err = fn.Call(emptyEnv{}, []any{"ab"})
	assert.ErrorIs(t, err, ErrArity)

	variadic, err := WrapFunc("join", func(sep string, parts ...string) string { return strings.Join(parts, sep) })
	require.NoError(t, err)
	assert.Equal(t, 1, variadic.MinArgs)
	assert.Equal(t, -1, variadic.MaxArgs)
	assert.True(t, variadic.Accepts(5))
	assert.False(t, variadic.Accepts(0))

	_, err = WrapFunc("bad", 42)
	assert.Error(t, err)
}

func TestFunctionCall_RecoversPanic(t *testing.T) {
	t.Parallel()

	fn := NewFunction("boom", 0, func(Env, []any) (any, error) {
		panic("boom")
	})
	_, err := fn.Call(emptyEnv{}, nil)
	assert.ErrorIs(t, err, recovery.ErrPanic)
}

func TestFunction_Arity(t *testing.T) {
	t.Parallel()

	fn := &Function{Name: "range", MinArgs: 1, MaxArgs: 3, Fn: func(Env, []any) (any, error) { return nil, nil }}
	assert.False(t, fn.Accepts(0))
	assert.True(t, fn.Accepts(2))
	assert.False(t, fn.Accepts(4))

	_, err := fn.Call(emptyEnv{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expects 1 to 3, got 0")
}
