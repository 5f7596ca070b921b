// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package el_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/toolhive-el/convert"
	"github.com/stacklok/toolhive-el/el"
	"github.com/stacklok/toolhive-el/eval"
	"github.com/stacklok/toolhive-el/parser"
)

type customLabel interface {
	Label() string
}

type badge struct{}

func (badge) Label() string {
	return "badge"
}

type helloBean struct{}

func (*helloBean) SayHelloString(s string) string {
	return "Hello " + s
}

func (*helloBean) SayHelloLabel(l customLabel) string {
	return "Hello label " + l.Label()
}

func (b *helloBean) ExpressionMethods() map[string][]any {
	return map[string][]any{
		"sayHello": {b.SayHelloString, b.SayHelloLabel},
	}
}

func evaluate(t *testing.T, expr string, vars map[string]any) any {
	t.Helper()

	ce, err := el.Parse(expr, nil)
	require.NoError(t, err)
	v, err := ce.Evaluate(eval.VarsContext(vars))
	require.NoError(t, err)
	return v
}

func TestParse_NumericLiterals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expr string
		want any
	}{
		{"0x0A", 10},
		{"1e1f", float32(10)},
		{"2.f", float32(2)},
		{"3.14f", float32(3.14)},
		{"1e1", 10.0},
		{"2.", 2.0},
		{"1e-9d", 1e-9},
		{"0x400921FB54442D18L", int64(0x400921FB54442D18)},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, evaluate(t, tt.expr, nil))
		})
	}
}

func TestParse_StringEscapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expr string
		want string
	}{
		{`'\344'`, "ä"},
		{`'\7'`, "\a"},
		{`'\777'`, "?7"},
		{`'\uFFFF::'`, "\uFFFF::"},
		{`"tab\there"`, "tab\there"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, convert.ToString(evaluate(t, tt.expr, nil)))
		})
	}
}

func TestEvaluate_Coercion(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "12", evaluate(t, "'1' + '2'", nil))
	assert.Equal(t, int64(3), evaluate(t, "'1' + 2", nil))
	assert.Equal(t, int64(3), evaluate(t, "1 + '2'", nil))
	// Unbound operands of + read as integer zero.
	assert.Equal(t, int64(0), evaluate(t, "a + b", nil))
}

func TestEvaluate_CharEquality(t *testing.T) {
	t.Parallel()

	vars := map[string]any{"c": convert.Char('s')}
	assert.Equal(t, true, evaluate(t, "c == 's'", vars))
	assert.Equal(t, false, evaluate(t, "c == 't'", vars))
}

func TestEvaluate_Indexing(t *testing.T) {
	t.Parallel()

	a := []int{1, 2, 3, 4, 5}
	vars := map[string]any{
		"a":     a,
		"index": 0,
		"m":     map[string]any{"a": a, "s": "str"},
		"p":     "s",
	}

	assert.Equal(t, 1, evaluate(t, "a[0]", vars))
	assert.Equal(t, 1, evaluate(t, "a[index]", vars))
	assert.Equal(t, 2, evaluate(t, "a[index + 1]", vars))
	assert.Equal(t, 1, evaluate(t, "m['a'][0]", vars))
	assert.Equal(t, "str", evaluate(t, "m['s']", vars))
	assert.Equal(t, "str", evaluate(t, "m[p]", vars))
}

func TestEvaluate_StaticAccess(t *testing.T) {
	t.Parallel()

	assert.Equal(t, true, evaluate(t, "T(lang.Boolean).TRUE", nil))
	assert.Equal(t, true, evaluate(t, "T(Boolean).TRUE", nil))
	assert.Equal(t, true, evaluate(t, "T(Strings).isEmpty('')", nil))
}

func TestParse_Sandbox(t *testing.T) {
	t.Parallel()

	for _, expr := range []string{
		"T(System).gc()",
		"T(lang.System).exit(1)",
		"T(System).getenv('HOME')",
		"x ? T(System).gc() : 1",
	} {
		ce, err := el.Parse(expr, nil)
		require.Error(t, err, expr)
		assert.Nil(t, ce)
		assert.Contains(t, err.Error(), "unsafe", expr)
		assert.ErrorIs(t, err, parser.ErrUnsafe, expr)
	}
}

func TestParseComposite(t *testing.T) {
	t.Parallel()

	vars := map[string]any{"v": "1"}

	cc, err := el.ParseComposite("a${v}", nil)
	require.NoError(t, err)
	got, err := cc.Evaluate(eval.VarsContext(vars))
	require.NoError(t, err)
	assert.Equal(t, "a1", got)

	cc, err = el.ParseComposite(`a\${${v}`, nil)
	require.NoError(t, err)
	got, err = cc.Evaluate(eval.VarsContext(vars))
	require.NoError(t, err)
	assert.Equal(t, "a${1", got)

	cc, err = el.ParseComposite("${v}", nil)
	require.NoError(t, err)
	got, err = cc.Evaluate(eval.VarsContext(map[string]any{"v": 1}))
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	s, err := cc.EvaluateString(eval.VarsContext(map[string]any{"v": 1}))
	require.NoError(t, err)
	assert.Equal(t, "1", s)

	_, err = el.ParseComposite("a${v}b${v}${xx", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrSyntax)
}

func TestCompiledComposite_IsLiteral(t *testing.T) {
	t.Parallel()

	cc, err := el.ParseComposite(`price \$5`, nil)
	require.NoError(t, err)
	assert.True(t, cc.IsLiteral())

	cc, err = el.ParseComposite("${a}", nil)
	require.NoError(t, err)
	assert.False(t, cc.IsLiteral())
}

func TestEvaluate_OverloadResolution(t *testing.T) {
	t.Parallel()

	vars := map[string]any{"bean": &helloBean{}, "label": badge{}}
	assert.Equal(t, "Hello world", evaluate(t, "bean.sayHello('world')", vars))
	assert.Equal(t, "Hello label badge", evaluate(t, "bean.sayHello(label)", vars))
}

func TestCompiledExpression_Idempotent(t *testing.T) {
	t.Parallel()

	ce, err := el.Parse("items[i] + ':' + size(items)", nil)
	require.NoError(t, err)

	vars := map[string]any{"items": []string{"a", "b"}, "i": 1}
	first, err := ce.Evaluate(eval.VarsContext(vars))
	require.NoError(t, err)
	second, err := ce.Evaluate(eval.VarsContext(vars))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "b:2", first)
}

func TestCompiledExpression_EvaluateBool(t *testing.T) {
	t.Parallel()

	ce, err := el.Parse("n > 3", nil)
	require.NoError(t, err)
	ok, err := ce.EvaluateBool(eval.VarsContext(map[string]any{"n": 5}))
	require.NoError(t, err)
	assert.True(t, ok)

	ce, err = el.Parse("n + 1", nil)
	require.NoError(t, err)
	_, err = ce.EvaluateBool(eval.VarsContext(map[string]any{"n": 5}))
	assert.ErrorIs(t, err, el.ErrInvalidResult)
}

func TestCompiledExpression_String(t *testing.T) {
	t.Parallel()

	ce, err := el.Parse("+1 + +2.0 + -1 + -1.3", nil)
	require.NoError(t, err)
	assert.Equal(t, "1 + 2.0 + -1 + -1.3", ce.String())
	assert.Equal(t, "+1 + +2.0 + -1 + -1.3", ce.Source())
}

func TestEvalError(t *testing.T) {
	t.Parallel()

	ce, err := el.Parse("a +\n 1 / 0", nil)
	require.NoError(t, err)

	_, err = ce.Evaluate(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, eval.ErrDivisionByZero)

	var evalErr *el.EvalError
	require.True(t, errors.As(err, &evalErr))
	assert.Equal(t, el.ErrKindEval, evalErr.Kind)
	require.Len(t, evalErr.Errors, 1)
	assert.Equal(t, 2, evalErr.Errors[0].Line)
	assert.Equal(t, 4, evalErr.Errors[0].Col)
	assert.Contains(t, evalErr.AsJSON(), `"kind":"eval"`)
}

func TestDetails(t *testing.T) {
	t.Parallel()

	_, err := el.Parse("1 +", nil)
	details, ok := el.Details(err)
	require.True(t, ok)
	assert.Equal(t, el.ErrKindParse, details.Kind)
	assert.Equal(t, "1 +", details.Source)
	assert.Equal(t, []el.ErrInstance{{Line: 1, Col: 4, Msg: details.Errors[0].Msg}}, details.Errors)

	_, err = el.Parse("T(System).gc()", nil)
	details, ok = el.Details(err)
	require.True(t, ok)
	assert.Equal(t, el.ErrKindUnsafe, details.Kind)
	assert.JSONEq(t,
		`{"kind":"unsafe","source":"T(System).gc()","errors":[{"line":1,"col":11,"msg":"unsafe call to method 'gc' of type 'lang.System'"}]}`,
		details.AsJSON())

	_, ok = el.Details(errors.New("plain"))
	assert.False(t, ok)
}

func TestPrefixAndSuffix(t *testing.T) {
	t.Parallel()

	assert.True(t, el.HasPrefixAndSuffix("${a}"))
	assert.False(t, el.HasPrefixAndSuffix("${a"))
	assert.False(t, el.HasPrefixAndSuffix("a}"))
	assert.False(t, el.HasPrefixAndSuffix("$}"))

	assert.Equal(t, "a.b", el.RemovePrefixAndSuffix("${a.b}"))
	assert.Equal(t, "plain", el.RemovePrefixAndSuffix("plain"))
}

func TestCreateValueExpression(t *testing.T) {
	t.Parallel()

	vars := map[string]any{"port": 8080, "host": "localhost"}

	tests := []struct {
		value string
		want  any
	}{
		{"plain", "plain"},
		{"${port}", 8080},
		{"${host}:${port}", "localhost:8080"},
	}

	for _, tt := range tests {
		expr, err := el.CreateValueExpression(tt.value, nil)
		require.NoError(t, err)
		assert.Equal(t, tt.value, expr.Source())

		got, err := expr.Evaluate(eval.VarsContext(vars))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.value)
	}

	expr, err := el.TryCreateValueExpression("  ", nil)
	require.NoError(t, err)
	assert.Nil(t, expr)

	_, err = el.TryCreateValueExpression("${", nil)
	assert.ErrorIs(t, err, parser.ErrSyntax)
}

func TestTest(t *testing.T) {
	t.Parallel()

	assert.True(t, el.Test(true))
	assert.True(t, el.Test("true"))
	assert.True(t, el.Test("yes"))
	assert.True(t, el.Test(1))
	assert.False(t, el.Test("false"))
	assert.False(t, el.Test(""))
	assert.False(t, el.Test(0))
	assert.False(t, el.Test(nil))
}
