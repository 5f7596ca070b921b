// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package el_test

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/toolhive-el/ast"
	"github.com/stacklok/toolhive-el/el"
	"github.com/stacklok/toolhive-el/eval"
	"github.com/stacklok/toolhive-el/logging"
	"github.com/stacklok/toolhive-el/parser"
	"github.com/stacklok/toolhive-el/policy"
)

func discardLogger() *slog.Logger {
	return logging.New(logging.WithOutput(io.Discard))
}

// newTestEngine creates an engine logging to buf at debug level.
func newTestEngine(buf *bytes.Buffer, opts ...el.Option) *el.Engine {
	logger := logging.New(logging.WithOutput(buf), logging.WithLevel(slog.LevelDebug))
	return el.NewEngine(append([]el.Option{el.WithLogger(logger)}, opts...)...)
}

func TestNewEngine(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	engine := newTestEngine(&buf)
	require.NotNil(t, engine)

	expr, err := engine.Compile(`claims["sub"] == "user123"`)
	require.NoError(t, err)

	ok, err := expr.EvaluateBool(engine.NewEvalContext(nil, map[string]any{
		"claims": map[string]any{"sub": "user123"},
	}))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEngine_CompileCaches(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	engine := newTestEngine(&buf)

	first, err := engine.Compile("a + 1")
	require.NoError(t, err)
	second, err := engine.Compile("a + 1")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, strings.Count(buf.String(), "compiling expression"))

	engine.ClearCache()
	third, err := engine.Compile("a + 1")
	require.NoError(t, err)
	assert.NotSame(t, first, third)

	tmpl1, err := engine.CompileComposite("x${a}")
	require.NoError(t, err)
	tmpl2, err := engine.CompileComposite("x${a}")
	require.NoError(t, err)
	assert.Same(t, tmpl1, tmpl2)
}

func TestEngine_CacheEviction(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	engine := newTestEngine(&buf, el.WithCacheSize(1))

	first, err := engine.Compile("1")
	require.NoError(t, err)
	_, err = engine.Compile("2")
	require.NoError(t, err)
	again, err := engine.Compile("1")
	require.NoError(t, err)
	assert.NotSame(t, first, again)
}

func TestEngine_MaxExpressionLength(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	engine := newTestEngine(&buf, el.WithMaxExpressionLength(10))

	_, err := engine.Compile("a + b + c + d")
	assert.ErrorIs(t, err, el.ErrExpressionTooLong)

	err = engine.Check("a + b + c + d")
	assert.ErrorIs(t, err, el.ErrExpressionTooLong)

	_, err = engine.CompileComposite("${a}${b}${c}")
	assert.ErrorIs(t, err, el.ErrExpressionTooLong)

	_, err = engine.Compile("a + b")
	assert.NoError(t, err)
}

func TestEngine_LogsUnsafeExpressions(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	engine := newTestEngine(&buf)

	_, err := engine.Compile("T(System).gc()")
	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrUnsafe)

	out := buf.String()
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, "rejected unsafe expression")
	assert.Contains(t, out, `"member":"gc"`)
	assert.Contains(t, out, `"type":"lang.System"`)
}

func TestEngine_Policy(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	permissive := newTestEngine(&buf, el.WithPolicy(policy.BuiltinNonePolicy()))
	assert.NoError(t, permissive.Check("T(System).gc()"))

	strict := newTestEngine(&buf, el.WithPolicy(policy.BuiltinStrictPolicy()))
	err := strict.Check("T(System).currentTimeMillis()")
	assert.ErrorIs(t, err, parser.ErrUnsafe)
	assert.NoError(t, strict.Check("T(Math).max(1, 2)"))
}

func TestEngine_SetPolicy(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	engine := newTestEngine(&buf)

	_, err := engine.Compile("T(System).currentTimeMillis()")
	require.NoError(t, err)
	_, err = engine.CompileComposite("now: ${T(System).nanoTime()}")
	require.NoError(t, err)

	engine.SetPolicy(policy.BuiltinStrictPolicy())

	_, err = engine.Compile("T(System).currentTimeMillis()")
	assert.ErrorIs(t, err, parser.ErrUnsafe)
	_, err = engine.CompileComposite("now: ${T(System).nanoTime()}")
	assert.ErrorIs(t, err, parser.ErrUnsafe)
	assert.Contains(t, buf.String(), "security policy changed")
}

func TestEngine_Check(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	engine := newTestEngine(&buf)

	tests := []struct {
		name    string
		expr    string
		wantErr error
	}{
		{"valid", "a.b == 'c'", nil},
		{"syntax", "a ==", parser.ErrSyntax},
		{"unknown function", "nope()", parser.ErrUnknownFunction},
		{"unknown type", "T(Nope).x", parser.ErrUnknownType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := engine.Check(tt.expr)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.NoError(t, engine.CheckComposite("a ${b} c"))
	assert.ErrorIs(t, engine.CheckComposite("a ${b"), parser.ErrSyntax)
}

func TestEngine_EvaluateAndRender(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	engine := newTestEngine(&buf)

	type server struct {
		Host string
		Port int
	}
	root := &server{Host: "example.com", Port: 443}

	v, err := engine.Evaluate("port + 1", root, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(444), v)

	s, err := engine.Render("https://${host}:${port}/${path}", root, map[string]any{"path": "api"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com:443/api", s)

	s, err = engine.Render("${port}", root, nil)
	require.NoError(t, err)
	assert.Equal(t, "443", s)

	_, err = engine.Render("${1 / 0}", nil, nil)
	assert.ErrorIs(t, err, eval.ErrDivisionByZero)
}

func TestEngine_Strict(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	engine := newTestEngine(&buf, el.WithStrict(true))

	_, err := engine.Evaluate("missing + 1", nil, nil)
	assert.ErrorIs(t, err, eval.ErrUndefinedVariable)

	lenient := newTestEngine(&buf)
	v, err := lenient.Evaluate("missing + 1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestEngine_RegisteredFunctions(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	engine := newTestEngine(&buf, el.WithMessages(eval.MessageMap{"greeting": "hi %s"}))

	double, err := ast.WrapFunc("math:double", func(n int64) int64 { return n * 2 })
	require.NoError(t, err)
	require.NoError(t, engine.Context().RegisterFunction("math:double", double))

	v, err := engine.Evaluate("math:double(21)", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	v, err = engine.Evaluate("msg('greeting', name)", nil, map[string]any{"name": "Sam"})
	require.NoError(t, err)
	assert.Equal(t, "hi Sam", v)

	// Functions registered on one engine are not visible to another.
	other := newTestEngine(&buf)
	assert.ErrorIs(t, other.Check("math:double(1)"), parser.ErrUnknownFunction)
}

func TestEngine_ConcurrentEvaluation(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	engine := newTestEngine(&buf)

	var wg sync.WaitGroup
	results := make([]any, 32)
	errs := make([]error, 32)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = engine.Evaluate("n * 2 + offset", nil, map[string]any{"n": i, "offset": 1})
		}()
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, int64(i*2+1), results[i])
	}
}
