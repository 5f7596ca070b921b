// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package el

import (
	"fmt"
	"math"
	"os"
	"reflect"
	"runtime"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/stacklok/toolhive-el/ast"
	"github.com/stacklok/toolhive-el/convert"
	"github.com/stacklok/toolhive-el/member"
	"github.com/stacklok/toolhive-el/parser"
)

// LangNamespace is the namespace of the built-in types. It is imported by
// DefaultContext, so T(Boolean) resolves to lang.Boolean.
const LangNamespace = "lang"

var defaultContext = sync.OnceValue(func() *parser.Context {
	ctx := parser.NewContext(
		parser.WithTypes(member.NewRegistry(LangTypes()...)),
		parser.WithImports(LangNamespace),
	)
	for _, fn := range Functions() {
		if err := ctx.RegisterFunction(fn.Name, fn); err != nil {
			panic(fmt.Sprintf("registering built-in function %s: %v", fn.Name, err))
		}
	}
	return ctx
})

// DefaultContext returns the shared parse context holding the built-in
// types and functions. Register application functions on a child:
//
//	ctx := el.DefaultContext().NewChild()
//	_ = ctx.RegisterFunction("hash", hashFn)
func DefaultContext() *parser.Context {
	return defaultContext()
}

// LangTypes returns the built-in static types.
func LangTypes() []*member.Type {
	return []*member.Type{
		booleanType(),
		stringsType(),
		mathType(),
		systemType(),
	}
}

func booleanType() *member.Type {
	return member.NewType(LangNamespace+".Boolean").
		WithField("TRUE", true).
		WithField("FALSE", false).
		WithMethod("valueOf", func(v any) bool { return convert.TruthyString(v) }).
		WithMethod("parseBoolean", func(s string) bool { return strings.EqualFold(strings.TrimSpace(s), "true") }).
		AsFriendly()
}

func stringsType() *member.Type {
	return member.NewType(LangNamespace+".Strings").
		WithField("EMPTY", "").
		WithMethod("isEmpty", func(s string) bool { return s == "" }).
		WithMethod("isNotEmpty", func(s string) bool { return s != "" }).
		WithMethod("isBlank", func(s string) bool { return strings.TrimSpace(s) == "" }).
		WithMethod("trim", strings.TrimSpace).
		WithMethod("upper", strings.ToUpper).
		WithMethod("lower", strings.ToLower).
		WithMethod("capitalize", capitalize).
		WithMethod("contains", strings.Contains).
		WithMethod("startsWith", strings.HasPrefix).
		WithMethod("endsWith", strings.HasSuffix).
		WithMethod("replace", func(s, old, replacement string) string { return strings.ReplaceAll(s, old, replacement) }).
		WithMethod("repeat", strings.Repeat).
		WithMethod("split", func(s, sep string) []string { return strings.Split(s, sep) }).
		WithMethod("join", joinValues).
		WithMethod("length", utf8.RuneCountInString).
		WithMethod("defaultIfEmpty", func(s, def string) string {
			if s == "" {
				return def
			}
			return s
		}).
		AsFriendly()
}

func mathType() *member.Type {
	return member.NewType(LangNamespace+".Math").
		WithField("PI", math.Pi).
		WithField("E", math.E).
		WithMethod("abs", func(n int64) int64 {
			if n < 0 {
				return -n
			}
			return n
		}, math.Abs).
		WithMethod("max", func(a, b int64) int64 { return max(a, b) }, func(a, b float64) float64 { return math.Max(a, b) }).
		WithMethod("min", func(a, b int64) int64 { return min(a, b) }, func(a, b float64) float64 { return math.Min(a, b) }).
		WithMethod("floor", math.Floor).
		WithMethod("ceil", math.Ceil).
		WithMethod("round", func(f float64) int64 { return int64(math.Round(f)) }).
		WithMethod("sqrt", math.Sqrt).
		WithMethod("pow", math.Pow).
		AsFriendly()
}

// systemType exposes process-level operations. gc, exit, getenv and
// setenv are denied by the default policy.
func systemType() *member.Type {
	return member.NewType(LangNamespace+".System").
		WithField("lineSeparator", "\n").
		WithMethod("currentTimeMillis", func() int64 { return time.Now().UnixMilli() }).
		WithMethod("nanoTime", func() int64 { return time.Now().UnixNano() }).
		WithMethod("gc", runtime.GC).
		WithMethod("exit", os.Exit).
		WithMethod("getenv", os.Getenv).
		WithMethod("setenv", os.Setenv)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func joinValues(values any, sep string) (string, error) {
	rv := reflect.ValueOf(values)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return "", fmt.Errorf("%w: cannot join %T", convert.ErrConversion, values)
	}
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = convert.ToString(rv.Index(i).Interface())
	}
	return strings.Join(parts, sep), nil
}

// Functions returns the built-in functions.
func Functions() []*ast.Function {
	return []*ast.Function{
		ast.NewFunction("isEmpty", 1, func(_ ast.Env, args []any) (any, error) {
			return isEmpty(args[0]), nil
		}),
		ast.NewFunction("isNotEmpty", 1, func(_ ast.Env, args []any) (any, error) {
			return !isEmpty(args[0]), nil
		}),
		ast.NewFunction("size", 1, func(_ ast.Env, args []any) (any, error) {
			return size(args[0])
		}),
		ast.NewVariadicFunction("concat", 0, func(_ ast.Env, args []any) (any, error) {
			var b strings.Builder
			for _, a := range args {
				b.WriteString(convert.ToString(a))
			}
			return b.String(), nil
		}),
		ast.NewVariadicFunction("str:format", 1, func(_ ast.Env, args []any) (any, error) {
			return fmt.Sprintf(convert.ToString(args[0]), args[1:]...), nil
		}),
		ast.NewVariadicFunction("msg", 1, func(env ast.Env, args []any) (any, error) {
			key := convert.ToString(args[0])
			if m, ok := env.(messageRenderer); ok {
				return m.Message(key, args[1:]...), nil
			}
			return key, nil
		}),
	}
}

type messageRenderer interface {
	Message(key string, args ...any) string
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if convert.IsString(v) {
		return convert.ToString(v) == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

func size(v any) (int, error) {
	if v == nil {
		return 0, nil
	}
	if convert.IsString(v) {
		return utf8.RuneCountInString(convert.ToString(v)), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return rv.Len(), nil
	default:
		return 0, fmt.Errorf("%w: %T has no size", convert.ErrConversion, v)
	}
}
