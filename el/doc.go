// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package el provides an embeddable expression language engine for binding
configuration values, template placeholders and runtime conditions to live
Go values.

The engine compiles expressions once, caches them by source and evaluates
them against a root object and a set of variables. Calls that the security
policy denies are rejected while compiling, so an unsafe expression never
produces an evaluable tree.

# Basic Usage

Create an engine, compile an expression and evaluate it:

	engine := el.NewEngine()

	expr, err := engine.Compile(`order.total > limit && order.status == 'open'`)
	if err != nil {
	    // handle compilation error
	}

	ctx := engine.NewEvalContext(nil, map[string]any{"order": order, "limit": 100})
	ok, err := expr.EvaluateBool(ctx)

# Templates

Templates mix literal text with ${...} placeholders. A template made of a
single placeholder evaluates to the placeholder's value; anything else
renders as a string:

	url, err := engine.Render("https://${host}:${port}/", server, nil)

Use \$ for a literal dollar sign.

# Functions and Types

Built-in functions (isEmpty, size, concat, str:format, msg) and static
types (T(Boolean), T(Strings), T(Math), T(System)) are registered on
DefaultContext. Register application functions on the engine's context:

	double, _ := ast.WrapFunc("math:double", func(n int64) int64 { return n * 2 })
	_ = engine.Context().RegisterFunction("math:double", double)

# Security

The default policy denies process level operations such as T(System).gc()
and T(System).exit(1). Compiling such an expression returns a
*parser.SecurityError whose message contains "unsafe":

	_, err := engine.Compile("T(System).gc()")
	errors.Is(err, parser.ErrUnsafe) // true

# Configuration

LoadConfigFromEnv reads the file named by TOOLHIVE_EL_CONFIG, or
toolhive-el/config.yaml from the XDG config directories:

	cfg, err := el.LoadConfigFromEnv(&env.OSReader{})
	engine, err := el.NewEngineFromConfig(cfg)

# Concurrency

Engine, CompiledExpression and CompiledComposite are safe for concurrent
use. Each evaluation needs its own eval.Context.
*/
package el
