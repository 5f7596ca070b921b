// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package eval walks expression trees produced by the parser package and
computes their values.

Evaluation is stateless: a tree can be evaluated any number of times and
from any number of goroutines, each with its own Context. A Context
carries the root object, a variable map and a parent context that lookups
fall back to.

	ctx := eval.NewContext(order, map[string]any{"limit": 10})
	v, err := eval.Evaluate(node, ctx)

Values follow the language's loose typing. Strings and numbers mix under
arithmetic, missing variables read as nil, and nil operands of arithmetic
act as integer zero. Failures are returned as *Error, which records the
node and position where evaluation stopped.
*/
package eval
