// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package parser builds syntax trees from expression source text.

[Parse] handles a single expression and [ParseComposite] handles templates
mixing literal text with ${...} placeholders. Both resolve function names
and T(Name) type references through a [Context], and both consult the
context's security policy so that a tree calling a denied member is never
built:

	ctx := parser.NewContext(parser.WithTypes(types), parser.WithImports("lang"))
	_, err := parser.Parse("T(System).gc()", ctx)
	// err is a *parser.SecurityError: ... unsafe call to method 'gc' of type 'lang.System'

# Grammar

Operators from lowest to highest precedence:

	?:                     conditional
	|| or                  logical or
	&& and                 logical and
	== != eq ne            equality
	< <= > >= lt le gt ge  relational
	+ -                    additive
	* / % div mod          multiplicative
	! not - +              unary

Postfix forms are property access (a.b), indexing (a[i]) and method calls
(a.m(x)). Functions are called as name(args) or prefix:name(args).

# Errors

Failures are *Error values carrying the byte position and the source.
Use errors.Is with [ErrSyntax], [ErrUnsafe], [ErrUnknownFunction] or
[ErrUnknownType] to classify them.
*/
package parser
