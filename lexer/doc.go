// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package lexer turns expression source text into a flat sequence of tokens.

The lexer understands identifiers (which may start with '$' or '_'),
single and double quoted strings, numeric literals
and the operator and punctuation set of the expression language.

# Numeric literals

Decimal integers become int when they fit in 32 bits and int64 otherwise.
A decimal point or exponent produces a float64. Suffixes select the type
explicitly:

	10     int
	10L    int64
	1e1f   float32
	2.     float64
	1e-9d  float64
	0x0A   int
	0x400921FB54442D18L  int64 (raw bit pattern)

# Escapes

String literals accept the usual backslash escapes (\n \t \r \b \f \\ \'
\" \/), four-digit unicode escapes (\uFFFF) and octal escapes (\7, \77,
\377). A leading octal digit of 4 to 7 consumes at most two digits, so
'\777' decodes to "?7".

# Usage

	tokens, err := lexer.Tokenize("a[index + 1]")
	if err != nil {
		var lexErr *lexer.Error
		if errors.As(err, &lexErr) {
			fmt.Println(lexErr.Pos, lexErr.Reason)
		}
	}
*/
package lexer
