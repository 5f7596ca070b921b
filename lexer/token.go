// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package lexer

import "fmt"

// Kind identifies the lexical class of a token.
type Kind int

// Token kinds.
const (
	EOF Kind = iota
	Ident
	Number
	String
	Operator
	Punct
)

var kindNames = map[Kind]string{
	EOF:      "end of input",
	Ident:    "identifier",
	Number:   "number",
	String:   "string",
	Operator: "operator",
	Punct:    "punctuation",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// NumberType is the subtype of a numeric literal.
type NumberType int

// Numeric literal subtypes.
const (
	NumberInt NumberType = iota
	NumberLong
	NumberFloat
	NumberDouble
)

func (n NumberType) String() string {
	switch n {
	case NumberInt:
		return "int"
	case NumberLong:
		return "long"
	case NumberFloat:
		return "float"
	case NumberDouble:
		return "double"
	}
	return "unknown"
}

// Token is a single lexical token.
type Token struct {
	Kind Kind
	// Text is the source text of the token. For strings and chars it is the
	// decoded content without quotes.
	Text string
	// Pos is the byte offset of the token in the source.
	Pos int

	// Value holds the decoded literal of Number tokens: int, int64,
	// float32 or float64.
	Value      any
	NumberType NumberType
	Radix      int
}

// Is reports whether the token is an operator or punctuation with the given text.
func (t Token) Is(text string) bool {
	return (t.Kind == Operator || t.Kind == Punct) && t.Text == text
}

// IsIdent reports whether the token is the identifier name.
func (t Token) IsIdent(name string) bool {
	return t.Kind == Ident && t.Text == name
}

func (t Token) String() string {
	if t.Kind == EOF {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Text)
}
