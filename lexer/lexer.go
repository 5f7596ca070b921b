// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package lexer

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const eof rune = -1

// operators are matched longest first.
var operators = []string{
	"==", "!=", "<=", ">=", "&&", "||", "<<", ">>",
	"<", ">", "&", "|", "^", "+", "-", "*", "/", "%", "!", "?", ":",
}

const punctuation = "()[],."

// Lexer scans expression source text into tokens.
type Lexer struct {
	input string
	pos   int
	start int
	width int
}

// New creates a lexer for the given source.
func New(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize scans the whole source and returns its tokens, terminated by an
// EOF token.
func Tokenize(input string) ([]Token, error) {
	l := New(input)
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			return tokens, nil
		}
	}
}

// Next returns the next token from the input.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()
	l.start = l.pos

	r := l.nextRune()
	switch {
	case r == eof:
		return Token{Kind: EOF, Pos: l.pos}, nil
	case r == '\'' || r == '"':
		return l.lexString(r)
	case isDigit(r):
		l.backup()
		return l.lexNumber()
	case isIdentStart(r):
		l.acceptAll(isIdentPart)
		return l.newToken(Ident, l.input[l.start:l.pos]), nil
	case strings.ContainsRune(punctuation, r):
		return l.newToken(Punct, string(r)), nil
	}

	l.backup()
	for _, op := range operators {
		if strings.HasPrefix(l.input[l.pos:], op) {
			l.pos += len(op)
			return l.newToken(Operator, op), nil
		}
	}

	return Token{}, newError(l.start, "unexpected character %q", r)
}

func (l *Lexer) newToken(kind Kind, text string) Token {
	return Token{Kind: kind, Text: text, Pos: l.start}
}

func (l *Lexer) nextRune() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += w
	return r
}

func (l *Lexer) backup() {
	l.pos -= l.width
}

func (l *Lexer) peek() rune {
	r := l.nextRune()
	l.backup()
	return r
}

// peekAt returns the rune n bytes past the current position without
// consuming anything. Only used for ASCII lookahead.
func (l *Lexer) peekAt(n int) rune {
	if l.pos+n >= len(l.input) {
		return eof
	}
	return rune(l.input[l.pos+n])
}

func (l *Lexer) accept(chars string) bool {
	if strings.ContainsRune(chars, l.nextRune()) {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptAll(isValid func(rune) bool) int {
	n := 0
	for isValid(l.nextRune()) {
		n++
	}
	l.backup()
	return n
}

func (l *Lexer) skipWhitespace() {
	l.acceptAll(unicode.IsSpace)
}

func (l *Lexer) lexString(quote rune) (Token, error) {
	var b strings.Builder
	for {
		r := l.nextRune()
		switch r {
		case eof:
			return Token{}, newError(l.start, "unterminated string literal")
		case quote:
			return l.newToken(String, b.String()), nil
		case '\\':
			decoded, err := l.lexEscape()
			if err != nil {
				return Token{}, err
			}
			b.WriteString(decoded)
		default:
			b.WriteRune(r)
		}
	}
}

var simpleEscapes = map[rune]string{
	'"':  "\"",
	'\\': "\\",
	'/':  "/",
	'\'': "'",
	'b':  "\b",
	'f':  "\f",
	'F':  "\f",
	'n':  "\n",
	'r':  "\r",
	't':  "\t",
}

// lexEscape decodes the escape sequence following a backslash.
func (l *Lexer) lexEscape() (string, error) {
	escPos := l.pos - 1
	r := l.nextRune()
	if s, ok := simpleEscapes[r]; ok {
		return s, nil
	}

	switch {
	case r == 'u':
		if l.pos+4 > len(l.input) {
			return "", newError(escPos, "invalid unicode escape")
		}
		hex := l.input[l.pos : l.pos+4]
		v, err := strconv.ParseUint(hex, 16, 16)
		if err != nil {
			return "", newError(escPos, "invalid unicode escape \\u%s", hex)
		}
		l.pos += 4
		return string(rune(v)), nil
	case isOctal(r):
		// \ZeroToThree OctalDigit OctalDigit, \OctalDigit OctalDigit, \OctalDigit
		maxDigits := 2
		if r <= '3' {
			maxDigits = 3
		}
		digits := string(r)
		for len(digits) < maxDigits && isOctal(l.peek()) {
			digits += string(l.nextRune())
		}
		v, _ := strconv.ParseUint(digits, 8, 16)
		return string(rune(v)), nil
	case r == eof:
		return "", newError(escPos, "unterminated string literal")
	}
	return "", newError(escPos, "invalid escape character %q", r)
}

func (l *Lexer) lexNumber() (Token, error) {
	if l.peekAt(0) == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') {
		return l.lexHex()
	}

	l.acceptAll(isDigit)
	isFloat := false

	if l.peek() == '.' && l.dotStartsFraction() {
		l.nextRune()
		l.acceptAll(isDigit)
		isFloat = true
	}

	if c := l.peek(); c == 'e' || c == 'E' {
		l.nextRune()
		l.accept("+-")
		if l.acceptAll(isDigit) == 0 {
			return Token{}, newError(l.start, "malformed exponent in %q", l.input[l.start:l.pos])
		}
		isFloat = true
	}

	text := l.input[l.start:l.pos]
	numType := NumberInt
	if isFloat {
		numType = NumberDouble
	}

	switch l.peek() {
	case 'f', 'F':
		l.nextRune()
		numType = NumberFloat
	case 'd', 'D':
		l.nextRune()
		numType = NumberDouble
	case 'l', 'L':
		if isFloat {
			return Token{}, newError(l.start, "malformed number %q", l.input[l.start:l.pos+1])
		}
		l.nextRune()
		numType = NumberLong
	}

	if isIdentPart(l.peek()) {
		return Token{}, newError(l.start, "malformed number %q", l.input[l.start:l.pos+1])
	}

	tok := l.newToken(Number, l.input[l.start:l.pos])
	tok.Radix = 10
	tok.NumberType = numType

	switch numType {
	case NumberFloat:
		v, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return Token{}, newError(l.start, "malformed number %q", tok.Text)
		}
		tok.Value = float32(v)
	case NumberDouble:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Token{}, newError(l.start, "malformed number %q", tok.Text)
		}
		tok.Value = v
	default:
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Token{}, newError(l.start, "number %q out of range", tok.Text)
		}
		if numType == NumberInt && v >= math.MinInt32 && v <= math.MaxInt32 {
			tok.Value = int(v)
		} else {
			tok.NumberType = NumberLong
			tok.Value = v
		}
	}
	return tok, nil
}

// dotStartsFraction reports whether the '.' at the current position belongs
// to the number rather than starting a member access.
func (l *Lexer) dotStartsFraction() bool {
	next := l.peekAt(1)
	switch {
	case isDigit(next):
		return true
	case strings.ContainsRune("eEfFdD", next):
		return !isIdentPart(l.peekAt(2))
	case isIdentStart(next):
		return false
	}
	return true
}

func (l *Lexer) lexHex() (Token, error) {
	l.pos += 2
	if l.acceptAll(isHexDigit) == 0 {
		return Token{}, newError(l.start, "malformed hex literal %q", l.input[l.start:l.pos])
	}
	digits := l.input[l.start+2 : l.pos]
	long := l.accept("lL")
	if isIdentPart(l.peek()) {
		return Token{}, newError(l.start, "malformed hex literal %q", l.input[l.start:l.pos+1])
	}

	v, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return Token{}, newError(l.start, "hex literal %q out of range", l.input[l.start:l.pos])
	}

	tok := l.newToken(Number, l.input[l.start:l.pos])
	tok.Radix = 16
	// Unsuffixed hex literals are 32-bit patterns, so 0xFFFFFFFF is -1.
	if !long && v <= math.MaxUint32 {
		tok.NumberType = NumberInt
		tok.Value = int(int32(uint32(v))) //nolint:gosec // literal is a raw 32-bit pattern
	} else {
		tok.NumberType = NumberLong
		tok.Value = int64(v) //nolint:gosec // literal is a raw 64-bit pattern
	}
	return tok, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isOctal(r rune) bool {
	return r >= '0' && r <= '7'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '$' || r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
