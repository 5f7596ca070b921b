// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"errors"
	"strings"

	"github.com/stacklok/toolhive-el/ast"
)

// ParseComposite parses a template of literal text and ${...} expressions.
// "\$" produces a literal '$', so "\${" is not a placeholder. The closing
// brace of a placeholder is the first '}' outside a quoted string.
func ParseComposite(source string, ctx *Context) (*ast.CompositeTemplate, error) {
	if ctx == nil {
		ctx = NewContext()
	}
	p := &parser{source: source, ctx: ctx}

	var (
		segments []ast.Segment
		text     strings.Builder
	)
	flush := func() {
		if text.Len() > 0 {
			segments = append(segments, ast.Segment{Text: text.String()})
			text.Reset()
		}
	}

	for i := 0; i < len(source); {
		switch {
		case strings.HasPrefix(source[i:], `\$`):
			text.WriteByte('$')
			i += 2
		case strings.HasPrefix(source[i:], "${"):
			end := closingBrace(source, i+2)
			if end < 0 {
				return nil, p.errorf(i, ErrSyntax, "unclosed placeholder, missing '}'")
			}
			node, err := parseEmbedded(source, i+2, end, ctx)
			if err != nil {
				return nil, err
			}
			flush()
			segments = append(segments, ast.Segment{Expr: node})
			i = end + 1
		default:
			text.WriteByte(source[i])
			i++
		}
	}
	flush()

	return &ast.CompositeTemplate{Segments: segments}, nil
}

// closingBrace returns the index of the '}' closing a placeholder whose
// body starts at start, or -1.
func closingBrace(source string, start int) int {
	var quote byte
	for i := start; i < len(source); i++ {
		c := source[i]
		switch {
		case quote != 0 && c == '\\':
			i++
		case quote != 0 && c == quote:
			quote = 0
		case quote != 0:
		case c == '\'' || c == '"':
			quote = c
		case c == '}':
			return i
		}
	}
	return -1
}

// parseEmbedded parses source[start:end] and reports errors relative to the
// whole template.
func parseEmbedded(source string, start, end int, ctx *Context) (ast.Node, error) {
	node, err := Parse(source[start:end], ctx)
	if err == nil {
		return node, nil
	}

	var secErr *SecurityError
	if errors.As(err, &secErr) {
		secErr.err.Pos += start
		secErr.err.Source = source
		return nil, secErr
	}
	var parseErr *Error
	if errors.As(err, &parseErr) {
		parseErr.Pos += start
		parseErr.Source = source
		return nil, parseErr
	}
	return nil, err
}
