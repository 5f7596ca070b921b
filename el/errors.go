// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package el

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/stacklok/toolhive-el/eval"
	"github.com/stacklok/toolhive-el/parser"
)

// Sentinel errors for engine operations.
var (
	// ErrExpressionTooLong is returned when an expression exceeds the
	// engine's maximum length.
	ErrExpressionTooLong = errors.New("expression exceeds maximum length")

	// ErrInvalidResult is returned when an expression returns an unexpected type.
	ErrInvalidResult = errors.New("expression returned invalid result type")
)

// ErrKind is a string identifying the stage an expression failed in.
type ErrKind string

const (
	// ErrKindParse indicates a syntax error.
	ErrKindParse ErrKind = "parse"
	// ErrKindUnsafe indicates an expression rejected by the security policy.
	ErrKindUnsafe ErrKind = "unsafe"
	// ErrKindEval indicates a failure while evaluating.
	ErrKindEval ErrKind = "eval"
)

// ErrInstance represents one occurrence of an error in an expression.
type ErrInstance struct {
	Line int    `json:"line,omitempty"`
	Col  int    `json:"col,omitempty"`
	Msg  string `json:"msg,omitempty"`
}

// ErrDetails contains structured error information for expressions.
type ErrDetails struct {
	Kind   ErrKind       `json:"kind,omitempty"`
	Errors []ErrInstance `json:"errors,omitempty"`
	Source string        `json:"source,omitempty"`
}

// AsJSON returns the ErrDetails as a JSON string.
func (ed *ErrDetails) AsJSON() string {
	edBytes, err := json.Marshal(ed)
	if err != nil {
		return fmt.Sprintf(`{"error": "failed to marshal JSON: %s"}`, err)
	}
	return string(edBytes)
}

// EvalError is an evaluation failure of a compiled expression, carrying
// the source and the line and column of the failing node.
type EvalError struct {
	ErrDetails
	original error
}

// Error implements the error interface for EvalError.
func (ee *EvalError) Error() string {
	return fmt.Sprintf("EL %s error in expression %q: %s", ErrKindEval, ee.Source, ee.original)
}

// Unwrap returns the underlying *eval.Error.
func (ee *EvalError) Unwrap() error {
	return ee.original
}

func newEvalError(source string, err error) error {
	var evalErr *eval.Error
	if !errors.As(err, &evalErr) {
		return err
	}
	line, col := lineCol(source, evalErr.Pos)
	return &EvalError{
		ErrDetails: ErrDetails{
			Kind:   ErrKindEval,
			Source: source,
			Errors: []ErrInstance{{Line: line, Col: col, Msg: evalErr.Err.Error()}},
		},
		original: err,
	}
}

// Details extracts structured details from errors returned by the engine.
// It reports false for errors that carry no position.
func Details(err error) (ErrDetails, bool) {
	var evalErr *EvalError
	if errors.As(err, &evalErr) {
		return evalErr.ErrDetails, true
	}

	var parseErr *parser.Error
	if !errors.As(err, &parseErr) {
		return ErrDetails{}, false
	}
	kind := ErrKindParse
	if errors.Is(err, parser.ErrUnsafe) {
		kind = ErrKindUnsafe
	}
	line, col := lineCol(parseErr.Source, parseErr.Pos)
	return ErrDetails{
		Kind:   kind,
		Source: parseErr.Source,
		Errors: []ErrInstance{{Line: line, Col: col, Msg: parseErr.Reason}},
	}, true
}

// lineCol converts a byte offset to a 1-based line and column.
func lineCol(source string, pos int) (int, int) {
	pos = min(max(pos, 0), len(source))
	before := source[:pos]
	line := strings.Count(before, "\n") + 1
	if i := strings.LastIndexByte(before, '\n'); i >= 0 {
		before = before[i+1:]
	}
	return line, utf8.RuneCountInString(before) + 1
}
