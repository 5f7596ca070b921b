// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package eval

import (
	"errors"
	"fmt"

	"github.com/stacklok/toolhive-el/ast"
	"github.com/stacklok/toolhive-el/convert"
)

// Sentinel errors for evaluation failures.
var (
	// ErrUndefinedVariable is returned in strict mode for unresolved identifiers.
	ErrUndefinedVariable = errors.New("undefined variable")

	// ErrDivisionByZero is returned by integer and floating point division or
	// remainder by zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrNullDereference is returned when a method is called on nil.
	ErrNullDereference = errors.New("null dereference")

	// ErrNotComparable is returned when relational operands have no ordering.
	ErrNotComparable = errors.New("values not comparable")

	// ErrConversion is returned when an operand cannot be coerced.
	ErrConversion = convert.ErrConversion
)

// Error is an evaluation failure at a node of the expression.
type Error struct {
	Node ast.Node
	Pos  int
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("evaluation error at position %d in %q: %s", e.Pos, ast.String(e.Node), e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// fail attaches node to err unless err already carries a position.
func fail(node ast.Node, err error) error {
	var evalErr *Error
	if errors.As(err, &evalErr) {
		return err
	}
	return &Error{Node: node, Pos: node.Pos(), Err: err}
}
