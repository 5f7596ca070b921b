// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"errors"
	"fmt"
)

// Sentinel errors for parse failures.
var (
	// ErrSyntax is returned for malformed expressions and templates.
	ErrSyntax = errors.New("syntax error")

	// ErrUnsafe is returned when an expression references a member denied
	// by the security policy.
	ErrUnsafe = errors.New("unsafe call")

	// ErrUnknownFunction is returned when a called function cannot be resolved.
	ErrUnknownFunction = errors.New("unknown function")

	// ErrUnknownType is returned when T(Name) does not resolve to a type.
	ErrUnknownType = errors.New("unknown type")
)

// Error is a parse failure with its position in the source.
type Error struct {
	Pos    int
	Reason string
	Source string

	kind  error
	cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("parse error at position %d in expression %q: %s", e.Pos, e.Source, e.Reason)
}

// Unwrap returns the error kind and the underlying cause, if any.
func (e *Error) Unwrap() []error {
	errs := []error{e.kind}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// SecurityError is returned when the policy denies a member referenced by
// the expression. It wraps the *Error describing the position.
type SecurityError struct {
	TypeName string
	Member   string

	err *Error
}

// Error implements the error interface.
func (e *SecurityError) Error() string {
	return e.err.Error()
}

// Unwrap returns the positioned parse error.
func (e *SecurityError) Unwrap() error {
	return e.err
}

func (p *parser) errorf(pos int, kind error, format string, args ...any) *Error {
	return &Error{
		Pos:    pos,
		Reason: fmt.Sprintf(format, args...),
		Source: p.source,
		kind:   kind,
	}
}

func (p *parser) unsafe(pos int, typeName, member, what string) error {
	reason := fmt.Sprintf("unsafe call to %s '%s'", what, member)
	if typeName != "" {
		reason += fmt.Sprintf(" of type '%s'", typeName)
	}
	return &SecurityError{
		TypeName: typeName,
		Member:   member,
		err: &Error{
			Pos:    pos,
			Reason: reason,
			Source: p.source,
			kind:   ErrUnsafe,
		},
	}
}
