// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package lexer

import "fmt"

// Error is returned when the source contains a malformed token.
type Error struct {
	Pos    int
	Reason string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("lex error at position %d: %s", e.Pos, e.Reason)
}

func newError(pos int, format string, args ...any) *Error {
	return &Error{Pos: pos, Reason: fmt.Sprintf(format, args...)}
}
