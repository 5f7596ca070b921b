// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package recovery

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// ErrPanic is matched by every error produced from a recovered panic.
var ErrPanic = errors.New("recovered from panic")

// PanicError carries the recovered panic value and the stack at the point
// of the panic.
type PanicError struct {
	Value any
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("%s: %v", ErrPanic, e.Value)
}

// Unwrap returns ErrPanic, or the panic value itself when it is an error.
func (e *PanicError) Unwrap() []error {
	if err, ok := e.Value.(error); ok {
		return []error{ErrPanic, err}
	}
	return []error{ErrPanic}
}

// Do runs fn and returns its error. A panic inside fn is recovered and
// returned as a *PanicError.
func Do(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}
