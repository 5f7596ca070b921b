// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package member

import "errors"

// Sentinel errors returned by the resolver.
var (
	// ErrNoSuchField is returned when a property or static field does not exist.
	ErrNoSuchField = errors.New("no such field")

	// ErrNoSuchMethod is returned when no method candidate accepts the arguments.
	ErrNoSuchMethod = errors.New("no such method")

	// ErrNilTarget is returned when a method is invoked on a nil value.
	ErrNilTarget = errors.New("method invoked on nil value")

	// ErrNotIndexable is returned when a value cannot be indexed.
	ErrNotIndexable = errors.New("value is not indexable")

	// ErrInvocation wraps an error returned or raised by an invoked method.
	ErrInvocation = errors.New("method invocation failed")
)
