// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package recovery

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_NoPanic(t *testing.T) {
	t.Parallel()

	called := false
	err := Do(func() error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
}

func TestDo_ReturnsError(t *testing.T) {
	t.Parallel()

	err := Do(func() error {
		return io.EOF
	})

	assert.ErrorIs(t, err, io.EOF)
	assert.NotErrorIs(t, err, ErrPanic)
}

func TestDo_RecoverFromPanic(t *testing.T) {
	t.Parallel()

	err := Do(func() error {
		panic("test panic")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPanic)
	assert.Contains(t, err.Error(), "test panic")

	var pe *PanicError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "test panic", pe.Value)
	assert.NotEmpty(t, pe.Stack)
}

func TestDo_PanicWithError(t *testing.T) {
	t.Parallel()

	err := Do(func() error {
		panic(io.ErrUnexpectedEOF)
	})

	assert.ErrorIs(t, err, ErrPanic)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
