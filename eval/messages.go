// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package eval

import "fmt"

// Messages resolves message keys to display text.
type Messages interface {
	// Message renders the message registered under key with args. It
	// reports false when key is unknown.
	Message(key string, args ...any) (string, bool)
}

// MessageMap is a Messages backed by fmt format strings.
type MessageMap map[string]string

// Message implements Messages.
func (m MessageMap) Message(key string, args ...any) (string, bool) {
	format, ok := m[key]
	if !ok {
		return "", false
	}
	if len(args) == 0 {
		return format, true
	}
	return fmt.Sprintf(format, args...), true
}
