// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package recovery converts panics raised by user supplied code into errors.
//
// Expressions call into registered functions and reflected methods that the
// engine does not control. A panic in one of them must surface as an
// evaluation error instead of crashing the embedding program.
//
// # Basic Usage
//
//	err := recovery.Do(func() error {
//		out = fn.Call(args)
//		return nil
//	})
//	var pe *recovery.PanicError
//	if errors.As(err, &pe) {
//		log.Printf("recovered %v", pe.Value)
//	}
//
// # Stability
//
// This package is Beta stability. The API may have minor changes before
// reaching stable status in v1.0.0.
package recovery
