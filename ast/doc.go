// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package ast defines the immutable syntax tree produced by the parser and
// walked by the evaluator. Nodes never change after construction, so a
// parsed tree may be shared and evaluated from many goroutines.
package ast
