// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package convert implements the value coercion rules shared by the
// expression evaluator and the member resolver: numeric classification and
// widening, string and boolean conversion, truthiness, and conversion of
// dynamic values to a reflected Go type.
package convert
