// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package logging creates the [log/slog.Logger] used by the expression engine.

Loggers write JSON to stderr at INFO level with RFC3339 timestamps unless
configured otherwise:

	logger := logging.New(
		logging.WithFormat(logging.FormatText),
		logging.WithLevel(slog.LevelDebug),
	)

WithEnv applies TOOLHIVE_EL_LOG_LEVEL and TOOLHIVE_EL_LOG_FORMAT, which is
how el.NewEngine configures its default logger:

	logger := logging.New(logging.WithEnv(&env.OSReader{}))

Use [NewHandler] to wrap the handler with middleware, and [WithOutput] to
capture output in tests.
*/
package logging
