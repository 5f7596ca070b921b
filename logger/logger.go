// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package logger configures the zap logger used by the elctl command line
// tool, either as colored console output or as production JSON.
package logger

import (
	"strconv"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/stacklok/toolhive-el/env"
)

// UnstructuredLogsEnvVar selects console output when true or unset.
const UnstructuredLogsEnvVar = "UNSTRUCTURED_LOGS"

// DebugProvider reports whether debug logging is enabled.
type DebugProvider interface {
	IsDebug() bool
}

// DebugFlag is a DebugProvider backed by a command line flag.
type DebugFlag bool

// IsDebug implements DebugProvider.
func (d DebugFlag) IsDebug() bool {
	return bool(d)
}

// Config returns the zap configuration selected by the environment and
// debug provider.
func Config(envReader env.Reader, debugProvider DebugProvider) zap.Config {
	var config zap.Config
	if unstructuredLogsWithEnv(envReader) {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.Kitchen)
		config.OutputPaths = []string{"stderr"}
		config.DisableStacktrace = true
		config.DisableCaller = true
	} else {
		config = zap.NewProductionConfig()
		// stdout carries evaluation results
		config.OutputPaths = []string{"stderr"}
	}

	if debugProvider != nil && debugProvider.IsDebug() {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return config
}

// Initialize builds the logger described by Config and installs it as the
// zap global logger.
func Initialize(envReader env.Reader, debugProvider DebugProvider) error {
	l, err := Config(envReader, debugProvider).Build()
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(l)
	return nil
}

// Debugw logs a message at debug level using the global logger.
func Debugw(msg string, keysAndValues ...any) {
	zap.S().Debugw(msg, keysAndValues...)
}

// Infow logs a message at info level using the global logger.
func Infow(msg string, keysAndValues ...any) {
	zap.S().Infow(msg, keysAndValues...)
}

// Warnw logs a message at warning level using the global logger.
func Warnw(msg string, keysAndValues ...any) {
	zap.S().Warnw(msg, keysAndValues...)
}

// Errorw logs a message at error level using the global logger.
func Errorw(msg string, keysAndValues ...any) {
	zap.S().Errorw(msg, keysAndValues...)
}

// NewLogr returns a logr.Logger backed by the global zap logger.
func NewLogr() logr.Logger {
	return zapr.NewLogger(zap.L())
}

// Sync flushes the global logger. Errors from syncing a terminal are
// ignored.
func Sync() {
	_ = zap.L().Sync()
}

func unstructuredLogsWithEnv(envReader env.Reader) bool {
	unstructuredLogs, err := strconv.ParseBool(envReader.Getenv(UnstructuredLogsEnvVar))
	if err != nil {
		// unset or unparsable
		return true
	}
	return unstructuredLogs
}
