// Copyright (c) 2026 The AvN Project developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log adapts the go-ethereum structured logger for module use.
package log

import (
	"io"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Logger is the structured logger interface.
type Logger = ethlog.Logger

// WithContext returns the root logger extended with the given context pairs.
// Modules use it to tag their log lines with a stable "pkg" field.
func WithContext(ctx ...any) Logger {
	return ethlog.Root().New(ctx...)
}

// Root returns the root logger.
func Root() Logger {
	return ethlog.Root()
}

// SetDefault sets l as the root logger.
func SetDefault(l Logger) {
	ethlog.SetDefault(l)
}

// NewTerminalLogger returns a human readable logger writing to w at the given level.
func NewTerminalLogger(w io.Writer, level slog.Level, useColor bool) Logger {
	return ethlog.NewLogger(ethlog.NewTerminalHandlerWithLevel(w, level, useColor))
}

// Discard returns a logger that drops everything.
func Discard() Logger {
	return ethlog.NewLogger(ethlog.DiscardHandler())
}

// Convenience root level helpers.
func Debug(msg string, ctx ...any) { ethlog.Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { ethlog.Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { ethlog.Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { ethlog.Error(msg, ctx...) }
