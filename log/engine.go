/*
 * Copyright (c) 2018 The learn-blockchain developers
 */

package log

import (
	"io"

	elog "github.com/ethereum/go-ethereum/log"
)

// The handler and formatter machinery comes from go-ethereum's log15 fork.
// This file pins the names the rest of the repository uses so callers never
// import the engine directly.

// Logger writes key/value pairs to a Handler.
type Logger = elog.Logger

// Ctx is a map of key/value pairs to pass as context to a log function.
type Ctx = elog.Ctx

// Lvl is a log level.
type Lvl = elog.Lvl

// Handler defines where and how log records are written.
type Handler = elog.Handler

// GlogHandler is a log handler that mimics the filtering features of Google's
// glog logger: setting global log levels and per-module verbosity.
type GlogHandler = elog.GlogHandler

// Log levels, most to least critical.
const (
	LvlCrit  = elog.LvlCrit
	LvlError = elog.LvlError
	LvlWarn  = elog.LvlWarn
	LvlInfo  = elog.LvlInfo
	LvlDebug = elog.LvlDebug
	LvlTrace = elog.LvlTrace
)

// New returns a new logger with the given context.
func New(ctx ...interface{}) Logger {
	return elog.New(ctx...)
}

// Root returns the root logger all other loggers descend from.
func Root() Logger {
	return elog.Root()
}

// NewGlogHandler creates a new log handler with filtering functionality
// similar to Google's glog logger.  The returned handler implements Handler.
func NewGlogHandler(h Handler) *GlogHandler {
	return elog.NewGlogHandler(h)
}

// StreamHandler writes log records to an io.Writer with the given format.
func StreamHandler(wr io.Writer, fmtr elog.Format) Handler {
	return elog.StreamHandler(wr, fmtr)
}

// TerminalFormat formats log records optimized for human readability on a
// terminal with color-coded level output.
func TerminalFormat(usecolor bool) elog.Format {
	return elog.TerminalFormat(usecolor)
}

// LvlFromString returns the appropriate Lvl from a string name.
// Useful for parsing command line args and configuration files.
func LvlFromString(lvlString string) (Lvl, error) {
	return elog.LvlFromString(lvlString)
}

// PrintOrigins sets or unsets log location (file:line) printing for terminal
// format output.
func PrintOrigins(print bool) {
	elog.PrintOrigins(print)
}

// Trace is a convenience alias for Root().Trace.
func Trace(msg string, ctx ...interface{}) {
	elog.Trace(msg, ctx...)
}

// Debug is a convenience alias for Root().Debug.
func Debug(msg string, ctx ...interface{}) {
	elog.Debug(msg, ctx...)
}

// Info is a convenience alias for Root().Info.
func Info(msg string, ctx ...interface{}) {
	elog.Info(msg, ctx...)
}

// Warn is a convenience alias for Root().Warn.
func Warn(msg string, ctx ...interface{}) {
	elog.Warn(msg, ctx...)
}

// Error is a convenience alias for Root().Error.
func Error(msg string, ctx ...interface{}) {
	elog.Error(msg, ctx...)
}

// Crit is a convenience alias for Root().Crit.  It logs and then exits the
// program with status 1.
func Crit(msg string, ctx ...interface{}) {
	elog.Crit(msg, ctx...)
}
