// Copyright (c) 2025 The RealmGov developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"sync/atomic"
)

var root atomic.Pointer[logger]

func init() {
	root.Store(&logger{h: DiscardHandler()})
}

// SetDefault sets the process-wide logger. Loggers obtained from Root,
// New or WithContext before this call write to the new handler afterwards.
func SetDefault(l Logger) {
	if lg, ok := l.(*logger); ok && lg.h != nil {
		root.Store(lg)
		return
	}
	root.Store(&logger{h: l.Handler()})
}

// Root returns the root logger.
func Root() Logger {
	return root.Load()
}

// WithContext returns a logger writing to the process-wide handler with the
// given context attached. Meant for package-level logger variables.
func WithContext(ctx ...any) Logger {
	return (&logger{}).extend(ctx)
}

// New is an alias of WithContext.
func New(ctx ...any) Logger {
	return WithContext(ctx...)
}

// Trace is a convenience function for logging at LevelTrace via Root.
func Trace(msg string, ctx ...any) {
	Root().Trace(msg, ctx...)
}

// Debug is a convenience function for logging at LevelDebug via Root.
func Debug(msg string, ctx ...any) {
	Root().Debug(msg, ctx...)
}

// Info is a convenience function for logging at LevelInfo via Root.
func Info(msg string, ctx ...any) {
	Root().Info(msg, ctx...)
}

// Warn is a convenience function for logging at LevelWarn via Root.
func Warn(msg string, ctx ...any) {
	Root().Warn(msg, ctx...)
}

// Error is a convenience function for logging at LevelError via Root.
func Error(msg string, ctx ...any) {
	Root().Error(msg, ctx...)
}

// Crit is a convenience function for logging at LevelCrit via Root.
// It then exits the process.
func Crit(msg string, ctx ...any) {
	Root().Crit(msg, ctx...)
}
