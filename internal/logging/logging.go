// Package logging holds the logger shared by every sfgo package.
package logging

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

// Logger returns the sfgo logger instance.
// It uses a no-op logger until SetLogger is called.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return nop
}

var nop = zap.NewNop()

// SetLogger configures the sfgo logger. Passing nil restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		logger.Store(nil)
		return
	}
	logger.Store(l.Named("sfgo"))
}
