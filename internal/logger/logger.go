// Package logger provides a minimal stderr logger gated by a verbose flag.
package logger

import (
	"log"
	"os"
	"sync/atomic"
)

var verbose atomic.Bool

var stderr = log.New(os.Stderr, "", log.LstdFlags)

// SetVerbose enables or disables debug output.
func SetVerbose(v bool) {
	verbose.Store(v)
}

// Verbose reports whether debug output is enabled.
func Verbose() bool {
	return verbose.Load()
}

// Debugf logs a debug message when verbose mode is enabled.
func Debugf(format string, args ...any) {
	if verbose.Load() {
		stderr.Printf("DEBUG "+format, args...)
	}
}

// Warnf logs a warning message.
func Warnf(format string, args ...any) {
	stderr.Printf("WARN "+format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...any) {
	stderr.Printf("ERROR "+format, args...)
}
