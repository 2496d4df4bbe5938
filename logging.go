package keepalive

import (
	"io"
	"os"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the structured logger type used throughout this package: the
// five syslog-style levels SPEC_FULL.md §6 names (trace/debug/info/
// warning/error) plus a few unused ones, backed by stumpy's JSON encoder.
type Logger = *logiface.Logger[*stumpy.Event]

// NewLogger builds a Logger writing leveled JSON lines to w. If w is nil,
// os.Stderr is used.
func NewLogger(w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}
	return stumpy.L.New(
		stumpy.L.WithStumpy(),
		stumpy.L.WithWriter(w),
		stumpy.L.WithLevel(logiface.LevelTrace),
	)
}

// defaultLogger is used by every Worker that does not override its logger
// via WithLogger.
var defaultLogger = NewLogger(nil)

// SetDefaultLogger replaces the package-wide default logger, affecting any
// Worker subsequently constructed without an explicit WithLogger option.
func SetDefaultLogger(l Logger) {
	if l == nil {
		l = NewLogger(nil)
	}
	defaultLogger = l
}
