package migrator

import (
	std "log"
)

// Logger is the logging interface used by a Runner. It is satisfied by *log.Logger.
type Logger interface {
	Fatalf(format string, v ...any)
	Printf(format string, v ...any)
}

// stdLogger is the default logger. It outputs to the standard library's default logger.
type stdLogger struct{}

var _ Logger = (*stdLogger)(nil)

func (*stdLogger) Fatalf(format string, v ...any) { std.Fatalf(format, v...) }
func (*stdLogger) Printf(format string, v ...any) { std.Printf(format, v...) }

// NopLogger returns a logger that discards all logged output.
func NopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

var _ Logger = (*nopLogger)(nil)

func (*nopLogger) Fatalf(format string, v ...any) {}
func (*nopLogger) Printf(format string, v ...any) {}
