package logging

import "context"

type noopLogger struct{}

// Noop returns a logger that discards everything.
func Noop() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(context.Context, string, ...any) {}
func (noopLogger) Info(context.Context, string, ...any)  {}
func (noopLogger) Warn(context.Context, string, ...any)  {}
func (noopLogger) Error(context.Context, string, ...any) {}
func (noopLogger) With(...any) Logger                    { return noopLogger{} }
