package logging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sirupsen/logrus"
)

// NewLogrus adapts a logrus logger. Passing nil uses logrus.StandardLogger().
// Key/value args become logrus fields; a trailing key without a value is
// recorded under "!BADKEY" the way slog does.
func NewLogrus(logger *logrus.Logger) Logger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &logrusLogger{entry: logrus.NewEntry(logger)}
}

type logrusLogger struct {
	entry *logrus.Entry
}

func (l *logrusLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.with(ctx, args).Debug(msg)
}

func (l *logrusLogger) Info(ctx context.Context, msg string, args ...any) {
	l.with(ctx, args).Info(msg)
}

func (l *logrusLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.with(ctx, args).Warn(msg)
}

func (l *logrusLogger) Error(ctx context.Context, msg string, args ...any) {
	l.with(ctx, args).Error(msg)
}

func (l *logrusLogger) With(args ...any) Logger {
	return &logrusLogger{entry: l.entry.WithFields(fields(args))}
}

func (l *logrusLogger) with(ctx context.Context, args []any) *logrus.Entry {
	e := l.entry
	if ctx != nil {
		e = e.WithContext(ctx)
	}
	if len(args) == 0 {
		return e
	}
	return e.WithFields(fields(args))
}

func fields(args []any) logrus.Fields {
	f := make(logrus.Fields, len(args)/2+1)
	for len(args) > 0 {
		switch k := args[0].(type) {
		case slog.Attr:
			f[k.Key] = k.Value.Any()
			args = args[1:]
		case string:
			if len(args) == 1 {
				f["!BADKEY"] = k
				return f
			}
			f[k] = args[1]
			args = args[2:]
		default:
			f["!BADKEY"] = fmt.Sprint(k)
			args = args[1:]
		}
	}
	return f
}
