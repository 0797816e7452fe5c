package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Environment variables read by FromEnv.
const (
	EnvLevel  = "CONFIUM_LOG_LEVEL"
	EnvFormat = "CONFIUM_LOG_FORMAT"
)

// FromEnv builds the terminal logger used when confium is driven through
// its C entry points. EnvLevel selects debug, info, warn (default), error or
// off; EnvFormat selects text (default) or json. Unrecognised values fall
// back to the defaults. A nil getenv reads the process environment and a
// nil w writes to stderr.
func FromEnv(getenv func(string) string, w io.Writer) Logger {
	if getenv == nil {
		getenv = os.Getenv
	}
	if w == nil {
		w = os.Stderr
	}

	level, off := parseLevel(getenv(EnvLevel))
	if off {
		return Discard()
	}

	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level)
	l.SetFormatter(formatter(getenv(EnvFormat)))
	return NewLogrus(l)
}

func parseLevel(s string) (logrus.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none":
		return logrus.PanicLevel, true
	case "debug":
		return logrus.DebugLevel, false
	case "info":
		return logrus.InfoLevel, false
	case "error":
		return logrus.ErrorLevel, false
	default:
		return logrus.WarnLevel, false
	}
}

func formatter(s string) logrus.Formatter {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return &logrus.JSONFormatter{}
	}
	return &logrus.TextFormatter{DisableColors: true, FullTimestamp: true}
}
