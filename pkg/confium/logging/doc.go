// Package logging provides the logging facade confium writes through.
//
// Logger is a small, context-aware interface. Three implementations ship
// with the package:
//
//	logging.New(nil)          // forwards to slog.Default()
//	logging.NewLogrus(l)      // routes into a *logrus.Logger
//	logging.Discard()         // drops everything
//
// FromEnv builds the stderr logger used behind the C entry points; its level
// and format come from CONFIUM_LOG_LEVEL and CONFIUM_LOG_FORMAT.
//
// Logging is a side effect only. No confium operation changes its result
// because a log record could not be written.
package logging
