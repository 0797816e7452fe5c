package confium

import "github.com/confium/confium-go/pkg/confium/logging"

// Config expresses the knobs used when creating a Context.
type Config struct {
	// Logger receives plugin load failures and lifecycle records. Leaving it
	// nil forwards to slog.Default().
	Logger logging.Logger
}

func (c Config) logger() logging.Logger {
	if c.Logger == nil {
		return logging.New(nil)
	}
	return c.Logger
}
