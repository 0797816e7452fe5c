package confium

import (
	"context"
	"errors"
	"fmt"

	"github.com/eapache/queue"

	"github.com/confium/confium-go/pkg/confium/cfgfile"
	"github.com/confium/confium-go/pkg/confium/cfmerr"
	"github.com/confium/confium-go/pkg/confium/logging"
	"github.com/confium/confium-go/pkg/confium/plugin"
)

// ErrClosed is returned by every method of a Context after Close.
var ErrClosed = errors.New("confium: context closed")

// Context owns the logger and the plugin libraries of one session.
type Context struct {
	logger    logging.Logger
	loader    *plugin.Loader
	libraries *queue.Queue
	closed    bool
}

// New creates an empty Context.
func New(cfg Config) *Context {
	logger := cfg.logger()
	return &Context{
		logger:    logger,
		loader:    plugin.NewLoader(logger),
		libraries: queue.New(),
	}
}

// Initialize reads the option file at path. Any failure is returned as an
// InitializationFailure whose cause is the parser's error. The options are
// validated and returned; the Context does not consume them yet.
func (c *Context) Initialize(ctx context.Context, path string) (cfgfile.Options, error) {
	if c.closed {
		return nil, ErrClosed
	}
	opts, err := cfgfile.Parse(path)
	if err != nil {
		c.logger.Debug(ctx, "initialization failed", "config", path, "error", err)
		return nil, cfmerr.Wrap(cfmerr.InitializationFailure{}, err)
	}
	c.logger.Debug(ctx, "configuration loaded", "config", path, "options", len(opts))
	return opts, nil
}

// LoadPlugin maps the plugin library at path and keeps it until Close.
// The returned Library is owned by the Context; call Acquire to keep it
// usable after Close. A failed load leaves the Context unchanged.
func (c *Context) LoadPlugin(ctx context.Context, path string) (*plugin.Library, error) {
	if c.closed {
		return nil, ErrClosed
	}
	lib, err := c.loader.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	if prev := c.mappedAs(lib); prev != nil {
		c.logger.Warn(ctx, "plugin file already mapped, keeping both",
			"path", path, "previous", prev.Path())
	}
	c.libraries.Add(lib)
	return lib, nil
}

func (c *Context) mappedAs(lib *plugin.Library) *plugin.Library {
	id, ok := lib.FileID()
	if !ok {
		return nil
	}
	for i := 0; i < c.libraries.Length(); i++ {
		prev := c.libraries.Get(i).(*plugin.Library)
		if pid, ok := prev.FileID(); ok && pid == id {
			return prev
		}
	}
	return nil
}

// Plugins returns the loaded libraries in load order.
func (c *Context) Plugins() []*plugin.Library {
	out := make([]*plugin.Library, 0, c.libraries.Length())
	for i := 0; i < c.libraries.Length(); i++ {
		out = append(out, c.libraries.Get(i).(*plugin.Library))
	}
	return out
}

// PluginCount returns how many libraries the Context holds.
func (c *Context) PluginCount() int {
	return c.libraries.Length()
}

// Close releases every library in load order and detaches the logger.
// Errors from unmapping are joined; the Context is closed regardless.
// Calling Close twice returns ErrClosed.
func (c *Context) Close() error {
	if c == nil {
		return nil
	}
	if c.closed {
		return ErrClosed
	}

	var errs []error
	for c.libraries.Length() > 0 {
		lib := c.libraries.Remove().(*plugin.Library)
		if err := lib.Release(); err != nil {
			c.logger.Warn(context.Background(), "failed to unmap plugin", "path", lib.Path(), "error", err)
			errs = append(errs, fmt.Errorf("release %s: %w", lib.Path(), err))
		}
	}
	c.closed = true
	c.logger = logging.Discard()
	c.loader = nil
	return errors.Join(errs...)
}
