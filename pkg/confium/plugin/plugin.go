package plugin

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/confium/confium-go/pkg/confium/cfmerr"
	"github.com/confium/confium-go/pkg/confium/logging"
)

// NameSymbol is the symbol every plugin must export. It takes no arguments
// and returns a NUL-terminated display name.
const NameSymbol = "cfm_plugin_name"

var errReleased = errors.New("plugin: library already released")

// Library is a mapped plugin library. The mapping stays valid until the last
// reference is released; addresses returned by Lookup must not be used after
// that.
type Library struct {
	path   string
	name   string
	handle uintptr
	id     FileID
	hasID  bool
	refs   atomic.Int32
}

// Path returns the path the library was opened from.
func (l *Library) Path() string { return l.path }

// Name returns the display name reported by the plugin.
func (l *Library) Name() string { return l.name }

// FileID returns the identity of the file backing the library, when it could
// be determined.
func (l *Library) FileID() (FileID, bool) { return l.id, l.hasID }

// Lookup resolves an exported symbol to its address. The library is never
// copied; the address is only valid while the library is held.
func (l *Library) Lookup(symbol string) (uintptr, error) {
	if l.refs.Load() <= 0 {
		return 0, errReleased
	}
	return dlsym(l.handle, symbol)
}

// Acquire adds a reference and returns l.
func (l *Library) Acquire() *Library {
	l.refs.Add(1)
	return l
}

// Release drops a reference and unmaps the library when none remain.
// Releasing an already unmapped library is a no-op.
func (l *Library) Release() error {
	n := l.refs.Add(-1)
	switch {
	case n > 0:
		return nil
	case n < 0:
		l.refs.Store(0)
		return nil
	}
	h := l.handle
	l.handle = 0
	return dlclose(h)
}

// Released reports whether the library has been unmapped.
func (l *Library) Released() bool {
	return l.refs.Load() <= 0
}

// Loader opens plugin libraries and reports failures to its logger.
type Loader struct {
	logger logging.Logger
}

// NewLoader returns a Loader. A nil logger discards failure reports.
func NewLoader(logger logging.Logger) *Loader {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Loader{logger: logger}
}

// Open maps the library at path and resolves NameSymbol. Any failure is a
// PluginLoadError; when the library could not be mapped at all the error
// wraps an IO cause describing why. The returned Library holds one
// reference.
func (ld *Loader) Open(ctx context.Context, path string) (*Library, error) {
	h, err := dlopen(path)
	if err != nil {
		ld.logger.Error(ctx, "failed to load plugin", "path", path, "error", err)
		return nil, cfmerr.WrapIO(cfmerr.PluginLoadError{}, err, path)
	}

	sym, err := dlsym(h, NameSymbol)
	if err != nil {
		ld.logger.Error(ctx, "failed to load plugin", "path", path, "symbol", NameSymbol, "error", err)
		if cerr := dlclose(h); cerr != nil {
			ld.logger.Warn(ctx, "failed to unmap rejected plugin", "path", path, "error", cerr)
		}
		return nil, cfmerr.New(cfmerr.PluginLoadError{})
	}

	name, err := callName(sym)
	if err != nil {
		ld.logger.Error(ctx, "plugin name function failed", "path", path, "error", err)
		if cerr := dlclose(h); cerr != nil {
			ld.logger.Warn(ctx, "failed to unmap rejected plugin", "path", path, "error", cerr)
		}
		return nil, cfmerr.New(cfmerr.PluginLoadError{})
	}

	lib := &Library{path: path, name: name, handle: h}
	lib.id, lib.hasID = identify(path)
	lib.refs.Store(1)
	ld.logger.Info(ctx, "plugin loaded", "path", path, "name", name)
	return lib, nil
}
