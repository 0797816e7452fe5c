package ffi

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/confium/confium-go/internal/handles"
	"github.com/confium/confium-go/internal/testplugin"
	"github.com/confium/confium-go/pkg/confium/cfmerr"
	"github.com/confium/confium-go/pkg/confium/logging"
	"github.com/confium/confium-go/pkg/confium/logging/logtest"
)

const (
	codeNull    = uint32(cfmerr.CodeNullPointer)
	codeUTF8    = uint32(cfmerr.CodeInvalidUTF8)
	codePlugin  = uint32(cfmerr.CodePluginLoadError)
	codeInit    = uint32(cfmerr.CodeInitializationFailure)
	codeConfig  = uint32(cfmerr.CodeInvalidConfig)
	codeUnknown = uint32(cfmerr.CodeUnknown)
)

func newContext(t *testing.T, b *Boundary) handles.Handle {
	t.Helper()
	h, st := b.CreateContext(true)
	require.Equal(t, OK, st)
	require.NotEqual(t, handles.Null, h)
	t.Cleanup(func() { b.DestroyContext(h) })
	return h
}

func writeConfig(t *testing.T, content string) ForeignString {
	t.Helper()
	path := filepath.Join(t.TempDir(), "confium.cfg")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return ForeignString(path)
}

func message(t *testing.T, b *Boundary, h handles.Handle) string {
	t.Helper()
	msg, st := b.ErrorMessage(h, true)
	require.Equal(t, OK, st)
	return msg
}

func code(t *testing.T, b *Boundary, h handles.Handle) uint32 {
	t.Helper()
	c, st := b.ErrorCode(h, true)
	require.Equal(t, OK, st)
	return c
}

func TestCreateDestroyContext(t *testing.T) {
	b := New(nil)

	h, st := b.CreateContext(true)
	require.Equal(t, OK, st)
	require.Equal(t, 1, b.Live())

	require.Equal(t, OK, b.DestroyContext(h))
	require.Zero(t, b.Live())
}

func TestCreateContextNullOut(t *testing.T) {
	b := New(nil)
	h, st := b.CreateContext(false)
	require.Equal(t, codeNull, st)
	require.Equal(t, handles.Null, h)
	require.Zero(t, b.Live())
}

func TestDestroyNullIsNoop(t *testing.T) {
	b := New(nil)
	require.Equal(t, OK, b.DestroyContext(handles.Null))
	require.Equal(t, OK, b.DestroyOptions(handles.Null))
	b.DestroyError(handles.Null)
}

func TestDestroyWrongKind(t *testing.T) {
	b := New(nil)
	opts, st := b.CreateOptions(true)
	require.Equal(t, OK, st)

	require.Equal(t, codeNull, b.DestroyContext(opts))
	require.Equal(t, 1, b.Live())
	require.Equal(t, OK, b.DestroyOptions(opts))
}

func TestNullArgumentsAllocateOnlyTheErrorHandle(t *testing.T) {
	b := New(nil)
	ctx := newContext(t, b)
	live := b.Live()

	tests := []struct {
		name string
		call func(wantErr bool) (Status, handles.Handle)
	}{
		{name: "initialize null context", call: func(w bool) (Status, handles.Handle) {
			return b.Initialize(handles.Null, ForeignString("x"), w)
		}},
		{name: "initialize null path", call: func(w bool) (Status, handles.Handle) {
			return b.Initialize(ctx, nil, w)
		}},
		{name: "load null context", call: func(w bool) (Status, handles.Handle) {
			return b.LoadPlugin(handles.Null, ForeignString("x"), w)
		}},
		{name: "load null path", call: func(w bool) (Status, handles.Handle) {
			return b.LoadPlugin(ctx, nil, w)
		}},
		{name: "load stale context", call: func(w bool) (Status, handles.Handle) {
			return b.LoadPlugin(handles.Handle(9999), ForeignString("x"), w)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, eh := tt.call(false)
			require.Equal(t, codeNull, st)
			require.Equal(t, handles.Null, eh)
			require.Equal(t, live, b.Live())

			st, eh = tt.call(true)
			require.Equal(t, codeNull, st)
			require.NotEqual(t, handles.Null, eh)
			require.Equal(t, live+1, b.Live())
			require.Equal(t, codeNull, code(t, b, eh))
			require.Equal(t, "Null pointer", message(t, b, eh))

			b.DestroyError(eh)
			require.Equal(t, live, b.Live())
		})
	}
}

func TestInvalidUTF8(t *testing.T) {
	b := New(nil)
	ctx := newContext(t, b)

	st, eh := b.LoadPlugin(ctx, ForeignString("\xff\xfe.so"), true)
	require.Equal(t, codeUTF8, st)
	require.Equal(t, "Invalid UTF-8", message(t, b, eh))
	b.DestroyError(eh)

	st, _ = b.Initialize(ctx, ForeignString("bad\xc3"), false)
	require.Equal(t, codeUTF8, st)
}

func TestInitializeSuccess(t *testing.T) {
	b := New(nil)
	ctx := newContext(t, b)

	st, eh := b.Initialize(ctx, writeConfig(t, "a = 0x1F\nb=2A\n"), true)
	require.Equal(t, OK, st)
	require.Equal(t, handles.Null, eh)
}

func TestInitializeFailureChain(t *testing.T) {
	b := New(nil)
	ctx := newContext(t, b)
	live := b.Live()

	st, eh := b.Initialize(ctx, writeConfig(t, "a = ZZ\n"), true)
	require.Equal(t, codeInit, st)
	require.Equal(t, codeInit, code(t, b, eh))
	require.Equal(t, "Initialization failure", message(t, b, eh))

	cfg, st := b.ErrorCause(eh, true)
	require.Equal(t, OK, st)
	require.Equal(t, codeConfig, code(t, b, cfg))
	require.Equal(t, "Invalid config (line 1)", message(t, b, cfg))

	again, _ := b.ErrorCause(eh, true)
	require.Equal(t, cfg, again, "cause handles are stable")

	digit, _ := b.ErrorCause(cfg, true)
	require.Equal(t, "Invalid hex digit: 'Z'", message(t, b, digit))

	end, st := b.ErrorCause(digit, true)
	require.Equal(t, OK, st)
	require.Equal(t, handles.Null, end)

	// Borrowed handles cannot be destroyed by the caller.
	b.DestroyError(cfg)
	require.Equal(t, "Invalid config (line 1)", message(t, b, cfg))

	b.DestroyError(eh)
	require.Equal(t, live, b.Live())
	_, st = b.ErrorMessage(cfg, true)
	require.Equal(t, codeNull, st, "borrowed handle dies with its parent")
}

func TestInitializeMissingFileHasIOLayer(t *testing.T) {
	b := New(nil)
	ctx := newContext(t, b)
	path := filepath.Join(t.TempDir(), "missing.cfg")

	st, eh := b.Initialize(ctx, ForeignString(path), true)
	require.Equal(t, codeInit, st)
	defer b.DestroyError(eh)

	cfg, _ := b.ErrorCause(eh, true)
	require.Equal(t, "Invalid config", message(t, b, cfg))
	ioErr, _ := b.ErrorCause(cfg, true)
	require.Equal(t, uint32(cfmerr.CodeIO), code(t, b, ioErr))
	require.Contains(t, message(t, b, ioErr), "IO error: '"+path+"': ")

	end, _ := b.ErrorCause(ioErr, true)
	require.Equal(t, handles.Null, end, "the I/O payload is not exposed as a cause")
}

func TestBacktrace(t *testing.T) {
	b := New(nil)
	ctx := newContext(t, b)

	_, eh := b.LoadPlugin(ctx, nil, true)
	defer b.DestroyError(eh)

	bt, ok, st := b.ErrorBacktrace(eh, true)
	require.Equal(t, OK, st)
	require.True(t, ok)
	require.Contains(t, bt, "LoadPlugin")

	_, _, st = b.ErrorBacktrace(eh, false)
	require.Equal(t, codeNull, st)
}

func TestQueriesRejectNull(t *testing.T) {
	b := New(nil)
	_, st := b.ErrorMessage(handles.Null, true)
	require.Equal(t, codeNull, st)
	_, st = b.ErrorCode(handles.Null, true)
	require.Equal(t, codeNull, st)
	_, st = b.ErrorCause(handles.Null, true)
	require.Equal(t, codeNull, st)
	_, _, st = b.ErrorBacktrace(handles.Null, true)
	require.Equal(t, codeNull, st)
	_, st = b.PluginCount(handles.Null, true)
	require.Equal(t, codeNull, st)

	_, eh := b.fail(cfmerr.New(cfmerr.Overflow{}), true)
	defer b.DestroyError(eh)
	_, st = b.ErrorMessage(eh, false)
	require.Equal(t, codeNull, st)
	_, st = b.ErrorCode(eh, false)
	require.Equal(t, codeNull, st)
	_, st = b.ErrorCause(eh, false)
	require.Equal(t, codeNull, st)
}

func TestForeignCause(t *testing.T) {
	b := New(nil)
	root := errors.New("root")
	wrapped := fmt.Errorf("middle: %w", root)

	_, eh := b.fail(cfmerr.Wrap(cfmerr.PluginLoadError{}, wrapped), true)
	defer b.DestroyError(eh)

	middle, _ := b.ErrorCause(eh, true)
	require.Equal(t, codeUnknown, code(t, b, middle))
	last, _ := b.ErrorCause(middle, true)
	require.Equal(t, codeUnknown, code(t, b, last))
	end, _ := b.ErrorCause(last, true)
	require.Equal(t, handles.Null, end)
}

func TestLoadPluginFailure(t *testing.T) {
	rec := &logtest.Recorder{}
	b := New(func() logging.Logger { return rec })
	ctx := newContext(t, b)

	st, eh := b.LoadPlugin(ctx, ForeignString(testplugin.NotALibrary(t)), true)
	require.Equal(t, codePlugin, st)
	require.Equal(t, "Plugin load error", message(t, b, eh))
	b.DestroyError(eh)

	n, st := b.PluginCount(ctx, true)
	require.Equal(t, OK, st)
	require.Zero(t, n)
	require.Equal(t, []string{"error"}, rec.Levels())
}

func TestLoadPluginSuccess(t *testing.T) {
	b := New(nil)
	ctx, st := b.CreateContext(true)
	require.Equal(t, OK, st)
	path := ForeignString(testplugin.Sample(t))

	for i := 0; i < 2; i++ {
		st, eh := b.LoadPlugin(ctx, path, true)
		require.Equal(t, OK, st)
		require.Equal(t, handles.Null, eh)
	}
	n, _ := b.PluginCount(ctx, true)
	require.Equal(t, 2, n)

	c, ok := b.context(ctx)
	require.True(t, ok)
	libs := c.Plugins()

	require.Equal(t, OK, b.DestroyContext(ctx))
	for _, lib := range libs {
		require.True(t, lib.Released())
	}
	require.Zero(t, b.Live())
}

func TestRecoverStatus(t *testing.T) {
	b := New(func() logging.Logger { panic("logger factory exploded") })

	h, st := b.CreateContext(true)
	require.Equal(t, codeUnknown, st)
	require.Equal(t, handles.Null, h)

	var eh handles.Handle
	func() {
		defer b.recoverStatus(&st, &eh, true)
		panic("boom")
	}()
	require.Equal(t, codeUnknown, st)
	require.Equal(t, "Unknown error", message(t, b, eh))
	b.DestroyError(eh)
	require.Zero(t, b.Live())
}

func TestStringOptions(t *testing.T) {
	b := New(nil)
	h, st := b.CreateOptions(true)
	require.Equal(t, OK, st)

	require.Equal(t, OK, b.SetOption(h, ForeignString("hash"), ForeignString("sha256")))
	require.Equal(t, OK, b.SetOption(h, ForeignString("mode"), ForeignString("")))
	require.Equal(t, codeNull, b.SetOption(h, nil, ForeignString("v")))
	require.Equal(t, codeNull, b.SetOption(h, ForeignString("k"), nil))
	require.Equal(t, codeUTF8, b.SetOption(h, ForeignString("k"), ForeignString("\xff")))
	require.Equal(t, codeNull, b.SetOption(handles.Null, ForeignString("k"), ForeignString("v")))

	s, ok := b.options(h)
	require.True(t, ok)
	require.Equal(t, []string{"hash", "mode"}, s.Keys())

	require.Equal(t, OK, b.UnsetOption(h, ForeignString("hash")))
	require.Equal(t, codeNull, b.UnsetOption(h, nil))
	require.Equal(t, []string{"mode"}, s.Keys())

	require.Equal(t, OK, b.ClearOptions(h))
	require.Zero(t, s.Len())
	require.Equal(t, codeNull, b.ClearOptions(handles.Null))

	_, st = b.CreateOptions(false)
	require.Equal(t, codeNull, st)

	require.Equal(t, OK, b.DestroyOptions(h))
	require.Zero(t, b.Live())
}
