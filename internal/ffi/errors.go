package ffi

import (
	"github.com/confium/confium-go/internal/handles"
	"github.com/confium/confium-go/pkg/confium/cfmerr"
)

// ErrorMessage renders the error behind h. The C layer copies the result
// into a fresh buffer on every call; the caller frees it.
func (b *Boundary) ErrorMessage(h handles.Handle, wantOut bool) (msg string, st Status) {
	defer b.recoverStatus(&st, nil, false)
	rec, ok := b.errorRecord(h)
	if !ok || !wantOut {
		return "", uint32(cfmerr.CodeNullPointer)
	}
	return rec.err.Error(), OK
}

// ErrorCode returns the numeric code of the error behind h.
func (b *Boundary) ErrorCode(h handles.Handle, wantOut bool) (code uint32, st Status) {
	defer b.recoverStatus(&st, nil, false)
	rec, ok := b.errorRecord(h)
	if !ok || !wantOut {
		return 0, uint32(cfmerr.CodeNullPointer)
	}
	return rec.err.Uint32(), OK
}

// ErrorCause returns a borrowed handle to the cause of the error behind h,
// or Null when it has none. The parent keeps ownership: the cause handle is
// valid only while h is, repeated calls return the same handle and passing
// it to DestroyError does nothing.
func (b *Boundary) ErrorCause(h handles.Handle, wantOut bool) (cause handles.Handle, st Status) {
	defer b.recoverStatus(&st, nil, false)
	rec, ok := b.errorRecord(h)
	if !ok || !wantOut {
		return handles.Null, uint32(cfmerr.CodeNullPointer)
	}
	if rec.cause != handles.Null {
		return rec.cause, OK
	}
	next := rec.next()
	if next == nil {
		return handles.Null, OK
	}
	rec.cause = b.table.Put(newErrorRecord(next, h))
	return rec.cause, OK
}

// ErrorBacktrace returns the stack captured when the error behind h was
// built. ok is false when none was captured; the C layer then writes a null
// string.
func (b *Boundary) ErrorBacktrace(h handles.Handle, wantOut bool) (bt string, ok bool, st Status) {
	defer b.recoverStatus(&st, nil, false)
	rec, found := b.errorRecord(h)
	if !found || !wantOut {
		return "", false, uint32(cfmerr.CodeNullPointer)
	}
	bt, ok = rec.err.Backtrace()
	return bt, ok, OK
}

// DestroyError frees an owned error handle together with every cause handle
// borrowed from it. Null, unknown and borrowed handles are ignored.
func (b *Boundary) DestroyError(h handles.Handle) {
	defer func() { _ = recover() }()
	rec, ok := b.errorRecord(h)
	if !ok || rec.parent != handles.Null {
		return
	}
	b.destroyChain(h)
}

func (b *Boundary) destroyChain(h handles.Handle) {
	for h != handles.Null {
		v, ok := b.table.Take(h)
		if !ok {
			return
		}
		h = v.(*errorRecord).cause
	}
}
