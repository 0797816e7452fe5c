// Package ffi implements the ownership and status conventions of the C entry
// surface without touching cgo, so every rule can be tested from Go.
//
// Each method mirrors one C entry point. Pointer arguments arrive as
// handles (Null for a null pointer) or ForeignString values (nil for a null
// pointer); out-parameters are modelled by a want flag telling whether the
// caller supplied somewhere to write the result. A method returns the
// status the C function returns plus whatever the C layer must write
// through its out-parameters.
//
// Rules shared by every method:
//
//   - a null required argument or a null result out-parameter yields
//     NullPointer before anything is allocated;
//   - strings are validated as UTF-8 and yield InvalidUTF8 otherwise;
//   - when a method has an error out-parameter and the caller supplied it,
//     every failure status comes with an error handle;
//   - a handle that names no live object of the expected kind is treated
//     like a null pointer;
//   - panics are recovered and reported as Unknown.
package ffi

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/confium/confium-go/internal/handles"
	"github.com/confium/confium-go/pkg/confium"
	"github.com/confium/confium-go/pkg/confium/cfmerr"
	"github.com/confium/confium-go/pkg/confium/logging"
	"github.com/confium/confium-go/pkg/confium/stringopts"
)

// Status is the value every C entry point returns: zero or a cfmerr.Code.
type Status = uint32

// OK is the success status.
const OK Status = 0

// ForeignString is the byte content of a NUL-terminated C string, without
// the terminator. A nil value stands for a null pointer.
type ForeignString []byte

func (s ForeignString) decode() (string, *cfmerr.Error) {
	if s == nil {
		return "", cfmerr.New(cfmerr.NullPointer{})
	}
	if !utf8.Valid(s) {
		return "", cfmerr.New(cfmerr.InvalidUTF8{})
	}
	return string(s), nil
}

// Boundary owns every object reachable through handles.
type Boundary struct {
	table     *handles.Table
	newLogger func() logging.Logger
}

// New returns a Boundary whose contexts log through loggers made by
// newLogger. A nil newLogger gives each context a discarding logger.
func New(newLogger func() logging.Logger) *Boundary {
	if newLogger == nil {
		newLogger = logging.Discard
	}
	return &Boundary{table: handles.New(), newLogger: newLogger}
}

// Live returns the number of objects currently owned through handles,
// including borrowed cause handles.
func (b *Boundary) Live() int {
	return b.table.Len()
}

// errorRecord is what an error handle refers to. Owned records have a Null
// parent; borrowed cause records point at the record that owns them.
type errorRecord struct {
	err     *cfmerr.Error
	foreign error
	parent  handles.Handle
	cause   handles.Handle
}

// next returns the error exposed as this record's cause. For a record that
// stands in for a non-cfmerr error, that is the foreign error's own cause.
func (r *errorRecord) next() error {
	if r.foreign != nil {
		return errors.Unwrap(r.foreign)
	}
	return r.err.Cause()
}

func newErrorRecord(err error, parent handles.Handle) *errorRecord {
	if e, ok := err.(*cfmerr.Error); ok {
		return &errorRecord{err: e, parent: parent}
	}
	return &errorRecord{err: cfmerr.New(cfmerr.Unknown{}), foreign: err, parent: parent}
}

// fail converts err into a status and, when wantErr is set, an owned error
// handle.
func (b *Boundary) fail(err error, wantErr bool) (Status, handles.Handle) {
	e := cfmerr.From(err)
	if !wantErr {
		return e.Uint32(), handles.Null
	}
	return e.Uint32(), b.table.Put(&errorRecord{err: e})
}

func (b *Boundary) failKind(kind cfmerr.Kind, wantErr bool) (Status, handles.Handle) {
	return b.fail(cfmerr.New(kind), wantErr)
}

// recoverStatus turns a panic in the calling method into an Unknown failure.
// errOut may be nil for methods without an error out-parameter.
func (b *Boundary) recoverStatus(st *Status, errOut *handles.Handle, wantErr bool) {
	r := recover()
	if r == nil {
		return
	}
	var eh handles.Handle
	*st, eh = b.failKind(cfmerr.Unknown{}, wantErr && errOut != nil)
	if errOut != nil {
		*errOut = eh
	}
}

func (b *Boundary) context(h handles.Handle) (*confium.Context, bool) {
	return handles.Lookup[*confium.Context](b.table, h)
}

func (b *Boundary) errorRecord(h handles.Handle) (*errorRecord, bool) {
	return handles.Lookup[*errorRecord](b.table, h)
}

func (b *Boundary) options(h handles.Handle) (*stringopts.Store, bool) {
	return handles.Lookup[*stringopts.Store](b.table, h)
}

// CreateContext allocates a Context and transfers it to the caller.
func (b *Boundary) CreateContext(wantOut bool) (h handles.Handle, st Status) {
	defer b.recoverStatus(&st, nil, false)
	if !wantOut {
		return handles.Null, uint32(cfmerr.CodeNullPointer)
	}
	c := confium.New(confium.Config{Logger: b.newLogger()})
	return b.table.Put(c), OK
}

// DestroyContext releases the Context behind h with all its libraries. Null
// is a no-op. Failures to unmap libraries are logged by the Context and do
// not change the status, since the handle is consumed either way.
func (b *Boundary) DestroyContext(h handles.Handle) (st Status) {
	defer b.recoverStatus(&st, nil, false)
	if h == handles.Null {
		return OK
	}
	if _, ok := b.context(h); !ok {
		return uint32(cfmerr.CodeNullPointer)
	}
	v, _ := b.table.Take(h)
	_ = v.(*confium.Context).Close()
	return OK
}

// Initialize parses the option file at path on behalf of the Context.
// The parsed options are discarded once validated.
func (b *Boundary) Initialize(h handles.Handle, path ForeignString, wantErr bool) (st Status, eh handles.Handle) {
	defer b.recoverStatus(&st, &eh, wantErr)
	c, ok := b.context(h)
	if !ok {
		return b.failKind(cfmerr.NullPointer{}, wantErr)
	}
	p, derr := path.decode()
	if derr != nil {
		return b.fail(derr, wantErr)
	}
	if _, err := c.Initialize(context.Background(), p); err != nil {
		return b.fail(err, wantErr)
	}
	return OK, handles.Null
}

// LoadPlugin maps the plugin at path into the Context.
func (b *Boundary) LoadPlugin(h handles.Handle, path ForeignString, wantErr bool) (st Status, eh handles.Handle) {
	defer b.recoverStatus(&st, &eh, wantErr)
	c, ok := b.context(h)
	if !ok {
		return b.failKind(cfmerr.NullPointer{}, wantErr)
	}
	p, derr := path.decode()
	if derr != nil {
		return b.fail(derr, wantErr)
	}
	if _, err := c.LoadPlugin(context.Background(), p); err != nil {
		return b.fail(err, wantErr)
	}
	return OK, handles.Null
}

// PluginCount reports how many libraries the Context holds.
func (b *Boundary) PluginCount(h handles.Handle, wantOut bool) (n int, st Status) {
	defer b.recoverStatus(&st, nil, false)
	c, ok := b.context(h)
	if !ok || !wantOut {
		return 0, uint32(cfmerr.CodeNullPointer)
	}
	return c.PluginCount(), OK
}
