package ffi

import (
	"github.com/confium/confium-go/internal/handles"
	"github.com/confium/confium-go/pkg/confium/cfmerr"
	"github.com/confium/confium-go/pkg/confium/stringopts"
)

// CreateOptions allocates an empty string option store.
func (b *Boundary) CreateOptions(wantOut bool) (h handles.Handle, st Status) {
	defer b.recoverStatus(&st, nil, false)
	if !wantOut {
		return handles.Null, uint32(cfmerr.CodeNullPointer)
	}
	return b.table.Put(stringopts.New()), OK
}

// DestroyOptions frees the store behind h. Null is a no-op.
func (b *Boundary) DestroyOptions(h handles.Handle) (st Status) {
	defer b.recoverStatus(&st, nil, false)
	if h == handles.Null {
		return OK
	}
	if _, ok := b.options(h); !ok {
		return uint32(cfmerr.CodeNullPointer)
	}
	b.table.Take(h)
	return OK
}

func (b *Boundary) ClearOptions(h handles.Handle) (st Status) {
	defer b.recoverStatus(&st, nil, false)
	s, ok := b.options(h)
	if !ok {
		return uint32(cfmerr.CodeNullPointer)
	}
	s.Clear()
	return OK
}

func (b *Boundary) SetOption(h handles.Handle, key, value ForeignString) (st Status) {
	defer b.recoverStatus(&st, nil, false)
	s, ok := b.options(h)
	if !ok {
		return uint32(cfmerr.CodeNullPointer)
	}
	k, err := key.decode()
	if err != nil {
		return err.Uint32()
	}
	v, err := value.decode()
	if err != nil {
		return err.Uint32()
	}
	s.Set(k, v)
	return OK
}

func (b *Boundary) UnsetOption(h handles.Handle, key ForeignString) (st Status) {
	defer b.recoverStatus(&st, nil, false)
	s, ok := b.options(h)
	if !ok {
		return uint32(cfmerr.CodeNullPointer)
	}
	k, err := key.decode()
	if err != nil {
		return err.Uint32()
	}
	s.Unset(k)
	return OK
}
