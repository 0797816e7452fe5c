// Package handles maps opaque handle values to Go objects.
//
// Objects handed to foreign callers never leave Go memory: the caller only
// ever sees a Handle, a small non-zero integer that is later passed back to
// look the object up again. Zero is never issued and plays the role of a
// null pointer.
package handles

import (
	"sync"
	"unsafe"
)

// Handle is an opaque, address-sized reference to an entry in a Table.
type Handle uintptr

// Null is the zero handle.
const Null Handle = 0

// FromPointer converts a foreign pointer back into a handle.
func FromPointer(p unsafe.Pointer) Handle {
	return Handle(uintptr(p))
}

// Pointer returns h in the shape foreign callers store it. The result is an
// integer in pointer clothing: it is never dereferenced and never points into
// Go memory, so vet's unsafe.Pointer warning here does not apply.
func (h Handle) Pointer() unsafe.Pointer {
	return unsafe.Pointer(uintptr(h))
}

// Table owns the objects behind a set of handles.
type Table struct {
	mu      sync.Mutex
	next    Handle
	entries map[Handle]any
}

// New returns an empty table.
func New() *Table {
	return &Table{next: 1, entries: make(map[Handle]any)}
}

// Put stores v and returns a fresh handle for it.
func (t *Table) Put(v any) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	h := t.next
	t.next++
	t.entries[h] = v
	return h
}

// Get returns the object behind h.
func (t *Table) Get(h Handle) (any, bool) {
	if h == Null {
		return nil, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.entries[h]
	return v, ok
}

// Take removes h from the table and returns the object it referenced.
func (t *Table) Take(h Handle) (any, bool) {
	if h == Null {
		return nil, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.entries[h]
	if ok {
		delete(t.entries, h)
	}
	return v, ok
}

// Len returns the number of live handles.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Lookup returns the object behind h when it has type T.
func Lookup[T any](t *Table, h Handle) (T, bool) {
	v, ok := t.Get(h)
	if !ok {
		var zero T
		return zero, false
	}
	out, ok := v.(T)
	return out, ok
}
