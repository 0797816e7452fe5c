//go:build cgo

// Command libconfium is the C entry surface of confium. Build it with
//
//	go build -buildmode=c-shared -o libconfium.so ./cmd/libconfium
//
// Every function returns 0 on success or an error code. Objects are passed
// as opaque pointers that must only be handed back to this library.
package main

/*
#include <stdint.h>
#include <stdlib.h>
#include <string.h>
*/
import "C"

import (
	"unsafe"

	"github.com/confium/confium-go/internal/ffi"
	"github.com/confium/confium-go/internal/handles"
	"github.com/confium/confium-go/pkg/confium/cfmerr"
	"github.com/confium/confium-go/pkg/confium/logging"
)

var boundary = ffi.New(func() logging.Logger { return logging.FromEnv(nil, nil) })

func main() {}

// guard converts a panic that escaped the boundary into an Unknown status.
// It must be deferred directly by every exported function.
func guard(st *C.uint32_t) {
	if r := recover(); r != nil && st != nil {
		*st = C.uint32_t(cfmerr.CodeUnknown)
	}
}

func foreign(s *C.char) ffi.ForeignString {
	if s == nil {
		return nil
	}
	n := C.strlen(s)
	if n == 0 {
		return ffi.ForeignString{}
	}
	return ffi.ForeignString(C.GoBytes(unsafe.Pointer(s), C.int(n)))
}

func handle(p unsafe.Pointer) handles.Handle {
	return handles.FromPointer(p)
}

// errResult writes eh through out when the caller supplied it.
func errResult(out *unsafe.Pointer, st ffi.Status, eh handles.Handle) C.uint32_t {
	if out != nil {
		*out = eh.Pointer()
	}
	return C.uint32_t(st)
}

//export cfm_create
func cfm_create(ctx *unsafe.Pointer) (st C.uint32_t) {
	defer guard(&st)
	h, s := boundary.CreateContext(ctx != nil)
	if s == ffi.OK {
		*ctx = h.Pointer()
	}
	return C.uint32_t(s)
}

//export cfm_destroy
func cfm_destroy(ctx unsafe.Pointer) (st C.uint32_t) {
	defer guard(&st)
	return C.uint32_t(boundary.DestroyContext(handle(ctx)))
}

//export cfm_initialize
func cfm_initialize(ctx unsafe.Pointer, path *C.char, err *unsafe.Pointer) (st C.uint32_t) {
	defer guard(&st)
	s, eh := boundary.Initialize(handle(ctx), foreign(path), err != nil)
	return errResult(err, s, eh)
}

//export cfm_load_plugin
func cfm_load_plugin(ctx unsafe.Pointer, path *C.char, err *unsafe.Pointer) (st C.uint32_t) {
	defer guard(&st)
	s, eh := boundary.LoadPlugin(handle(ctx), foreign(path), err != nil)
	return errResult(err, s, eh)
}

//export cfm_plugin_count
func cfm_plugin_count(ctx unsafe.Pointer, count *C.size_t) (st C.uint32_t) {
	defer guard(&st)
	n, s := boundary.PluginCount(handle(ctx), count != nil)
	if s == ffi.OK {
		*count = C.size_t(n)
	}
	return C.uint32_t(s)
}

//export cfm_err_get_msg
func cfm_err_get_msg(err unsafe.Pointer, msg **C.char) (st C.uint32_t) {
	defer guard(&st)
	m, s := boundary.ErrorMessage(handle(err), msg != nil)
	if s == ffi.OK {
		*msg = C.CString(m)
	}
	return C.uint32_t(s)
}

//export cfm_err_get_code
func cfm_err_get_code(err unsafe.Pointer, code *C.uint32_t) (st C.uint32_t) {
	defer guard(&st)
	c, s := boundary.ErrorCode(handle(err), code != nil)
	if s == ffi.OK {
		*code = C.uint32_t(c)
	}
	return C.uint32_t(s)
}

//export cfm_err_get_source
func cfm_err_get_source(err unsafe.Pointer, src *unsafe.Pointer) (st C.uint32_t) {
	defer guard(&st)
	h, s := boundary.ErrorCause(handle(err), src != nil)
	if s == ffi.OK {
		*src = h.Pointer()
	}
	return C.uint32_t(s)
}

//export cfm_err_get_backtrace
func cfm_err_get_backtrace(err unsafe.Pointer, bt **C.char) (st C.uint32_t) {
	defer guard(&st)
	trace, ok, s := boundary.ErrorBacktrace(handle(err), bt != nil)
	if s != ffi.OK {
		return C.uint32_t(s)
	}
	if ok {
		*bt = C.CString(trace)
	} else {
		*bt = nil
	}
	return C.uint32_t(s)
}

//export cfm_err_destroy
func cfm_err_destroy(err unsafe.Pointer) {
	defer guard(nil)
	boundary.DestroyError(handle(err))
}

//export cfm_str_free
func cfm_str_free(s *C.char) {
	defer guard(nil)
	C.free(unsafe.Pointer(s))
}

//export cfm_sopts_create
func cfm_sopts_create(opts *unsafe.Pointer) (st C.uint32_t) {
	defer guard(&st)
	h, s := boundary.CreateOptions(opts != nil)
	if s == ffi.OK {
		*opts = h.Pointer()
	}
	return C.uint32_t(s)
}

//export cfm_sopts_destroy
func cfm_sopts_destroy(opts unsafe.Pointer) (st C.uint32_t) {
	defer guard(&st)
	return C.uint32_t(boundary.DestroyOptions(handle(opts)))
}

//export cfm_sopts_clear
func cfm_sopts_clear(opts unsafe.Pointer) (st C.uint32_t) {
	defer guard(&st)
	return C.uint32_t(boundary.ClearOptions(handle(opts)))
}

//export cfm_sopts_set
func cfm_sopts_set(opts unsafe.Pointer, key, value *C.char) (st C.uint32_t) {
	defer guard(&st)
	return C.uint32_t(boundary.SetOption(handle(opts), foreign(key), foreign(value)))
}

//export cfm_sopts_unset
func cfm_sopts_unset(opts unsafe.Pointer, key *C.char) (st C.uint32_t) {
	defer guard(&st)
	return C.uint32_t(boundary.UnsetOption(handle(opts), foreign(key)))
}
