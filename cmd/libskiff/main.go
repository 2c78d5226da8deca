// Package main builds libskiff, the C shared library platform shells link
// against (go build -buildmode=c-shared).
//
// The exports wrap a single abi.Surface hosting the chat sample application.
// A real product swaps chat.App() for its own application assembly and
// rebuilds; the export table itself is application-independent.
//
// Memory discipline at the boundary: payload bytes are copied in before the
// call returns, and state/tree/patch bytes are copied out into caller-owned
// buffers using a size-probe contract. No Go pointer ever crosses the
// boundary.
package main

/*
#include <stdint.h>
*/
import "C"

import (
	"unsafe"

	"github.com/go-skiff/skiff/examples/chat"
	"github.com/go-skiff/skiff/pkg/abi"
	"github.com/go-skiff/skiff/pkg/inspect"
)

var (
	surface   = abi.NewSurface(chat.App())
	inspector *inspect.Server
)

//export skiff_init
func skiff_init() C.int32_t {
	return C.int32_t(surface.Init())
}

//export skiff_deinit
func skiff_deinit() {
	if inspector != nil {
		inspector.Stop()
		inspector = nil
	}
	surface.Deinit()
}

//export skiff_dispatch
func skiff_dispatch(eventType C.uint32_t, payload *C.uint8_t, payloadLen C.int32_t) C.int32_t {
	var data []byte
	if payload != nil && payloadLen > 0 {
		data = C.GoBytes(unsafe.Pointer(payload), C.int(payloadLen))
	}
	return C.int32_t(surface.Dispatch(uint32(eventType), data))
}

//export skiff_get_state_version
func skiff_get_state_version() C.uint64_t {
	return C.uint64_t(surface.StateVersion())
}

// skiff_get_state writes the encoded state snapshot into buf and stores the
// required byte count in *required. When buf is too small nothing is written
// and the call returns the buffer-too-small code; the caller reallocates to
// *required and retries.
//
//export skiff_get_state
func skiff_get_state(buf *C.uint8_t, bufCap C.int32_t, required *C.int32_t) C.int32_t {
	return copyOut(buf, bufCap, required, surface.CopyState)
}

// skiff_render writes the encoded current tree with skiff_get_state's
// sizing contract.
//
//export skiff_render
func skiff_render(buf *C.uint8_t, bufCap C.int32_t, required *C.int32_t) C.int32_t {
	return copyOut(buf, bufCap, required, surface.CopyRender)
}

// skiff_get_patch writes the encoded patch list from the most recent
// successful dispatch with skiff_get_state's sizing contract.
//
//export skiff_get_patch
func skiff_get_patch(buf *C.uint8_t, bufCap C.int32_t, required *C.int32_t) C.int32_t {
	return copyOut(buf, bufCap, required, surface.CopyPatches)
}

// skiff_get_last_error copies the most recent error message into buf as a
// NUL-terminated string and returns the byte count the message requires
// including the terminator. A too-small (or nil) buffer gets nothing
// written; the caller reallocates and retries. An empty message means the
// most recent call succeeded.
//
//export skiff_get_last_error
func skiff_get_last_error(buf *C.char, bufCap C.int32_t) C.int32_t {
	msg := surface.LastError()
	needed := len(msg) + 1
	if buf == nil || int(bufCap) < needed {
		return C.int32_t(needed)
	}
	dst := unsafe.Slice((*byte)(unsafe.Pointer(buf)), needed)
	copy(dst, msg)
	dst[len(msg)] = 0
	return C.int32_t(needed)
}

// skiff_start_inspector starts the development inspector on addr
// (NUL-terminated host:port). Requires an initialized surface.
//
//export skiff_start_inspector
func skiff_start_inspector(addr *C.char) C.int32_t {
	if !surface.Initialized() {
		return C.int32_t(abi.NotInitialized)
	}
	if inspector != nil {
		return C.int32_t(abi.Ok)
	}
	srv, err := inspect.Start(surface.Runtime(), C.GoString(addr))
	if err != nil {
		return C.int32_t(abi.Unknown)
	}
	inspector = srv
	return C.int32_t(abi.Ok)
}

func copyOut(buf *C.uint8_t, bufCap C.int32_t, required *C.int32_t, fn func([]byte) (int, abi.ResultCode)) C.int32_t {
	var dst []byte
	if buf != nil && bufCap > 0 {
		dst = unsafe.Slice((*byte)(unsafe.Pointer(buf)), int(bufCap))
	}
	n, rc := fn(dst)
	if required != nil {
		*required = C.int32_t(n)
	}
	return C.int32_t(rc)
}

func main() {}
