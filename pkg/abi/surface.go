// Package abi implements the narrow, stable surface host languages call.
//
// A Surface wraps one runtime instance behind total, non-throwing functions
// returning ResultCodes. The cgo shim in cmd/libskiff exposes a Surface as
// C-callable exports for -buildmode=c-shared; Go hosts and tests use a
// Surface directly.
//
// Every call runs to completion synchronously. The surface is not internally
// safe for concurrent callers; hosts must serialize access. Byte slices
// returned by State, RenderJSON, and PatchJSON are fresh copies the host
// owns; the tree returned by RenderTree is borrowed and invalidated by the
// next successful Dispatch.
package abi

import (
	stderrors "errors"

	"github.com/go-skiff/skiff/pkg/codec"
	"github.com/go-skiff/skiff/pkg/errors"
	"github.com/go-skiff/skiff/pkg/runtime"
	"github.com/go-skiff/skiff/pkg/vnode"
)

// Surface binds one application to the ABI function table.
type Surface struct {
	app     runtime.App
	rt      *runtime.Runtime
	lastErr string
}

// NewSurface creates a surface for the given application. The runtime itself
// is not created until Init.
func NewSurface(app runtime.App) *Surface {
	return &Surface{app: app}
}

// Init creates the runtime instance. Calling Init on an initialized surface
// is a no-op returning Ok, so hosts with racy startup paths stay safe.
func (s *Surface) Init() ResultCode {
	if s.rt != nil {
		return Ok
	}
	rt, err := runtime.New(s.app)
	if err != nil {
		return s.fail(err)
	}
	s.rt = rt
	s.lastErr = ""
	return Ok
}

// Deinit destroys the runtime and its state. Deinit before Init, or a second
// Deinit, is a no-op rather than a fault.
func (s *Surface) Deinit() {
	s.rt = nil
	s.lastErr = ""
}

// Initialized reports whether Init has created a runtime.
func (s *Surface) Initialized() bool {
	return s.rt != nil
}

// Runtime exposes the underlying instance for tooling such as the inspector.
// Returns nil before Init.
func (s *Surface) Runtime() *runtime.Runtime {
	return s.rt
}

// Dispatch decodes and applies one boundary event.
func (s *Surface) Dispatch(eventType uint32, payload []byte) ResultCode {
	if s.rt == nil {
		return s.failUninitialized("abi.Dispatch")
	}
	if err := s.rt.Dispatch(eventType, payload); err != nil {
		return s.fail(err)
	}
	s.lastErr = ""
	return Ok
}

// StateVersion returns the monotonic state version, or zero before Init.
func (s *Surface) StateVersion() uint64 {
	if s.rt == nil {
		return 0
	}
	return s.rt.Version()
}

// State returns the encoded state snapshot, or nil on failure (the detail is
// available via LastError).
func (s *Surface) State() []byte {
	if s.rt == nil {
		s.failUninitialized("abi.State")
		return nil
	}
	data, err := s.rt.StateSnapshot()
	if err != nil {
		s.fail(err)
		return nil
	}
	return data
}

// RenderTree returns the current tree. Borrowed: valid only until the next
// successful Dispatch.
func (s *Surface) RenderTree() *vnode.VNode {
	if s.rt == nil {
		s.failUninitialized("abi.RenderTree")
		return nil
	}
	return s.rt.Render()
}

// RenderJSON returns the current tree in the boundary encoding.
func (s *Surface) RenderJSON() []byte {
	if s.rt == nil {
		s.failUninitialized("abi.RenderJSON")
		return nil
	}
	return s.encode("abi.RenderJSON", s.rt.Render())
}

// PatchJSON returns the patch list from the most recent successful dispatch
// in the boundary encoding. An empty list encodes as "[]".
func (s *Surface) PatchJSON() []byte {
	if s.rt == nil {
		s.failUninitialized("abi.PatchJSON")
		return nil
	}
	patches := s.rt.Patches()
	if patches == nil {
		return []byte("[]")
	}
	return s.encode("abi.PatchJSON", patches)
}

// LastError returns the message of the most recent failed call, or "".
func (s *Surface) LastError() string {
	return s.lastErr
}

// CopyState writes the encoded state snapshot into the caller's buffer and
// returns the number of bytes the snapshot requires. When the buffer is too
// small nothing is written and BufferTooSmall is returned; the host
// reallocates to the returned size and retries.
func (s *Surface) CopyState(buf []byte) (int, ResultCode) {
	if s.rt == nil {
		return 0, s.failUninitialized("abi.CopyState")
	}
	data, err := s.rt.StateSnapshot()
	if err != nil {
		return 0, s.fail(err)
	}
	return s.copyOut(buf, data)
}

// CopyRender writes the encoded current tree into the caller's buffer, with
// CopyState's sizing contract.
func (s *Surface) CopyRender(buf []byte) (int, ResultCode) {
	if s.rt == nil {
		return 0, s.failUninitialized("abi.CopyRender")
	}
	data := s.encode("abi.CopyRender", s.rt.Render())
	if data == nil {
		return 0, SerializationError
	}
	return s.copyOut(buf, data)
}

// CopyPatches writes the encoded patch list into the caller's buffer, with
// CopyState's sizing contract.
func (s *Surface) CopyPatches(buf []byte) (int, ResultCode) {
	if s.rt == nil {
		return 0, s.failUninitialized("abi.CopyPatches")
	}
	data := s.PatchJSON()
	if data == nil {
		return 0, SerializationError
	}
	return s.copyOut(buf, data)
}

func (s *Surface) copyOut(buf, data []byte) (int, ResultCode) {
	if len(buf) < len(data) {
		s.lastErr = errors.E("abi.copyOut", errors.KindBufferTooSmall,
			stderrors.New("caller buffer too small")).Error()
		return len(data), BufferTooSmall
	}
	copy(buf, data)
	s.lastErr = ""
	return len(data), Ok
}

func (s *Surface) encode(op string, v any) []byte {
	data, err := codec.DefaultCodec.Encode(v)
	if err != nil {
		s.fail(errors.E(op, errors.KindSerialization, err))
		return nil
	}
	return data
}

func (s *Surface) fail(err error) ResultCode {
	s.lastErr = err.Error()
	return CodeForError(err)
}

func (s *Surface) failUninitialized(op string) ResultCode {
	err := errors.E(op, errors.KindUninitialized, stderrors.New("runtime not initialized"))
	s.lastErr = err.Error()
	return NotInitialized
}
