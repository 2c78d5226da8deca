// Package errors provides structured error handling for the Skiff runtime.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindUninitialized indicates a runtime call before init.
	KindUninitialized
	// KindInvalidEvent indicates an unrecognized event type code, or an event
	// that is not valid in the current application mode.
	KindInvalidEvent
	// KindInvalidArgument indicates a malformed event payload or argument.
	KindInvalidArgument
	// KindDuplicateKey indicates a tree-build validation failure: two siblings
	// sharing the same key.
	KindDuplicateKey
	// KindBufferTooSmall indicates a caller-supplied buffer was too small to
	// hold the requested data.
	KindBufferTooSmall
	// KindSerialization indicates a snapshot or patch encoding failure.
	KindSerialization
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindBuild indicates a failure inside an application build function.
	KindBuild
)

func (k ErrorKind) String() string {
	switch k {
	case KindUninitialized:
		return "uninitialized"
	case KindInvalidEvent:
		return "invalid-event"
	case KindInvalidArgument:
		return "invalid-argument"
	case KindDuplicateKey:
		return "duplicate-key"
	case KindBufferTooSmall:
		return "buffer-too-small"
	case KindSerialization:
		return "serialization"
	case KindPanic:
		return "panic"
	case KindBuild:
		return "build"
	default:
		return "unknown"
	}
}

// SkiffError represents a structured error in the Skiff runtime.
type SkiffError struct {
	// Op is the operation that failed (e.g., "runtime.Dispatch").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Path locates the tree node involved, if applicable (e.g., "0/2").
	Path string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *SkiffError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s [%s] path=%s: %v", e.Op, e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *SkiffError) Unwrap() error {
	return e.Err
}

// E constructs a SkiffError for the given operation and kind.
func E(op string, kind ErrorKind, err error) *SkiffError {
	return &SkiffError{Op: op, Kind: kind, Err: err, Timestamp: time.Now()}
}

// KindOf returns the ErrorKind carried by err, unwrapping as needed.
// Errors that are not SkiffErrors report KindUnknown.
func KindOf(err error) ErrorKind {
	for err != nil {
		if se, ok := err.(*SkiffError); ok {
			return se.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return KindUnknown
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "runtime.buildTree").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// DecodeError represents a failure to decode an event payload.
type DecodeError struct {
	// EventType is the numeric event type code received at the boundary.
	EventType uint32
	// DataType is the expected payload type name.
	DataType string
	// Err is the underlying decoding error, if any.
	Err error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to decode %s for event type %d: %v", e.DataType, e.EventType, e.Err)
	}
	return fmt.Sprintf("failed to decode %s for event type %d", e.DataType, e.EventType)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ErrorHandler receives errors reported by the Skiff runtime.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *SkiffError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
