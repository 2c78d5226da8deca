package abi

import (
	"fmt"

	"github.com/go-skiff/skiff/pkg/errors"
)

// ResultCode is the status value every ABI call returns. Errors cross the
// boundary as small integers, never as exceptions, because the boundary is
// called from languages with incompatible exception models.
type ResultCode int32

const (
	Ok                 ResultCode = 0
	NotInitialized     ResultCode = 1
	InvalidEvent       ResultCode = 2
	InvalidArgument    ResultCode = 3
	BufferTooSmall     ResultCode = 4
	SerializationError ResultCode = 5
	Unknown            ResultCode = 6
)

func (c ResultCode) String() string {
	switch c {
	case Ok:
		return "ok"
	case NotInitialized:
		return "not-initialized"
	case InvalidEvent:
		return "invalid-event"
	case InvalidArgument:
		return "invalid-argument"
	case BufferTooSmall:
		return "buffer-too-small"
	case SerializationError:
		return "serialization-error"
	case Unknown:
		return "unknown"
	default:
		return fmt.Sprintf("result(%d)", int32(c))
	}
}

// CodeForError maps a structured error to its boundary result code.
// Build-time failures (duplicate keys, panicking build functions) have no
// dedicated code; they surface as Unknown with detail in the last-error
// string.
func CodeForError(err error) ResultCode {
	if err == nil {
		return Ok
	}
	switch errors.KindOf(err) {
	case errors.KindUninitialized:
		return NotInitialized
	case errors.KindInvalidEvent:
		return InvalidEvent
	case errors.KindInvalidArgument:
		return InvalidArgument
	case errors.KindBufferTooSmall:
		return BufferTooSmall
	case errors.KindSerialization:
		return SerializationError
	default:
		return Unknown
	}
}
