package store

import (
	stderrors "errors"
	"fmt"

	"github.com/go-skiff/skiff/pkg/errors"
)

// Event is a decoded, typed application event. The numeric type code exists
// only at the host boundary; past the decoder table, events travel as closed
// tagged variants.
type Event interface {
	// EventType returns the boundary type code this event decodes from.
	EventType() uint32
}

// DecodeFunc turns a raw payload into a typed event. Implementations return
// an error when the payload is malformed for their event type.
type DecodeFunc func(payload []byte) (Event, error)

// DecoderTable maps boundary event type codes to payload decoders. Unknown
// codes are rejected immediately, before any reducer runs, so a raw integer
// never travels past the translation step.
type DecoderTable struct {
	decoders map[uint32]DecodeFunc
}

// NewDecoderTable creates an empty decoder table.
func NewDecoderTable() *DecoderTable {
	return &DecoderTable{decoders: make(map[uint32]DecodeFunc)}
}

// Register binds a type code to a decoder. Registering the same code twice
// panics: decoder tables are assembled once at startup and a silent override
// would hide a real application bug.
func (t *DecoderTable) Register(eventType uint32, decode DecodeFunc) {
	if decode == nil {
		panic("store: nil decoder")
	}
	if _, exists := t.decoders[eventType]; exists {
		panic(fmt.Sprintf("store: decoder for event type %d already registered", eventType))
	}
	t.decoders[eventType] = decode
}

// Decode validates a boundary (type, payload) pair into a typed event.
func (t *DecoderTable) Decode(eventType uint32, payload []byte) (Event, error) {
	decode, ok := t.decoders[eventType]
	if !ok {
		return nil, errors.E("store.Decode", errors.KindInvalidEvent,
			fmt.Errorf("unknown event type code %d", eventType))
	}
	event, err := decode(payload)
	if err != nil {
		return nil, &errors.SkiffError{
			Op:   "store.Decode",
			Kind: errors.KindInvalidArgument,
			Err:  &errors.DecodeError{EventType: eventType, DataType: fmt.Sprintf("event(%d)", eventType), Err: err},
		}
	}
	if event == nil {
		return nil, errors.E("store.Decode", errors.KindInvalidArgument,
			stderrors.New("decoder returned nil event"))
	}
	return event, nil
}

// Known reports whether a type code has a registered decoder.
func (t *DecoderTable) Known(eventType uint32) bool {
	_, ok := t.decoders[eventType]
	return ok
}
