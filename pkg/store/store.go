// Package store owns the single live application-state instance and applies
// events to it transactionally.
//
// A Store has exactly one writer: the reducer, invoked through Apply. Every
// successfully applied event increments the state version by exactly one;
// a rejected event leaves both state and version untouched. Because every
// call runs to completion on the caller's thread, the store carries no
// internal locking; hosts that call from multiple threads must serialize
// access themselves.
package store

import (
	stderrors "errors"

	"github.com/go-skiff/skiff/pkg/errors"
)

// Reducer applies one event to the state in place. Returning an error rejects
// the event; the reducer must not have made any observable change in that
// case. Contextual validation (mode and screen gating) happens here, before
// any mutation.
type Reducer func(state any, event Event) error

// Store is the sole owner of one application state instance.
type Store struct {
	state   any
	version uint64
	reducer Reducer
}

// New creates a store around the given initial state and reducer.
// The caller must not retain a mutable alias to initial.
func New(initial any, reducer Reducer) *Store {
	return &Store{state: initial, reducer: reducer}
}

// State returns the live state instance. Callers treat it as a read-only
// snapshot; mutation outside the reducer breaks the version contract.
func (s *Store) State() any {
	return s.state
}

// Version returns the monotonic state version. It starts at zero and
// increases by exactly one per successfully applied event, letting hosts
// cheaply detect "nothing changed" without re-deriving a tree.
func (s *Store) Version() uint64 {
	return s.version
}

// Apply validates and applies one event. On success the state has been
// mutated in place and the version advanced by one. On failure both are
// untouched and a typed error describes the rejection.
func (s *Store) Apply(event Event) error {
	if event == nil {
		return errors.E("store.Apply", errors.KindInvalidArgument,
			stderrors.New("nil event"))
	}
	if s.reducer == nil {
		return errors.E("store.Apply", errors.KindInvalidEvent,
			stderrors.New("no reducer registered"))
	}
	if err := s.reducer(s.state, event); err != nil {
		if errors.KindOf(err) != errors.KindUnknown {
			return err
		}
		return errors.E("store.Apply", errors.KindInvalidEvent, err)
	}
	s.version++
	return nil
}
