// Package runtime ties the state store, the application build function, and
// the reconciler into one explicitly owned runtime object.
//
// A Runtime is not a hidden process-wide singleton: hosts create as many
// isolated instances as they need and every call runs synchronously to
// completion on the caller's thread. The runtime performs no I/O, never
// blocks, and is not internally safe for concurrent callers; hosts must
// serialize access (a lock, a dispatch queue, or thread confinement).
package runtime

import (
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/go-skiff/skiff/pkg/codec"
	"github.com/go-skiff/skiff/pkg/errors"
	"github.com/go-skiff/skiff/pkg/reconcile"
	"github.com/go-skiff/skiff/pkg/store"
	"github.com/go-skiff/skiff/pkg/vnode"
)

// Builder maps application state to a virtual tree. Builders must be pure:
// identical state yields structurally identical trees, and building performs
// no I/O and retains no mutable alias into the live state.
type Builder func(state any) *vnode.VNode

// App bundles everything the runtime needs to host one application.
type App struct {
	// Name identifies the application in diagnostics.
	Name string
	// InitialState constructs the single live state instance.
	InitialState func() any
	// Reducer applies decoded events to the state.
	Reducer store.Reducer
	// Events maps boundary event type codes to payload decoders.
	Events *store.DecoderTable
	// Build produces the virtual tree for the current state.
	Build Builder
}

// Option configures a Runtime.
type Option func(*options)

type options struct {
	patchLogSize int
}

// WithPatchLog sets how many recent patch lists the runtime retains for the
// inspector. Zero disables the log. The default keeps 64 entries.
func WithPatchLog(size int) Option {
	return func(o *options) { o.patchLogSize = size }
}

// Runtime owns one application instance: its state store, its current tree,
// and the patch list produced by the most recent dispatch.
type Runtime struct {
	id    string
	app   App
	store *store.Store

	// current is the last successfully built tree; previous exists only for
	// the duration of a diff pass and is dropped as soon as patches are
	// computed.
	current *vnode.VNode
	patches []reconcile.Patch

	log     *patchLog
	lastErr error

	inspect inspectState
}

// New creates a runtime for the given application, builds the initial tree,
// and validates it. The initial tree counts as the first render; the first
// dispatch diffs against it.
func New(app App, opts ...Option) (*Runtime, error) {
	const op = "runtime.New"
	if app.InitialState == nil {
		return nil, errors.E(op, errors.KindInvalidArgument, stderrors.New("app.InitialState is required"))
	}
	if app.Reducer == nil {
		return nil, errors.E(op, errors.KindInvalidArgument, stderrors.New("app.Reducer is required"))
	}
	if app.Events == nil {
		return nil, errors.E(op, errors.KindInvalidArgument, stderrors.New("app.Events is required"))
	}
	if app.Build == nil {
		return nil, errors.E(op, errors.KindInvalidArgument, stderrors.New("app.Build is required"))
	}

	o := options{patchLogSize: 64}
	for _, opt := range opts {
		opt(&o)
	}

	r := &Runtime{
		id:    uuid.NewString(),
		app:   app,
		store: store.New(app.InitialState(), app.Reducer),
		log:   newPatchLog(o.patchLogSize),
	}

	tree, err := r.buildTree(op)
	if err != nil {
		return nil, err
	}
	r.current = tree
	r.publishSnapshot()
	return r, nil
}

// ID returns the unique identifier of this runtime instance.
func (r *Runtime) ID() string {
	return r.id
}

// AppName returns the hosted application's name.
func (r *Runtime) AppName() string {
	return r.app.Name
}

// Version returns the store's monotonic state version.
func (r *Runtime) Version() uint64 {
	return r.store.Version()
}

// State returns the live application state. Read-only by contract.
func (r *Runtime) State() any {
	return r.store.State()
}

// StateSnapshot returns the state encoded with the default codec, suitable
// for handing across the host boundary.
func (r *Runtime) StateSnapshot() ([]byte, error) {
	data, err := codec.DefaultCodec.Encode(r.store.State())
	if err != nil {
		return nil, errors.E("runtime.StateSnapshot", errors.KindSerialization, err)
	}
	return data, nil
}

// Render returns the current tree. The reference is borrowed: it stays valid
// only until the next mutating call, and hosts must not retain it across a
// subsequent Dispatch.
func (r *Runtime) Render() *vnode.VNode {
	return r.current
}

// Patches returns the patch list produced by the most recent successful
// dispatch, or nil when nothing changed. Borrowed like Render.
func (r *Runtime) Patches() []reconcile.Patch {
	return r.patches
}

// LastError returns the most recent dispatch error, or nil.
func (r *Runtime) LastError() error {
	return r.lastErr
}

// Dispatch decodes a boundary (type, payload) pair and applies it. On
// success the state version has advanced by one, the tree has been rebuilt,
// and Patches holds the diff against the previous tree.
//
// Failures come in two shapes. When decoding or the reducer rejects the
// event, state, version, tree, and patches are all unchanged. When the event
// was applied but the build function then fails, state and version have
// advanced, the previous tree keeps serving, and Patches is cleared so a
// polling host never re-consumes an already-applied list.
func (r *Runtime) Dispatch(eventType uint32, payload []byte) error {
	event, err := r.app.Events.Decode(eventType, payload)
	if err != nil {
		r.lastErr = err
		return err
	}
	return r.DispatchEvent(event)
}

// DispatchEvent applies an already-decoded event.
func (r *Runtime) DispatchEvent(event store.Event) error {
	const op = "runtime.DispatchEvent"

	if err := r.store.Apply(event); err != nil {
		r.lastErr = err
		return err
	}

	next, err := r.buildTree(op)
	if err != nil {
		// The event itself was valid and the state has advanced; the broken
		// build function is an application bug. Keep serving the previous
		// tree so the host is never handed an invalid one, and drop the
		// previous dispatch's patches: the version bump must not trick a
		// polling host into replaying a list it already applied.
		r.patches = nil
		r.lastErr = err
		return err
	}

	r.patches = reconcile.Diff(r.current, next)
	r.current = next
	r.lastErr = nil
	r.log.append(r.store.Version(), r.patches)
	r.publishSnapshot()
	return nil
}

// buildTree runs the application build function with panic recovery and
// validates the result before it can reach the reconciler.
func (r *Runtime) buildTree(op string) (tree *vnode.VNode, err error) {
	defer errors.RecoverWithCallback(op, func(v any) {
		tree = nil
		err = errors.E(op, errors.KindBuild, fmt.Errorf("build function panicked: %v", v))
	})

	tree = r.app.Build(r.store.State())
	if tree == nil {
		return nil, errors.E(op, errors.KindBuild, fmt.Errorf("build function returned nil tree"))
	}
	if verr := vnode.Validate(tree); verr != nil {
		return nil, verr
	}
	return tree, nil
}

// PatchLog returns a copy of the retained patch history, oldest first.
func (r *Runtime) PatchLog() []PatchLogEntry {
	return r.log.entries()
}
