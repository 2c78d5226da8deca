package runtime

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-skiff/skiff/pkg/vnode"
)

// Snapshot is an immutable copy of the runtime's observable surface,
// published for out-of-band readers like the inspector. The ABI path never
// reads snapshots; hosts polling get_state_version are unaffected.
type Snapshot struct {
	ID      string          `json:"id"`
	App     string          `json:"app,omitempty"`
	Version uint64          `json:"version"`
	State   json.RawMessage `json:"state,omitempty"`
	Tree    *vnode.VNode    `json:"tree,omitempty"`
	Log     []PatchLogEntry `json:"log,omitempty"`
	Time    time.Time       `json:"time"`
}

// inspectState holds the published snapshot. Publishing happens on the
// dispatching thread; reads may come from inspector HTTP handlers on other
// threads, so this is the one place in the runtime with a lock.
type inspectState struct {
	enabled atomic.Bool
	mu      sync.RWMutex
	last    Snapshot
}

// EnableInspection turns on snapshot publishing and publishes the current
// state immediately. Call it on the dispatching thread before attaching an
// inspector; snapshot copies are skipped entirely while disabled.
func (r *Runtime) EnableInspection() {
	r.inspect.enabled.Store(true)
	r.publishSnapshot()
}

// Snapshot returns the most recently published snapshot. The zero Snapshot
// is returned before EnableInspection has been called.
func (r *Runtime) Snapshot() Snapshot {
	r.inspect.mu.RLock()
	defer r.inspect.mu.RUnlock()
	return r.inspect.last
}

func (r *Runtime) publishSnapshot() {
	if !r.inspect.enabled.Load() {
		return
	}
	state, err := r.StateSnapshot()
	if err != nil {
		state = nil
	}
	snap := Snapshot{
		ID:      r.id,
		App:     r.app.Name,
		Version: r.store.Version(),
		State:   state,
		Tree:    vnode.Clone(r.current),
		Log:     r.log.entries(),
		Time:    time.Now(),
	}
	r.inspect.mu.Lock()
	r.inspect.last = snap
	r.inspect.mu.Unlock()
}
