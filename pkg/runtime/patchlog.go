package runtime

import (
	"time"

	"github.com/go-skiff/skiff/pkg/reconcile"
)

// PatchLogEntry records the patch list one dispatch produced.
type PatchLogEntry struct {
	// Seq numbers dispatches from 1, independent of log truncation.
	Seq uint64 `json:"seq"`
	// Version is the state version after the dispatch.
	Version uint64            `json:"version"`
	Patches []reconcile.Patch `json:"patches"`
	Time    time.Time         `json:"time"`
}

// patchLog is a fixed-capacity ring of recent patch lists.
type patchLog struct {
	buf  []PatchLogEntry
	next uint64 // total appends so far
	cap  int
}

func newPatchLog(capacity int) *patchLog {
	if capacity < 0 {
		capacity = 0
	}
	return &patchLog{cap: capacity}
}

func (l *patchLog) append(version uint64, patches []reconcile.Patch) {
	if l.cap == 0 {
		return
	}
	l.next++
	entry := PatchLogEntry{
		Seq:     l.next,
		Version: version,
		Patches: patches,
		Time:    time.Now(),
	}
	if len(l.buf) < l.cap {
		l.buf = append(l.buf, entry)
		return
	}
	copy(l.buf, l.buf[1:])
	l.buf[len(l.buf)-1] = entry
}

// entries returns the retained entries, oldest first.
func (l *patchLog) entries() []PatchLogEntry {
	out := make([]PatchLogEntry, len(l.buf))
	copy(out, l.buf)
	return out
}
