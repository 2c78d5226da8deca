package reconcile

import (
	"sort"
	"strconv"

	"github.com/go-skiff/skiff/pkg/vnode"
)

// Diff computes the ordered patch sequence transforming a rendering of old
// into a rendering of new. Both trees must already have passed
// vnode.Validate; Diff itself is total and never fails.
//
// Diffing a tree against itself (or any structurally equal tree) returns an
// empty list.
func Diff(old, new *vnode.VNode) []Patch {
	if old == nil && new == nil {
		return nil
	}
	if old == nil || new == nil || old.Kind != new.Kind {
		// A missing or type-changed root invalidates any finer-grained diff.
		return []Patch{{Op: OpReplace, Path: Path{}, Node: new}}
	}
	d := &differ{}
	d.diffNode(Path{}, old, new)
	return d.patches
}

type differ struct {
	patches []Patch
}

func (d *differ) emit(p Patch) {
	d.patches = append(d.patches, p)
}

// diffNode assumes old and new are non-nil and share the same kind, except
// when called on a matched child pair whose kinds may differ.
func (d *differ) diffNode(path Path, old, new *vnode.VNode) {
	if vnode.Equal(old, new) {
		return
	}
	if old.Kind != new.Kind {
		// A kind change invalidates any finer-grained diff below this node.
		d.emit(Patch{Op: OpReplace, Path: path, Node: new})
		return
	}

	if old.Props != new.Props {
		isText := new.Kind == vnode.KindText
		if isText && old.Props.Text != new.Props.Text {
			d.emit(Patch{Op: OpUpdateText, Path: path, Text: new.Props.Text})
		}
		if fields := changedFields(old.Props, new.Props, isText); len(fields) > 0 {
			props := new.Props
			d.emit(Patch{Op: OpUpdateProps, Path: path, Props: &props, Fields: fields})
		}
	}

	d.diffChildren(path, old.Children, new.Children)
}

// changedFields reports which prop fields differ. Text changes on text nodes
// are carried by a dedicated UpdateText patch and excluded here.
func changedFields(old, new vnode.Props, skipText bool) []string {
	var fields []string
	if old.Style != new.Style {
		fields = append(fields, "style")
	}
	if !skipText && old.Text != new.Text {
		fields = append(fields, "text")
	}
	if old.Icon != new.Icon {
		fields = append(fields, "icon")
	}
	if old.Disabled != new.Disabled {
		fields = append(fields, "disabled")
	}
	return fields
}

func (d *differ) diffChildren(parent Path, old, new []*vnode.VNode) {
	if anyKeyed(old) || anyKeyed(new) {
		d.diffKeyedChildren(parent, old, new)
		return
	}
	d.diffPositionalChildren(parent, old, new)
}

func anyKeyed(children []*vnode.VNode) bool {
	for _, c := range children {
		if c.Key != "" {
			return true
		}
	}
	return false
}

// diffPositionalChildren matches children index-for-index: surplus old
// children are removed from the tail, surplus new children appended.
func (d *differ) diffPositionalChildren(parent Path, old, new []*vnode.VNode) {
	common := min(len(old), len(new))

	// Removals first, in descending index order so earlier indices stay valid.
	for i := len(old) - 1; i >= common; i-- {
		d.emit(Patch{Op: OpRemove, Path: parent, Index: i})
	}
	for i := common; i < len(new); i++ {
		d.emit(Patch{Op: OpInsert, Path: parent, Index: i, Node: new[i]})
	}
	for i := 0; i < common; i++ {
		d.diffNode(parent.child(i), old[i], new[i])
	}
}

// identityOf assigns each child a reconciliation identity: its key if it has
// one, otherwise a synthetic ordinal among the unkeyed children of the same
// list. The NUL prefix keeps synthetic identities disjoint from user keys.
func identityOf(children []*vnode.VNode) []string {
	ids := make([]string, len(children))
	unkeyed := 0
	for i, c := range children {
		if c.Key != "" {
			ids[i] = c.Key
		} else {
			ids[i] = "\x00u" + strconv.Itoa(unkeyed)
			unkeyed++
		}
	}
	return ids
}

// diffKeyedChildren matches children by identity. Identities present on both
// sides whose relative rank changed produce a Move; one-sided identities
// produce Remove or Insert. Matched pairs are then diffed recursively at
// their final positions.
func (d *differ) diffKeyedChildren(parent Path, old, new []*vnode.VNode) {
	oldIDs := identityOf(old)
	newIDs := identityOf(new)

	oldIndex := make(map[string]int, len(old))
	for i, id := range oldIDs {
		oldIndex[id] = i
	}
	newIndex := make(map[string]int, len(new))
	for i, id := range newIDs {
		newIndex[id] = i
	}

	// Removals: old identities absent from the new list, descending.
	for i := len(old) - 1; i >= 0; i-- {
		if _, kept := newIndex[oldIDs[i]]; !kept {
			d.emit(Patch{Op: OpRemove, Path: parent, Index: i})
		}
	}

	// Ranks among shared identities. A shared child moves exactly when its
	// rank within the shared subsequence changes; children that merely shift
	// because of surrounding insertions or removals stay put.
	oldRank := make(map[string]int, len(old))
	rank := 0
	for _, id := range oldIDs {
		if _, shared := newIndex[id]; shared {
			oldRank[id] = rank
			rank++
		}
	}
	var moves []Patch
	rank = 0
	for i, id := range newIDs {
		oi, shared := oldIndex[id]
		if !shared {
			continue
		}
		if oldRank[id] != rank {
			moves = append(moves, Patch{Op: OpMove, Path: parent, From: oi, To: i})
		}
		rank++
	}
	sort.SliceStable(moves, func(a, b int) bool { return moves[a].To < moves[b].To })
	for _, m := range moves {
		d.emit(m)
	}

	// Insertions at final positions, ascending.
	for i, id := range newIDs {
		if _, shared := oldIndex[id]; !shared {
			d.emit(Patch{Op: OpInsert, Path: parent, Index: i, Node: new[i]})
		}
	}

	// Recurse into matched pairs at their final positions.
	for i, id := range newIDs {
		if oi, shared := oldIndex[id]; shared {
			d.diffNode(parent.child(i), old[oi], new[i])
		}
	}
}
