package reconcile

import "github.com/go-skiff/skiff/pkg/vnode"

// Apply replays a patch list produced by Diff against a deep copy of root and
// returns the resulting tree. The input tree is never modified.
//
// Apply exists to verify patch soundness (Apply(old, Diff(old, new)) is
// structurally equal to new) and to let tooling replay recorded patch logs.
// It expects patch lists in Diff's emission order; in particular the
// child-structural ops for one parent form one contiguous run.
func Apply(root *vnode.VNode, patches []Patch) *vnode.VNode {
	tree := vnode.Clone(root)
	i := 0
	for i < len(patches) {
		p := patches[i]
		switch p.Op {
		case OpReplace:
			if len(p.Path) == 0 {
				tree = vnode.Clone(p.Node)
			} else if parent, idx, ok := parentAt(tree, p.Path); ok {
				parent.Children[idx] = vnode.Clone(p.Node)
			}
			i++
		case OpUpdateProps:
			if n := nodeAt(tree, p.Path); n != nil && p.Props != nil {
				n.Props = *p.Props
			}
			i++
		case OpUpdateText:
			if n := nodeAt(tree, p.Path); n != nil {
				n.Props.Text = p.Text
			}
			i++
		default:
			// Consume the contiguous run of child-structural ops that share
			// this parent and apply them as one batch.
			j := i
			for j < len(patches) && isStructural(patches[j].Op) && patches[j].Path.Equal(p.Path) {
				j++
			}
			if parent := nodeAt(tree, p.Path); parent != nil {
				applyChildBatch(parent, patches[i:j])
			}
			i = j
		}
	}
	return tree
}

func isStructural(op Op) bool {
	return op == OpInsert || op == OpRemove || op == OpMove
}

// applyChildBatch rebuilds a child list from one parent's structural ops.
// Remove and Move positions refer to the pre-patch list; Move destinations
// and Insert positions refer to the final list. Children untouched by any op
// keep their relative order and fill the remaining slots.
func applyChildBatch(parent *vnode.VNode, batch []Patch) {
	old := parent.Children

	removed := make(map[int]bool)
	taken := make(map[int]bool)
	type pin struct {
		at   int
		node *vnode.VNode
	}
	var pins []pin
	inserted := 0

	for _, p := range batch {
		switch p.Op {
		case OpRemove:
			if p.Index >= 0 && p.Index < len(old) {
				removed[p.Index] = true
			}
		case OpMove:
			if p.From >= 0 && p.From < len(old) {
				taken[p.From] = true
				pins = append(pins, pin{at: p.To, node: old[p.From]})
			}
		case OpInsert:
			pins = append(pins, pin{at: p.Index, node: vnode.Clone(p.Node)})
			inserted++
		}
	}

	finalLen := len(old) - len(removed) + inserted
	if finalLen < 0 {
		finalLen = 0
	}
	result := make([]*vnode.VNode, finalLen)
	for _, pn := range pins {
		if pn.at >= 0 && pn.at < finalLen {
			result[pn.at] = pn.node
		}
	}

	slot := 0
	for i, child := range old {
		if removed[i] || taken[i] {
			continue
		}
		for slot < finalLen && result[slot] != nil {
			slot++
		}
		if slot >= finalLen {
			break
		}
		result[slot] = child
	}
	parent.Children = result
}

// nodeAt resolves a path to its node, or nil if the path is out of range.
func nodeAt(root *vnode.VNode, path Path) *vnode.VNode {
	n := root
	for _, idx := range path {
		if n == nil || idx < 0 || idx >= len(n.Children) {
			return nil
		}
		n = n.Children[idx]
	}
	return n
}

// parentAt resolves a non-empty path to the parent node and final index.
func parentAt(root *vnode.VNode, path Path) (*vnode.VNode, int, bool) {
	if len(path) == 0 {
		return nil, 0, false
	}
	parent := nodeAt(root, path[:len(path)-1])
	idx := path[len(path)-1]
	if parent == nil || idx < 0 || idx >= len(parent.Children) {
		return nil, 0, false
	}
	return parent, idx, true
}
