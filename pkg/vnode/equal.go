package vnode

// Equal reports whether two trees are structurally identical: same kinds,
// keys, props, and children, in the same order. Two nil trees are equal.
//
// The reconciler uses Equal as its deep short-circuit: structurally identical
// subtrees produce zero patches.
func Equal(a, b *VNode) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind || a.Key != b.Key || a.Props != b.Props {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the tree. Patch application works on clones so
// the previous and current trees can coexist without aliasing.
func Clone(n *VNode) *VNode {
	if n == nil {
		return nil
	}
	clone := *n
	if len(n.Children) > 0 {
		clone.Children = make([]*VNode, len(n.Children))
		for i, child := range n.Children {
			clone.Children[i] = Clone(child)
		}
	}
	return &clone
}
