package vnode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-skiff/skiff/pkg/errors"
)

// maxTreeDepth limits validation recursion. Build functions are pure and
// acyclic by contract; the guard turns an accidental cycle into a structured
// error instead of a stack overflow.
const maxTreeDepth = 500

// Validate checks the structural invariants of a tree before it is handed to
// the reconciler: no duplicate non-empty keys within one sibling list, no nil
// children, and bounded depth.
//
// Returning a DuplicateKey error here is what guarantees the diff itself never
// encounters a key ambiguity at runtime.
func Validate(root *VNode) error {
	if root == nil {
		return nil
	}
	return validateNode(root, nil, 0)
}

func validateNode(n *VNode, path []int, depth int) error {
	if depth > maxTreeDepth {
		return &errors.SkiffError{
			Op:   "vnode.Validate",
			Kind: errors.KindInvalidArgument,
			Path: formatPath(path),
			Err:  fmt.Errorf("tree exceeds maximum depth %d; cycle suspected", maxTreeDepth),
		}
	}

	seen := make(map[string]int, len(n.Children))
	for i, child := range n.Children {
		if child == nil {
			return &errors.SkiffError{
				Op:   "vnode.Validate",
				Kind: errors.KindInvalidArgument,
				Path: formatPath(append(path, i)),
				Err:  fmt.Errorf("nil child at index %d", i),
			}
		}
		if child.Key != "" {
			if prev, dup := seen[child.Key]; dup {
				return &errors.SkiffError{
					Op:   "vnode.Validate",
					Kind: errors.KindDuplicateKey,
					Path: formatPath(append(path, i)),
					Err:  fmt.Errorf("duplicate sibling key %q at indexes %d and %d", child.Key, prev, i),
				}
			}
			seen[child.Key] = i
		}
	}

	for i, child := range n.Children {
		if err := validateNode(child, append(path, i), depth+1); err != nil {
			return err
		}
	}
	return nil
}

func formatPath(path []int) string {
	if len(path) == 0 {
		return "/"
	}
	parts := make([]string, len(path))
	for i, idx := range path {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, "/")
}
