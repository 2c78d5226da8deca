package reconcile

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-skiff/skiff/pkg/vnode"
)

// Op identifies a patch operation.
type Op uint8

const (
	// OpInsert adds a subtree at Index under the node at Path.
	OpInsert Op = iota
	// OpRemove deletes the child at Index under the node at Path.
	OpRemove
	// OpMove relocates a keyed child of the node at Path from its old
	// position From to its final position To.
	OpMove
	// OpUpdateProps replaces the changed prop fields of the node at Path.
	OpUpdateProps
	// OpUpdateText replaces the text content of the text node at Path.
	OpUpdateText
	// OpReplace substitutes the whole subtree at Path.
	OpReplace
)

var opNames = [...]string{
	OpInsert:      "insert",
	OpRemove:      "remove",
	OpMove:        "move",
	OpUpdateProps: "update-props",
	OpUpdateText:  "update-text",
	OpReplace:     "replace",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// MarshalJSON encodes the op as its string name.
func (o Op) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON decodes an op from its string name.
func (o *Op) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range opNames {
		if n == name {
			*o = Op(i)
			return nil
		}
	}
	return fmt.Errorf("unknown patch op %q", name)
}

// Path addresses a node as the sequence of child indices from the root.
// The empty path is the root itself. Indices in a patch refer to positions
// after all earlier patches in the same list have been applied.
type Path []int

func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, "/")
}

// Equal reports whether two paths address the same node.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// child returns a new path extended by one index. The result never shares a
// backing array with p, so sibling extensions cannot clobber each other.
func (p Path) child(index int) Path {
	extended := make(Path, len(p)+1)
	copy(extended, p)
	extended[len(p)] = index
	return extended
}

// Patch is one edit operation. Node-level ops (UpdateProps, UpdateText,
// Replace) address the affected node via Path; child-structural ops (Insert,
// Remove, Move) address the parent via Path and carry child positions.
type Patch struct {
	Op   Op   `json:"op"`
	Path Path `json:"path"`

	// Index is the child position for Insert (final position) and Remove
	// (position in the pre-patch child list).
	Index int `json:"index,omitempty"`

	// From is the child's position in the pre-patch list, To its final
	// position. Used by Move only.
	From int `json:"from,omitempty"`
	To   int `json:"to,omitempty"`

	// Node is the inserted or replacement subtree.
	Node *vnode.VNode `json:"node,omitempty"`

	// Props is the full new prop record for UpdateProps; Fields names the
	// fields that actually changed ("style", "text", "icon", "disabled").
	Props  *vnode.Props `json:"props,omitempty"`
	Fields []string     `json:"fields,omitempty"`

	// Text is the new content for UpdateText.
	Text string `json:"text,omitempty"`
}

func (p Patch) String() string {
	switch p.Op {
	case OpInsert:
		return fmt.Sprintf("insert %s[%d]", p.Path, p.Index)
	case OpRemove:
		return fmt.Sprintf("remove %s[%d]", p.Path, p.Index)
	case OpMove:
		return fmt.Sprintf("move %s[%d->%d]", p.Path, p.From, p.To)
	case OpUpdateProps:
		return fmt.Sprintf("update-props %s %v", p.Path, p.Fields)
	case OpUpdateText:
		return fmt.Sprintf("update-text %s %q", p.Path, p.Text)
	case OpReplace:
		return fmt.Sprintf("replace %s", p.Path)
	default:
		return fmt.Sprintf("%s %s", p.Op, p.Path)
	}
}
