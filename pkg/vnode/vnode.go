package vnode

import (
	"encoding/json"
	"fmt"
)

// NodeKind identifies the type of a virtual tree node.
type NodeKind uint8

const (
	// KindContainer is a generic grouping node.
	KindContainer NodeKind = iota
	// KindRow lays out children horizontally.
	KindRow
	// KindColumn lays out children vertically.
	KindColumn
	// KindText displays a run of text.
	KindText
	// KindImage displays an image or icon resource.
	KindImage
	// KindButton is a tappable control.
	KindButton
	// KindInput is a text entry control.
	KindInput
	// KindList is a scrollable sequence of children.
	KindList
	// KindCustom is reserved for application-defined nodes; shells dispatch
	// on Props.Icon to pick a native widget.
	KindCustom
)

var kindNames = [...]string{
	KindContainer: "container",
	KindRow:       "row",
	KindColumn:    "column",
	KindText:      "text",
	KindImage:     "image",
	KindButton:    "button",
	KindInput:     "input",
	KindList:      "list",
	KindCustom:    "custom",
}

func (k NodeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// MarshalJSON encodes the kind as its string name so hosts do not need to
// share the numeric enum.
func (k NodeKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a kind from its string name.
func (k *NodeKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range kindNames {
		if n == name {
			*k = NodeKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown node kind %q", name)
}

// Props holds the renderable attributes of a node. Props is a plain value
// record; comparing two Props values field by field is how the reconciler
// decides whether an UpdateProps patch is needed.
type Props struct {
	Style    Style  `json:"style,omitzero"`
	Text     string `json:"text,omitempty"`
	Icon     string `json:"icon,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// VNode is an immutable description of one UI element for one render pass.
// Children order is render-significant. Key is optional; an empty key means
// the node is matched by position during reconciliation.
type VNode struct {
	Kind     NodeKind `json:"kind"`
	Key      string   `json:"key,omitempty"`
	Props    Props    `json:"props,omitzero"`
	Children []*VNode `json:"children,omitempty"`
}

// New constructs a node of the given kind with the given props and children.
func New(kind NodeKind, props Props, children ...*VNode) *VNode {
	return &VNode{Kind: kind, Props: props, Children: children}
}

// WithKey returns a shallow copy of the node carrying the given key.
// The original node is not modified.
func (n *VNode) WithKey(key string) *VNode {
	clone := *n
	clone.Key = key
	return &clone
}

// Container constructs a grouping node.
func Container(style Style, children ...*VNode) *VNode {
	return &VNode{Kind: KindContainer, Props: Props{Style: style}, Children: children}
}

// Row constructs a horizontal layout node.
func Row(children ...*VNode) *VNode {
	return &VNode{Kind: KindRow, Children: children}
}

// Column constructs a vertical layout node.
func Column(children ...*VNode) *VNode {
	return &VNode{Kind: KindColumn, Children: children}
}

// Text constructs a text node.
func Text(content string) *VNode {
	return &VNode{Kind: KindText, Props: Props{Text: content}}
}

// Textf constructs a text node with formatted content.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Button constructs a button node with the given label.
func Button(label string) *VNode {
	return &VNode{Kind: KindButton, Props: Props{Text: label}}
}

// Image constructs an image node referencing the named resource.
func Image(icon string) *VNode {
	return &VNode{Kind: KindImage, Props: Props{Icon: icon}}
}

// List constructs a scrollable list node.
func List(children ...*VNode) *VNode {
	return &VNode{Kind: KindList, Children: children}
}

// Styled returns a shallow copy of the node with the given style.
func (n *VNode) Styled(style Style) *VNode {
	clone := *n
	clone.Props.Style = style
	return &clone
}

// CountNodes returns the total number of nodes in the subtree rooted at n.
// A nil node counts as zero.
func CountNodes(n *VNode) int {
	if n == nil {
		return 0
	}
	total := 1
	for _, child := range n.Children {
		total += CountNodes(child)
	}
	return total
}
