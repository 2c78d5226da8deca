// Package vnode defines the immutable virtual tree that application build
// functions produce each render cycle.
//
// A VNode describes one UI element for one render pass: its kind, its props
// (style, text, icon), its ordered children, and an optional key. Trees are
// value descriptions only; they carry no behavior and never alias mutable
// application state. Platform shells map nodes and patches to their native
// widget primitives.
//
// Build functions must be pure: identical application state yields
// structurally identical trees. Keys disambiguate "same identity, moved" from
// "removed one, inserted another" during reconciliation; duplicate keys within
// one sibling list are rejected by Validate before any diff runs.
package vnode
