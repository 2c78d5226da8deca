// Package reconcile computes the ordered patch sequence that transforms a
// rendering of one virtual tree into a rendering of another.
//
// Diff is a total, pure function over two validated trees: it never fails at
// runtime. Structurally identical subtrees short-circuit to zero patches, so
// diffing a tree against itself is guaranteed to produce an empty list.
//
// Child reconciliation is position- and key-aware. Sibling lists where at
// least one child carries a key are matched by identity, so reordering keyed
// children produces Move operations instead of Remove/Insert churn. Unkeyed
// children are matched purely by position.
//
// Apply replays a patch list against a copy of the old tree. It exists for
// verification and tooling; platform shells normally translate patches
// directly into native widget mutations instead.
package reconcile
