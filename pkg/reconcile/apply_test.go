package reconcile

import (
	"math/rand"
	"testing"

	"github.com/go-skiff/skiff/pkg/vnode"
)

// checkSound verifies the patch soundness property for one tree pair:
// applying diff(old, new) to old reproduces new.
func checkSound(t *testing.T, name string, old, new *vnode.VNode) {
	t.Helper()
	patches := Diff(old, new)
	got := Apply(old, patches)
	if !vnode.Equal(got, new) {
		t.Errorf("%s: Apply(old, Diff(old, new)) != new\npatches: %v", name, patches)
	}
}

func TestApplySoundness(t *testing.T) {
	keyed := func(label, key string) *vnode.VNode {
		return vnode.Text(label).WithKey(key)
	}

	cases := []struct {
		name string
		old  *vnode.VNode
		new  *vnode.VNode
	}{
		{
			name: "identical",
			old:  vnode.Column(vnode.Text("a")),
			new:  vnode.Column(vnode.Text("a")),
		},
		{
			name: "text change",
			old:  vnode.Column(vnode.Text("a")),
			new:  vnode.Column(vnode.Text("b")),
		},
		{
			name: "root kind change",
			old:  vnode.Column(vnode.Text("a")),
			new:  vnode.Row(vnode.Text("a")),
		},
		{
			name: "positional grow",
			old:  vnode.Column(vnode.Text("a")),
			new:  vnode.Column(vnode.Text("a"), vnode.Text("b"), vnode.Text("c")),
		},
		{
			name: "positional shrink",
			old:  vnode.Column(vnode.Text("a"), vnode.Text("b"), vnode.Text("c")),
			new:  vnode.Column(vnode.Text("b")),
		},
		{
			name: "keyed swap",
			old:  vnode.Column(keyed("a", "a"), keyed("b", "b")),
			new:  vnode.Column(keyed("b", "b"), keyed("a", "a")),
		},
		{
			name: "keyed rotate",
			old:  vnode.Column(keyed("a", "a"), keyed("b", "b"), keyed("c", "c")),
			new:  vnode.Column(keyed("c", "c"), keyed("a", "a"), keyed("b", "b")),
		},
		{
			name: "keyed churn",
			old:  vnode.Column(keyed("a", "a"), keyed("b", "b"), keyed("c", "c"), keyed("d", "d")),
			new:  vnode.Column(keyed("d", "d"), keyed("b", "b"), keyed("a", "a"), keyed("e", "e")),
		},
		{
			name: "keyed move with content change",
			old:  vnode.Column(keyed("a", "a"), keyed("b", "b")),
			new:  vnode.Column(keyed("b2", "b"), keyed("a", "a")),
		},
		{
			name: "nested structural change",
			old: vnode.Column(
				vnode.Row(keyed("x", "x"), keyed("y", "y")),
				vnode.Text("tail"),
			),
			new: vnode.Column(
				vnode.Row(keyed("y", "y"), keyed("x", "x"), keyed("z", "z")),
				vnode.Text("tail2"),
			),
		},
		{
			name: "keyed list becomes empty",
			old:  vnode.Column(keyed("a", "a"), keyed("b", "b")),
			new:  vnode.Column(),
		},
		{
			name: "empty list becomes keyed",
			old:  vnode.Column(),
			new:  vnode.Column(keyed("a", "a"), keyed("b", "b")),
		},
	}

	for _, tc := range cases {
		checkSound(t, tc.name, tc.old, tc.new)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	old := vnode.Column(vnode.Text("a"), vnode.Text("b"))
	new := vnode.Column(vnode.Text("b"))
	before := vnode.Clone(old)
	_ = Apply(old, Diff(old, new))
	if !vnode.Equal(old, before) {
		t.Error("Apply mutated the input tree")
	}
}

func TestApplyResultSharesNothingWithPatches(t *testing.T) {
	old := vnode.Column()
	new := vnode.Column(vnode.Text("inserted"))
	patches := Diff(old, new)
	got := Apply(old, patches)

	// Mutating the applied tree must not leak into the patch's subtree.
	got.Children[0].Props.Text = "mutated"
	if patches[0].Node.Props.Text != "inserted" {
		t.Error("Apply aliased the patch subtree instead of cloning it")
	}
}

// TestApplySoundnessRandomized exercises the diff/apply pair over generated
// tree pairs with a fixed seed.
func TestApplySoundnessRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		old := randomTree(rng, 0)
		new := randomTree(rng, 0)
		if err := vnode.Validate(old); err != nil {
			t.Fatalf("generator produced invalid old tree: %v", err)
		}
		if err := vnode.Validate(new); err != nil {
			t.Fatalf("generator produced invalid new tree: %v", err)
		}
		checkSound(t, "randomized", old, new)
	}
}

// randomTree builds a small tree. Keys within one sibling list are drawn
// without replacement so generated trees always pass validation.
func randomTree(rng *rand.Rand, depth int) *vnode.VNode {
	kinds := []vnode.NodeKind{vnode.KindColumn, vnode.KindRow, vnode.KindList, vnode.KindContainer}
	node := &vnode.VNode{Kind: kinds[rng.Intn(len(kinds))]}

	if depth >= 3 {
		node.Kind = vnode.KindText
		node.Props.Text = randomWord(rng)
		return node
	}

	keyPool := []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta"}
	rng.Shuffle(len(keyPool), func(i, j int) { keyPool[i], keyPool[j] = keyPool[j], keyPool[i] })

	n := rng.Intn(5)
	for i := 0; i < n; i++ {
		var child *vnode.VNode
		if rng.Intn(2) == 0 {
			child = vnode.Text(randomWord(rng))
		} else {
			child = randomTree(rng, depth+1)
		}
		if rng.Intn(2) == 0 {
			child = child.WithKey(keyPool[i])
		}
		node.Children = append(node.Children, child)
	}
	return node
}

func randomWord(rng *rand.Rand) string {
	words := []string{"fox", "lamp", "tide", "crag", "moss", "fern"}
	return words[rng.Intn(len(words))]
}
