package vnode

import (
	"encoding/json"
	"testing"
)

func TestNodeKindString(t *testing.T) {
	tests := []struct {
		kind NodeKind
		want string
	}{
		{KindContainer, "container"},
		{KindRow, "row"},
		{KindColumn, "column"},
		{KindText, "text"},
		{KindImage, "image"},
		{KindButton, "button"},
		{KindInput, "input"},
		{KindList, "list"},
		{KindCustom, "custom"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("NodeKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestNodeKindJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(KindButton)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"button"` {
		t.Errorf("marshal = %s, want %q", data, `"button"`)
	}

	var k NodeKind
	if err := json.Unmarshal(data, &k); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if k != KindButton {
		t.Errorf("round trip = %v, want KindButton", k)
	}
}

func TestNodeKindUnmarshalUnknown(t *testing.T) {
	var k NodeKind
	if err := json.Unmarshal([]byte(`"gizmo"`), &k); err == nil {
		t.Error("expected error for unknown kind name")
	}
}

func TestConstructors(t *testing.T) {
	tree := Column(
		Text("hello"),
		Row(Button("ok"), Image("gear")),
	)
	if tree.Kind != KindColumn {
		t.Errorf("root kind = %v, want KindColumn", tree.Kind)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("root has %d children, want 2", len(tree.Children))
	}
	if got := tree.Children[0].Props.Text; got != "hello" {
		t.Errorf("text child content = %q, want %q", got, "hello")
	}
	row := tree.Children[1]
	if row.Children[0].Kind != KindButton || row.Children[1].Kind != KindImage {
		t.Error("row children have wrong kinds")
	}
}

func TestWithKeyDoesNotMutate(t *testing.T) {
	orig := Text("a")
	keyed := orig.WithKey("k")
	if orig.Key != "" {
		t.Error("WithKey mutated the original node")
	}
	if keyed.Key != "k" {
		t.Errorf("keyed.Key = %q, want %q", keyed.Key, "k")
	}
	if keyed.Props.Text != "a" {
		t.Error("WithKey lost props")
	}
}

func TestTextf(t *testing.T) {
	n := Textf("count: %d", 7)
	if n.Props.Text != "count: 7" {
		t.Errorf("Textf = %q, want %q", n.Props.Text, "count: 7")
	}
}

func TestCountNodes(t *testing.T) {
	if got := CountNodes(nil); got != 0 {
		t.Errorf("CountNodes(nil) = %d, want 0", got)
	}
	tree := Column(Text("a"), Row(Text("b"), Text("c")))
	if got := CountNodes(tree); got != 5 {
		t.Errorf("CountNodes = %d, want 5", got)
	}
}

func TestVNodeJSONOmitsEmpty(t *testing.T) {
	data, err := json.Marshal(Text("hi"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	for _, unwanted := range []string{"children", "key", "style", "icon", "disabled"} {
		if containsSubstring(s, unwanted) {
			t.Errorf("serialized node %s should omit %q", s, unwanted)
		}
	}
}

func containsSubstring(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
