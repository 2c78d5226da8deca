package inspect

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/go-skiff/skiff/pkg/runtime"
	"github.com/go-skiff/skiff/pkg/store"
	"github.com/go-skiff/skiff/pkg/vnode"
)

const evTick uint32 = 1

type tickState struct {
	Ticks int `json:"ticks"`
}

type tickEvent struct{}

func (tickEvent) EventType() uint32 { return evTick }

func tickApp() runtime.App {
	events := store.NewDecoderTable()
	events.Register(evTick, func([]byte) (store.Event, error) { return tickEvent{}, nil })

	return runtime.App{
		Name:         "ticker",
		InitialState: func() any { return &tickState{} },
		Reducer: func(state any, event store.Event) error {
			state.(*tickState).Ticks++
			return nil
		},
		Events: events,
		Build: func(state any) *vnode.VNode {
			return vnode.Column(vnode.Textf("ticks: %d", state.(*tickState).Ticks))
		},
	}
}

func startServer(t *testing.T) (*runtime.Runtime, *Server) {
	t.Helper()
	rt, err := runtime.New(tickApp())
	if err != nil {
		t.Fatalf("runtime.New: %v", err)
	}
	srv, err := Start(rt, "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return rt, srv
}

func get(t *testing.T, srv *Server, path string) []byte {
	t.Helper()
	resp, err := http.Get("http://" + srv.Addr() + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", path, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return body
}

func TestHealthEndpoint(t *testing.T) {
	_, srv := startServer(t)
	if got := string(get(t, srv, "/healthz")); got != `{"status":"ok"}` {
		t.Errorf("healthz = %s", got)
	}
}

func TestInstanceEndpoint(t *testing.T) {
	rt, srv := startServer(t)
	var info struct {
		ID      string `json:"id"`
		App     string `json:"app"`
		Version uint64 `json:"version"`
	}
	if err := json.Unmarshal(get(t, srv, "/instance"), &info); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if info.ID != rt.ID() {
		t.Errorf("id = %q, want %q", info.ID, rt.ID())
	}
	if info.App != "ticker" {
		t.Errorf("app = %q, want ticker", info.App)
	}
	if info.Version != 0 {
		t.Errorf("version = %d, want 0", info.Version)
	}
}

func TestVersionReflectsDispatch(t *testing.T) {
	rt, srv := startServer(t)
	if err := rt.Dispatch(evTick, nil); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got := string(get(t, srv, "/version")); got != `{"version":1}` {
		t.Errorf("version = %s, want {\"version\":1}", got)
	}
}

func TestStateEndpoint(t *testing.T) {
	rt, srv := startServer(t)
	rt.Dispatch(evTick, nil)
	rt.Dispatch(evTick, nil)

	var s tickState
	if err := json.Unmarshal(get(t, srv, "/state"), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Ticks != 2 {
		t.Errorf("ticks = %d, want 2", s.Ticks)
	}
}

func TestTreeEndpoint(t *testing.T) {
	_, srv := startServer(t)
	var tree vnode.VNode
	if err := json.Unmarshal(get(t, srv, "/tree"), &tree); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if tree.Kind != vnode.KindColumn {
		t.Errorf("root kind = %v, want column", tree.Kind)
	}
}

func TestPatchesEndpoint(t *testing.T) {
	rt, srv := startServer(t)
	rt.Dispatch(evTick, nil)

	var entries []runtime.PatchLogEntry
	if err := json.Unmarshal(get(t, srv, "/patches"), &entries); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(entries) != 1 || entries[0].Version != 1 {
		t.Fatalf("entries = %v, want one at version 1", entries)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	_, srv := startServer(t)
	resp, err := http.Post("http://"+srv.Addr()+"/tree", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestWatchPushesVersionChanges(t *testing.T) {
	rt, srv := startServer(t)

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+srv.Addr()+"/watch", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	read := func() watchMessage {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg watchMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		return msg
	}

	if msg := read(); msg.Version != 0 {
		t.Fatalf("initial push version = %d, want 0", msg.Version)
	}

	if err := rt.Dispatch(evTick, nil); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if msg := read(); msg.Version != 1 {
		t.Errorf("push after dispatch = %d, want 1", msg.Version)
	}
}

func TestStopReleasesPort(t *testing.T) {
	rt, err := runtime.New(tickApp())
	if err != nil {
		t.Fatalf("runtime.New: %v", err)
	}
	srv, err := Start(rt, "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	addr := srv.Addr()
	srv.Stop()

	if _, err := http.Get(fmt.Sprintf("http://%s/healthz", addr)); err == nil {
		t.Error("expected request to fail after Stop")
	}
	if srv.Addr() != "" {
		t.Errorf("Addr after Stop = %q, want empty", srv.Addr())
	}
}
