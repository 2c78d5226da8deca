// Package inspect serves a runtime's published snapshots over HTTP for
// development tooling. It is never part of the ABI path: platform shells and
// host languages talk to the runtime through pkg/abi only, while the
// inspector reads the immutable snapshots the runtime publishes after each
// dispatch.
package inspect

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/go-skiff/skiff/pkg/errors"
	"github.com/go-skiff/skiff/pkg/runtime"
)

// DefaultWatchInterval is how often /watch polls the published snapshot for
// version changes. The pull model matches the ABI's polling design; the
// websocket only saves tooling from running its own poll loop.
const DefaultWatchInterval = 100 * time.Millisecond

// Server exposes one runtime instance for inspection.
type Server struct {
	rt       *runtime.Runtime
	server   *http.Server
	listener net.Listener
	mu       sync.Mutex

	upgrader      websocket.Upgrader
	watchInterval time.Duration
}

// Start begins serving on addr (host:port, port 0 picks a free one) and
// enables snapshot publishing on the runtime. Call Start from the runtime's
// dispatching thread, before handing the runtime to the shell.
func Start(rt *runtime.Runtime, addr string) (*Server, error) {
	rt.EnableInspection()

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("inspect: listen %s: %w", addr, err)
	}

	s := &Server{
		rt:            rt,
		listener:      listener,
		watchInterval: DefaultWatchInterval,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", guard("healthz", s.handleHealth))
	mux.HandleFunc("/instance", guard("instance", s.handleInstance))
	mux.HandleFunc("/version", guard("version", s.handleVersion))
	mux.HandleFunc("/state", guard("state", s.handleState))
	mux.HandleFunc("/tree", guard("tree", s.handleTree))
	mux.HandleFunc("/patches", guard("patches", s.handlePatches))
	mux.HandleFunc("/watch", guard("watch", s.handleWatch))

	server := &http.Server{Handler: mux}
	s.server = server

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			// Server failed - clear state so it can be restarted.
			s.mu.Lock()
			s.server = nil
			s.listener = nil
			s.mu.Unlock()
			fmt.Fprintf(os.Stderr, "inspect server error: %v\n", err)
		}
	}()

	return s, nil
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() {
	s.mu.Lock()
	server := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()

	if server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	server.Shutdown(ctx)
}

// guard recovers handler panics through the global error handler so a bad
// snapshot read never takes the host process down.
func guard(name string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer errors.Recover("inspect." + name)
		h(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleInstance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snap := s.rt.Snapshot()
	info := struct {
		ID      string `json:"id"`
		App     string `json:"app,omitempty"`
		Version uint64 `json:"version"`
	}{ID: snap.ID, App: snap.App, Version: snap.Version}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snap := s.rt.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"version":%d}`, snap.Version)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snap := s.rt.Snapshot()
	if snap.State == nil {
		http.Error(w, "no state snapshot", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(snap.State)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snap := s.rt.Snapshot()
	if snap.Tree == nil {
		http.Error(w, "no tree", http.StatusServiceUnavailable)
		return
	}
	data, err := json.MarshalIndent(snap.Tree, "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handlePatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snap := s.rt.Snapshot()
	data, err := json.MarshalIndent(snap.Log, "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// watchMessage is one /watch push.
type watchMessage struct {
	ID      string `json:"id"`
	Version uint64 `json:"version"`
}

// handleWatch upgrades to a websocket and pushes a message whenever the
// published snapshot's version changes. The first message reports the
// current version immediately.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	// Drain client frames so pings and close messages are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	snap := s.rt.Snapshot()
	last := snap.Version
	if err := conn.WriteJSON(watchMessage{ID: snap.ID, Version: last}); err != nil {
		return
	}

	ticker := time.NewTicker(s.watchInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			snap := s.rt.Snapshot()
			if snap.Version == last {
				continue
			}
			last = snap.Version
			if err := conn.WriteJSON(watchMessage{ID: snap.ID, Version: last}); err != nil {
				return
			}
		}
	}
}
