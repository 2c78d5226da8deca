package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
)

func init() {
	RegisterCommand(&Command{
		Name:  "watch",
		Short: "Stream version bumps from a running instance",
		Long: `Connect to a running instance's inspector and print a line for each
state version change until interrupted.

The address defaults to the inspector address resolved from skiff.yaml;
pass host:port to override it.`,
		Usage: "skiff watch [host:port]",
		Run:   runWatch,
	})
}

func runWatch(args []string) error {
	addr, err := inspectorAddr(args)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/watch", nil)
	if err != nil {
		return fmt.Errorf("no inspector at %s: %w", addr, err)
	}
	defer conn.Close()

	fmt.Printf("Watching %s (ctrl-c to stop)\n", addr)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	messages := make(chan watchUpdate)
	readErr := make(chan error, 1)
	go func() {
		for {
			var msg watchUpdate
			if err := conn.ReadJSON(&msg); err != nil {
				readErr <- err
				return
			}
			messages <- msg
		}
	}()

	for {
		select {
		case msg := <-messages:
			fmt.Printf("%s  %s  version %d\n",
				time.Now().Format("15:04:05"), msg.ID, msg.Version)
		case err := <-readErr:
			return fmt.Errorf("connection lost: %w", err)
		case <-interrupt:
			// Ask the server to close cleanly; fall back to just dropping
			// the connection if the write fails.
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return nil
		}
	}
}

type watchUpdate struct {
	ID      string `json:"id"`
	Version uint64 `json:"version"`
}
