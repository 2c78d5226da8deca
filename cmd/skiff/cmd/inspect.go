package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-skiff/skiff/cmd/skiff/internal/config"
	"github.com/go-skiff/skiff/pkg/codec"
)

func init() {
	RegisterCommand(&Command{
		Name:  "inspect",
		Short: "Dump a running instance's state and tree",
		Long: `Fetch and pretty-print a running instance over its inspector.

Prints the instance identity, the serialized application state, and the
current rendered tree. The address defaults to the inspector address
resolved from skiff.yaml; pass host:port to override it.`,
		Usage: "skiff inspect [host:port]",
		Run:   runInspect,
	})
}

func runInspect(args []string) error {
	addr, err := inspectorAddr(args)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: 5 * time.Second}

	instance, err := fetch(client, addr, "/instance")
	if err != nil {
		return fmt.Errorf("no inspector at %s: %w", addr, err)
	}
	fmt.Println("Instance:")
	printIndented(instance)

	state, err := fetch(client, addr, "/state")
	if err != nil {
		return err
	}
	fmt.Println("State:")
	printIndented(state)

	tree, err := fetch(client, addr, "/tree")
	if err != nil {
		return err
	}
	fmt.Println("Tree:")
	printIndented(tree)

	return nil
}

// inspectorAddr picks the explicit argument if given, otherwise the address
// resolved from the project configuration.
func inspectorAddr(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	root, err := config.FindProjectRoot()
	if err != nil {
		return config.DefaultInspectorAddr, nil
	}
	cfg, err := config.Resolve(root)
	if err != nil {
		return "", err
	}
	return cfg.InspectorAddr, nil
}

func fetch(client *http.Client, addr, path string) ([]byte, error) {
	resp, err := client.Get("http://" + addr + path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %s", path, resp.Status)
	}
	return body, nil
}

func printIndented(raw []byte) {
	var buf []byte
	if v, err := (codec.JsonCodec{}).Decode(raw); err == nil && v != nil {
		if out, err := json.MarshalIndent(v, "  ", "  "); err == nil {
			buf = out
		}
	}
	if buf == nil {
		buf = raw
	}
	fmt.Printf("  %s\n\n", buf)
}
