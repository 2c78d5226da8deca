package cmd

import (
	"fmt"

	"github.com/go-skiff/skiff/cmd/skiff/internal/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "info",
		Short: "Show resolved project configuration",
		Long: `Show the resolved configuration for the current project.

Reads the optional skiff.yaml in the project root and fills in defaults
from go.mod. The project root is the nearest parent directory that
contains a go.mod file.`,
		Usage: "skiff info",
		Run:   runInfo,
	})
}

func runInfo(args []string) error {
	root, err := config.FindProjectRoot()
	if err != nil {
		return err
	}

	cfg, err := config.Resolve(root)
	if err != nil {
		return err
	}

	fmt.Printf("Project:   %s\n", cfg.AppName)
	fmt.Printf("Module:    %s\n", cfg.ModulePath)
	fmt.Printf("Root:      %s\n", cfg.Root)
	fmt.Printf("Inspector: %s\n", cfg.InspectorAddr)
	return nil
}
