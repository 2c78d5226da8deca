package main

import (
	"os"

	"github.com/go-skiff/skiff/cmd/skiff/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
