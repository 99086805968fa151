package main

import (
	"os"

	"github.com/wonny/pdie/cmd/pdie/commands"
)

// main is the single CLI entry point: go run ./cmd/pdie [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
