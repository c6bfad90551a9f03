package main

import (
	"os"

	"github.com/stackcart/stackcart/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
