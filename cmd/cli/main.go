package main

import (
	"os"

	"github.com/MuhamadAgungGumelar/screenshot-translator/cmd/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
