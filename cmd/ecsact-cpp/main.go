package main

import (
	"os"

	"github.com/ecsact-dev/ecsact-lang-cpp/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
