package main

import (
	"os"

	"github.com/formatos-dev/formatos/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
