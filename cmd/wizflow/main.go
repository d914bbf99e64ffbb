package main

import (
	"os"

	"github.com/petrijr/wizflow/cmd/wizflow/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
