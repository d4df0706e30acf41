package main

import (
	"os"

	"github.com/garagon/duprank/cmd/duprank/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(commands.ExitCode(err))
	}
}
