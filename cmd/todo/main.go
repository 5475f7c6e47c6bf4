package main

import (
	"os"

	"github.com/idilsaglam/todolist/internal/cli"
	"github.com/idilsaglam/todolist/internal/ui"
)

func main() {
	// Root flags and the subcommand are both handled by the CLI runner.
	code := cli.Run(os.Args[1:], cli.Options{
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Color:       os.Getenv("NO_COLOR") == "" && ui.IsTTY(os.Stdout),
		Interactive: ui.IsTTY(os.Stdin) && ui.IsTTY(os.Stdout),
	})
	os.Exit(code)
}
