package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/roach88/chime/internal/cli"
)

func main() {
	// Optional .env file; real environment variables win.
	_ = godotenv.Load()

	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
