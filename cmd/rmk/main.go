package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/rmk-dev/rmk/internal/commands"
)

func main() {
	// A missing .env is fine; real environment variables take precedence.
	_ = godotenv.Load()

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
