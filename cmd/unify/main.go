package main

import (
	"github.com/joho/godotenv"

	"github.com/unify-search/unify-cli/internal/adapters/driving/cli"
)

func main() {
	// Optional .env for tokens; absence is fine.
	_ = godotenv.Load()

	cli.ExitOnError(cli.Execute())
}
