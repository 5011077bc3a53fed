package main

import (
	"os"

	"github.com/symbol/symbol-faucet/cmd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
