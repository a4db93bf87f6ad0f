package main

import (
	"os"

	"walletclient/cmd/walletctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
