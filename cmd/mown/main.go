package main

import (
	"os"

	"github.com/threalwinky/mown/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
