package main

import (
	"os"

	"github.com/nash-core-poc/server/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
