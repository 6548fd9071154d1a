package main

import (
	"os"

	"github.com/nexus-sus/nexus/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
