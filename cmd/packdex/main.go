package main

import (
	"os"

	"packdex/internal/packdexcli"
)

func main() {
	if err := packdexcli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
