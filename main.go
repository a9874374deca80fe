package main

import (
	"os"

	"github.com/qwei-dev/notelens/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
