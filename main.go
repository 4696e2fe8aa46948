package main

import (
	"os"

	"github.com/shouni/vibe-ui-kit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
