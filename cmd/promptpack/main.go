package main

import (
	"fmt"
	"os"

	"github.com/sonemaro/promptpack/cmd/promptpack/app"
	"github.com/sonemaro/promptpack/cmd/promptpack/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		if !app.IsReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
