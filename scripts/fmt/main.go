// Package main formats this repository with prettygo itself.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/andyballingall/prettygo/internal/app"
)

func main() {
	// Skip the directories the go tool ignores as well.
	args := []string{"prettygo", "--verbose", "--gitignore", "--exclude", "_*", "--exclude", "testdata", "."}
	if len(os.Args) > 1 && os.Args[1] == "--check" {
		args = append(args, "--check")
	}

	fmt.Println("Formatting with prettygo...")
	if err := app.Run(context.Background(), args, os.Stdout, os.Stderr, nil); err != nil {
		fmt.Printf("❌ Formatting failed: %v\n", err)
		os.Exit(1)
	}
}
