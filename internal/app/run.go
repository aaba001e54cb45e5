package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/andyballingall/prettygo/internal/fsh"
)

func Run(ctx context.Context, args []string, stdout, stderr io.Writer, envProvider fsh.EnvProvider) error {
	logLevel := &slog.LevelVar{}
	logLevel.Set(slog.LevelInfo)

	// Local lazy instance ensures t.Parallel() safety
	lazy := &LazyManager{}

	if envProvider == nil {
		envProvider = fsh.NewEnvProvider()
	}

	rootCmd := NewRootCmd(lazy, logLevel, stdout, stderr, envProvider)
	rootCmd.SetArgs(args[1:]) // Skip the program name
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	var stopped *WatchStoppedError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &stopped):
		// Stopping a watch is the normal way to end it.
		fmt.Fprintln(stderr, "Interrupted by user")
		return nil
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		// A one-shot run that was cut short has not checked every file.
		fmt.Fprintln(stderr, "Interrupted by user")
		return err
	default:
		// Print error to stderr for script tests and CLI users (SilenceErrors is set)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return err
	}
}
