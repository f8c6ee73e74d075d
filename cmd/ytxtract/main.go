// Package main is the entrypoint of ytxtract.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ytxtract/internal/cfg"
)

// main is the main entrypoint of the program (duh!).
func main() {
	// A .env file in the working directory may carry YTXTRACT_* overrides.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "could not load .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cfg.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
