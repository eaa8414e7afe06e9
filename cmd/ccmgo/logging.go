package main

import (
	"log/slog"
	"os"
)

// newLogger builds the slog.Logger passed to optimize.Options.Logger. When
// trajectoryPath is non-empty, that file is created (truncating any earlier
// content) and becomes the logger's only destination, at Debug level, giving
// the --debug-trajectory flag a concrete destination for per-iteration
// records; if the file cannot be created, or trajectoryPath is empty, only
// stderr at Info level is used, so per-iteration Debug records are
// dropped.
func newLogger(trajectoryPath string) *slog.Logger {
	if trajectoryPath == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	f, err := os.Create(trajectoryPath)
	if err != nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
