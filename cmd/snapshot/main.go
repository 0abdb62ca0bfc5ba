package main

import (
	"context"
	"log/slog"
	"os"

	"pair_dashboard/internal/app/config"
)

func main() {
	config.LoadDotEnv(".env")

	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		slog.Error("snapshot failed", "error", err)
		os.Exit(1)
	}
}
