package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/moodix/journal/internal/cli"
	"github.com/moodix/journal/internal/config"
	"github.com/moodix/journal/internal/logging"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
