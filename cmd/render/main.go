// Command render fetches token metadata from a running Monsters service and writes
// each token's SVG and decoded metadata document to a directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/osse101/Monsters_Go/internal/client"
	"github.com/osse101/Monsters_Go/internal/domain"
	"github.com/osse101/Monsters_Go/internal/logger"
	"github.com/osse101/Monsters_Go/internal/worker"
)

func main() {
	_ = godotenv.Load()

	apiURL := flag.String("api", envOr("API_URL", "http://localhost:8080"), "Monsters API base URL")
	apiKey := flag.String("key", os.Getenv("API_KEY"), "API key")
	from := flag.Int("from", int(domain.MinTokenID), "first token ID")
	to := flag.Int("to", int(domain.MinTokenID)+99, "last token ID (inclusive)")
	outDir := flag.String("out", "renders", "output directory")
	workers := flag.Int("workers", 4, "concurrent requests")
	withJSON := flag.Bool("json", false, "also write the decoded metadata document")
	flag.Parse()

	logger.InitLogger(logger.DevelopmentConfig())

	if err := run(*apiURL, *apiKey, domain.TokenID(*from), domain.TokenID(*to), *outDir, *workers, *withJSON); err != nil {
		slog.Error("Render failed", "error", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func run(apiURL, apiKey string, from, to domain.TokenID, outDir string, workers int, withJSON bool) error {
	if !from.Valid() || !to.Valid() || from > to {
		return fmt.Errorf("%w: range %d-%d", domain.ErrInvalidInput, from, to)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := client.NewAPIClient(apiURL, apiKey)
	if err := c.Health(ctx); err != nil {
		return fmt.Errorf("service not reachable at %s: %w", apiURL, err)
	}

	pool := worker.NewPool(workers, workers*2)
	pool.Start(ctx)

	for id := from; id <= to; id++ {
		job := &renderJob{client: c, id: id, dir: outDir, withJSON: withJSON}
		if err := pool.Enqueue(ctx, job); err != nil {
			break
		}
	}

	stats := pool.Close()
	slog.Info("Render complete",
		"from", from,
		"to", to,
		"written", stats.Processed,
		"failed", stats.Failed,
		"out", outDir)

	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d tokens failed", stats.Failed, int(to-from)+1)
	}
	return ctx.Err()
}
