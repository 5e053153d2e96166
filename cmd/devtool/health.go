package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/osse101/Monsters_Go/internal/client"
)

// slowResponse is the latency above which a passing check still warns
const slowResponse = time.Second

// HealthCheckCommand checks a running service
type HealthCheckCommand struct{}

func (c *HealthCheckCommand) Name() string {
	return "health-check"
}

func (c *HealthCheckCommand) Description() string {
	return "Probe a running service's liveness and collection endpoints"
}

func (c *HealthCheckCommand) Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	url := fs.String("url", envOr("API_URL", "http://localhost:8080"), "service base URL")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	PrintHeader(fmt.Sprintf("Health Check (%s)", *url))

	api := client.NewAPIClient(*url, os.Getenv("API_KEY"))
	api.MaxRetries = 0

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	start := time.Now()
	if err := api.Health(ctx); err != nil {
		return err
	}
	duration := time.Since(start)
	if duration > slowResponse {
		PrintWarning("Slow response time (%v)", duration)
	} else {
		PrintSuccess("Liveness passed (response time: %v)", duration)
	}

	col, err := api.Collection(ctx)
	if err != nil {
		return fmt.Errorf("collection: %w", err)
	}
	PrintSuccess("%s: %d/%d claimed, custody %s ether", col.Name, col.TotalSupply, col.MaxSupply, col.CustodyEther)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
