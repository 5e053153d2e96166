// Command devtool bundles operator chores: waiting for the database, applying
// migrations, probing a running service and reading the event dead-letter file.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	registry := NewRegistry(
		&WaitForDBCommand{},
		&MigrateCommand{},
		&HealthCheckCommand{},
		&DeadLettersCommand{},
	)
	code := registry.Dispatch(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}
