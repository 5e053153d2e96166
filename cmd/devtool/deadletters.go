package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/osse101/Monsters_Go/internal/event"
)

// DeadLettersCommand summarizes events the service could not deliver
type DeadLettersCommand struct{}

func (c *DeadLettersCommand) Name() string {
	return "dead-letters"
}

func (c *DeadLettersCommand) Description() string {
	return "Summarize undeliverable events from the dead-letter file"
}

func (c *DeadLettersCommand) Run(_ context.Context, args []string) error {
	flags := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	path := flags.String("file", envOr("EVENT_DEADLETTER_PATH", "logs/event_deadletter.jsonl"), "dead-letter JSONL file")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	PrintHeader(fmt.Sprintf("Dead letters (%s)", *path))

	f, err := os.Open(*path)
	if errors.Is(err, fs.ErrNotExist) {
		PrintSuccess("No dead-letter file, nothing was dropped")
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	entries, err := event.ReadDeadLetters(f)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		PrintSuccess("Dead-letter file is empty")
		return nil
	}

	PrintWarning("%d undelivered events", len(entries))
	for _, s := range event.SummarizeDeadLetters(entries) {
		PrintInfo("%-20s %4d  %s .. %s  last error: %s",
			s.Type, s.Count, s.First.Format(time.RFC3339), s.Last.Format(time.RFC3339), s.LastError)
	}
	return nil
}
