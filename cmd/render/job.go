package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/osse101/Monsters_Go/internal/client"
	"github.com/osse101/Monsters_Go/internal/domain"
	"github.com/osse101/Monsters_Go/internal/render"
)

// renderJob writes one token's image, and optionally its document, to dir
type renderJob struct {
	client   *client.APIClient
	id       domain.TokenID
	dir      string
	withJSON bool
}

func (j *renderJob) Process(ctx context.Context) error {
	md, err := j.client.Metadata(ctx, j.id)
	if err != nil {
		return fmt.Errorf("token %d: %w", j.id, err)
	}

	// the served document must agree with the token URI it was decoded from
	doc, err := render.Decode(md.TokenURI)
	if err != nil {
		return fmt.Errorf("token %d: %w", j.id, err)
	}
	svg, err := render.DecodeImage(doc.Image)
	if err != nil {
		return fmt.Errorf("token %d: %w", j.id, err)
	}

	if err := os.WriteFile(filepath.Join(j.dir, fmt.Sprintf("%d.svg", j.id)), svg, 0o644); err != nil {
		return fmt.Errorf("token %d: %w", j.id, err)
	}
	if !j.withJSON {
		return nil
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("token %d: %w", j.id, err)
	}
	return os.WriteFile(filepath.Join(j.dir, fmt.Sprintf("%d.json", j.id)), payload, 0o644)
}
