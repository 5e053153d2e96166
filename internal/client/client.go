// Package client talks to the Monsters HTTP API. It is used by the offline renderer
// and the Discord bot.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/osse101/Monsters_Go/internal/domain"
	"github.com/osse101/Monsters_Go/internal/handler"
	"github.com/osse101/Monsters_Go/internal/monster"
)

// APIClient handles communication with the Monsters API
type APIClient struct {
	BaseURL    string
	Client     *http.Client
	APIKey     string
	MaxRetries int
	RetryDelay time.Duration
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL, apiKey string) *APIClient {
	return &APIClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Client:     &http.Client{Timeout: DefaultTimeout},
		APIKey:     apiKey,
		MaxRetries: DefaultMaxRetries,
		RetryDelay: DefaultRetryDelay,
	}
}

// APIError is a non-2xx answer from the API. It matches the domain error of its kind
// under errors.Is, so callers can test errors.Is(err, domain.ErrNotFound).
type APIError struct {
	Status  int
	Kind    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API returned status: %d", e.Status)
	}
	return fmt.Sprintf("API returned status %d: %s", e.Status, e.Message)
}

// Is reports whether target is the domain sentinel named by e.Kind.
func (e *APIError) Is(target error) bool {
	return e.Kind != "" && target.Error() == e.Kind && domain.ErrorKind(target) == e.Kind
}

// doRequest performs an HTTP request, retrying transport failures and 5xx answers with
// exponential backoff. Other statuses are returned to the caller untouched.
func (c *APIClient) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reqBody []byte
	if body != nil {
		var err error
		if reqBody, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
	}

	url := c.BaseURL + path

	var lastErr error
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			jitter := time.Duration(time.Now().UnixNano()%100) * time.Millisecond
			delay := c.RetryDelay*time.Duration(1<<uint(attempt-1)) + jitter
			slog.Info(LogMsgRetrying, "attempt", attempt, "path", path, "delay", delay)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(reqBody))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.APIKey != "" {
			req.Header.Set(HeaderAPIKey, c.APIKey)
		}

		resp, err := c.Client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			slog.Warn(LogMsgRequestFailed, "error", err, "attempt", attempt)
			continue
		}

		if resp.StatusCode < http.StatusInternalServerError {
			return resp, nil
		}

		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
		slog.Warn(LogMsgServerError, "status", resp.StatusCode, "attempt", attempt)
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// getJSON fetches path and decodes a 200 answer into out.
func (c *APIClient) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return readAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func readAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var errResp handler.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
		apiErr.Kind = errResp.Kind
		apiErr.Message = errResp.Error
	}
	return apiErr
}

// Health checks the liveness endpoint
func (c *APIClient) Health(ctx context.Context) error {
	var h handler.HealthResponse
	return c.getJSON(ctx, "/healthz", &h)
}

// Collection returns the collection summary
func (c *APIClient) Collection(ctx context.Context) (*monster.Collection, error) {
	var out monster.Collection
	if err := c.getJSON(ctx, "/api/v1/collection", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Monster returns the read model of one token
func (c *APIClient) Monster(ctx context.Context, id domain.TokenID) (*monster.View, error) {
	var out monster.View
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/monsters/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Metadata returns the token URI and decoded metadata document of one token
func (c *APIClient) Metadata(ctx context.Context, id domain.TokenID) (*handler.MetadataResponse, error) {
	var out handler.MetadataResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/monsters/%d/metadata", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CanSlay asks whether a Loot bag's weapon can slay a monster
func (c *APIClient) CanSlay(ctx context.Context, id domain.TokenID, lootID domain.LootID) (*monster.SlayCheck, error) {
	var out monster.SlayCheck
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/monsters/%d/can-slay/%d", id, lootID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Loot returns a Loot bag's owner and weapon
func (c *APIClient) Loot(ctx context.Context, lootID domain.LootID) (*monster.LootView, error) {
	var out monster.LootView
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/loot/%d", lootID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Balance counts the monsters owner holds
func (c *APIClient) Balance(ctx context.Context, owner domain.Address) (int, error) {
	var out handler.BalanceResponse
	if err := c.getJSON(ctx, "/api/v1/owners/"+owner.Hex()+"/balance", &out); err != nil {
		return 0, err
	}
	return out.Balance, nil
}

// IsNotFound reports whether err is an API answer of kind not found.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
