/*
PURPOSE:
  Fetches a VLE table from a remote HTTP catalog.
  Mirrors the shape of the hosted system catalog: either a bare list of
  {x, y} points or rows carrying a "vle_points" column.

REQUIREMENTS:
  User-specified:
  - Tables can come from a remote data store and are supplied wholesale.

  Implementation-discovered:
  - Needs http.Client with timeouts.
  - Transient failures (network, 5xx) deserve a retry; 4xx and bad JSON do not.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli (table loading)
  - Uses: internal/output, internal/model

ERROR HANDLING:
  - Retries up to MaxRetries with RetryDelay between attempts.
  - Returns the last error, classified (network vs. server vs. payload).

IMPLEMENTATION RULES:
  - Use net/http.
  - Honour the caller's context for cancellation.

USAGE:
  f := vle.NewFetcher(3, 2*time.Second, 30*time.Second)
  pts, err := f.Fetch(ctx, "https://catalog.example/systems?system_id=eq.7")

RELATED FILES:
  - internal/vle/tables.go
  - internal/config/config.go
*/

package vle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/daryltucker/mccabe-thiele/internal/model"
	"github.com/daryltucker/mccabe-thiele/internal/output"
)

// Fetcher downloads tables over HTTP. The zero value makes a single attempt
// with http.DefaultClient.
type Fetcher struct {
	Client     *http.Client
	MaxRetries int
	RetryDelay time.Duration
	// Header is added to every request (e.g. an API key).
	Header http.Header
}

// NewFetcher creates a Fetcher with its own timeout-bound client.
func NewFetcher(maxRetries int, retryDelay, timeout time.Duration) *Fetcher {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Fetcher{
		Client:     &http.Client{Timeout: timeout},
		MaxRetries: maxRetries,
		RetryDelay: retryDelay,
		Header:     http.Header{},
	}
}

// permanentError stops the retry loop.
type permanentError struct{ err error }

func (p permanentError) Error() string { return p.err.Error() }
func (p permanentError) Unwrap() error { return p.err }

// Fetch downloads and decodes the table at url, sorted by x.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]model.Point, error) {
	attempts := max(f.MaxRetries, 1)
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			output.Logger.Info("Retrying table fetch...", "url", url, "attempt", i+1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(f.RetryDelay):
			}
		}

		pts, err := f.fetchOnce(ctx, url)
		if err == nil {
			SortByX(pts)
			output.Logger.Info("Fetched VLE table", "url", url, "points", len(pts))
			return pts, nil
		}
		var perm permanentError
		if errors.As(err, &perm) {
			return nil, perm.err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		output.Logger.Warn("Table fetch failed", "url", url, "attempt", i+1, "error", err)
		lastErr = err
	}
	return nil, lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) ([]model.Point, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, permanentError{err}
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range f.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network/connection error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("catalog server error (%s): %s", resp.Status, string(body))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, permanentError{fmt.Errorf("catalog request failed (%s): %s", resp.Status, string(body))}
	}

	pts, err := decodeRemote(body)
	if err != nil {
		return nil, permanentError{fmt.Errorf("catalog returned invalid JSON: %w", err)}
	}
	return pts, nil
}

// decodeRemote accepts [{x,y}...], {"vle_points": [...]} or
// [{"vle_points": [...]}] (first row wins).
func decodeRemote(body []byte) ([]model.Point, error) {
	var rows []struct {
		X         *float64      `json:"x"`
		Y         *float64      `json:"y"`
		VLEPoints []model.Point `json:"vle_points"`
	}
	if err := json.Unmarshal(body, &rows); err == nil {
		if len(rows) == 0 {
			return nil, errors.New("empty response")
		}
		if rows[0].X == nil {
			return rows[0].VLEPoints, nil
		}
		pts := make([]model.Point, 0, len(rows))
		for i, r := range rows {
			if r.X == nil || r.Y == nil {
				return nil, fmt.Errorf("row %d is missing x or y", i)
			}
			pts = append(pts, model.Point{X: *r.X, Y: *r.Y})
		}
		return pts, nil
	}
	return decodePoints(body, json.Unmarshal)
}
