// Package nhle provides a minimal client for the NHL web API player
// endpoints, used to fill in shooter handedness and position.
package nhle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pable/go-hockey-xg/internal/model"
)

// DefaultBaseURL is the root endpoint for the NHL web API v1.
const DefaultBaseURL = "https://api-web.nhle.com/v1"

// ErrNotFound is returned for player ids the API does not know.
var ErrNotFound = errors.New("player not found")

// Client is a minimal NHL web API client.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Landing holds the fields we need from /player/{id}/landing.
type Landing struct {
	PlayerID      int64  `json:"playerId"`
	ShootsCatches string `json:"shootsCatches"`
	Position      string `json:"position"`
}

// Info converts the landing payload into player info for id.
func (l *Landing) Info(id int64) model.PlayerInfo {
	return model.PlayerInfo{
		ID:         id,
		Handedness: model.ParseHandedness(l.ShootsCatches),
		Position:   l.Position,
	}
}

// get performs a GET request against the API and JSON-decodes the response
// body into out.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("GET %s: %w", path, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("GET %s: HTTP %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GetPlayer looks up one player's landing page.
func (c *Client) GetPlayer(ctx context.Context, id int64) (*Landing, error) {
	var l Landing
	if err := c.get(ctx, fmt.Sprintf("/player/%d/landing", id), &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// Failure is a player id that could not be fetched.
type Failure struct {
	ID  int64
	Err error
}

// FetchPlayers looks up every id with at most workers requests in flight.
// Per-player failures are collected rather than aborting the batch; only a
// cancelled ctx stops it early.
func (c *Client) FetchPlayers(ctx context.Context, ids []int64, workers int) ([]model.PlayerInfo, []Failure, error) {
	if workers <= 0 {
		workers = 1
	}
	var (
		mu       sync.Mutex
		infos    []model.PlayerInfo
		failures []Failure
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			l, err := c.GetPlayer(gctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				failures = append(failures, Failure{ID: id, Err: err})
				return nil
			}
			infos = append(infos, l.Info(id))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return infos, failures, fmt.Errorf("fetch players: %w", err)
	}
	return infos, failures, nil
}
