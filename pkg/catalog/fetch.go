package catalog

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"github.com/levalleyjack/slugtistics/pkg/types"
)

// Feed is the upstream catalog payload shape.
type Feed struct {
	Courses       []types.Course `json:"courses"`
	LastUpdatedAt string         `json:"lastUpdatedAt"`
}

type Fetcher struct {
	Url    string
	Client *http.Client
}

func NewFetcher(url string) *Fetcher {
	return &Fetcher{
		Url:    url,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch pulls the upstream feed. The payload is a few thousand course
// records, decoded in one go with sonic.
func (f *Fetcher) Fetch(ctx context.Context) (*Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.Url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog fetch failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog fetch failed: status %d", res.StatusCode)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	feed := &Feed{}
	if err := sonic.Unmarshal(body, feed); err != nil {
		return nil, fmt.Errorf("catalog decode failed: %w", err)
	}
	if feed.LastUpdatedAt == "" {
		feed.LastUpdatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	return feed, nil
}

// Refresh fetches the feed and replaces the store snapshot.
func (f *Fetcher) Refresh(ctx context.Context, store *Store) error {
	feed, err := f.Fetch(ctx)
	if err != nil {
		return err
	}
	if err := store.Set(feed.Courses, feed.LastUpdatedAt); err != nil {
		return err
	}
	log.Printf("catalog refreshed: %d courses, updated %s", len(feed.Courses), feed.LastUpdatedAt)
	return nil
}
