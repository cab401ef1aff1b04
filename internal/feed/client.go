package feed

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

// Result is the outcome of fetching a single GTFS-RT feed. Every feed
// source is independently unreliable, so a failed fetch is data, not a
// request-level error: callers skip unavailable results and keep going.
type Result struct {
	Source string
	Feed   *gtfs.FeedMessage
	Err    error
}

// Available reports whether the feed was fetched and decoded.
func (r Result) Available() bool {
	return r.Err == nil && r.Feed != nil
}

// Client fetches and decodes GTFS-RT protobuf feeds over HTTP.
type Client struct {
	httpClient *http.Client
	apiKey     string
}

// NewClient creates a feed client. apiKey may be empty; when set it is
// sent as the x-api-key header on every request.
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
	}
}

// Fetch performs a single GET against url and decodes the payload.
// One attempt only; retry policy belongs to the caller.
func (c *Client) Fetch(ctx context.Context, url string) (*gtfs.FeedMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}

	msg := &gtfs.FeedMessage{}
	if err := proto.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", url, err)
	}

	return msg, nil
}

// FetchResult wraps Fetch into a Result, logging failures with their
// source URL.
func (c *Client) FetchResult(ctx context.Context, name, url string) Result {
	msg, err := c.Fetch(ctx, url)
	if err != nil {
		log.Printf("Feed %s unavailable: %v", name, err)
	}
	return Result{Source: name, Feed: msg, Err: err}
}

// FetchAll fetches every feed concurrently and returns one Result per
// source. Partial failures never block completion.
func (c *Client) FetchAll(ctx context.Context, feeds map[string]string) []Result {
	resultChan := make(chan Result, len(feeds))

	for name, url := range feeds {
		go func(name, url string) {
			resultChan <- c.FetchResult(ctx, name, url)
		}(name, url)
	}

	results := make([]Result, 0, len(feeds))
	for range feeds {
		results = append(results, <-resultChan)
	}
	return results
}
