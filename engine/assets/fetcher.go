package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// fetcher defines the generic interface for resolving a texture URL to raw
// bytes. Concrete implementations handle transport-specific details.
type fetcher interface {
	// Fetch retrieves the resource at the given URL.
	//
	// Parameters:
	//   - ctx: the context governing the fetch; cancellation aborts it
	//   - url: the resource URL or file path
	//
	// Returns:
	//   - []byte: the raw resource bytes
	//   - error: error if the resource could not be retrieved
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// httpFetcher resolves http(s) URLs over the network and treats every other
// URL as a local file path, with an optional file:// prefix. No timeout is
// imposed here; callers bound fetches with context deadlines.
type httpFetcher struct {
	client *http.Client
}

var _ fetcher = &httpFetcher{}

// newHTTPFetcher creates an httpFetcher using the provided client, or a
// default client when nil.
func newHTTPFetcher(client *http.Client) *httpFetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &httpFetcher{client: client}
}

func (f *httpFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
		}
		resp, err := f.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("failed to fetch %s: unexpected status %s", url, resp.Status)
		}
		return io.ReadAll(resp.Body)
	}

	path := strings.TrimPrefix(url, "file://")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
