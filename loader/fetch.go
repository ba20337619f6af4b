package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/speakeasy-api/openapi-resolver/internal/utils"
	"github.com/speakeasy-api/openapi-resolver/system"
)

// MaxDocumentSize is the largest document, in bytes, the loader will read.
const MaxDocumentSize = 10 * 1024 * 1024

// Fetcher returns the raw bytes of the document at an absolute URL.
type Fetcher interface {
	Fetch(ctx context.Context, u *url.URL) ([]byte, error)
}

// FetcherFunc adapts a function to a Fetcher.
type FetcherFunc func(ctx context.Context, u *url.URL) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, u *url.URL) ([]byte, error) {
	return f(ctx, u)
}

// DefaultFetcher reads file:// URLs from a VirtualFS and http(s) URLs with an HTTP client.
type DefaultFetcher struct {
	// VirtualFS is used for file:// URLs. Defaults to the OS file system.
	VirtualFS system.VirtualFS
	// HTTPClient is used for http:// and https:// URLs. Defaults to http.DefaultClient.
	HTTPClient system.Client
}

var _ Fetcher = (*DefaultFetcher)(nil)

func (f *DefaultFetcher) Fetch(ctx context.Context, u *url.URL) ([]byte, error) {
	switch u.Scheme {
	case "file":
		return f.fetchFile(u)
	case "http", "https":
		return f.fetchHTTP(ctx, u)
	default:
		return nil, fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}
}

func (f *DefaultFetcher) fetchFile(u *url.URL) ([]byte, error) {
	fsys := f.VirtualFS
	if fsys == nil {
		fsys = &system.FileSystem{}
	}

	file, err := fsys.Open(utils.FromFileURL(u))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return readLimited(file)
}

func (f *DefaultFetcher) fetchHTTP(ctx context.Context, u *url.URL) ([]byte, error) {
	client := f.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP request failed with status %d", resp.StatusCode)
	}

	return readLimited(resp.Body)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxDocumentSize {
		return nil, fmt.Errorf("document exceeds maximum size of %d bytes", MaxDocumentSize)
	}
	return data, nil
}
