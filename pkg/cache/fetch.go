package cache

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-drift/mediaview/pkg/media"
)

// Payload is an open response body together with its declared content type.
type Payload struct {
	Body        io.ReadCloser
	ContentType string
	// Size is the declared length, or -1 when unknown.
	Size int64
}

// Fetcher retrieves the bytes behind a location. Implementations must honor
// ctx cancellation.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (*Payload, error)
}

// HTTPFetcher fetches http and https URLs.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher. A zero timeout leaves requests unbounded,
// so slow media stays in flight until the cache is closed.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch issues a GET request and returns the response body.
func (f *HTTPFetcher) Fetch(ctx context.Context, location string) (*Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", location, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch failed: %s returned %s", location, resp.Status)
	}
	return &Payload{
		Body:        resp.Body,
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}, nil
}

// FileFetcher opens local paths and file:// URLs.
type FileFetcher struct{}

// Fetch opens the file. The content type is guessed from the extension.
func (FileFetcher) Fetch(_ context.Context, location string) (*Payload, error) {
	p := location
	if u, err := url.Parse(location); err == nil && u.Scheme == "file" {
		p = filepath.FromSlash(u.Path)
	}
	file, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", p, err)
	}
	size := int64(-1)
	if info, err := file.Stat(); err == nil {
		size = info.Size()
	}
	return &Payload{Body: file, ContentType: media.ContentTypeByExtension(p), Size: size}, nil
}

// Router sends remote URLs to one fetcher and everything else to another.
type Router struct {
	Remote Fetcher
	Local  Fetcher
}

// NewRouter returns a Router using an HTTPFetcher with the given timeout and a FileFetcher.
func NewRouter(timeout time.Duration) *Router {
	return &Router{Remote: NewHTTPFetcher(timeout), Local: FileFetcher{}}
}

// Fetch dispatches on the location's scheme.
func (r *Router) Fetch(ctx context.Context, location string) (*Payload, error) {
	if media.IsRemote(location) {
		return r.Remote.Fetch(ctx, location)
	}
	return r.Local.Fetch(ctx, location)
}

// sniffContentType returns the payload's effective content type and a reader
// positioned at the start of the body. Missing or generic declarations are
// resolved by sniffing the first bytes, then by the location's extension.
func sniffContentType(p *Payload, location string) (string, io.Reader) {
	declared := strings.TrimSpace(p.ContentType)
	if declared != "" && !isGeneric(declared) {
		return declared, p.Body
	}

	br := bufio.NewReaderSize(p.Body, 512)
	head, _ := br.Peek(512)
	if len(head) > 0 {
		if sniffed := http.DetectContentType(head); !isGeneric(sniffed) {
			return sniffed, br
		}
	}
	if guessed := media.ContentTypeByExtension(location); guessed != "" {
		return guessed, br
	}
	return declared, br
}

func isGeneric(ct string) bool {
	ct = strings.ToLower(ct)
	return strings.HasPrefix(ct, "application/octet-stream") || strings.HasPrefix(ct, "text/plain")
}
