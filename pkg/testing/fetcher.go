package testing

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/go-drift/mediaview/pkg/cache"
)

type served struct {
	contentType string
	data        []byte
}

// FakeFetcher serves canned payloads by location. Unknown locations fail.
// It is safe for concurrent use.
type FakeFetcher struct {
	mu       sync.Mutex
	payloads map[string]served
	calls    []string
}

// NewFakeFetcher returns a fetcher with nothing to serve.
func NewFakeFetcher() *FakeFetcher {
	return &FakeFetcher{payloads: make(map[string]served)}
}

// Serve makes location return data with the given content type.
func (f *FakeFetcher) Serve(location, contentType string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads[location] = served{contentType: contentType, data: data}
}

// Fetch implements [cache.Fetcher].
func (f *FakeFetcher) Fetch(ctx context.Context, location string) (*cache.Payload, error) {
	f.mu.Lock()
	f.calls = append(f.calls, location)
	p, ok := f.payloads[location]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("fake fetcher: nothing served at %s", location)
	}
	return &cache.Payload{
		Body:        io.NopCloser(bytes.NewReader(p.data)),
		ContentType: p.contentType,
		Size:        int64(len(p.data)),
	}, nil
}

// Calls returns every location fetched, in order.
func (f *FakeFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
