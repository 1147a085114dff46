// Package cache provides the process-wide media cache behind every view.
//
// Each media kind has its own in-memory store and its own in-flight ledger.
// A key that is already being fetched is never fetched a second time:
// concurrent requests for it receive an immediate nil and are expected to
// register with Wait for the first caller's result. Playable media (video, audio)
// is persisted under <root>/MediaCache/{Video,Audio}/<basename>, and the
// store keeps the file path. Images and GIFs are kept decoded in memory.
//
// Completions always run through the configured dispatch.Dispatcher, so
// callbacks observe and mutate view state on the UI thread.
package cache

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/go-drift/mediaview/pkg/dispatch"
	"github.com/go-drift/mediaview/pkg/errors"
	"github.com/go-drift/mediaview/pkg/logging"
	"github.com/go-drift/mediaview/pkg/media"
)

// Value is a cached resource. Exactly one field is set, matching the kind.
type Value struct {
	Image     image.Image
	Animation *media.Animation
	Path      string
}

// DirectoryItem selects what Clear removes.
type DirectoryItem int

const (
	// DirVideo is the persisted video directory.
	DirVideo DirectoryItem = iota
	// DirAudio is the persisted audio directory.
	DirAudio
	// DirAll is both video and audio.
	DirAll
	// DirTemp is the layout's temp directory.
	DirTemp
)

func (d DirectoryItem) String() string {
	switch d {
	case DirVideo:
		return "video"
	case DirAudio:
		return "audio"
	case DirAll:
		return "all"
	case DirTemp:
		return "temp"
	default:
		return "unknown"
	}
}

// ParseDirectoryItem maps a directory item name back to its DirectoryItem.
func ParseDirectoryItem(s string) (DirectoryItem, error) {
	for _, d := range []DirectoryItem{DirVideo, DirAudio, DirAll, DirTemp} {
		if strings.EqualFold(strings.TrimSpace(s), d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("cache: unknown directory item %q", s)
}

// Options configures a Cache. Start from DefaultOptions.
type Options struct {
	// Layout locates persisted media. Nil resolves the default root.
	Layout *Layout
	// Fetcher retrieves bytes. Nil uses NewRouter(0).
	Fetcher Fetcher
	// Decoder decodes images and GIFs. Nil uses NewDecoder(MaxImageDimension).
	Decoder Decoder
	// Dispatcher runs completions. Nil runs them on the fetch goroutine.
	Dispatcher dispatch.Dispatcher
	// Logger receives cache activity. Nil discards it.
	Logger logging.Logger
	// CacheMediaWhenDownloaded keeps fetched images and GIFs in memory.
	CacheMediaWhenDownloaded bool
	// MaxImageDimension bounds decoded stills when Decoder is nil.
	MaxImageDimension int
}

// DefaultOptions returns options with in-memory caching enabled.
func DefaultOptions() Options {
	return Options{CacheMediaWhenDownloaded: true}
}

// Cache is the single-flight, per-kind media cache.
type Cache struct {
	layout     *Layout
	fetcher    Fetcher
	decoder    Decoder
	dispatcher dispatch.Dispatcher
	log        logging.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	stores     map[media.Kind]map[string]*Value
	inFlight   map[media.Kind]map[string]uint64
	generation map[media.Kind]uint64
	waiters    map[media.Kind]map[string][]waiter
	cacheMedia bool
}

// waiter is a Wait callback bound to the fetch generation it waits on.
type waiter struct {
	gen uint64
	fn  func(*Value)
}

// New creates a cache and prepares its directories.
func New(opts Options) (*Cache, error) {
	layout := opts.Layout
	if layout == nil {
		var err error
		if layout, err = NewLayout(""); err != nil {
			return nil, err
		}
	}
	log := logging.OrNoOp(opts.Logger)
	discarded, err := layout.Prepare()
	if err != nil {
		return nil, errors.New("cache.New", errors.KindDiskWrite, layout.Base(), err)
	}
	if discarded {
		log.Info("discarded media persisted by an older layout", "root", layout.Base())
	}

	c := &Cache{
		layout:     layout,
		fetcher:    opts.Fetcher,
		decoder:    opts.Decoder,
		dispatcher: opts.Dispatcher,
		log:        log,
		stores:     make(map[media.Kind]map[string]*Value),
		inFlight:   make(map[media.Kind]map[string]uint64),
		generation: make(map[media.Kind]uint64),
		waiters:    make(map[media.Kind]map[string][]waiter),
		cacheMedia: opts.CacheMediaWhenDownloaded,
	}
	if c.fetcher == nil {
		c.fetcher = NewRouter(0)
	}
	if c.decoder == nil {
		c.decoder = NewDecoder(opts.MaxImageDimension)
	}
	if c.dispatcher == nil {
		c.dispatcher = dispatch.Sync{}
	}
	for _, k := range media.Kinds {
		c.stores[k] = make(map[string]*Value)
		c.inFlight[k] = make(map[string]uint64)
		c.waiters[k] = make(map[string][]waiter)
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	return c, nil
}

// Decoder returns the decoder used for fetched images and GIFs.
func (c *Cache) Decoder() Decoder { return c.decoder }

// Layout returns the cache's disk layout.
func (c *Cache) Layout() *Layout { return c.layout }

// Get returns the cached value for key, if any. It has no side effects.
func (c *Cache) Get(kind media.Kind, location string) (*Value, bool) {
	key := media.NormalizeKey(location)
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.stores[kind][key]
	return v, ok
}

// IsInFlight reports whether key is currently being fetched.
func (c *Cache) IsInFlight(kind media.Kind, location string) bool {
	key := media.NormalizeKey(location)
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.inFlight[kind][key]
	return ok
}

// Wait calls onComplete with the result of the fetch of location that is
// already in flight, through the same dispatcher. A cached value is
// delivered immediately. Wait reports false, and never calls onComplete,
// when the key is neither cached nor in flight.
func (c *Cache) Wait(kind media.Kind, location string, onComplete func(*Value)) bool {
	key := media.NormalizeKey(location)
	if key == "" || onComplete == nil {
		return false
	}
	c.mu.Lock()
	if v, ok := c.stores[kind][key]; ok {
		c.mu.Unlock()
		onComplete(v)
		return true
	}
	gen, ok := c.inFlight[kind][key]
	if ok {
		c.waiters[kind][key] = append(c.waiters[kind][key], waiter{gen: gen, fn: onComplete})
	}
	c.mu.Unlock()
	return ok
}

// Store seeds the cache with a value.
func (c *Cache) Store(kind media.Kind, location string, v *Value) {
	key := media.NormalizeKey(location)
	if key == "" || v == nil {
		return
	}
	c.mu.Lock()
	c.stores[kind][key] = v
	c.mu.Unlock()
}

// Len returns the number of cached values of kind.
func (c *Cache) Len(kind media.Kind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.stores[kind])
}

// Fetch resolves location and calls onComplete with the value, or with nil
// on failure. A cached value is delivered immediately. A key that is
// already in flight is not fetched again; onComplete receives nil at once.
func (c *Cache) Fetch(kind media.Kind, location string, onComplete func(*Value)) {
	key := media.NormalizeKey(location)
	if key == "" {
		deliver(onComplete, nil)
		return
	}

	c.mu.Lock()
	if v, ok := c.stores[kind][key]; ok {
		c.mu.Unlock()
		c.log.Debug("cache hit", "kind", kind.String(), "key", key)
		deliver(onComplete, v)
		return
	}
	if _, ok := c.inFlight[kind][key]; ok {
		c.mu.Unlock()
		c.log.Debug("fetch already in flight", "kind", kind.String(), "key", key)
		deliver(onComplete, nil)
		return
	}
	gen := c.generation[kind]
	c.inFlight[kind][key] = gen
	c.mu.Unlock()

	c.log.Debug("cache miss", "kind", kind.String(), "key", key)
	c.wg.Add(1)
	go c.load(kind, key, location, gen, onComplete)
}

func deliver(fn func(*Value), v *Value) {
	if fn != nil {
		fn(v)
	}
}

func (c *Cache) load(kind media.Kind, key, location string, gen uint64, onComplete func(*Value)) {
	defer c.wg.Done()

	var value *Value
	func() {
		defer errors.RecoverWithCallback("cache.load", func(any) { value = nil })
		v, err := c.resolve(kind, key, location)
		if err != nil {
			var me *errors.MediaError
			if !errors.As(err, &me) {
				me = errors.New("cache.Fetch", errors.KindFetch, key, err)
			}
			errors.Report(me)
			return
		}
		value = v
	}()

	if !c.dispatcher.Dispatch(func() { c.complete(kind, key, gen, value, onComplete) }) {
		c.unmark(kind, key, gen)
	}
}

func (c *Cache) complete(kind media.Kind, key string, gen uint64, value *Value, onComplete func(*Value)) {
	c.mu.Lock()
	c.unmarkLocked(kind, key, gen)
	stale := gen != c.generation[kind]
	if value != nil && !stale && (kind.Playable() || c.cacheMedia) {
		c.stores[kind][key] = value
	}
	waiting := c.takeWaitersLocked(kind, key, gen)
	c.mu.Unlock()

	if stale {
		c.log.Debug("dropping completion for reset store", "kind", kind.String(), "key", key)
	}
	deliver(onComplete, value)
	for _, w := range waiting {
		w.fn(value)
	}
}

// unmark forgets a fetch whose completion could not be dispatched. Its
// waiters are dropped with it.
func (c *Cache) unmark(kind media.Kind, key string, gen uint64) {
	c.mu.Lock()
	c.unmarkLocked(kind, key, gen)
	c.takeWaitersLocked(kind, key, gen)
	c.mu.Unlock()
}

func (c *Cache) takeWaitersLocked(kind media.Kind, key string, gen uint64) []waiter {
	var taken, kept []waiter
	for _, w := range c.waiters[kind][key] {
		if w.gen == gen {
			taken = append(taken, w)
		} else {
			kept = append(kept, w)
		}
	}
	if len(kept) == 0 {
		delete(c.waiters[kind], key)
	} else {
		c.waiters[kind][key] = kept
	}
	return taken
}

func (c *Cache) unmarkLocked(kind media.Kind, key string, gen uint64) {
	if g, ok := c.inFlight[kind][key]; ok && g == gen {
		delete(c.inFlight[kind], key)
	}
}

func (c *Cache) resolve(kind media.Kind, key, location string) (*Value, error) {
	if kind.Playable() {
		dest, _ := c.layout.PathFor(kind, key)
		if fileExists(dest) {
			c.log.Debug("reusing persisted media", "kind", kind.String(), "path", dest)
			return &Value{Path: dest}, nil
		}
	}

	payload, err := c.fetcher.Fetch(c.ctx, location)
	if err != nil {
		return nil, errors.New("cache.Fetch", errors.KindFetch, key, err)
	}
	defer payload.Body.Close()

	contentType, body := sniffContentType(payload, location)
	if !kind.AcceptsContentType(contentType) {
		return nil, errors.New("cache.Fetch", errors.KindContentType, key,
			&errors.ContentTypeError{Want: kind.ContentFamily(), Got: contentType})
	}

	switch kind {
	case media.Video, media.Audio:
		dest, _ := c.layout.PathFor(kind, key)
		n, err := persist(body, dest)
		if err != nil {
			return nil, errors.New("cache.persist", errors.KindDiskWrite, key, err)
		}
		c.log.Info("persisted media", "kind", kind.String(), "path", dest, "size", humanize.Bytes(uint64(n)))
		return &Value{Path: dest}, nil
	case media.GIF:
		data, err := io.ReadAll(body)
		if err != nil {
			return nil, errors.New("cache.Fetch", errors.KindFetch, key, err)
		}
		anim, err := c.decoder.DecodeAnimation(data)
		if err != nil {
			return nil, errors.New("cache.decode", errors.KindDecode, key, err)
		}
		c.log.Debug("decoded gif", "key", key, "frames", len(anim.Frames), "size", humanize.Bytes(uint64(len(data))))
		return &Value{Animation: anim}, nil
	default:
		data, err := io.ReadAll(body)
		if err != nil {
			return nil, errors.New("cache.Fetch", errors.KindFetch, key, err)
		}
		img, err := c.decoder.DecodeImage(data)
		if err != nil {
			return nil, errors.New("cache.decode", errors.KindDecode, key, err)
		}
		c.log.Debug("decoded image", "key", key, "size", humanize.Bytes(uint64(len(data))))
		return &Value{Image: img}, nil
	}
}

// persist streams r to dest through a temp file in the same directory and
// renames it into place. On failure no file is left at dest.
func persist(r io.Reader, dest string) (int64, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	n, err := io.Copy(tmpFile, r)
	if err != nil {
		return n, fmt.Errorf("failed to write download: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return n, fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return n, fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return n, nil
}

// Reset drops every value and in-flight mark of kind. Fetches already
// running still call back, but their results are not stored.
func (c *Cache) Reset(kind media.Kind) {
	c.mu.Lock()
	c.stores[kind] = make(map[string]*Value)
	c.inFlight[kind] = make(map[string]uint64)
	c.generation[kind]++
	c.mu.Unlock()
	c.log.Debug("reset store", "kind", kind.String())
}

// CacheMediaWhenDownloaded reports whether images and GIFs are kept in memory.
func (c *Cache) CacheMediaWhenDownloaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cacheMedia
}

// SetCacheMediaWhenDownloaded toggles in-memory image and GIF caching.
// Turning it off drops the current images and GIFs.
func (c *Cache) SetCacheMediaWhenDownloaded(on bool) {
	c.mu.Lock()
	c.cacheMedia = on
	c.mu.Unlock()
	if !on {
		c.Reset(media.Image)
		c.Reset(media.GIF)
	}
}

// Clear removes persisted files and the matching in-memory entries.
func (c *Cache) Clear(item DirectoryItem) error {
	switch item {
	case DirVideo:
		return c.clearKind(media.Video)
	case DirAudio:
		return c.clearKind(media.Audio)
	case DirAll:
		return errors.Join(c.clearKind(media.Video), c.clearKind(media.Audio))
	case DirTemp:
		if c.layout.TempDir == "" {
			return nil
		}
		return clearDir(c.layout.TempDir)
	default:
		return fmt.Errorf("cache: unknown directory item %d", int(item))
	}
}

func (c *Cache) clearKind(kind media.Kind) error {
	dir, _ := c.layout.DirFor(kind)
	err := clearDir(dir)
	c.Reset(kind)
	if err != nil {
		errors.Report(errors.New("cache.Clear", errors.KindDiskWrite, dir, err))
	}
	return err
}

// forgetPath drops entries whose persisted file is path.
func (c *Cache) forgetPath(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	dropped := false
	for _, kind := range []media.Kind{media.Video, media.Audio} {
		for key, v := range c.stores[kind] {
			if v.Path == path {
				delete(c.stores[kind], key)
				dropped = true
			}
		}
	}
	return dropped
}

// Close cancels running fetches and waits for their goroutines to finish.
func (c *Cache) Close() {
	c.cancel()
	c.wg.Wait()
}
