package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"golang.org/x/mod/semver"

	"github.com/go-drift/mediaview/pkg/media"
)

// LayoutVersion is the on-disk format version. A change of major version
// discards previously persisted media.
const LayoutVersion = "v1.0.0"

// EnvCacheDir overrides the default cache root.
const EnvCacheDir = "MEDIAVIEW_CACHE_DIR"

const (
	dirName     = "MediaCache"
	versionFile = ".version"
	tempPattern = ".download-*"
)

// ResolveRoot returns the directory that holds MediaCache/.
// Priority: explicit > MEDIAVIEW_CACHE_DIR env > the user's documents dir.
func ResolveRoot(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := os.Getenv(EnvCacheDir); env != "" {
		return env, nil
	}
	if docs := xdg.UserDirs.Documents; docs != "" {
		return docs, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cache: failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, "Documents"), nil
}

// Layout maps media kinds to directories under <root>/MediaCache.
type Layout struct {
	// Root is the directory containing MediaCache/.
	Root string
	// TempDir is cleared by Clear(DirTemp). Defaults to <os temp>/MediaCache.
	TempDir string
}

// NewLayout resolves root (see ResolveRoot) and returns its layout.
func NewLayout(root string) (*Layout, error) {
	resolved, err := ResolveRoot(root)
	if err != nil {
		return nil, err
	}
	return &Layout{
		Root:    resolved,
		TempDir: filepath.Join(os.TempDir(), dirName),
	}, nil
}

// Base returns <root>/MediaCache.
func (l *Layout) Base() string {
	return filepath.Join(l.Root, dirName)
}

// VideoDir returns <root>/MediaCache/Video.
func (l *Layout) VideoDir() string { return filepath.Join(l.Base(), "Video") }

// AudioDir returns <root>/MediaCache/Audio.
func (l *Layout) AudioDir() string { return filepath.Join(l.Base(), "Audio") }

// DirFor returns the persistence directory for a playable kind.
func (l *Layout) DirFor(kind media.Kind) (string, bool) {
	switch kind {
	case media.Video:
		return l.VideoDir(), true
	case media.Audio:
		return l.AudioDir(), true
	}
	return "", false
}

// PathFor returns the file a playable key persists to.
func (l *Layout) PathFor(kind media.Kind, key string) (string, bool) {
	dir, ok := l.DirFor(kind)
	if !ok {
		return "", false
	}
	return filepath.Join(dir, media.Basename(key)), true
}

// Prepare creates the directories and reconciles the layout version.
// It reports whether persisted media was discarded.
func (l *Layout) Prepare() (bool, error) {
	for _, dir := range []string{l.VideoDir(), l.AudioDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("cache: failed to create %s: %w", dir, err)
		}
	}

	stampPath := filepath.Join(l.Base(), versionFile)
	raw, err := os.ReadFile(stampPath)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("cache: failed to read %s: %w", stampPath, err)
	}
	stored := strings.TrimSpace(string(raw))

	discarded := false
	if stored != "" && (!semver.IsValid(stored) || semver.Major(stored) != semver.Major(LayoutVersion)) {
		for _, dir := range []string{l.VideoDir(), l.AudioDir()} {
			if err := clearDir(dir); err != nil {
				return false, err
			}
		}
		discarded = true
	}
	if stored != LayoutVersion {
		if err := os.WriteFile(stampPath, []byte(LayoutVersion+"\n"), 0o644); err != nil {
			return discarded, fmt.Errorf("cache: failed to write %s: %w", stampPath, err)
		}
	}
	return discarded, nil
}

// FileInfo describes one persisted file.
type FileInfo struct {
	Kind    media.Kind
	Path    string
	Size    int64
	ModTime time.Time
}

// Files lists persisted files of a playable kind, sorted by name.
// In-progress downloads are skipped.
func (l *Layout) Files(kind media.Kind) ([]FileInfo, error) {
	dir, ok := l.DirFor(kind)
	if !ok {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache: failed to read %s: %w", dir, err)
	}
	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || isTempName(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Kind:    kind,
			Path:    filepath.Join(dir, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func isTempName(name string) bool {
	return strings.HasPrefix(name, ".download-")
}

// clearDir removes the contents of dir, keeping dir itself.
func clearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("cache: failed to read %s: %w", dir, err)
	}
	var errs []error
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("cache: failed to clear %s: %w", dir, errs[0])
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
