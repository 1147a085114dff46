// Package media defines the media kinds a view can show, the reference a
// view holds to its current media, and the key and content-type rules
// shared by the cache and the player.
package media

import (
	"crypto/sha1"
	"encoding/hex"
	"image"
	"mime"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Kind identifies a media family. Each kind has its own cache store.
type Kind int

const (
	// Image is a still image.
	Image Kind = iota
	// GIF is an animated image.
	GIF
	// Video is a playable video stream.
	Video
	// Audio is a playable audio stream.
	Audio
)

// Kinds lists every kind in declaration order.
var Kinds = []Kind{Image, GIF, Video, Audio}

func (k Kind) String() string {
	switch k {
	case Image:
		return "image"
	case GIF:
		return "gif"
	case Video:
		return "video"
	case Audio:
		return "audio"
	default:
		return "unknown"
	}
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if strings.EqualFold(strings.TrimSpace(s), k.String()) {
			return k, true
		}
	}
	return 0, false
}

// Playable reports whether the kind is opened through a player.
func (k Kind) Playable() bool {
	return k == Video || k == Audio
}

// ContentFamily describes the content types the kind accepts, for messages.
func (k Kind) ContentFamily() string {
	switch k {
	case GIF:
		return "image/gif"
	case Video:
		return "video/*"
	case Audio:
		return "audio/*"
	default:
		return "image/*"
	}
}

// AcceptsContentType reports whether a payload with content type ct may be
// stored under this kind.
func (k Kind) AcceptsContentType(ct string) bool {
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(ct))
	}
	switch k {
	case Image:
		return strings.HasPrefix(mediaType, "image/")
	case GIF:
		return mediaType == "image/gif"
	case Video:
		return strings.HasPrefix(mediaType, "video/")
	case Audio:
		return strings.HasPrefix(mediaType, "audio/")
	default:
		return false
	}
}

var extensionKinds = map[string]Kind{
	".jpg": Image, ".jpeg": Image, ".png": Image, ".bmp": Image,
	".webp": Image, ".tif": Image, ".tiff": Image,
	".gif": GIF,
	".mp4": Video, ".m4v": Video, ".mov": Video, ".mkv": Video,
	".webm": Video, ".avi": Video, ".ts": Video, ".m3u8": Video,
	".mp3": Audio, ".m4a": Audio, ".aac": Audio, ".wav": Audio,
	".flac": Audio, ".ogg": Audio, ".opus": Audio,
}

// Detect guesses the kind from the extension of a URL or file path.
func Detect(location string) (Kind, bool) {
	k, ok := extensionKinds[strings.ToLower(path.Ext(stripQuery(location)))]
	return k, ok
}

var playableTypes = map[string]string{
	".mp4": "video/mp4", ".m4v": "video/x-m4v", ".mov": "video/quicktime",
	".mkv": "video/x-matroska", ".webm": "video/webm",
	".mp3": "audio/mpeg", ".m4a": "audio/mp4", ".aac": "audio/aac",
	".wav": "audio/wav", ".flac": "audio/flac", ".ogg": "audio/ogg", ".opus": "audio/opus",
}

// ContentTypeByExtension guesses a content type from the location's extension.
func ContentTypeByExtension(location string) string {
	ext := strings.ToLower(path.Ext(stripQuery(location)))
	if ct, ok := playableTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	switch extensionKinds[ext] {
	case Video:
		return "video/" + strings.TrimPrefix(ext, ".")
	case Audio:
		return "audio/" + strings.TrimPrefix(ext, ".")
	}
	return ""
}

func stripQuery(location string) string {
	if u, err := url.Parse(location); err == nil && u.Scheme != "" {
		return u.Path
	}
	return location
}

// NormalizeKey returns the canonical cache key for a URL or local path.
func NormalizeKey(location string) string {
	location = strings.TrimSpace(location)
	if location == "" {
		return ""
	}
	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Plain paths, including Windows drive letters.
		return filepath.Clean(location)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// IsRemote reports whether the location is fetched over the network.
func IsRemote(location string) bool {
	u, err := url.Parse(strings.TrimSpace(location))
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return true
	}
	return false
}

// Basename returns the file name used for the key on disk.
func Basename(key string) string {
	name := ""
	if u, err := url.Parse(key); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		name = path.Base(u.Path)
	} else {
		name = filepath.Base(key)
	}
	if name == "" || name == "." || name == "/" || name == string(filepath.Separator) {
		sum := sha1.Sum([]byte(key))
		return hex.EncodeToString(sum[:])
	}
	return name
}

// Animation is a decoded GIF: composited frames with their display delays.
type Animation struct {
	Frames []image.Image
	// Delays holds per-frame delays in hundredths of a second.
	Delays []int
	// LoopCount follows image/gif: 0 loops forever, -1 plays once.
	LoopCount int
}

// Duration returns the total play time of one loop.
func (a *Animation) Duration() time.Duration {
	if a == nil {
		return 0
	}
	total := 0
	for _, d := range a.Delays {
		total += d
	}
	return time.Duration(total) * 10 * time.Millisecond
}

// FirstFrame returns the first frame, or nil for an empty animation.
func (a *Animation) FirstFrame() image.Image {
	if a == nil || len(a.Frames) == 0 {
		return nil
	}
	return a.Frames[0]
}
