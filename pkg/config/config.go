// Package config loads the optional mediaview.yaml or mediaview.toml file
// and resolves it into view options, cache options, logging settings and
// audio categories.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/mediaview/pkg/cache"
	"github.com/go-drift/mediaview/pkg/errors"
	"github.com/go-drift/mediaview/pkg/graphics"
	"github.com/go-drift/mediaview/pkg/logging"
	"github.com/go-drift/mediaview/pkg/mediaview"
	"github.com/go-drift/mediaview/pkg/playback"
	"github.com/go-drift/mediaview/pkg/presentation"
)

// Names are the file names LoadOptional looks for, in order.
var Names = []string{"mediaview.yaml", "mediaview.yml", "mediaview.toml"}

// Config mirrors the configuration file.
type Config struct {
	View    ViewConfig    `yaml:"view" koanf:"view"`
	Cache   CacheConfig   `yaml:"cache" koanf:"cache"`
	Logging LoggingConfig `yaml:"logging" koanf:"logging"`
	Audio   AudioConfig   `yaml:"audio" koanf:"audio"`
}

// ViewConfig holds the defaults applied to every new view.
type ViewConfig struct {
	SwipeMode string `yaml:"swipe_mode" koanf:"swipe_mode"`

	DisplayFullscreen    bool `yaml:"display_fullscreen" koanf:"display_fullscreen"`
	AutoPlay             bool `yaml:"auto_play" koanf:"auto_play"`
	DismissAfterFinished bool `yaml:"dismiss_after_finished" koanf:"dismiss_after_finished"`
	PresentFromOrigin    bool `yaml:"present_from_origin" koanf:"present_from_origin"`
	HideCloseButton      bool `yaml:"hide_close_button" koanf:"hide_close_button"`
	HidePlayButton       bool `yaml:"hide_play_button" koanf:"hide_play_button"`
	AllowLooping         bool `yaml:"allow_looping" koanf:"allow_looping"`
	ShowTrack            bool `yaml:"show_track" koanf:"show_track"`
	DisplayRemainingTime bool `yaml:"display_remaining_time" koanf:"display_remaining_time"`
	PreloadPlayableMedia bool `yaml:"preload_playable_media" koanf:"preload_playable_media"`
	CacheStreamedMedia   bool `yaml:"cache_streamed_media" koanf:"cache_streamed_media"`
	FromDirectory        bool `yaml:"from_directory" koanf:"from_directory"`
	ImageViewNotReused   bool `yaml:"image_view_not_reused" koanf:"image_view_not_reused"`
	VideoAspectFit       bool `yaml:"video_aspect_fit" koanf:"video_aspect_fit"`
	PressShowsGIF        bool `yaml:"press_shows_gif" koanf:"press_shows_gif"`

	MinimizedAspectRatio float64 `yaml:"minimized_aspect_ratio" koanf:"minimized_aspect_ratio"`
	MinimizedWidthRatio  float64 `yaml:"minimized_width_ratio" koanf:"minimized_width_ratio"`
	TopBuffer            float64 `yaml:"top_buffer" koanf:"top_buffer"`
	BottomBuffer         float64 `yaml:"bottom_buffer" koanf:"bottom_buffer"`

	// ThemeColor is a #rgb or #rrggbb color.
	ThemeColor string `yaml:"theme_color" koanf:"theme_color"`
}

// CacheConfig configures the shared media cache.
type CacheConfig struct {
	// Dir overrides the cache root. Empty uses the documents directory.
	Dir string `yaml:"dir" koanf:"dir"`
	// KeepImages keeps fetched images and GIFs in memory. Defaults to true.
	KeepImages *bool `yaml:"keep_images" koanf:"keep_images"`
	// MaxImageDimension downsamples larger stills. Zero uses the decoder default.
	MaxImageDimension int `yaml:"max_image_dimension" koanf:"max_image_dimension"`
	// FetchTimeout bounds one HTTP fetch, in Go duration syntax.
	FetchTimeout time.Duration `yaml:"fetch_timeout" koanf:"fetch_timeout"`
}

// LoggingConfig selects the log level and format.
type LoggingConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Format string `yaml:"format" koanf:"format"`
}

// AudioConfig names the audio categories applied on play and stop.
type AudioConfig struct {
	WhenPlay string `yaml:"when_play" koanf:"when_play"`
	WhenStop string `yaml:"when_stop" koanf:"when_stop"`
}

// Resolved is the configuration converted to the types the library uses.
type Resolved struct {
	Options  mediaview.Options
	Cache    cache.Options
	Logging  logging.Config
	WhenPlay playback.AudioType
	WhenStop playback.AudioType
}

// Load reads path. The extension picks the format: .yaml and .yml are
// decoded strictly with yaml.v3, .toml goes through koanf.
func Load(path string) (*Config, error) {
	var (
		cfg Config
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = loadYAML(path, &cfg)
	case ".toml":
		err = loadTOML(path, &cfg)
	default:
		err = fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, errors.New("config.Load", errors.KindConfig, path, err)
	}
	return &cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func loadTOML(path string, cfg *Config) error {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return k.Unmarshal("", cfg)
}

// LoadOptional loads the first of Names found in dir. Without one it
// returns an empty Config.
func LoadOptional(dir string) (*Config, error) {
	for _, name := range Names {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, errors.New("config.LoadOptional", errors.KindConfig, path, err)
		}
		return Load(path)
	}
	return &Config{}, nil
}

// Resolve converts c, validating enumerations, colors and geometry.
func (c *Config) Resolve() (*Resolved, error) {
	opts, err := c.View.options()
	if err != nil {
		return nil, errors.New("config.Resolve", errors.KindConfig, "view", err)
	}

	r := &Resolved{
		Options: opts,
		Logging: logging.Config{Level: c.Logging.Level, Format: c.Logging.Format},
	}

	r.Cache = cache.DefaultOptions()
	if c.Cache.KeepImages != nil {
		r.Cache.CacheMediaWhenDownloaded = *c.Cache.KeepImages
	}
	if c.Cache.MaxImageDimension < 0 {
		return nil, errors.New("config.Resolve", errors.KindConfig, "cache.max_image_dimension",
			fmt.Errorf("must not be negative, got %d", c.Cache.MaxImageDimension))
	}
	r.Cache.MaxImageDimension = c.Cache.MaxImageDimension
	if c.Cache.FetchTimeout > 0 {
		r.Cache.Fetcher = cache.NewRouter(c.Cache.FetchTimeout)
	}
	if c.Cache.Dir != "" {
		layout, err := cache.NewLayout(c.Cache.Dir)
		if err != nil {
			return nil, errors.New("config.Resolve", errors.KindConfig, "cache.dir", err)
		}
		r.Cache.Layout = layout
	}

	if r.WhenPlay, err = playback.ParseAudioType(c.Audio.WhenPlay); err != nil {
		return nil, errors.New("config.Resolve", errors.KindConfig, "audio.when_play", err)
	}
	if r.WhenStop, err = playback.ParseAudioType(c.Audio.WhenStop); err != nil {
		return nil, errors.New("config.Resolve", errors.KindConfig, "audio.when_stop", err)
	}
	return r, nil
}

func (v ViewConfig) options() (mediaview.Options, error) {
	o := mediaview.DefaultOptions()

	mode, err := presentation.ParseSwipeMode(v.SwipeMode)
	if err != nil {
		return o, err
	}
	o.SwipeMode = mode

	o.ShouldDisplayFullscreen = v.DisplayFullscreen
	o.ShouldAutoPlayAfterPresentation = v.AutoPlay
	o.ShouldDismissAfterFinishedPlaying = v.DismissAfterFinished
	o.ShouldPresentFromOriginRect = v.PresentFromOrigin
	o.ShouldHideCloseButton = v.HideCloseButton
	o.ShouldHidePlayButton = v.HidePlayButton
	o.AllowLooping = v.AllowLooping
	o.ShouldShowTrack = v.ShowTrack
	o.ShouldDisplayRemainingTime = v.DisplayRemainingTime
	o.ShouldPreloadPlayableMedia = v.PreloadPlayableMedia
	o.ShouldCacheStreamedMedia = v.CacheStreamedMedia
	o.FromDirectory = v.FromDirectory
	o.ImageViewNotReused = v.ImageViewNotReused
	o.VideoAspectFit = v.VideoAspectFit
	o.PressShowsGIF = v.PressShowsGIF

	for _, f := range []struct {
		name string
		val  float64
		dst  *float64
	}{
		{"minimized_aspect_ratio", v.MinimizedAspectRatio, &o.MinimizedAspectRatio},
		{"minimized_width_ratio", v.MinimizedWidthRatio, &o.MinimizedWidthRatio},
		{"top_buffer", v.TopBuffer, &o.TopBuffer},
		{"bottom_buffer", v.BottomBuffer, &o.BottomBuffer},
	} {
		switch {
		case f.val < 0:
			return o, fmt.Errorf("%s must not be negative, got %g", f.name, f.val)
		case f.val > 0:
			*f.dst = f.val
		}
	}

	if v.ThemeColor != "" {
		if o.ThemeColor, err = graphics.ParseColor(v.ThemeColor); err != nil {
			return o, err
		}
	}
	return o, nil
}
