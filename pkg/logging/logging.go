// Package logging provides the named, leveled loggers used across mediaview.
//
// Loggers are obtained from a [Provider], which wraps a go-logger root so that
// every component (cache, playback, presentation, queue) logs under its own name:
//
//	provider, err := logging.New(logging.Config{Level: "debug", Format: "console"})
//	log := provider.Get("cache")
//	log.Info("fetch complete", "key", key, "size", humanize.Bytes(n))
package logging

import (
	"fmt"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
)

// Logger is the logging contract used by mediaview components. Args are
// alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config selects the level and output format of the root logger.
type Config struct {
	// Level is one of trace, debug, info, warn, error. Empty keeps the go-logger default.
	Level string
	// Format is console, json or pretty. Empty means console.
	Format string
	// AddSource annotates records with the calling file and line.
	AddSource bool
}

// Provider hands out named child loggers of a single go-logger root.
type Provider struct {
	root *glog.BaseLogger
}

// New builds a Provider from cfg.
func New(cfg Config) (*Provider, error) {
	options := []glog.Option{}

	level, err := normalizeLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if level != "" {
		options = append(options, glog.WithLevel(level))
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "console":
		options = append(options, glog.WithLoggerTypeConsole())
	case "json":
		options = append(options, glog.WithLoggerTypeJSON())
	case "pretty":
		options = append(options, glog.WithLoggerTypePretty())
	default:
		return nil, fmt.Errorf("logging: unsupported format %q", cfg.Format)
	}

	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}

	return &Provider{root: glog.NewLogger(options...)}, nil
}

// Get returns the logger registered under name. A nil provider yields NoOp.
func (p *Provider) Get(name string) Logger {
	if p == nil || p.root == nil {
		return NoOp()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return p.root
	}
	if child := p.root.GetLogger(name); child != nil {
		return child
	}
	return NoOp()
}

func normalizeLevel(level string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "":
		return "", nil
	case "trace":
		return glog.Trace, nil
	case "debug":
		return glog.Debug, nil
	case "info":
		return glog.Info, nil
	case "warn", "warning":
		return glog.Warn, nil
	case "error":
		return glog.Error, nil
	default:
		return "", fmt.Errorf("logging: unknown level %q", level)
	}
}

type noop struct{}

func (noop) Debug(string, ...any) {}
func (noop) Info(string, ...any)  {}
func (noop) Warn(string, ...any)  {}
func (noop) Error(string, ...any) {}

// NoOp returns a Logger that discards everything.
func NoOp() Logger { return noop{} }

// OrNoOp returns l, or NoOp when l is nil.
func OrNoOp(l Logger) Logger {
	if l == nil {
		return NoOp()
	}
	return l
}
