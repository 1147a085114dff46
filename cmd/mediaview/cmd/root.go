// Package cmd implements the mediaview CLI commands.
//
// The root command carries the global --config and --cache-dir flags and
// dispatches to subcommands (cache, simulate, version).
package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/go-drift/mediaview/pkg/cache"
	"github.com/go-drift/mediaview/pkg/config"
	"github.com/go-drift/mediaview/pkg/errors"
	"github.com/go-drift/mediaview/pkg/logging"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	configPath string
	cacheDir   string
	logLevel   string
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "mediaview",
		Short: "Inspect the media cache and simulate view gestures",
		Long: `mediaview works with the media cache shared by every view and replays
swipe gestures against a headless presentation controller.

Settings come from mediaview.yaml or mediaview.toml in the working
directory, or from the file named by --config.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "config file (default: mediaview.yaml or mediaview.toml in the working directory)")
	pf.StringVar(&g.cacheDir, "cache-dir", "", "cache root, overriding the config file and $"+cache.EnvCacheDir)
	pf.StringVar(&g.logLevel, "log-level", "", "log level: trace, debug, info, warn or error")

	root.AddCommand(newCacheCmd(g))
	root.AddCommand(newSimulateCmd(g))
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the CLI until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

// resolve loads the configuration and applies the global flag overrides.
func (g *globals) resolve() (*config.Resolved, error) {
	var (
		cfg *config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.Load(g.configPath)
	} else {
		var dir string
		if dir, err = os.Getwd(); err == nil {
			cfg, err = config.LoadOptional(dir)
		}
	}
	if err != nil {
		return nil, err
	}
	if g.cacheDir != "" {
		cfg.Cache.Dir = g.cacheDir
	}
	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
	}
	return cfg.Resolve()
}

// openCache resolves the configuration and opens the cache it describes.
func (g *globals) openCache() (*cache.Cache, error) {
	r, err := g.resolve()
	if err != nil {
		return nil, err
	}
	provider, err := logging.New(r.Logging)
	if err != nil {
		return nil, err
	}
	errors.SetHandler(errors.NewLogHandler(provider.Get("errors"), r.Logging.Level == "trace"))

	opts := r.Cache
	opts.Logger = provider.Get("cache")
	return cache.New(opts)
}
