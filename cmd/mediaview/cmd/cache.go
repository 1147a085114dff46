package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/go-drift/mediaview/pkg/cache"
	"github.com/go-drift/mediaview/pkg/media"
)

func newCacheCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Fetch, list and clear cached media",
	}
	cmd.AddCommand(newCacheFetchCmd(g))
	cmd.AddCommand(newCacheListCmd(g))
	cmd.AddCommand(newCacheClearCmd(g))
	return cmd
}

func newCacheFetchCmd(g *globals) *cobra.Command {
	var kindName string
	cmd := &cobra.Command{
		Use:   "fetch URL...",
		Short: "Fetch media into the cache",
		Long: `Fetch downloads each URL through the cache. Video and audio are persisted
under the cache root; images and GIFs are decoded to check them.

Without --kind the kind is detected from the URL's extension.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.openCache()
			if err != nil {
				return err
			}
			defer c.Close()

			out := cmd.OutOrStdout()
			seen := make(map[string]bool)
			failed := 0
			for _, location := range args {
				if seen[location] {
					continue
				}
				seen[location] = true

				kind, err := fetchKind(kindName, location)
				if err != nil {
					return err
				}
				done := make(chan *cache.Value, 1)
				c.Fetch(kind, location, func(v *cache.Value) { done <- v })

				var v *cache.Value
				select {
				case v = <-done:
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				}
				if v == nil {
					failed++
					fmt.Fprintf(out, "%-6s %s: failed\n", kind, location)
					continue
				}
				fmt.Fprintf(out, "%-6s %s: %s\n", kind, location, describe(v))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d fetches failed", failed, len(seen))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kindName, "kind", "", "media kind: image, gif, video or audio")
	return cmd
}

func fetchKind(name, location string) (media.Kind, error) {
	if name != "" {
		kind, ok := media.ParseKind(name)
		if !ok {
			return 0, fmt.Errorf("unknown media kind %q", name)
		}
		return kind, nil
	}
	kind, ok := media.Detect(location)
	if !ok {
		return 0, fmt.Errorf("cannot detect the media kind of %s, pass --kind", location)
	}
	return kind, nil
}

func describe(v *cache.Value) string {
	switch {
	case v.Path != "":
		if info, err := os.Stat(v.Path); err == nil {
			return fmt.Sprintf("%s (%s)", v.Path, humanize.Bytes(uint64(info.Size())))
		}
		return v.Path
	case v.Animation != nil:
		return fmt.Sprintf("%d frames, %s per loop", len(v.Animation.Frames), v.Animation.Duration())
	case v.Image != nil:
		b := v.Image.Bounds()
		return fmt.Sprintf("%dx%d image", b.Dx(), b.Dy())
	default:
		return "empty"
	}
}

func newCacheListCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List persisted video and audio",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.openCache()
			if err != nil {
				return err
			}
			defer c.Close()
			return listFiles(cmd.OutOrStdout(), c.Layout())
		},
	}
}

func listFiles(out io.Writer, layout *cache.Layout) error {
	fmt.Fprintf(out, "Cache: %s\n", layout.Base())
	var (
		count int
		total uint64
	)
	for _, kind := range []media.Kind{media.Video, media.Audio} {
		files, err := layout.Files(kind)
		if err != nil {
			return err
		}
		for _, f := range files {
			count++
			total += uint64(f.Size)
			fmt.Fprintf(out, "%-6s %10s  %-16s %s\n",
				kind, humanize.Bytes(uint64(f.Size)), humanize.Time(f.ModTime), f.Path)
		}
	}
	fmt.Fprintf(out, "%s in %s\n", humanize.Bytes(total), pluralFiles(count))
	return nil
}

func pluralFiles(n int) string {
	if n == 1 {
		return "1 file"
	}
	return humanize.Comma(int64(n)) + " files"
}

func newCacheClearCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:       "clear video|audio|all|temp",
		Short:     "Remove persisted media",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"video", "audio", "all", "temp"},
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := cache.ParseDirectoryItem(args[0])
			if err != nil {
				return err
			}
			c, err := g.openCache()
			if err != nil {
				return err
			}
			defer c.Close()
			if err := c.Clear(item); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", item)
			return nil
		},
	}
}
