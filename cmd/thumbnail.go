package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hnews/internal/config"
	"hnews/internal/scrape"
	"hnews/internal/thumbnail"

	"github.com/spf13/cobra"
)

var thumbnailCmd = &cobra.Command{
	Use:   "thumbnail <id>...",
	Short: "Save WebP previews of the stories' linked pages",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		tc := a.cfg.Thumbnail
		gen, err := thumbnail.New(
			scrape.NewFetcher(config.Duration(a.cfg.HackerNews.RequestTimeout, 10*time.Second)+5*time.Second),
			thumbnail.Config{OutputDir: tc.OutputDir, WebPQuality: tc.WebPQuality, CacheSize: tc.CacheSize},
		)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for _, arg := range args {
			id, err := parseID(arg)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			raw, err := a.hn.Item(ctx, id)
			if err != nil || raw == nil {
				cancel()
				fmt.Fprintf(w, "%d: item not available\n", id)
				continue
			}
			if raw.URL == "" {
				cancel()
				fmt.Fprintf(w, "%d: no link\n", id)
				continue
			}
			path, err := gen.ForPost(ctx, id, raw.URL)
			cancel()
			switch {
			case errors.Is(err, thumbnail.ErrNoImage):
				fmt.Fprintf(w, "%d: page has no preview image\n", id)
			case err != nil:
				fmt.Fprintf(w, "%d: %v\n", id, err)
			default:
				fmt.Fprintf(w, "%d: %s\n", id, path)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(thumbnailCmd)
}
