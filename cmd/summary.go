package cmd

import (
	"context"
	"fmt"
	"time"

	"hnews/internal/ai"
	"hnews/internal/config"
	"hnews/internal/markdown"
	"hnews/internal/model"
	"hnews/internal/scrape"

	"github.com/spf13/cobra"
)

var (
	summaryForce  bool
	summaryExport string
)

var summaryCmd = &cobra.Command{
	Use:   "summary <id>",
	Short: "Summarize a story and its discussion with AI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Minute)
		defer cancel()

		maxAge, _, _ := a.cleanupAges()
		s := &ai.Summarizer{
			Source:  a.hn,
			Fetcher: scrape.NewFetcher(config.Duration(a.cfg.HackerNews.RequestTimeout, 10*time.Second) + 5*time.Second),
			Cache:   a.summaries,
			MaxAge:  maxAge,
		}
		// A fresh cached summary does not need a configured model.
		if cached, ok := a.summaries.Fresh(ctx, id, maxAge); ok && !summaryForce {
			return showSummary(cmd, cached, true)
		}
		gen, err := a.generator(ctx)
		if err != nil {
			return err
		}
		s.Gen = gen
		sum, cached, err := s.Summarize(ctx, id, summaryForce)
		if err != nil {
			return fmt.Errorf("%s", ai.Describe(err))
		}
		return showSummary(cmd, sum, cached)
	},
}

func showSummary(cmd *cobra.Command, sum model.CachedAISummary, cached bool) error {
	fmt.Fprintln(cmd.OutOrStdout(), sum.Summary)
	src := "generated"
	if cached {
		src = "cached"
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "\n(%s, extraction: %s)\n", src, sum.ExtractionMethod)
	if summaryExport == "" {
		return nil
	}
	path, err := markdown.ExportSummary(summaryExport, sum)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "exported to %s\n", path)
	return nil
}

var summaryImportCmd = &cobra.Command{
	Use:   "import <file.md>...",
	Short: "Load exported summaries back into the cache",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		for _, p := range args {
			sum, err := markdown.ReadSummary(p)
			if err != nil {
				return err
			}
			if !a.summaries.Put(cmd.Context(), sum) {
				return fmt.Errorf("could not store summary from %s", p)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported summary for %d\n", sum.PostID)
		}
		return nil
	},
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryForce, "force", false, "regenerate even if a fresh summary is cached")
	summaryCmd.Flags().StringVar(&summaryExport, "export", "", "also write the summary as Markdown into this directory")
	summaryCmd.AddCommand(summaryImportCmd)
	rootCmd.AddCommand(summaryCmd)
}
