package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"hnews/internal/digest"
	"hnews/internal/model"
	"hnews/internal/storage"

	"github.com/spf13/cobra"
)

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Manage locally saved stories",
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Save a story (toggles if already saved)",
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
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		raw, err := a.hn.Item(ctx, id)
		if err != nil {
			return err
		}
		if raw == nil {
			return fmt.Errorf("item %d not found", id)
		}
		fav := model.FavoriteArticle{
			ID:          raw.ID,
			Title:       raw.Title,
			URL:         raw.URL,
			Author:      raw.By,
			Points:      raw.Score,
			NumComments: raw.Descendants,
			CreatedAt:   time.Unix(raw.Time, 0).UTC(),
		}
		if a.favorites.Toggle(ctx, fav) {
			fmt.Fprintf(cmd.OutOrStdout(), "saved %d: %s\n", id, fav.Title)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d from favorites\n", id)
		}
		return nil
	},
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a saved story",
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
		if !a.favorites.RemoveOne(cmd.Context(), id) {
			return fmt.Errorf("could not remove %d", id)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d\n", id)
		return nil
	},
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved stories, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		favs := a.favorites.List(cmd.Context())
		sort.Slice(favs, func(i, j int) bool { return favs[i].FavoritedAt.After(favs[j].FavoritedAt) })
		w := cmd.OutOrStdout()
		if len(favs) == 0 {
			fmt.Fprintln(w, "no favorites")
			return nil
		}
		for i, f := range favs {
			fmt.Fprintf(w, "%3d. %s\n     %d points | %d comments | saved %s | id %d\n", i+1, f.Title, f.Points, f.NumComments, ago(f.FavoritedAt), f.ID)
		}
		return nil
	},
}

var favoritesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all saved stories",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		if !a.favorites.ClearAll(cmd.Context()) {
			return fmt.Errorf("could not clear favorites")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "favorites cleared")
		return nil
	},
}

var favoritesExportTitle string

var favoritesExportCmd = &cobra.Command{
	Use:   "export [file.md]",
	Short: "Write saved stories and their cached summaries as a Markdown reading list",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()
		sums := map[int]string{}
		for _, s := range a.summaries.List(ctx) {
			sums[s.PostID] = s.Summary
		}
		out, err := digest.Render(digest.Build(favoritesExportTitle, a.cfg.HackerNews.WebURL, a.favorites.List(ctx), sums, time.Now()))
		if err != nil {
			return err
		}
		if len(args) == 0 {
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		}
		if err := os.WriteFile(args[0], []byte(out), 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", args[0])
		return nil
	},
}

type statsReporter interface {
	Stats(ctx context.Context) storage.Stats
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show record counts and last cleanup for each local collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()
		w := cmd.OutOrStdout()
		for _, s := range []statsReporter{a.favorites, a.summaries, a.chats} {
			st := s.Stats(ctx)
			last := "never"
			if !st.LastCleanup.IsZero() {
				last = st.LastCleanup.Local().Format(time.DateTime)
			}
			fmt.Fprintf(w, "%-10s %5d records  last cleanup: %s\n", st.Name, st.Count, last)
		}
		return nil
	},
}

func init() {
	favoritesExportCmd.Flags().StringVar(&favoritesExportTitle, "title", "Hacker News reading list {.CurrentDate}", "document title; {.CurrentDate} is replaced")
	favoritesCmd.AddCommand(favoritesAddCmd, favoritesRemoveCmd, favoritesListCmd, favoritesClearCmd, favoritesExportCmd)
	rootCmd.AddCommand(favoritesCmd, statsCmd)
}
