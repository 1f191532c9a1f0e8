package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"hnews/internal/hackernews"

	"github.com/spf13/cobra"
)

var storiesLimit int

var storiesCmd = &cobra.Command{
	Use:   "stories [top|new|best|ask|show|job]",
	Short: "List stories from a Hacker News feed",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list := "top"
		if len(args) == 1 {
			list = strings.ToLower(args[0])
		}
		if _, ok := hackernews.Lists[list]; !ok {
			names := make([]string, 0, len(hackernews.Lists))
			for k := range hackernews.Lists {
				names = append(names, k)
			}
			sort.Strings(names)
			return fmt.Errorf("unknown list %q (want one of %s)", list, strings.Join(names, ", "))
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()
		items, err := a.hn.Stories(ctx, list, storiesLimit)
		if err != nil {
			return err
		}
		for i, it := range items {
			printStory(cmd.OutOrStdout(), i+1, it)
		}
		return nil
	},
}

func init() {
	storiesCmd.Flags().IntVarP(&storiesLimit, "limit", "n", 30, "number of stories to show")
	rootCmd.AddCommand(storiesCmd)
}
