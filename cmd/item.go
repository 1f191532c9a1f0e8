package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hnews/internal/hackernews"
	"hnews/internal/model"
	"hnews/internal/scrape"

	"github.com/spf13/cobra"
)

var (
	itemSource string
	itemJSON   bool
)

// loadThread fetches a discussion from the requested source.
func loadThread(ctx context.Context, hn *hackernews.Client, id int, source string) (model.Item, error) {
	switch source {
	case "", "auto":
		return hn.AllDataWithFallback(ctx, id)
	case "algolia":
		return hn.AllData(ctx, id)
	case "official":
		return hn.Thread(ctx, id)
	default:
		return model.Item{}, fmt.Errorf("unknown source %q (want auto, algolia or official)", source)
	}
}

var itemCmd = &cobra.Command{
	Use:   "item <id>",
	Short: "Show a story or comment with its discussion",
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

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()
		it, err := loadThread(ctx, a.hn, id, itemSource)
		if err != nil {
			return err
		}
		if itemJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(it)
		}
		printThread(cmd.OutOrStdout(), it, 0)
		return nil
	},
}

var userCmd = &cobra.Command{
	Use:   "user <name>",
	Short: "Show a user profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		u, err := a.hn.UserInfo(ctx, args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "user:    %s\ncreated: %s\nkarma:   %d\nposts:   %d\n", u.ID, u.CreatedAt.Format("2006-01-02"), u.Karma, len(u.Submitted))
		if u.About != "" {
			fmt.Fprintf(w, "\n%s\n", scrape.PlainText(u.About))
		}
		return nil
	},
}

func init() {
	itemCmd.Flags().StringVar(&itemSource, "source", "auto", "auto (official, enriched or replaced by algolia), algolia or official")
	itemCmd.Flags().BoolVar(&itemJSON, "json", false, "print the normalized item as JSON")
	rootCmd.AddCommand(itemCmd)
	rootCmd.AddCommand(userCmd)
}
