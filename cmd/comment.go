package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hnews/internal/hnweb"
	"hnews/internal/model"
	"hnews/internal/overlay"

	"github.com/spf13/cobra"
)

var commentShow bool

var commentCmd = &cobra.Command{
	Use:   "comment <parent-id> <text...>",
	Short: "Reply to a story or comment",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		parent, err := parseID(args[0])
		if err != nil {
			return err
		}
		text := strings.TrimSpace(strings.Join(args[1:], " "))
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()
		s, err := a.session(ctx)
		if err != nil {
			return err
		}
		ok, err := hnweb.NewResolver(s).WriteComment(ctx, parent, text)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("comment was rejected by the server")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "comment posted under %d\n", parent)
		if !commentShow {
			return nil
		}

		// The API lags behind the site; show the new comment until it appears.
		thread, err := loadThread(ctx, a.hn, parent, "auto")
		if err != nil {
			return err
		}
		merged, pending := withLocalComment(overlay.New(), thread, s.Username(), text)
		fmt.Fprintln(cmd.OutOrStdout())
		printThread(cmd.OutOrStdout(), merged, 0)
		if pending == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "(comment already visible upstream)")
		}
		return nil
	},
}

// withLocalComment adds a just-posted reply under thread's root, drops it
// again if the fetched tree already has it, and returns the merged tree with
// the number of comments still pending.
func withLocalComment(ov *overlay.Overlay, thread model.Item, author, text string) (model.Item, int) {
	storyID := thread.StoryID
	if storyID == 0 && thread.IsStory() {
		storyID = thread.ID
	}
	ov.Add(thread.ID, storyID, author, text)
	if n := ov.Prune(thread); n > 0 {
		slog.Debug("comment: reply already indexed", "parent", thread.ID, "pruned", n)
	}
	return ov.Apply(thread), ov.Len()
}

func init() {
	commentCmd.Flags().BoolVar(&commentShow, "show", false, "print the thread with the new comment after posting")
	rootCmd.AddCommand(commentCmd)
}
