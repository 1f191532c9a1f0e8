package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hnews/internal/hnweb"

	"github.com/spf13/cobra"
)

var (
	voteUndo  bool
	voteCheck bool
)

var voteCmd = &cobra.Command{
	Use:   "vote <id>",
	Short: "Upvote an item, or remove your vote with --un",
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
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()
		s, err := a.session(ctx)
		if err != nil {
			return err
		}
		r := hnweb.NewResolver(s)
		w := cmd.OutOrStdout()
		if voteCheck {
			state, err := r.VoteState(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "can upvote: %t\ncan unvote: %t\n", state.CanUpvote(), state.CanUnvote())
			return nil
		}
		dir := hnweb.VoteUp
		if voteUndo {
			dir = hnweb.VoteUn
		}
		ok, state, err := r.Vote(ctx, id, dir)
		if err != nil {
			return err
		}
		if !ok {
			switch {
			case voteUndo && !state.CanUnvote():
				return errors.New("no vote to remove on this item")
			case !voteUndo && !state.CanUpvote():
				return errors.New("item cannot be upvoted (already voted, own item, or not logged in)")
			}
			return errors.New("vote was rejected by the server")
		}
		if voteUndo {
			fmt.Fprintf(w, "vote removed from %d\n", id)
		} else {
			fmt.Fprintf(w, "upvoted %d\n", id)
		}
		return nil
	},
}

func init() {
	voteCmd.Flags().BoolVar(&voteUndo, "un", false, "remove an existing vote")
	voteCmd.Flags().BoolVar(&voteCheck, "check", false, "only report which vote actions are available")
	rootCmd.AddCommand(voteCmd)
}
