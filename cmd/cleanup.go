package cmd

import (
	"fmt"
	"sort"

	"hnews/worker"

	"github.com/spf13/cobra"
)

// cleanupWorker sweeps the three collections with their configured retention.
func (a *app) cleanupWorker() *worker.CleanupWorker {
	sum, fav, chat := a.cleanupAges()
	return &worker.CleanupWorker{Sweeps: []worker.Sweep{
		{Target: a.summaries, MaxAge: sum},
		{Target: a.favorites, MaxAge: fav},
		{Target: a.chats, MaxAge: chat},
	}}
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove expired summaries, favorites and chats now",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		removed := a.cleanupWorker().RunOnce(cmd.Context())
		names := make([]string, 0, len(removed))
		for k := range removed {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s removed %d\n", n, removed[n])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}
