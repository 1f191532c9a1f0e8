package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// storeCmd groups local storage utilities.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Local storage utilities",
}

type pinger interface {
	Ping(ctx context.Context) error
}

// storePingCmd checks that the configured backend is reachable.
var storePingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check the configured storage backend and print PONG",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
		defer cancel()

		if p, ok := a.kv.(pinger); ok {
			if err := p.Ping(ctx); err != nil {
				return err
			}
		} else if _, err := a.kv.Get(ctx, a.cfg.Storage.KeyPrefix+":ping"); err != nil && !isNotFound(err) {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "PONG (%s)\n", a.cfg.Storage.Driver)
		return nil
	},
}

func init() {
	storeCmd.AddCommand(storePingCmd)
	rootCmd.AddCommand(storeCmd)
}
