package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hnews/internal/config"
	"hnews/worker"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run background maintenance until interrupted",
	Long:  "Expire old summaries, favorites and chats every cleanup interval and keep favorite scores current.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		cleanup := a.cleanupWorker()
		cleanup.Interval = config.Duration(a.cfg.Cleanup.Interval, 6*time.Hour)
		refresher := &worker.FavoritesRefresher{Client: a.hn, Store: a.favorites, Interval: time.Hour}

		slog.Info("starting cleanup worker", "interval", cleanup.Interval)
		mgr := worker.NewManager(cleanup, refresher)
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			s := <-sigc
			slog.Info("received signal, shutting down", "signal", s.String())
			cancel()
		}()

		return mgr.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
