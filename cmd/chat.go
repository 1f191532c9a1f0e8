package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"hnews/internal/ai"

	"github.com/spf13/cobra"
)

var chatHistory bool

var chatCmd = &cobra.Command{
	Use:   "chat <id> [message...]",
	Short: "Ask the AI about a story; without a message, read questions from stdin",
	Args:  cobra.MinimumNArgs(1),
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
		ctx := cmd.Context()
		w := cmd.OutOrStdout()

		c := &ai.Chat{Source: a.hn, History: a.chats, Summaries: a.summaries}
		if chatHistory {
			for _, m := range c.Messages(ctx, id) {
				fmt.Fprintf(w, "[%s] %s:\n%s\n\n", m.Timestamp.Local().Format(time.DateTime), m.Role, m.Text)
			}
			return nil
		}
		gen, err := a.generator(ctx)
		if err != nil {
			return err
		}
		c.Gen = gen

		send := func(text string) error {
			sctx, cancel := context.WithTimeout(ctx, 3*time.Minute)
			defer cancel()
			reply, err := c.Send(sctx, id, text)
			if err != nil {
				return fmt.Errorf("%s", ai.Describe(err))
			}
			fmt.Fprintf(w, "%s\n\n", reply.Text)
			return nil
		}
		if len(args) > 1 {
			return send(strings.Join(args[1:], " "))
		}
		sc := bufio.NewScanner(cmd.InOrStdin())
		fmt.Fprint(cmd.ErrOrStderr(), "> ")
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line != "" {
				if err := send(line); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
				}
			}
			fmt.Fprint(cmd.ErrOrStderr(), "> ")
		}
		return sc.Err()
	},
}

func init() {
	chatCmd.Flags().BoolVar(&chatHistory, "history", false, "print the stored conversation and exit")
	rootCmd.AddCommand(chatCmd)
}
