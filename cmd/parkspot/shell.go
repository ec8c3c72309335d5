// ABOUTME: Interactive shell command
// ABOUTME: Runs a map and list session against an in-memory registry

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/parkspot/internal/app"
	"github.com/harper/parkspot/internal/session"
	"github.com/spf13/cobra"
)

var noPromptFlag bool

var shellCmd = &cobra.Command{
	Use:     "shell",
	Aliases: []string{"sh"},
	Short:   "Start an interactive parking spot session",
	Long: `Start an interactive session. Type 'help' for commands.

Spots live only as long as the session; use 'export' to keep a copy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s := session.New(app.FromConfig(cfg, logger), cmd.OutOrStdout(), session.WithPrompt(!noPromptFlag))
		defer s.Close()

		return s.Run(ctx, cmd.InOrStdin())
	},
}

func init() {
	shellCmd.Flags().BoolVar(&noPromptFlag, "no-prompt", false, "do not print a prompt (for scripted input)")
	rootCmd.AddCommand(shellCmd)
}
