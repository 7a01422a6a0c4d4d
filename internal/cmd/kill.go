package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aura-protocol/auractl/internal/config"
	aerrors "github.com/aura-protocol/auractl/internal/errors"
	"github.com/aura-protocol/auractl/internal/logging"
)

var killAll bool

var killCmd = &cobra.Command{
	Use:   "kill [session-name]",
	Short: "Kill a live agent session",
	Long: `Kill the named agent session, or every session on the auractl socket
with --all. Killing a session that has already exited is not an error.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runKill,
}

func init() {
	rootCmd.AddCommand(killCmd)
	killCmd.Flags().BoolVar(&killAll, "all", false, "kill every session on the socket")
}

func runKill(cmd *cobra.Command, args []string) error {
	if killAll == (len(args) == 1) {
		return aerrors.NewValidationError("provide either a session name or --all")
	}

	cfg := config.Get()
	server := newServer(cfg, logging.Nop())
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if !killAll {
		if err := server.KillSession(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(out, "Killed %s\n", args[0])
		return nil
	}

	names, err := server.ListSessionNames(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := server.KillSession(ctx, name); err != nil {
			return err
		}
		fmt.Fprintf(out, "Killed %s\n", name)
	}
	if len(names) == 0 {
		fmt.Fprintln(out, "No live sessions.")
	}
	return nil
}
