package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aura-protocol/auractl/internal/config"
	"github.com/aura-protocol/auractl/internal/logging"
	"github.com/aura-protocol/auractl/internal/tmux"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List live agent sessions",
	Long:  `List the agent sessions currently live on the auractl tmux socket.`,
	RunE:  runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	server := newServer(cfg, logging.Nop())

	names, err := server.ListSessionNames(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(names) == 0 {
		fmt.Fprintln(out, "No live sessions.")
		return nil
	}

	for _, name := range names {
		fmt.Fprintf(out, "%-24s %s\n", name, tmux.AttachCommand(cfg.Tmux.Socket, name))
	}
	return nil
}
