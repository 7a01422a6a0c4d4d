package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aura-protocol/auractl/internal/config"
	"github.com/aura-protocol/auractl/internal/launcher"
	"github.com/aura-protocol/auractl/internal/logging"
	"github.com/aura-protocol/auractl/internal/role"
	"github.com/aura-protocol/auractl/internal/tmux"
)

var (
	launchRole     string
	launchReplicas int
	launchPrompt   string
	launchTaskIDs  []string
	launchParallel int
	launchDir      string
	launchDryRun   bool
)

var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Launch replicas of a role as agent sessions",
	Long: `Launch N replicas of a role. Tasks given with --task-id are split
round-robin across the replicas; each replica receives its role brief, the
base prompt, and its own task slice. Replicas launch independently: one
failing never stops its siblings.

With --dry-run the full plan (session names, task split, rendered prompts)
is printed and nothing is created.`,
	Example: `  auractl launch --role worker -n 3 --prompt "Implement the plan" \
      --task-id a --task-id b --task-id c --task-id d --task-id e
  auractl launch --role reviewer -n 2 --prompt "Review epoch output" --dry-run`,
	RunE: runLaunch,
}

func init() {
	rootCmd.AddCommand(launchCmd)

	launchCmd.Flags().StringVar(&launchRole, "role", "", "role to launch (epoch, architect, reviewer, supervisor, worker)")
	launchCmd.Flags().IntVarP(&launchReplicas, "replicas", "n", 0, "number of replicas to launch")
	launchCmd.Flags().StringVar(&launchPrompt, "prompt", "", "base prompt every replica receives")
	launchCmd.Flags().StringArrayVar(&launchTaskIDs, "task-id", nil, "task ID to distribute (repeatable, order preserved)")
	launchCmd.Flags().IntVar(&launchParallel, "parallel", 0, "max replicas launched concurrently (default from config)")
	launchCmd.Flags().StringVar(&launchDir, "dir", "", "working directory for the sessions (default current directory)")
	launchCmd.Flags().BoolVar(&launchDryRun, "dry-run", false, "print the launch plan without creating sessions")

	_ = launchCmd.MarkFlagRequired("role")
	_ = launchCmd.MarkFlagRequired("replicas")
	_ = launchCmd.MarkFlagRequired("prompt")

	_ = viper.BindPFlag("launch.parallel", launchCmd.Flags().Lookup("parallel"))
}

func runLaunch(cmd *cobra.Command, args []string) error {
	r, err := role.Parse(launchRole)
	if err != nil {
		return err
	}

	cfg := config.Get()
	log := openLogger(cfg)
	defer log.Close()

	req := launcher.Request{
		Role:     r,
		Replicas: launchReplicas,
		TaskIDs:  launchTaskIDs,
		Prompt:   launchPrompt,
		WorkDir:  launchDir,
	}

	server := newServer(cfg, log)
	l := launcher.New(server, cfg, log)
	ctx := cmd.Context()

	if launchDryRun {
		plans, err := l.Plan(ctx, req)
		if err != nil {
			return err
		}
		printPlans(cmd.OutOrStdout(), plans)
		return nil
	}

	results, err := l.Launch(ctx, req)
	if err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), cfg.Tmux.Socket, l.RunID(), results)

	if failed := launcher.FailedCount(results); failed > 0 {
		return fmt.Errorf("%d of %d replicas failed to launch", failed, len(results))
	}
	return nil
}

// newServer builds the tmux boundary from config.
func newServer(cfg *config.Config, log *logging.Logger) *tmux.Server {
	server := tmux.NewServer(cfg.Tmux.Socket, log)
	if cfg.Tmux.Width > 0 {
		server.Width = cfg.Tmux.Width
	}
	if cfg.Tmux.Height > 0 {
		server.Height = cfg.Tmux.Height
	}
	if cfg.Tmux.HistoryLimit > 0 {
		server.HistoryLimit = cfg.Tmux.HistoryLimit
	}
	return server
}

// openLogger returns the configured launch logger, falling back to a no-op
// logger when file logging is disabled or the log file cannot be opened.
func openLogger(cfg *config.Config) *logging.Logger {
	if !cfg.Logging.Enabled {
		return logging.Nop()
	}
	dir := cfg.Logging.Dir
	if dir == "" {
		dir = config.StateDir()
	}
	log, err := logging.New(dir, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: launch log unavailable: %v\n", err)
		return logging.Nop()
	}
	return log
}
