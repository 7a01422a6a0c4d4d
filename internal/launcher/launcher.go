// Package launcher computes launch plans and drives the multiplexer to
// realize them.
//
// A launch is one-shot: validate the request, split the task list, then for
// each replica generate a unique session name, render the instruction
// prompt, create the session, and start the agent inside it. Replica
// failures are isolated; the batch always runs to completion and the full
// per-replica report is returned to the caller.
package launcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"
	"github.com/sourcegraph/conc/pool"

	"github.com/aura-protocol/auractl/internal/assign"
	"github.com/aura-protocol/auractl/internal/config"
	aerrors "github.com/aura-protocol/auractl/internal/errors"
	"github.com/aura-protocol/auractl/internal/logging"
	"github.com/aura-protocol/auractl/internal/namer"
	"github.com/aura-protocol/auractl/internal/prompt"
	"github.com/aura-protocol/auractl/internal/tmux"
)

// Launcher drives one launch invocation against a Multiplexer.
type Launcher struct {
	mux             tmux.Multiplexer
	agentCommand    string
	maxNameAttempts int
	parallel        int
	runID           string
	logger          *logging.Logger
}

// New creates a Launcher over the given multiplexer. Each Launcher carries
// a fresh run ID that tags every log line of the invocation.
func New(mux tmux.Multiplexer, cfg *config.Config, logger *logging.Logger) *Launcher {
	if logger == nil {
		logger = logging.Nop()
	}
	parallel := cfg.Launch.Parallel
	if parallel < 1 {
		parallel = 1
	}

	runID := uuid.NewString()[:8]
	return &Launcher{
		mux:             mux,
		agentCommand:    cfg.Agent.Command,
		maxNameAttempts: cfg.Naming.MaxAttempts,
		parallel:        parallel,
		runID:           runID,
		logger:          logger.WithRun(runID),
	}
}

// RunID returns the identifier tagging this invocation's logs and report.
func (l *Launcher) RunID() string {
	return l.runID
}

// Launch realizes the request: one multiplexer session plus agent process
// per replica. It returns one Result per replica in replica order.
//
// A ValidationError aborts before any external call. After validation, a
// replica's failure (name exhaustion, session creation, agent start) is
// recorded in its Result and never aborts sibling replicas.
func (l *Launcher) Launch(ctx context.Context, req Request) ([]Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, aerrors.Wrapf(err, "resolve working directory")
		}
		req.WorkDir = wd
	}

	nm := namer.New(l.seedRegistry(ctx), l.maxNameAttempts)
	buckets := assign.Distribute(req.TaskIDs, req.Replicas)

	l.logger.Info("launching replicas",
		"role", req.Role.String(),
		"replicas", req.Replicas,
		"tasks", len(req.TaskIDs),
		"parallel", l.parallel)

	results := make([]Result, req.Replicas)
	if l.parallel > 1 {
		p := pool.New().WithMaxGoroutines(l.parallel)
		for i := range results {
			i := i
			p.Go(func() {
				results[i] = l.launchReplica(ctx, req, nm, i, buckets[i])
			})
		}
		p.Wait()
	} else {
		for i := range results {
			results[i] = l.launchReplica(ctx, req, nm, i, buckets[i])
		}
	}

	l.logger.Info("launch complete",
		"replicas", req.Replicas,
		"failed", FailedCount(results))
	return results, nil
}

// Plan computes the full launch plan without creating any session. Name
// uniqueness is still checked against the multiplexer's live sessions, so
// the printed plan matches what Launch would create.
func (l *Launcher) Plan(ctx context.Context, req Request) ([]Plan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	nm := namer.New(l.seedRegistry(ctx), l.maxNameAttempts)
	buckets := assign.Distribute(req.TaskIDs, req.Replicas)

	plans := make([]Plan, 0, req.Replicas)
	for i := 0; i < req.Replicas; i++ {
		name, err := nm.Name(req.Role, i)
		if err != nil {
			return nil, aerrors.Wrapf(err, "replica %d", i)
		}
		plans = append(plans, Plan{
			Index:       i,
			SessionName: name,
			Tasks:       buckets[i],
			Prompt:      prompt.Render(req.Role, req.Prompt, buckets[i]),
		})
	}
	return plans, nil
}

// seedRegistry builds the per-run name registry from the multiplexer's
// live sessions. If the query fails the launch proceeds with an empty
// seed: uniqueness within the batch still holds, and a true collision
// surfaces as a per-replica create failure.
func (l *Launcher) seedRegistry(ctx context.Context) *namer.Registry {
	existing, err := l.mux.ListSessionNames(ctx)
	if err != nil {
		l.logger.Warn("could not list live sessions; collision check limited to this run",
			"error", err.Error())
	}
	return namer.NewRegistry(existing...)
}

// launchReplica takes one replica from planned through launching to its
// terminal state.
func (l *Launcher) launchReplica(ctx context.Context, req Request, nm *namer.Namer, index int, tasks []string) Result {
	log := l.logger.WithRole(req.Role.String())

	name, err := nm.Name(req.Role, index)
	if err != nil {
		log.Error("session naming failed", "replica", index, "error", err.Error())
		return Result{
			Plan:    Plan{Index: index, Tasks: tasks},
			Outcome: OutcomeFailed,
			Err:     err,
		}
	}

	plan := Plan{
		Index:       index,
		SessionName: name,
		Tasks:       tasks,
		Prompt:      prompt.Render(req.Role, req.Prompt, tasks),
	}
	log = log.WithSession(name)

	if err := l.mux.CreateSession(ctx, name, req.WorkDir); err != nil {
		log.Error("session creation failed", "replica", index, "error", err.Error())
		return Result{Plan: plan, Outcome: OutcomeFailed, Err: err}
	}

	if err := l.startAgent(ctx, plan, req.WorkDir); err != nil {
		log.Error("agent start failed", "replica", index, "error", err.Error())
		// A session without an agent is dead weight; remove it so a rerun
		// can reuse the name.
		if killErr := l.mux.KillSession(ctx, name); killErr != nil {
			log.Warn("failed to remove session after agent start failure",
				"error", killErr.Error())
		}
		return Result{Plan: plan, Outcome: OutcomeFailed, Err: err}
	}

	log.Info("replica started", "replica", index, "tasks", len(tasks))
	return Result{Plan: plan, Outcome: OutcomeStarted}
}

// startAgent writes the rendered prompt to a file in the session's working
// directory and sends the agent command into the session. Reading the
// prompt back with $(cat ...) sidesteps shell escaping of arbitrary prompt
// text; only the file path needs quoting.
func (l *Launcher) startAgent(ctx context.Context, plan Plan, workDir string) error {
	promptFile := filepath.Join(workDir, fmt.Sprintf(".aura-prompt-%s", plan.SessionName))
	if err := os.WriteFile(promptFile, []byte(plan.Prompt), 0600); err != nil {
		return aerrors.NewBoundaryError("start-agent", err).
			WithSession(plan.SessionName)
	}

	cmdText := fmt.Sprintf(`%s "$(cat %s)"`, l.agentCommand, shellquote.Join(promptFile))
	return l.mux.SendCommand(ctx, plan.SessionName, cmdText)
}
