package launcher

import (
	"strings"

	aerrors "github.com/aura-protocol/auractl/internal/errors"
	"github.com/aura-protocol/auractl/internal/role"
)

// Request describes one launch invocation: a role, how many replicas of it
// to start, an optional ordered task assignment, and the base prompt every
// replica receives.
type Request struct {
	Role     role.Role
	Replicas int
	// TaskIDs is the ordered shared task list, split round-robin across
	// replicas. May be empty; role instructions alone drive behavior then.
	TaskIDs []string
	Prompt  string
	// WorkDir is the working directory sessions are rooted at.
	// Empty means the launcher's own working directory.
	WorkDir string
}

// Validate checks the request shape. A non-nil return is a ValidationError:
// the invocation must abort before any external call.
func (r Request) Validate() error {
	if !r.Role.Valid() {
		return aerrors.NewValidationError("unknown role").
			WithField("role").
			WithValue(string(r.Role))
	}
	if r.Replicas < 1 {
		return aerrors.NewValidationError("replica count must be at least 1").
			WithField("replicas").
			WithValue(r.Replicas)
	}
	if strings.TrimSpace(r.Prompt) == "" {
		return aerrors.NewValidationError("prompt must not be empty").
			WithField("prompt")
	}
	return nil
}

// Outcome is the terminal state of one replica's launch.
type Outcome string

const (
	// OutcomeStarted means the session was created and the agent command
	// was delivered.
	OutcomeStarted Outcome = "started"
	// OutcomeFailed means naming, session creation, or agent start failed
	// for this replica. Sibling replicas are unaffected.
	OutcomeFailed Outcome = "failed"
)

// Plan is the fully computed, pre-execution description of one replica.
// It is immutable once built; all external side effects happen after.
type Plan struct {
	Index       int
	SessionName string
	// Tasks is this replica's slice of the shared task list, in order.
	Tasks []string
	// Prompt is the fully rendered instruction text.
	Prompt string
}

// Result is the outcome of launching one replica.
type Result struct {
	Plan    Plan
	Outcome Outcome
	// Err carries the failure cause when Outcome is OutcomeFailed.
	Err error
}

// Started reports whether this replica reached the started state.
func (r Result) Started() bool {
	return r.Outcome == OutcomeStarted
}

// Detail returns the failure description, or "" for started replicas.
func (r Result) Detail() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// FailedCount returns how many results ended in OutcomeFailed.
func FailedCount(results []Result) int {
	var n int
	for _, r := range results {
		if !r.Started() {
			n++
		}
	}
	return n
}
