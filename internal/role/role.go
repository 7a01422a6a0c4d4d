// Package role defines the closed set of agent roles auractl can launch.
//
// The role determines the instruction header an agent receives and whether
// task assignments are meaningful for it. Adding a role here is a
// compile-time-visible change: the prompt renderer switches exhaustively
// over this set.
package role

import (
	"fmt"
	"strings"
)

// Role identifies the functional identity of a launched agent session.
type Role string

const (
	// Epoch coordinates the overall epoch lifecycle.
	Epoch Role = "epoch"
	// Architect produces designs and plans for the epoch.
	Architect Role = "architect"
	// Reviewer evaluates completed work and votes on review axes.
	Reviewer Role = "reviewer"
	// Supervisor monitors worker progress and escalates problems.
	Supervisor Role = "supervisor"
	// Worker executes assigned tasks.
	Worker Role = "worker"
)

// All returns every valid role in declaration order.
func All() []Role {
	return []Role{Epoch, Architect, Reviewer, Supervisor, Worker}
}

// Parse converts a string into a Role. The comparison is case-insensitive.
// Returns an error naming the valid set for anything else.
func Parse(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if r.Valid() {
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q (valid: %s)", s, joinAll())
}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case Epoch, Architect, Reviewer, Supervisor, Worker:
		return true
	}
	return false
}

// String returns the role's wire form.
func (r Role) String() string {
	return string(r)
}

func joinAll() string {
	all := All()
	parts := make([]string, len(all))
	for i, r := range all {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}
