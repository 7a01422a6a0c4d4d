// Package prompt renders the instruction text handed to each agent replica.
//
// Rendering is pure: the same role, base prompt, and task assignment always
// produce the same output string, so launch plans can be diffed before any
// session exists. The renderer serializes task identifiers verbatim; it
// never interprets task content.
package prompt

import (
	"fmt"
	"strings"

	"github.com/aura-protocol/auractl/internal/role"
)

// Role briefs shown under the header. These tell the agent which slice of
// the protocol it owns; the base prompt carries the actual work request.
const (
	epochBrief      = "You coordinate the epoch lifecycle. Drive the phase transitions, delegate work to the other roles, and close the epoch when the protocol allows it."
	architectBrief  = "You produce the design for this epoch. Analyze the request, decompose it into tasks, and record the plan for workers to execute."
	reviewerBrief   = "You review completed work. Evaluate it on your assigned review axis and record an ACCEPT or REVISE vote with reasons."
	supervisorBrief = "You monitor worker sessions. Watch for stalled or failing work and escalate through the task tracker; do not modify work products yourself."
	workerBrief     = "You execute implementation tasks. Complete each assigned task fully, including tests, before moving to the next."
)

// taskInstruction precedes the enumerated assignment list.
const taskInstruction = "Work the following tasks in the order listed. " +
	"Mark each one complete in the task tracker before starting the next."

// Render merges a role, a base prompt, and an optional task assignment into
// the final instruction text for one replica.
//
// The output is the role header, the base prompt verbatim, and, only when
// tasks are assigned, an enumerated task list in assignment order.
func Render(r role.Role, basePrompt string, tasks []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Role: %s\n\n", r)
	b.WriteString(brief(r))
	b.WriteString("\n\n")
	b.WriteString(basePrompt)

	if len(tasks) > 0 {
		b.WriteString("\n\n## Assigned tasks\n\n")
		b.WriteString(taskInstruction)
		b.WriteString("\n\n")
		for i, id := range tasks {
			fmt.Fprintf(&b, "%d. %s\n", i+1, id)
		}
	}

	return b.String()
}

// brief returns the role brief. The switch is exhaustive over the closed
// role set; an invalid role is a programmer error caught by request
// validation long before rendering.
func brief(r role.Role) string {
	switch r {
	case role.Epoch:
		return epochBrief
	case role.Architect:
		return architectBrief
	case role.Reviewer:
		return reviewerBrief
	case role.Supervisor:
		return supervisorBrief
	case role.Worker:
		return workerBrief
	default:
		panic(fmt.Sprintf("prompt: unknown role %q", r))
	}
}
