package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/aura-protocol/auractl/internal/launcher"
	"github.com/aura-protocol/auractl/internal/tmux"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	startedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("40"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	failedLine = color.New(color.FgRed, color.Bold)
)

// printReport writes the launch report. Styled output is used only when
// stdout is a terminal; piped output stays plain.
func printReport(w io.Writer, socket, runID string, results []launcher.Result) {
	styled := isatty.IsTerminal(os.Stdout.Fd())
	writeReport(w, socket, runID, results, styled, reportWidth())
}

// writeReport renders the per-replica report.
func writeReport(w io.Writer, socket, runID string, results []launcher.Result, styled bool, width int) {
	title := fmt.Sprintf("Launch report (run %s)", runID)
	if styled {
		title = titleStyle.Render(title)
	}
	fmt.Fprintln(w, title)
	fmt.Fprintln(w)

	for _, r := range results {
		if r.Started() {
			line := fmt.Sprintf("  started  %-24s tasks=%d", r.Plan.SessionName, len(r.Plan.Tasks))
			if styled {
				line = startedStyle.Render(line)
			}
			fmt.Fprintln(w, line)

			attach := "           " + tmux.AttachCommand(socket, r.Plan.SessionName)
			if styled {
				attach = dimStyle.Render(attach)
			}
			fmt.Fprintln(w, attach)
			continue
		}

		detail := truncate(r.Detail(), width-12)
		if styled {
			failedLine.Fprintf(w, "  failed   replica %d: %s\n", r.Plan.Index, detail)
		} else {
			fmt.Fprintf(w, "  failed   replica %d: %s\n", r.Plan.Index, detail)
		}
	}

	fmt.Fprintln(w)
	started := len(results) - launcher.FailedCount(results)
	fmt.Fprintf(w, "%d started, %d failed\n", started, launcher.FailedCount(results))
}

// printPlans renders a dry-run plan: what would launch, without side effects.
func printPlans(w io.Writer, plans []launcher.Plan) {
	fmt.Fprintf(w, "Dry run: %d replicas planned\n\n", len(plans))
	for _, p := range plans {
		fmt.Fprintf(w, "  %-24s", p.SessionName)
		if len(p.Tasks) > 0 {
			fmt.Fprintf(w, " tasks: %s", strings.Join(p.Tasks, ", "))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "\nNo sessions were created.")
}

// reportWidth returns the terminal width, or a generous default when stdout
// is not a terminal.
func reportWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 120
}

func truncate(s string, max int) string {
	if max < 16 {
		max = 16
	}
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
