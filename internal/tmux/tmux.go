// Package tmux provides the multiplexer boundary for auractl.
//
// All launched agent sessions live on a dedicated tmux socket so they never
// collide with a user's own tmux server. The Multiplexer interface is the
// seam the launcher drives; Server implements it by shelling out to the
// tmux binary, and tests substitute a recording double.
package tmux

import (
	"context"
	"os/exec"
	"strings"
)

// SocketName is the default tmux socket auractl sessions are created on.
const SocketName = "aura"

// Multiplexer is the capability interface consumed by the launcher.
// Implementations must be safe for concurrent use.
type Multiplexer interface {
	// CreateSession creates a detached session with the given name,
	// rooted at dir (or the inherited working directory when dir is empty).
	CreateSession(ctx context.Context, name, dir string) error

	// SendCommand types text into the session followed by Enter,
	// as if a human had entered it at the shell.
	SendCommand(ctx context.Context, name, text string) error

	// ListSessionNames returns the names of all live sessions on the
	// socket. A multiplexer with no running server reports no sessions,
	// not an error.
	ListSessionNames(ctx context.Context) ([]string, error)

	// HasSession reports whether a session with the given name is live.
	HasSession(ctx context.Context, name string) bool

	// KillSession terminates the named session. Killing a session that
	// does not exist is not an error.
	KillSession(ctx context.Context, name string) error
}

// Command creates an exec.Cmd for tmux on the default auractl socket.
func Command(args ...string) *exec.Cmd {
	return CommandWithSocket(SocketName, args...)
}

// CommandWithSocket creates an exec.Cmd for tmux on a custom socket.
func CommandWithSocket(socket string, args ...string) *exec.Cmd {
	return exec.Command("tmux", CommandArgsWithSocket(socket, args...)...)
}

// CommandContextWithSocket creates a context-aware exec.Cmd for tmux on a
// custom socket.
func CommandContextWithSocket(ctx context.Context, socket string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, "tmux", CommandArgsWithSocket(socket, args...)...)
}

// CommandArgsWithSocket returns tmux arguments with a custom socket name.
// Use this when the command string needs to be built for display.
func CommandArgsWithSocket(socket string, args ...string) []string {
	return append([]string{"-L", socket}, args...)
}

// AttachCommand returns the shell command a user runs to attach to the
// named session on the given socket.
func AttachCommand(socket, name string) string {
	return "tmux -L " + socket + " attach -t " + name
}

// IsSessionNotFound reports whether the combined error text indicates the
// target session (or the whole server) was absent. This is expected when
// killing sessions that may have already exited.
func IsSessionNotFound(msg string) bool {
	return strings.Contains(msg, "session not found") ||
		strings.Contains(msg, "no server running") ||
		strings.Contains(msg, "can't find session")
}

// parseSessionNames splits tmux list-sessions output into session names,
// dropping blank lines.
func parseSessionNames(output string) []string {
	var names []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			names = append(names, line)
		}
	}
	return names
}
