package tmux

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	aerrors "github.com/aura-protocol/auractl/internal/errors"
	"github.com/aura-protocol/auractl/internal/logging"
)

// Default session dimensions and scrollback, applied when the Server is
// constructed with zero values.
const (
	DefaultWidth        = 200
	DefaultHeight       = 50
	DefaultHistoryLimit = 10000
)

// Server implements Multiplexer against a real tmux binary on a dedicated
// socket.
type Server struct {
	Socket       string
	Width        int
	Height       int
	HistoryLimit int

	logger *logging.Logger
}

// NewServer creates a Server on the given socket. An empty socket falls
// back to SocketName; a nil logger falls back to logging.Nop().
func NewServer(socket string, logger *logging.Logger) *Server {
	if socket == "" {
		socket = SocketName
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Server{
		Socket:       socket,
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		HistoryLimit: DefaultHistoryLimit,
		logger:       logger,
	}
}

// CreateSession creates a new detached tmux session.
func (s *Server) CreateSession(ctx context.Context, name, dir string) error {
	cmd := CommandContextWithSocket(ctx, s.Socket,
		"new-session",
		"-d",
		"-s", name,
		"-x", fmt.Sprintf("%d", s.Width),
		"-y", fmt.Sprintf("%d", s.Height),
	)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")
	if err := s.run(cmd, "create-session", name); err != nil {
		return err
	}

	// Session options are best effort; the session works without them.
	historyCmd := CommandContextWithSocket(ctx, s.Socket,
		"set-option", "-t", name, "history-limit", fmt.Sprintf("%d", s.HistoryLimit))
	if err := historyCmd.Run(); err != nil {
		s.logger.Warn("failed to set history-limit",
			"session", name,
			"error", err.Error())
	}

	return nil
}

// SendCommand types text into the session literally, then presses Enter.
// The literal send (-l --) keeps tmux from interpreting the text as key
// names, so prompts containing words like "Enter" or "Up" pass through.
func (s *Server) SendCommand(ctx context.Context, name, text string) error {
	typeCmd := CommandContextWithSocket(ctx, s.Socket,
		"send-keys", "-t", name, "-l", "--", text)
	if err := s.run(typeCmd, "send-command", name); err != nil {
		return err
	}

	enterCmd := CommandContextWithSocket(ctx, s.Socket,
		"send-keys", "-t", name, "Enter")
	return s.run(enterCmd, "send-command", name)
}

// ListSessionNames returns the names of all live sessions on the socket.
// A socket with no running tmux server reports no sessions.
func (s *Server) ListSessionNames(ctx context.Context) ([]string, error) {
	cmd := CommandContextWithSocket(ctx, s.Socket,
		"list-sessions", "-F", "#{session_name}")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if IsSessionNotFound(stderr.String()) {
			return nil, nil
		}
		return nil, aerrors.NewBoundaryError("list-sessions", err).
			WithOutput(stderr.String())
	}

	return parseSessionNames(string(output)), nil
}

// HasSession reports whether the named session is live on the socket.
func (s *Server) HasSession(ctx context.Context, name string) bool {
	cmd := CommandContextWithSocket(ctx, s.Socket, "has-session", "-t", name)
	return cmd.Run() == nil
}

// KillSession terminates the named session. A session that is already gone
// is not an error.
func (s *Server) KillSession(ctx context.Context, name string) error {
	cmd := CommandContextWithSocket(ctx, s.Socket, "kill-session", "-t", name)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if IsSessionNotFound(stderr.String()) {
			return nil
		}
		return aerrors.NewBoundaryError("kill-session", err).
			WithSession(name).
			WithOutput(stderr.String())
	}
	return nil
}

// run executes cmd and wraps any failure as a BoundaryError carrying the
// captured stderr.
func (s *Server) run(cmd *exec.Cmd, op, session string) error {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return aerrors.NewBoundaryError(op, err).
			WithSession(session).
			WithOutput(stderr.String())
	}
	return nil
}

// Verify interface implementation at compile time.
var _ Multiplexer = (*Server)(nil)
