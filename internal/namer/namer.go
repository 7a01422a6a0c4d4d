// Package namer produces unique, tmux-safe session names for launch
// replicas.
//
// Names follow the base form "{role}-{index}". Uniqueness is enforced
// against a per-run Registry, which the launcher seeds with the live
// session names reported by the multiplexer, so a replica never tramples a
// session left over from an earlier run.
package namer

import (
	"fmt"
	"strings"
	"sync"

	aerrors "github.com/aura-protocol/auractl/internal/errors"
	"github.com/aura-protocol/auractl/internal/role"
)

const (
	// MaxNameLength bounds session names in bytes. tmux has no hard
	// documented limit, but long names break status-line rendering and
	// target matching.
	MaxNameLength = 60

	// DefaultMaxAttempts bounds the collision suffix search.
	DefaultMaxAttempts = 1000
)

// Registry is the process-scoped set of session names already spoken for in
// the current run. It is constructed fresh per invocation and discarded on
// exit. Safe for concurrent use: parallel replica launches share one
// Registry, and Claim is a single check-and-insert critical section.
type Registry struct {
	mu    sync.Mutex
	names map[string]struct{}
}

// NewRegistry creates a Registry pre-seeded with the given names
// (typically the multiplexer's live sessions at invocation time).
func NewRegistry(seed ...string) *Registry {
	names := make(map[string]struct{}, len(seed))
	for _, n := range seed {
		names[n] = struct{}{}
	}
	return &Registry{names: names}
}

// Claim atomically records name as taken. It returns false if the name was
// already present, in which case the registry is unchanged.
func (r *Registry) Claim(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.names[name]; taken {
		return false
	}
	r.names[name] = struct{}{}
	return true
}

// Has reports whether name is already taken.
func (r *Registry) Has(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, taken := r.names[name]
	return taken
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.names)
}

// Namer generates collision-free session names against a Registry.
type Namer struct {
	registry    *Registry
	maxAttempts int
}

// New creates a Namer over the given registry. maxAttempts bounds the
// collision suffix search; values below 1 fall back to DefaultMaxAttempts.
func New(registry *Registry, maxAttempts int) *Namer {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Namer{registry: registry, maxAttempts: maxAttempts}
}

// Name returns a unique session name for the given role and replica index
// and claims it in the registry. The base form "{role}-{index}" is used
// when free; otherwise suffixes "-2", "-3", ... are tried up to the
// attempt bound, after which ErrNameExhausted is returned. The caller
// fails only the affected replica on exhaustion.
func (n *Namer) Name(r role.Role, index int) (string, error) {
	base := Sanitize(fmt.Sprintf("%s-%d", r, index))
	if n.registry.Claim(base) {
		return base, nil
	}

	for attempt := 2; attempt <= n.maxAttempts; attempt++ {
		candidate := Sanitize(fmt.Sprintf("%s-%d", base, attempt))
		if n.registry.Claim(candidate) {
			return candidate, nil
		}
	}

	return "", aerrors.Wrapf(aerrors.ErrNameExhausted,
		"no free name for %s-%d after %d attempts", r, index, n.maxAttempts)
}

// Sanitize maps an arbitrary string onto the tmux-safe name charset:
// runs of anything outside [a-zA-Z0-9_-] become a single '-', and the
// result is truncated to MaxNameLength bytes. tmux treats '.' and ':' as
// target separators, so they must not survive into a session name.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastDash := false
	for _, r := range s {
		safe := r == '_' || r == '-' ||
			(r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9')
		if safe {
			b.WriteRune(r)
			lastDash = r == '-'
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}

	out := b.String()
	if len(out) > MaxNameLength {
		out = out[:MaxNameLength]
	}
	return strings.Trim(out, "-")
}
