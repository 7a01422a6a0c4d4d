package launcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aura-protocol/auractl/internal/config"
	aerrors "github.com/aura-protocol/auractl/internal/errors"
	"github.com/aura-protocol/auractl/internal/role"
	"github.com/aura-protocol/auractl/internal/tmux"
)

// fakeMux records boundary calls instead of spawning real sessions.
type fakeMux struct {
	mu sync.Mutex

	live      []string
	listErr   error
	createErr map[string]error
	sendErr   map[string]error

	lists   int
	creates []string
	sends   []sentCommand
	kills   []string
}

type sentCommand struct {
	session string
	text    string
}

func (f *fakeMux) CreateSession(_ context.Context, name, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.createErr[name]; err != nil {
		return err
	}
	f.creates = append(f.creates, name)
	return nil
}

func (f *fakeMux) SendCommand(_ context.Context, name, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.sendErr[name]; err != nil {
		return err
	}
	f.sends = append(f.sends, sentCommand{session: name, text: text})
	return nil
}

func (f *fakeMux) ListSessionNames(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.live, nil
}

func (f *fakeMux) HasSession(_ context.Context, name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.live {
		if n == name {
			return true
		}
	}
	return false
}

func (f *fakeMux) KillSession(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kills = append(f.kills, name)
	return nil
}

func (f *fakeMux) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists + len(f.creates) + len(f.sends) + len(f.kills)
}

var _ tmux.Multiplexer = (*fakeMux)(nil)

func testConfig() *config.Config {
	return &config.Config{
		Agent:  config.AgentConfig{Command: "echo agent"},
		Naming: config.NamingConfig{MaxAttempts: 1000},
		Launch: config.LaunchConfig{Parallel: 1},
	}
}

func workerRequest(t *testing.T, replicas int, taskIDs ...string) Request {
	t.Helper()
	return Request{
		Role:     role.Worker,
		Replicas: replicas,
		TaskIDs:  taskIDs,
		Prompt:   "Implement the plan.",
		WorkDir:  t.TempDir(),
	}
}

func TestLaunchAllStarted(t *testing.T) {
	mux := &fakeMux{}
	l := New(mux, testConfig(), nil)

	results, err := l.Launch(context.Background(), workerRequest(t, 3, "a", "b", "c", "d", "e"))
	if err != nil {
		t.Fatalf("Launch returned error: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	wantNames := []string{"worker-0", "worker-1", "worker-2"}
	wantTasks := [][]string{{"a", "d"}, {"b", "e"}, {"c"}}
	for i, r := range results {
		if !r.Started() {
			t.Errorf("replica %d failed: %v", i, r.Err)
		}
		if r.Plan.Index != i {
			t.Errorf("results[%d].Plan.Index = %d, want %d (replica order preserved)", i, r.Plan.Index, i)
		}
		if r.Plan.SessionName != wantNames[i] {
			t.Errorf("replica %d session = %q, want %q", i, r.Plan.SessionName, wantNames[i])
		}
		if strings.Join(r.Plan.Tasks, ",") != strings.Join(wantTasks[i], ",") {
			t.Errorf("replica %d tasks = %v, want %v", i, r.Plan.Tasks, wantTasks[i])
		}
	}

	if len(mux.creates) != 3 || len(mux.sends) != 3 {
		t.Errorf("boundary calls: %d creates, %d sends, want 3 each", len(mux.creates), len(mux.sends))
	}
}

func TestLaunchAgentCommandReferencesPromptFile(t *testing.T) {
	mux := &fakeMux{}
	l := New(mux, testConfig(), nil)
	req := workerRequest(t, 1)

	results, err := l.Launch(context.Background(), req)
	if err != nil {
		t.Fatalf("Launch returned error: %v", err)
	}
	if !results[0].Started() {
		t.Fatalf("replica failed: %v", results[0].Err)
	}

	promptFile := filepath.Join(req.WorkDir, ".aura-prompt-worker-0")
	data, err := os.ReadFile(promptFile)
	if err != nil {
		t.Fatalf("prompt file not written: %v", err)
	}
	if string(data) != results[0].Plan.Prompt {
		t.Error("prompt file content should equal the rendered prompt")
	}

	sent := mux.sends[0]
	if sent.session != "worker-0" {
		t.Errorf("command sent to %q, want worker-0", sent.session)
	}
	if !strings.HasPrefix(sent.text, "echo agent ") {
		t.Errorf("agent command = %q, want prefix %q", sent.text, "echo agent ")
	}
	if !strings.Contains(sent.text, promptFile) {
		t.Errorf("agent command %q should reference prompt file %q", sent.text, promptFile)
	}
}

func TestLaunchOneCreateFailureIsIsolated(t *testing.T) {
	cause := aerrors.NewBoundaryError("create-session", aerrors.New("exit status 1")).
		WithSession("worker-1")
	mux := &fakeMux{createErr: map[string]error{"worker-1": cause}}
	l := New(mux, testConfig(), nil)

	results, err := l.Launch(context.Background(), workerRequest(t, 3))
	if err != nil {
		t.Fatalf("Launch returned error: %v", err)
	}

	if got := FailedCount(results); got != 1 {
		t.Fatalf("FailedCount = %d, want 1", got)
	}
	if results[1].Started() {
		t.Error("replica 1 should have failed")
	}
	if !aerrors.IsBoundary(results[1].Err) {
		t.Errorf("replica 1 error = %v, want a BoundaryError", results[1].Err)
	}
	if !results[0].Started() || !results[2].Started() {
		t.Error("replicas 0 and 2 should have started despite replica 1 failing")
	}
}

func TestLaunchAgentStartFailureKillsSession(t *testing.T) {
	mux := &fakeMux{sendErr: map[string]error{
		"worker-0": aerrors.NewBoundaryError("send-command", aerrors.New("no such pane")),
	}}
	l := New(mux, testConfig(), nil)

	results, err := l.Launch(context.Background(), workerRequest(t, 2))
	if err != nil {
		t.Fatalf("Launch returned error: %v", err)
	}

	if results[0].Started() {
		t.Error("replica 0 should have failed on agent start")
	}
	if !results[1].Started() {
		t.Errorf("replica 1 should have started: %v", results[1].Err)
	}
	if len(mux.kills) != 1 || mux.kills[0] != "worker-0" {
		t.Errorf("kills = %v, want [worker-0]", mux.kills)
	}
}

func TestLaunchValidationFailsBeforeAnyCall(t *testing.T) {
	cases := []Request{
		{Role: role.Worker, Replicas: 0, Prompt: "p"},
		{Role: role.Worker, Replicas: 3, Prompt: "   "},
		{Role: role.Role("manager"), Replicas: 1, Prompt: "p"},
	}
	for _, req := range cases {
		mux := &fakeMux{}
		l := New(mux, testConfig(), nil)

		_, err := l.Launch(context.Background(), req)
		if err == nil {
			t.Errorf("Launch(%+v) should fail validation", req)
			continue
		}
		if !aerrors.IsValidation(err) {
			t.Errorf("error = %v, want a ValidationError", err)
		}
		if mux.callCount() != 0 {
			t.Errorf("invalid request reached the boundary: %d calls", mux.callCount())
		}
	}
}

func TestLaunchAvoidsLiveSessionNames(t *testing.T) {
	mux := &fakeMux{live: []string{"worker-0"}}
	l := New(mux, testConfig(), nil)

	results, err := l.Launch(context.Background(), workerRequest(t, 2))
	if err != nil {
		t.Fatalf("Launch returned error: %v", err)
	}

	if got := results[0].Plan.SessionName; got != "worker-0-2" {
		t.Errorf("replica 0 session = %q, want worker-0-2", got)
	}
	if got := results[1].Plan.SessionName; got != "worker-1" {
		t.Errorf("replica 1 session = %q, want worker-1", got)
	}
}

func TestLaunchNameExhaustionFailsOnlyThatReplica(t *testing.T) {
	cfg := testConfig()
	cfg.Naming.MaxAttempts = 2
	mux := &fakeMux{live: []string{"worker-0", "worker-0-2"}}
	l := New(mux, cfg, nil)

	results, err := l.Launch(context.Background(), workerRequest(t, 2))
	if err != nil {
		t.Fatalf("Launch returned error: %v", err)
	}

	if results[0].Started() {
		t.Error("replica 0 should have failed with name exhaustion")
	}
	if !aerrors.Is(results[0].Err, aerrors.ErrNameExhausted) {
		t.Errorf("replica 0 error = %v, want ErrNameExhausted", results[0].Err)
	}
	if !results[1].Started() {
		t.Errorf("replica 1 should have started: %v", results[1].Err)
	}
}

func TestLaunchParallelNamesStayUnique(t *testing.T) {
	cfg := testConfig()
	cfg.Launch.Parallel = 4
	mux := &fakeMux{}
	l := New(mux, cfg, nil)

	results, err := l.Launch(context.Background(), workerRequest(t, 8))
	if err != nil {
		t.Fatalf("Launch returned error: %v", err)
	}

	seen := make(map[string]bool)
	for i, r := range results {
		if !r.Started() {
			t.Errorf("replica %d failed: %v", i, r.Err)
			continue
		}
		if seen[r.Plan.SessionName] {
			t.Errorf("session name %q issued twice", r.Plan.SessionName)
		}
		seen[r.Plan.SessionName] = true
	}
	if len(mux.creates) != 8 {
		t.Errorf("creates = %d, want 8", len(mux.creates))
	}
}

func TestPlanMakesNoSideEffectCalls(t *testing.T) {
	mux := &fakeMux{live: []string{"reviewer-0"}}
	l := New(mux, testConfig(), nil)

	plans, err := l.Plan(context.Background(), Request{
		Role:     role.Reviewer,
		Replicas: 3,
		Prompt:   "Review the epoch output.",
	})
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}

	if len(plans) != 3 {
		t.Fatalf("len(plans) = %d, want 3", len(plans))
	}
	if plans[0].SessionName != "reviewer-0-2" {
		t.Errorf("plans[0] session = %q, want reviewer-0-2 (live session avoided)", plans[0].SessionName)
	}
	for _, p := range plans {
		if !strings.Contains(p.Prompt, "Review the epoch output.") {
			t.Errorf("plan prompt should contain the base prompt:\n%s", p.Prompt)
		}
		if len(p.Tasks) != 0 {
			t.Errorf("plan tasks = %v, want empty", p.Tasks)
		}
	}

	if len(mux.creates) != 0 || len(mux.sends) != 0 || len(mux.kills) != 0 {
		t.Error("Plan must not create, command, or kill sessions")
	}
}

func TestLaunchProceedsWhenListFails(t *testing.T) {
	mux := &fakeMux{listErr: aerrors.NewBoundaryError("list-sessions", aerrors.New("exit status 1"))}
	l := New(mux, testConfig(), nil)

	results, err := l.Launch(context.Background(), workerRequest(t, 1))
	if err != nil {
		t.Fatalf("Launch returned error: %v", err)
	}
	if !results[0].Started() {
		t.Errorf("replica should start with an unseeded registry: %v", results[0].Err)
	}
}

func TestRunIDIsStable(t *testing.T) {
	l := New(&fakeMux{}, testConfig(), nil)

	if l.RunID() == "" {
		t.Fatal("RunID should not be empty")
	}
	if l.RunID() != l.RunID() {
		t.Error("RunID should be stable for one launcher")
	}
}
