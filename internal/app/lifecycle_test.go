package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/turingcv/internal/adapters/clock"
	"github.com/bft-labs/turingcv/internal/domain"
	"github.com/bft-labs/turingcv/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}

// stateRecorder keeps every state change it sees.
type stateRecorder struct {
	mu      sync.Mutex
	changes []string
	reasons []string
}

func (r *stateRecorder) OnStateChange(previous, current State, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, previous.String()+">"+current.String())
	r.reasons = append(r.reasons, reason)
}

func (r *stateRecorder) path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Join(r.changes, " ")
}

var allStates = []State{StateStopped, StateStarting, StateRunning, StateStopping, StateCrashed}

func TestTransitions(t *testing.T) {
	// Each row lists the legal targets; every other target must be refused
	// with the row's error and leave the state untouched.
	tests := []struct {
		from    State
		legal   []State
		refusal error
	}{
		{StateStopped, []State{StateStarting}, domain.ErrNotRunning},
		{StateStarting, []State{StateRunning, StateStopping, StateCrashed}, domain.ErrAlreadyRunning},
		{StateRunning, []State{StateStopping, StateStopped, StateCrashed}, domain.ErrAlreadyRunning},
		{StateStopping, []State{StateStopped, StateCrashed}, domain.ErrAlreadyRunning},
		{StateCrashed, []State{StateStarting}, domain.ErrNotRunning},
	}

	if len(tests) != len(transitions) {
		t.Fatalf("transition table has %d states, want %d", len(transitions), len(tests))
	}

	for _, tt := range tests {
		legal := make(map[State]bool)
		for _, s := range tt.legal {
			legal[s] = true
		}

		for _, to := range allStates {
			t.Run(tt.from.String()+"_to_"+to.String(), func(t *testing.T) {
				l := NewLifecycle(&mockLogger{}, nil)
				l.state = tt.from

				err := l.TransitionTo(to, "table")

				if legal[to] {
					if err != nil {
						t.Fatalf("TransitionTo() = %v, want nil", err)
					}
					if l.State() != to {
						t.Errorf("state = %v, want %v", l.State(), to)
					}
					return
				}
				if !errors.Is(err, tt.refusal) {
					t.Errorf("TransitionTo() = %v, want %v", err, tt.refusal)
				}
				if l.State() != tt.from {
					t.Errorf("state = %v after refused transition, want %v", l.State(), tt.from)
				}
			})
		}
	}
}

func TestState_String(t *testing.T) {
	got := make([]string, 0, len(allStates)+1)
	for _, s := range append(allStates, State(42)) {
		got = append(got, s.String())
	}
	want := "Stopped Starting Running Stopping Crashed Unknown"
	if strings.Join(got, " ") != want {
		t.Errorf("names = %q, want %q", strings.Join(got, " "), want)
	}
}

// runToCompletion starts a runner the way an instance does and waits for the
// clock loop to finish on its own.
func runToCompletion(t *testing.T, l *Lifecycle, runner *Runner) {
	t.Helper()

	if err := l.TransitionTo(StateStarting, "start"); err != nil {
		t.Fatalf("Starting: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l.SetCancel(cancel)

	l.AddWorker()
	go func() {
		defer l.WorkerDone()
		_ = l.TransitionTo(StateRunning, "clock starting")
		if err := runner.Run(ctx); err != nil {
			_ = l.TransitionTo(StateCrashed, err.Error())
			return
		}
		_ = l.TransitionTo(StateStopped, "clock finished")
	}()

	if err := l.WaitWithTimeout(2 * time.Second); err != nil {
		t.Fatalf("WaitWithTimeout() = %v", err)
	}
}

func TestLifecycle_ClockFinishesOnItsOwn(t *testing.T) {
	tests := []struct {
		name      string
		clock     ports.Clock
		edges     int
		wantEdges uint64
	}{
		{
			name:      "edge limit reached",
			clock:     clock.NewTicker(time.Millisecond),
			edges:     4,
			wantEdges: 4,
		},
		{
			name:      "stdin reaches EOF",
			clock:     clock.NewLines(strings.NewReader("tick\ntick\ntick\n")),
			wantEdges: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(0, domain.FeedbackInternal, nil)
			states := &stateRecorder{}
			l := NewLifecycle(&mockLogger{}, states)
			runner := NewRunner(RunnerConfig{Edges: tt.edges}, r.machine, tt.clock, nil, &mockLogger{}, nil)

			runToCompletion(t, l, runner)

			if l.State() != StateStopped {
				t.Errorf("state = %v, want Stopped", l.State())
			}
			if got := r.machine.Snapshot().Edges; got != tt.wantEdges {
				t.Errorf("edges = %d, want %d", got, tt.wantEdges)
			}
			want := "Stopped>Starting Starting>Running Running>Stopped"
			if got := states.path(); got != want {
				t.Errorf("path = %q, want %q", got, want)
			}
			if !l.CanStart() {
				t.Error("CanStart() = false after the clock finished")
			}
		})
	}
}

func TestLifecycle_PluginInitFailure(t *testing.T) {
	states := &stateRecorder{}
	l := NewLifecycle(&mockLogger{}, states)

	if err := l.TransitionTo(StateStarting, "start"); err != nil {
		t.Fatalf("Starting: %v", err)
	}
	if err := l.TransitionTo(StateCrashed, "plugin init failed: panel"); err != nil {
		t.Fatalf("Crashed: %v", err)
	}

	if l.CanStop() {
		t.Error("CanStop() = true for a crashed instance")
	}
	if err := l.TransitionTo(StateStopping, "stop"); !errors.Is(err, domain.ErrNotRunning) {
		t.Errorf("Stopping from Crashed = %v, want ErrNotRunning", err)
	}

	states.mu.Lock()
	defer states.mu.Unlock()
	if got := states.reasons[len(states.reasons)-1]; got != "plugin init failed: panel" {
		t.Errorf("crash reason = %q", got)
	}
}

func TestLifecycle_RestartFromCrashed(t *testing.T) {
	r := newRig(0, domain.FeedbackInternal, nil)
	states := &stateRecorder{}
	l := NewLifecycle(&mockLogger{}, states)
	l.state = StateCrashed

	if !l.CanStart() {
		t.Fatal("CanStart() = false for a crashed instance")
	}

	runner := NewRunner(RunnerConfig{}, r.machine, sliceClock{n: 2}, nil, &mockLogger{}, nil)
	runToCompletion(t, l, runner)

	want := "Crashed>Starting Starting>Running Running>Stopped"
	if got := states.path(); got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
	if got := r.machine.Snapshot().Edges; got != 2 {
		t.Errorf("edges = %d, want 2", got)
	}
}

func TestLifecycle_StopCancelsClockLoop(t *testing.T) {
	r := newRig(0, domain.FeedbackInternal, nil)
	l := NewLifecycle(&mockLogger{}, nil)
	runner := NewRunner(RunnerConfig{}, r.machine, clock.NewTicker(time.Hour), nil, &mockLogger{}, nil)

	_ = l.TransitionTo(StateStarting, "start")
	ctx, cancel := context.WithCancel(context.Background())
	l.SetCancel(cancel)

	var runErr error
	l.AddWorker()
	go func() {
		defer l.WorkerDone()
		_ = l.TransitionTo(StateRunning, "clock starting")
		runErr = runner.Run(ctx)
	}()

	time.Sleep(10 * time.Millisecond)
	if err := l.TransitionTo(StateStopping, "stop"); err != nil {
		t.Fatalf("Stopping: %v", err)
	}
	l.Cancel()

	if err := l.WaitWithTimeout(time.Second); err != nil {
		t.Fatalf("WaitWithTimeout() = %v", err)
	}
	if !errors.Is(runErr, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", runErr)
	}
	if err := l.TransitionTo(StateStopped, "graceful shutdown"); err != nil {
		t.Errorf("Stopped: %v", err)
	}
}

func TestLifecycle_StuckWorkerCrashes(t *testing.T) {
	l := NewLifecycle(&mockLogger{}, nil)
	_ = l.TransitionTo(StateStarting, "start")
	_ = l.TransitionTo(StateRunning, "clock starting")
	_ = l.TransitionTo(StateStopping, "stop")

	l.AddWorker()
	defer l.WorkerDone()

	if err := l.WaitWithTimeout(10 * time.Millisecond); !errors.Is(err, domain.ErrShutdownTimeout) {
		t.Fatalf("WaitWithTimeout() = %v, want ErrShutdownTimeout", err)
	}
	if err := l.TransitionTo(StateCrashed, "shutdown timeout"); err != nil {
		t.Fatalf("Crashed: %v", err)
	}
	if !l.CanStart() {
		t.Error("CanStart() = false after a shutdown timeout")
	}
}

func TestLifecycle_CancelWithoutStart(t *testing.T) {
	l := NewLifecycle(&mockLogger{}, nil)
	l.Cancel()
	if l.State() != StateStopped {
		t.Errorf("state = %v, want Stopped", l.State())
	}
}

func TestLifecycle_ConcurrentStarts(t *testing.T) {
	l := NewLifecycle(&mockLogger{}, nil)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		won int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.TransitionTo(StateStarting, "start") == nil {
				mu.Lock()
				won++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if won != 1 {
		t.Errorf("%d goroutines entered Starting, want 1", won)
	}
}
