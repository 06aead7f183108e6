package rebuild

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

type fakeTimer struct {
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

type fakeClock struct {
	mu     sync.Mutex
	armed  []func()
	timers []*fakeTimer
	delays []time.Duration
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	timer := &fakeTimer{}
	c.armed = append(c.armed, f)
	c.timers = append(c.timers, timer)
	c.delays = append(c.delays, d)
	return timer
}

func (c *fakeClock) fireAll() {
	c.mu.Lock()
	armed := c.armed
	c.armed = nil
	c.mu.Unlock()
	for _, f := range armed {
		f()
	}
}

type fakeRunner struct {
	mu   sync.Mutex
	runs []Command
	err  error
}

func (r *fakeRunner) Run(_ context.Context, cmd Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, cmd)
	return r.err
}

func (r *fakeRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.runs)
}

func TestBuildCommand(t *testing.T) {
	cmd := BuildCommand("ctags", "/profile", "tags", []string{"/src/a", "/src/b"})
	if got, want := cmd.String(), "cd /profile; ctags -R --fields=n /src/a /src/b"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if cmd.Dir != "/profile" || cmd.Name != "ctags" {
		t.Fatalf("unexpected command %+v", cmd)
	}

	empty := BuildCommand("", "/profile", "", nil)
	if got, want := empty.String(), "cd /profile; ctags -R --fields=n"; got != want {
		t.Fatalf("expected %q with no folders, got %q", want, got)
	}

	custom := BuildCommand("uctags", "/p", "TAGS", []string{"/s"})
	if want := []string{"-R", "--fields=n", "-f", "TAGS", "/s"}; !reflect.DeepEqual(custom.Args, want) {
		t.Fatalf("expected %v, got %v", want, custom.Args)
	}
}

func TestSchedulerCoalescesBurst(t *testing.T) {
	clock := &fakeClock{}
	runner := &fakeRunner{}
	completions := 0
	s := NewScheduler(Options{
		Runner:     runner,
		Command:    func() Command { return BuildCommand("ctags", "/p", "", nil) },
		AfterFunc:  clock.AfterFunc,
		OnComplete: func(string, error) { completions++ },
	})

	if !s.Trigger() {
		t.Fatalf("expected first trigger to arm a timer")
	}
	for i := 0; i < 9; i++ {
		if s.Trigger() {
			t.Fatalf("expected trigger %d to be coalesced", i+2)
		}
	}
	if len(clock.delays) != 1 || clock.delays[0] != DefaultDelay {
		t.Fatalf("expected one timer with the default delay, got %v", clock.delays)
	}
	if s.State() != Pending {
		t.Fatalf("expected pending, got %s", s.State())
	}

	clock.fireAll()
	if runner.count() != 1 {
		t.Fatalf("expected exactly one indexer run, got %d", runner.count())
	}
	if completions != 1 {
		t.Fatalf("expected one completion, got %d", completions)
	}
	if s.State() != Idle {
		t.Fatalf("expected idle after run, got %s", s.State())
	}

	if !s.Trigger() {
		t.Fatalf("expected a fresh window after returning to idle")
	}
}

func TestSchedulerIgnoresLaunchFailure(t *testing.T) {
	clock := &fakeClock{}
	runner := &fakeRunner{err: errors.New("exec: \"ctags\": executable file not found in $PATH")}
	var gotErr error
	s := NewScheduler(Options{
		Runner:     runner,
		AfterFunc:  clock.AfterFunc,
		OnComplete: func(_ string, err error) { gotErr = err },
	})

	s.Trigger()
	clock.fireAll()
	if gotErr == nil {
		t.Fatalf("expected completion hook to see the failure")
	}
	if s.State() != Idle {
		t.Fatalf("expected scheduler to return to idle after a failure, got %s", s.State())
	}
	if !s.Trigger() {
		t.Fatalf("expected scheduler to accept triggers after a failure")
	}
}

func TestSchedulerFlush(t *testing.T) {
	clock := &fakeClock{}
	runner := &fakeRunner{}
	s := NewScheduler(Options{Runner: runner, AfterFunc: clock.AfterFunc})

	if s.Flush() {
		t.Fatalf("expected flush without a pending run to do nothing")
	}
	s.Trigger()
	if !s.Flush() {
		t.Fatalf("expected flush to run the pending rebuild")
	}
	if !clock.timers[0].stopped {
		t.Fatalf("expected flush to stop the timer")
	}

	clock.fireAll()
	if runner.count() != 1 {
		t.Fatalf("expected a late timer fire after flush to be ignored, got %d runs", runner.count())
	}
}

func TestSchedulerStop(t *testing.T) {
	clock := &fakeClock{}
	runner := &fakeRunner{}
	s := NewScheduler(Options{Runner: runner, AfterFunc: clock.AfterFunc})

	s.Trigger()
	s.Stop()
	clock.fireAll()
	if runner.count() != 0 {
		t.Fatalf("expected stopped scheduler not to run, got %d", runner.count())
	}
	if s.Trigger() {
		t.Fatalf("expected trigger after stop to be refused")
	}
}

func TestExecuteReturnsRunID(t *testing.T) {
	runner := &fakeRunner{}
	id, err := Execute(context.Background(), runner, Command{Dir: "/p", Name: "ctags"}, nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(id) != 36 {
		t.Fatalf("expected a uuid run id, got %q", id)
	}
}
