package rebuild

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/morozRed/tagjump/internal/logging"
)

const DefaultDelay = 2 * time.Second

type State int

const (
	Idle State = iota
	Pending
	Running
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	default:
		return "idle"
	}
}

// Timer is the part of *time.Timer the scheduler needs.
type Timer interface {
	Stop() bool
}

// AfterFunc arms a one-shot timer.
type AfterFunc func(d time.Duration, f func()) Timer

func systemAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// CommandFunc builds the command at fire time so config edits made while a
// run is pending are picked up.
type CommandFunc func() Command

type Options struct {
	Delay   time.Duration
	Runner  Runner
	Command CommandFunc
	// OnComplete runs after every indexer run, successful or not.
	OnComplete func(runID string, err error)
	AfterFunc  AfterFunc
	Logger     *slog.Logger
}

// Scheduler coalesces save events into a single indexer run. At most one
// timer is outstanding; events that arrive while pending or running are
// dropped.
type Scheduler struct {
	delay      time.Duration
	runner     Runner
	command    CommandFunc
	onComplete func(string, error)
	afterFunc  AfterFunc
	logger     *slog.Logger

	mu      sync.Mutex
	state   State
	timer   Timer
	stopped bool
}

func NewScheduler(opts Options) *Scheduler {
	s := &Scheduler{
		delay:      opts.Delay,
		runner:     opts.Runner,
		command:    opts.Command,
		onComplete: opts.OnComplete,
		afterFunc:  opts.AfterFunc,
		logger:     opts.Logger,
	}
	if s.delay <= 0 {
		s.delay = DefaultDelay
	}
	if s.runner == nil {
		s.runner = ExecRunner{}
	}
	if s.afterFunc == nil {
		s.afterFunc = systemAfterFunc
	}
	if s.logger == nil {
		s.logger = logging.NewDiscardLogger()
	}
	return s
}

// Trigger arms the debounce timer unless one is already outstanding. It
// reports whether a new timer was armed.
func (s *Scheduler) Trigger() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.state != Idle {
		return false
	}
	s.state = Pending
	s.timer = s.afterFunc(s.delay, s.fire)
	s.logger.Debug("rebuild scheduled", "delay", s.delay)
	return true
}

// Flush runs a pending rebuild immediately on the calling goroutine.
func (s *Scheduler) Flush() bool {
	s.mu.Lock()
	if s.state != Pending {
		s.mu.Unlock()
		return false
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.state = Running
	s.mu.Unlock()

	s.run()
	return true
}

// Stop cancels a pending rebuild and refuses further triggers. A run already
// in progress finishes.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.state == Pending {
		if s.timer != nil {
			s.timer.Stop()
			s.timer = nil
		}
		s.state = Idle
	}
}

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) fire() {
	s.mu.Lock()
	if s.state != Pending {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.state = Running
	s.mu.Unlock()

	s.run()
}

func (s *Scheduler) run() {
	var cmd Command
	if s.command != nil {
		cmd = s.command()
	}
	runID, err := Execute(context.Background(), s.runner, cmd, s.logger)

	s.mu.Lock()
	s.state = Idle
	s.mu.Unlock()

	if s.onComplete != nil {
		s.onComplete(runID, err)
	}
}

// Execute runs cmd once and waits. Failures are logged at debug only; the
// error is returned for callers that want to report it.
func Execute(ctx context.Context, runner Runner, cmd Command, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	runID := uuid.New().String()
	logger = logger.With("run_id", runID)

	start := time.Now()
	logger.Info("rebuilding tag index", "command", cmd.String())
	if err := runner.Run(ctx, cmd); err != nil {
		logger.Debug("indexer run failed", "error", err)
		return runID, err
	}
	logger.Debug("tag index rebuilt", "elapsed", time.Since(start))
	return runID, nil
}
