package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/diamond-odds/internal/platform/logging"
	"github.com/robfig/cron/v3"
)

// Job is one unit of scheduled work.
type Job func(ctx context.Context) error

// ReadinessProbe reports whether the job's dependencies are reachable.
type ReadinessProbe interface {
	Ping(ctx context.Context) error
}

// Lease optionally restricts a tick to one replica across processes.
type Lease interface {
	Acquire(ctx context.Context) (release func(ctx context.Context) error, ok bool, err error)
}

// Reasons RunExclusive reports when it skips a job.
var (
	ErrRunInFlight      = errors.New("previous run still in flight")
	ErrLeaseHeld        = errors.New("lease held by another replica")
	ErrLeaseUnavailable = errors.New("lease store unavailable")
)

type Config struct {
	Name     string
	Interval time.Duration
	Logger   *logging.Logger
	Lease    Lease
}

// Scheduler runs a job on a fixed interval with at most one run in flight.
// Ticks that arrive while a run is in progress are dropped, not queued.
type Scheduler struct {
	name     string
	interval time.Duration
	job      Job
	logger   *logging.Logger
	lease    Lease

	mu   sync.Mutex
	cron *cron.Cron

	inFlight atomic.Bool
	dropped  atomic.Int64
}

func New(cfg Config, job Job) (*Scheduler, error) {
	if job == nil {
		return nil, fmt.Errorf("scheduler job is required")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("scheduler interval must be positive, got %s", cfg.Interval)
	}
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = "scheduler"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Scheduler{
		name:     name,
		interval: cfg.Interval,
		job:      job,
		logger:   logger.With("scheduler", name),
		lease:    cfg.Lease,
	}, nil
}

// Start pings probe and, when it answers, begins ticking every interval.
// Runs inherit ctx values but not its cancellation.
func (s *Scheduler) Start(ctx context.Context, probe ReadinessProbe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return fmt.Errorf("scheduler %s already running", s.name)
	}
	if probe != nil {
		if err := probe.Ping(ctx); err != nil {
			s.logger.WarnContext(ctx, "scheduler not started: readiness probe failed", "error", err)
			return fmt.Errorf("scheduler %s readiness probe: %w", s.name, err)
		}
	}

	base := context.WithoutCancel(ctx)
	c := cron.New(cron.WithLogger(cronLogger{logger: s.logger}))
	if _, err := c.AddFunc("@every "+s.interval.String(), func() { s.Tick(base) }); err != nil {
		return fmt.Errorf("schedule %s every %s: %w", s.name, s.interval, err)
	}
	c.Start()
	s.cron = c

	s.logger.InfoContext(ctx, "scheduler started", "interval", s.interval.String())
	return nil
}

// Stop halts future ticks and returns without waiting for an in-flight run.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return
	}
	_ = s.cron.Stop()
	s.cron = nil
	s.logger.Info("scheduler stopped", "in_flight", s.inFlight.Load())
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cron != nil
}

// InFlight reports whether a run is executing right now.
func (s *Scheduler) InFlight() bool {
	return s.inFlight.Load()
}

// Dropped counts ticks skipped because a run was already in flight.
func (s *Scheduler) Dropped() int64 {
	return s.dropped.Load()
}

// Tick runs the scheduled job once, synchronously. It reports false when the
// tick was dropped, either for overlap or because another replica holds the lease.
func (s *Scheduler) Tick(ctx context.Context) bool {
	ran, _ := s.RunExclusive(ctx, s.job)
	return ran
}

// RunExclusive runs job under the same single-flight guard as scheduled ticks.
// A panic inside job is recovered and returned as an error. When the job is
// skipped, ran is false and err is ErrRunInFlight, ErrLeaseHeld or wraps
// ErrLeaseUnavailable.
func (s *Scheduler) RunExclusive(ctx context.Context, job Job) (ran bool, err error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.dropped.Add(1)
		s.logger.WarnContext(ctx, "tick dropped: previous run still in flight")
		return false, ErrRunInFlight
	}
	defer s.inFlight.Store(false)

	if s.lease != nil {
		release, ok, leaseErr := s.lease.Acquire(ctx)
		if leaseErr != nil {
			s.logger.WarnContext(ctx, "tick skipped: lease unavailable", "error", leaseErr)
			return false, fmt.Errorf("%w: %w", ErrLeaseUnavailable, leaseErr)
		}
		if !ok {
			s.logger.InfoContext(ctx, "tick skipped: lease held by another replica")
			return false, ErrLeaseHeld
		}
		defer func() {
			if relErr := release(context.WithoutCancel(ctx)); relErr != nil {
				s.logger.WarnContext(ctx, "release lease failed", "error", relErr)
			}
		}()
	}

	started := time.Now()
	err = s.safeRun(ctx, job)
	if err != nil {
		s.logger.ErrorContext(ctx, "scheduled run failed", "error", err, "elapsed", time.Since(started).String())
		return true, err
	}
	s.logger.DebugContext(ctx, "scheduled run finished", "elapsed", time.Since(started).String())
	return true, nil
}

func (s *Scheduler) safeRun(ctx context.Context, job Job) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			s.logger.ErrorContext(ctx, "scheduled run panicked", "panic", recovered, "stack", string(debug.Stack()))
			err = fmt.Errorf("scheduled run panicked: %v", recovered)
		}
	}()
	return job(ctx)
}

type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
