package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/diamond-odds/internal/domain/ingestrun"
	"github.com/riskibarqy/diamond-odds/internal/platform/scheduler"
	"github.com/riskibarqy/diamond-odds/internal/usecase"
)

type cycleRunner interface {
	RunCycle(ctx context.Context) (usecase.CycleResult, error)
}

// scheduledCycle adapts an ingestion cycle to the scheduler's job signature.
func scheduledCycle(runner cycleRunner) scheduler.Job {
	return func(ctx context.Context) error {
		_, err := runner.RunCycle(usecase.WithIngestTrigger(ctx, ingestrun.TriggerSchedule))
		return err
	}
}

// ingestJob exposes the scheduled cycle to operators. Manual and startup runs
// share the scheduler's single-flight guard and lease.
type ingestJob struct {
	runner    cycleRunner
	scheduler *scheduler.Scheduler
}

func (j *ingestJob) RunNow(ctx context.Context) (usecase.CycleResult, error) {
	return j.run(ctx, ingestrun.TriggerManual)
}

func (j *ingestJob) run(ctx context.Context, trigger ingestrun.Trigger) (usecase.CycleResult, error) {
	if j == nil || j.scheduler == nil {
		return usecase.CycleResult{}, fmt.Errorf("%w: odds ingestion is disabled", usecase.ErrDependencyUnavailable)
	}

	var result usecase.CycleResult
	ran, err := j.scheduler.RunExclusive(ctx, func(ctx context.Context) error {
		var runErr error
		result, runErr = j.runner.RunCycle(usecase.WithIngestTrigger(ctx, trigger))
		return runErr
	})
	if !ran {
		return usecase.CycleResult{}, skipError(err)
	}
	return result, err
}

func (j *ingestJob) SchedulerRunning() bool {
	return j.scheduler != nil && j.scheduler.IsRunning()
}

func (j *ingestJob) InFlight() bool {
	return j.scheduler != nil && j.scheduler.InFlight()
}

func (j *ingestJob) DroppedTicks() int64 {
	if j.scheduler == nil {
		return 0
	}
	return j.scheduler.Dropped()
}

// skipError maps a scheduler skip reason onto the usecase sentinels.
func skipError(err error) error {
	switch {
	case errors.Is(err, scheduler.ErrLeaseHeld):
		return fmt.Errorf("%w: held by another replica", usecase.ErrLeaseUnavailable)
	case errors.Is(err, scheduler.ErrLeaseUnavailable):
		return fmt.Errorf("%w: %w", usecase.ErrLeaseUnavailable, err)
	default:
		return usecase.ErrCycleInFlight
	}
}
