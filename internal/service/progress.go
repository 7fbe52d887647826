package service

import (
	"context"
	"time"

	"conceptlab/internal/model"
)

// ProgressReporter observes phase progress. A phase never calls it concurrently.
type ProgressReporter interface {
	OnProgress(state model.ProgressState)
}

// ProgressFunc adapts a function to ProgressReporter
type ProgressFunc func(state model.ProgressState)

// OnProgress calls f
func (f ProgressFunc) OnProgress(state model.ProgressState) {
	f(state)
}

// MultiReporter fans progress out to several reporters in order
type MultiReporter []ProgressReporter

// OnProgress forwards state to every non-nil reporter
func (m MultiReporter) OnProgress(state model.ProgressState) {
	for _, r := range m {
		if r != nil {
			r.OnProgress(state)
		}
	}
}

type runIDKey struct{}

// WithRunID tags ctx with the run whose progress is being reported
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFrom returns the run ID stored in ctx, if any
func RunIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(runIDKey{}).(string); ok {
		return v
	}
	return ""
}

// progressTracker owns the ProgressState of one phase
type progressTracker struct {
	reporter ProgressReporter
	runID    string
	phase    model.Phase
	total    int
	start    time.Time
	now      func() time.Time
}

func newProgressTracker(ctx context.Context, reporter ProgressReporter, phase model.Phase, total int, now func() time.Time) *progressTracker {
	return &progressTracker{
		reporter: reporter,
		runID:    RunIDFrom(ctx),
		phase:    phase,
		total:    total,
		start:    now(),
		now:      now,
	}
}

func (t *progressTracker) emit(step int, action, personaName string) {
	t.send(t.phase, step, action, personaName)
}

// complete emits the terminal state at step == total
func (t *progressTracker) complete(action string) {
	t.send(model.PhaseCompleted, t.total, action, "")
}

func (t *progressTracker) send(phase model.Phase, step int, action, personaName string) {
	if t.reporter == nil {
		return
	}
	elapsed := t.now().Sub(t.start)
	t.reporter.OnProgress(model.ProgressState{
		RunID:              t.runID,
		Phase:              phase,
		Step:               step,
		Total:              t.total,
		Action:             action,
		PersonaName:        personaName,
		ElapsedMS:          elapsed.Milliseconds(),
		EstimatedRemaining: estimateRemaining(elapsed, step, t.total),
	})
}

// estimateRemaining is elapsed/(step/total) - elapsed in milliseconds, nil
// before the first step and never negative
func estimateRemaining(elapsed time.Duration, step, total int) *int64 {
	if step <= 0 || total <= 0 {
		return nil
	}
	projected := time.Duration(float64(elapsed) * float64(total) / float64(step))
	remaining := (projected - elapsed).Milliseconds()
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}
