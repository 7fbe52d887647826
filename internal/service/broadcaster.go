package service

import (
	"context"
	"time"

	"conceptlab/internal/cache"
	"conceptlab/internal/logging"
	"conceptlab/internal/model"
)

// Message types pushed to run subscribers
const (
	MsgProgress     = "progress"
	MsgRunCompleted = "run_completed"
	MsgRunFailed    = "run_failed"
)

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToRun(runID string, msgType string, payload interface{})
	DisconnectRun(runID string)
}

// BroadcastReporter pushes every progress state to the run's subscribers
type BroadcastReporter struct {
	Broadcaster Broadcaster
}

// OnProgress broadcasts states that belong to a run
func (r BroadcastReporter) OnProgress(state model.ProgressState) {
	if r.Broadcaster == nil || state.RunID == "" {
		return
	}
	r.Broadcaster.BroadcastToRun(state.RunID, MsgProgress, state)
}

// CacheReporter stores the latest progress state of each run for polling
type CacheReporter struct {
	Cache   cache.ProgressCache
	Timeout time.Duration
}

// OnProgress writes the snapshot; a failed write is logged and otherwise ignored
func (r CacheReporter) OnProgress(state model.ProgressState) {
	if r.Cache == nil || state.RunID == "" {
		return
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := r.Cache.Set(ctx, state); err != nil {
		logging.For("progress").WithField(logging.FieldRunID, state.RunID).WithError(err).Warn("[Progress] snapshot not stored")
	}
}
