package service

import (
	"context"
	"testing"

	"conceptlab/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastReporterSkipsUnscopedStates(t *testing.T) {
	b := &fakeBroadcaster{}
	r := BroadcastReporter{Broadcaster: b}

	r.OnProgress(model.ProgressState{Phase: model.PhaseInterviews})
	r.OnProgress(model.ProgressState{RunID: "run-9", Phase: model.PhaseInterviews, Step: 1})

	require.Len(t, b.sent, 1)
	assert.Equal(t, "run-9", b.sent[0].runID)
	assert.Equal(t, MsgProgress, b.sent[0].msgType)
}

func TestCacheReporterKeepsLatestState(t *testing.T) {
	c := newMemProgress()
	r := CacheReporter{Cache: c}

	r.OnProgress(model.ProgressState{RunID: "run-9", Step: 1, Total: 3})
	r.OnProgress(model.ProgressState{RunID: "run-9", Step: 2, Total: 3})

	got, err := c.Get(context.Background(), "run-9")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Step)
}
