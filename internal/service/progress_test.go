package service

import (
	"context"
	"testing"
	"time"

	"conceptlab/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateRemaining(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		step    int
		total   int
		want    *int64
	}{
		{"before first step", 3 * time.Second, 0, 4, nil},
		{"no total", 3 * time.Second, 1, 0, nil},
		{"half way", 10 * time.Second, 2, 4, ptr(10000)},
		{"quarter", 2 * time.Second, 1, 4, ptr(6000)},
		{"done", 8 * time.Second, 4, 4, ptr(0)},
		{"overrun clamps", 10 * time.Second, 5, 4, ptr(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, estimateRemaining(tt.elapsed, tt.step, tt.total))
		})
	}
}

func ptr(v int64) *int64 { return &v }

func TestMultiReporter(t *testing.T) {
	var order []string
	first := ProgressFunc(func(s model.ProgressState) { order = append(order, "first:"+s.Action) })
	second := ProgressFunc(func(s model.ProgressState) { order = append(order, "second:"+s.Action) })

	MultiReporter{first, nil, second}.OnProgress(model.ProgressState{Action: "x"})

	assert.Equal(t, []string{"first:x", "second:x"}, order)
}

func TestTrackerWithoutReporter(t *testing.T) {
	tr := newProgressTracker(context.Background(), nil, model.PhaseInterviews, 2, time.Now)
	require.NotPanics(t, func() {
		tr.emit(0, "start", "")
		tr.complete("done")
	})
}

func TestRunIDFrom(t *testing.T) {
	assert.Empty(t, RunIDFrom(context.Background()))
	assert.Equal(t, "r1", RunIDFrom(WithRunID(context.Background(), "r1")))
}
