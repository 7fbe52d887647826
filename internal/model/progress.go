package model

import "time"

// Phase of a two-phase evaluation run
type Phase string

const (
	PhaseInterviews    Phase = "interviews"
	PhaseConsolidation Phase = "consolidation"
	PhaseCompleted     Phase = "completed"
)

// ProgressState is the transient progress of a running phase. It is not persisted
// beyond the latest snapshot kept for polling.
type ProgressState struct {
	RunID              string `json:"runId,omitempty"`
	Phase              Phase  `json:"phase"`
	Step               int    `json:"step"`
	Total              int    `json:"total"`
	Action             string `json:"action"`
	PersonaName        string `json:"personaName,omitempty"`
	ElapsedMS          int64  `json:"elapsedMs"`
	EstimatedRemaining *int64 `json:"estimatedRemainingMs,omitempty"` // milliseconds, absent before the first step
}

// ElapsedDuration returns the elapsed time as a duration
func (s ProgressState) ElapsedDuration() time.Duration {
	return time.Duration(s.ElapsedMS) * time.Millisecond
}
