package model

import "time"

// RunStatus is the lifecycle state of a two-phase evaluation run
type RunStatus string

const (
	RunStatusPending       RunStatus = "pending"
	RunStatusInterviewing  RunStatus = "interviewing"
	RunStatusConsolidating RunStatus = "consolidating"
	RunStatusCompleted     RunStatus = "completed"
	RunStatusFailed        RunStatus = "failed"
)

// Run is the persisted record of one interview + consolidation run
type Run struct {
	ID          string     `json:"id" bson:"_id"`
	ConceptID   string     `json:"conceptId" bson:"conceptId"`
	PersonaIDs  []string   `json:"personaIds" bson:"personaIds"`
	AnalystID   string     `json:"analystId" bson:"analystId"`
	Status      RunStatus  `json:"status" bson:"status"`
	Error       string     `json:"error,omitempty" bson:"error,omitempty"`
	Fallback    bool       `json:"fallback" bson:"fallback"` // report was built locally
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}
