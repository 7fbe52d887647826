package model

import (
	"strings"
	"time"
)

// Recommendation is the canonical three-state decision of a consolidated report
type Recommendation string

const (
	RecommendationGo     Recommendation = "GO"
	RecommendationRefine Recommendation = "REFINE"
	RecommendationNoGo   Recommendation = "NO_GO"
)

// ParseRecommendation maps the spellings used by the external collaborator and
// older reporting paths onto the canonical enum
func ParseRecommendation(s string) (Recommendation, bool) {
	switch strings.ToUpper(strings.TrimSpace(strings.ReplaceAll(s, " ", "_"))) {
	case "GO", "PROCEED", "PROCEDER":
		return RecommendationGo, true
	case "REFINE", "REFINAR":
		return RecommendationRefine, true
	case "NO_GO", "NO-GO", "NOGO", "DISCARD", "DESCARTAR":
		return RecommendationNoGo, true
	}
	return "", false
}

// ReportSource tags how a consolidated report was produced
type ReportSource string

const (
	SourceGenerated ReportSource = "generated"
	SourceFallback  ReportSource = "fallback"
)

// Decision is the executive verdict of a report
type Decision struct {
	Recommendation Recommendation `json:"recommendation" bson:"recommendation"`
	Confidence     int            `json:"confidence" bson:"confidence"` // 0-100
	Reasoning      string         `json:"reasoning" bson:"reasoning"`
	NextSteps      []string       `json:"nextSteps" bson:"nextSteps"`
}

// Insight is one analytical finding with its evidence
type Insight struct {
	Category    string   `json:"category" bson:"category"`
	Title       string   `json:"title" bson:"title"`
	Description string   `json:"description" bson:"description"`
	Evidence    []string `json:"evidence" bson:"evidence"`
	ActionItems []string `json:"actionItems" bson:"actionItems"`
	Impact      string   `json:"impact" bson:"impact"` // high, medium, low
	AutoDerived bool     `json:"autoDerived,omitempty" bson:"autoDerived,omitempty"`
}

// KeyFindings splits the panel reaction into strengths, weaknesses and surprises
type KeyFindings struct {
	StrengthPoints     []string `json:"strengthPoints" bson:"strengthPoints"`
	WeaknessPoints     []string `json:"weaknessPoints" bson:"weaknessPoints"`
	SurprisingFindings []string `json:"surprisingFindings" bson:"surprisingFindings"`
}

// TargetOptimization are targeted suggestions per marketing lever
type TargetOptimization struct {
	Messaging   []string `json:"messaging" bson:"messaging"`
	Positioning []string `json:"positioning" bson:"positioning"`
	Features    []string `json:"features" bson:"features"`
	Pricing     []string `json:"pricing" bson:"pricing"`
}

// ResearchRecommendations are suggested follow-up studies
type ResearchRecommendations struct {
	MustValidate []string `json:"mustValidate" bson:"mustValidate"`
	Segments     []string `json:"segments" bson:"segments"`
	Methodology  []string `json:"methodology" bson:"methodology"`
}

// Quote is a verbatim persona response used as supporting evidence
type Quote struct {
	PersonaName string `json:"personaName" bson:"personaName"`
	Text        string `json:"text" bson:"text"`
}

// ReportSection is one named narrative block of a report
type ReportSection struct {
	Key         string   `json:"key" bson:"key"`
	Title       string   `json:"title" bson:"title"`
	Content     string   `json:"content" bson:"content"`
	KeyInsights []string `json:"keyInsights" bson:"keyInsights"`
	Quotes      []Quote  `json:"quotes" bson:"quotes"`
	Takeaways   []string `json:"takeaways" bson:"takeaways"`
}

// ConsolidatedReport is the executive decision report for one concept run.
// Source distinguishes a collaborator-generated report from a locally built fallback.
type ConsolidatedReport struct {
	RunID                   string                  `json:"runId" bson:"_id"`
	ConceptID               string                  `json:"conceptId" bson:"conceptId"`
	ConceptName             string                  `json:"conceptName" bson:"conceptName"`
	Source                  ReportSource            `json:"source" bson:"source"`
	FallbackReason          string                  `json:"fallbackReason,omitempty" bson:"fallbackReason,omitempty"`
	Decision                Decision                `json:"decision" bson:"decision"`
	Insights                []Insight               `json:"insights" bson:"insights"`
	KeyFindings             KeyFindings             `json:"keyFindings" bson:"keyFindings"`
	TargetOptimization      TargetOptimization      `json:"targetOptimization" bson:"targetOptimization"`
	ResearchRecommendations ResearchRecommendations `json:"researchRecommendations" bson:"researchRecommendations"`
	Sections                []ReportSection         `json:"sections" bson:"sections"`
	TranscriptCount         int                     `json:"transcriptCount" bson:"transcriptCount"`
	GeneratedAt             time.Time               `json:"generatedAt" bson:"generatedAt"`
}

// IsFallback reports whether the report was synthesized locally
func (r *ConsolidatedReport) IsFallback() bool {
	return r.Source == SourceFallback
}
