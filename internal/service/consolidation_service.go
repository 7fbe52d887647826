package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"conceptlab/internal/llm"
	"conceptlab/internal/logging"
	"conceptlab/internal/model"
	"conceptlab/internal/textrules"

	"github.com/sirupsen/logrus"
)

const (
	consolidationSteps = 5

	// priceResistanceShare is the share of transcripts above which a
	// price-resistance insight is added to every report
	priceResistanceShare = 0.4
)

var requiredReportFields = []string{"decision", "insights", "keyFindings", "targetOptimization", "researchRecommendations"}

// ConsolidationService runs Phase 2: one collaborator call that turns all
// transcripts into a decision report, with a local fallback
type ConsolidationService struct {
	llm             llm.Client
	priceResistance textrules.Table
	complaints      textrules.Table
	reporter        ProgressReporter
	now             func() time.Time
	log             *logrus.Entry
}

// NewConsolidationService creates the Phase 2 engine. A nil client always
// produces the fallback report.
func NewConsolidationService(client llm.Client) *ConsolidationService {
	return &ConsolidationService{
		llm:             client,
		priceResistance: textrules.PriceResistance,
		complaints:      textrules.Complaints,
		now:             time.Now,
		log:             logging.For("consolidation"),
	}
}

// SetReporter sets the progress observer
func (s *ConsolidationService) SetReporter(r ProgressReporter) {
	s.reporter = r
}

// SetRules swaps the price-resistance and complaint tables
func (s *ConsolidationService) SetRules(priceResistance, complaints textrules.Table) {
	s.priceResistance = priceResistance
	s.complaints = complaints
}

// RunAnalysis consolidates Phase 1 output into one report. It fails only on
// invalid input; collaborator and format failures yield a fallback report.
func (s *ConsolidationService) RunAnalysis(ctx context.Context, res *model.InterviewsResult) (*model.ConsolidatedReport, error) {
	if res == nil || len(res.Transcripts) == 0 {
		return nil, &model.ValidationError{Field: "transcripts", Reason: "at least one interview transcript is required"}
	}

	log := s.log.WithFields(logrus.Fields{
		logging.FieldRunID:     RunIDFrom(ctx),
		logging.FieldConceptID: res.Concept.ID,
	})
	tracker := newProgressTracker(ctx, s.reporter, model.PhaseConsolidation, consolidationSteps, s.now)

	tracker.emit(0, "building consolidation prompt", "")
	prompt := s.buildConsolidationPrompt(res)
	tracker.emit(1, "prompt built, calling analysis service", "")

	report, err := s.generate(ctx, prompt)
	tracker.emit(2, "analysis call finished", "")

	if err != nil {
		log.WithError(err).Warn("[Consolidation] using fallback report")
		report = s.fallbackReport(res, err)
		tracker.emit(3, "fallback report built", "")
	} else {
		report.Source = model.SourceGenerated
		tracker.emit(3, "response parsed", "")
	}

	report.RunID = RunIDFrom(ctx)
	report.ConceptID = res.Concept.ID
	report.ConceptName = res.Concept.Name
	report.TranscriptCount = len(res.Transcripts)
	report.GeneratedAt = s.now().UTC()

	s.enrich(report, res)
	report.Sections = buildSections(report, res)
	tracker.emit(4, "enrichment applied", "")

	tracker.complete("report ready")
	log.Infof("[Consolidation] %s report: %s (confidence %d)", report.Source, report.Decision.Recommendation, report.Decision.Confidence)
	return report, nil
}

func (s *ConsolidationService) generate(ctx context.Context, prompt string) (*model.ConsolidatedReport, error) {
	if s.llm == nil {
		return nil, errors.New("analysis service not configured")
	}
	raw, err := s.llm.Generate(ctx, llm.Request{
		Purpose: llm.PurposeConsolidation,
		Prompt:  prompt,
		JSON:    true,
	})
	if err != nil {
		return nil, err
	}
	return parseReport(raw)
}

// reportPayload mirrors the JSON contract of the consolidation prompt
type reportPayload struct {
	Decision struct {
		Recommendation string   `json:"recommendation"`
		Confidence     float64  `json:"confidence"`
		Reasoning      string   `json:"reasoning"`
		NextSteps      []string `json:"nextSteps"`
	} `json:"decision"`
	Insights                []model.Insight               `json:"insights"`
	KeyFindings             model.KeyFindings             `json:"keyFindings"`
	TargetOptimization      model.TargetOptimization      `json:"targetOptimization"`
	ResearchRecommendations model.ResearchRecommendations `json:"researchRecommendations"`
}

// parseReport treats raw as untrusted. Every required field must be present
// and enum and range values are checked.
func parseReport(raw string) (*model.ConsolidatedReport, error) {
	body := extractObject(raw)
	if body == "" {
		return nil, &ResponseFormatError{Reason: "empty response"}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return nil, &ResponseFormatError{Reason: "not a JSON object", Err: err}
	}
	for _, name := range requiredReportFields {
		v, ok := fields[name]
		if !ok || string(v) == "null" {
			return nil, &ResponseFormatError{Reason: fmt.Sprintf("missing field %q", name)}
		}
	}

	var payload reportPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, &ResponseFormatError{Reason: "unexpected field types", Err: err}
	}

	rec, ok := model.ParseRecommendation(payload.Decision.Recommendation)
	if !ok {
		return nil, &ResponseFormatError{Reason: fmt.Sprintf("invalid recommendation %q", payload.Decision.Recommendation)}
	}
	confidence := payload.Decision.Confidence
	if confidence > 0 && confidence < 1 {
		confidence *= 100 // fraction instead of percentage
	}
	if confidence < 0 || confidence > 100 {
		return nil, &ResponseFormatError{Reason: fmt.Sprintf("confidence %v out of range", payload.Decision.Confidence)}
	}
	if strings.TrimSpace(payload.Decision.Reasoning) == "" {
		return nil, &ResponseFormatError{Reason: "missing decision reasoning"}
	}

	report := &model.ConsolidatedReport{
		Decision: model.Decision{
			Recommendation: rec,
			Confidence:     int(math.Round(confidence)),
			Reasoning:      payload.Decision.Reasoning,
			NextSteps:      nonNil(payload.Decision.NextSteps),
		},
		Insights:                payload.Insights,
		KeyFindings:             payload.KeyFindings,
		TargetOptimization:      payload.TargetOptimization,
		ResearchRecommendations: payload.ResearchRecommendations,
	}
	normalize(report)
	return report, nil
}

// extractObject returns the JSON object in raw. A ``` or ```json fence may
// appear anywhere, and prose before or after the object is dropped.
func extractObject(raw string) string {
	s := strings.TrimSpace(raw)
	if start := strings.Index(s, "```"); start >= 0 {
		s = s[start+3:]
		if nl := strings.Index(s, "\n"); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "json")
		}
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
	}
	if open, end := strings.Index(s, "{"), strings.LastIndex(s, "}"); open >= 0 && end > open {
		s = s[open : end+1]
	}
	return strings.TrimSpace(s)
}

// normalize replaces nil slices so generated and fallback reports share one shape
func normalize(r *model.ConsolidatedReport) {
	r.Decision.NextSteps = nonNil(r.Decision.NextSteps)
	if r.Insights == nil {
		r.Insights = []model.Insight{}
	}
	for i := range r.Insights {
		r.Insights[i].Evidence = nonNil(r.Insights[i].Evidence)
		r.Insights[i].ActionItems = nonNil(r.Insights[i].ActionItems)
	}
	k := &r.KeyFindings
	k.StrengthPoints, k.WeaknessPoints, k.SurprisingFindings = nonNil(k.StrengthPoints), nonNil(k.WeaknessPoints), nonNil(k.SurprisingFindings)
	o := &r.TargetOptimization
	o.Messaging, o.Positioning, o.Features, o.Pricing = nonNil(o.Messaging), nonNil(o.Positioning), nonNil(o.Features), nonNil(o.Pricing)
	rr := &r.ResearchRecommendations
	rr.MustValidate, rr.Segments, rr.Methodology = nonNil(rr.MustValidate), nonNil(rr.Segments), nonNil(rr.Methodology)
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
