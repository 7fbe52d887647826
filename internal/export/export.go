// Package export writes consolidated reports to a data file or a readable text report.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"conceptlab/internal/model"
)

// WriteJSON writes the report as one indented JSON object
func WriteJSON(w io.Writer, report *model.ConsolidatedReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// ReadJSON reads a report written by WriteJSON
func ReadJSON(r io.Reader) (*model.ConsolidatedReport, error) {
	var report model.ConsolidatedReport
	if err := json.NewDecoder(r).Decode(&report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &report, nil
}

// WriteText writes the human-readable report. Section order is fixed:
// decision, key findings, insights, optimization, research.
func WriteText(w io.Writer, report *model.ConsolidatedReport) error {
	tw := &textWriter{w: w}

	tw.heading(fmt.Sprintf("CONCEPT EVALUATION REPORT: %s", report.ConceptName))
	tw.line("Generated: %s", report.GeneratedAt.Format("2006-01-02 15:04 MST"))
	tw.line("Interviews: %d", report.TranscriptCount)
	if report.IsFallback() {
		tw.line("NOTE: automated analysis unavailable, locally built report (%s)", report.FallbackReason)
	}
	tw.blank()

	d := report.Decision
	tw.line("RECOMMENDATION: %s", d.Recommendation)
	tw.line("CONFIDENCE: %d%%", d.Confidence)
	tw.blank()
	tw.section("REASONING")
	tw.line("%s", d.Reasoning)
	tw.blank()
	tw.list("NEXT STEPS", d.NextSteps)

	tw.heading("KEY FINDINGS")
	tw.list("Strengths", report.KeyFindings.StrengthPoints)
	tw.list("Weaknesses", report.KeyFindings.WeaknessPoints)
	tw.list("Surprising findings", report.KeyFindings.SurprisingFindings)

	tw.heading("INSIGHTS")
	for i, in := range report.Insights {
		tw.line("%d. [%s] %s (impact: %s)", i+1, strings.ToUpper(in.Category), in.Title, in.Impact)
		if in.Description != "" {
			tw.line("   %s", in.Description)
		}
		tw.indented("Evidence", in.Evidence)
		tw.indented("Action items", in.ActionItems)
		tw.blank()
	}

	tw.heading("TARGET OPTIMIZATION")
	tw.table([]row{
		{"Messaging", report.TargetOptimization.Messaging},
		{"Positioning", report.TargetOptimization.Positioning},
		{"Features", report.TargetOptimization.Features},
		{"Pricing", report.TargetOptimization.Pricing},
	})

	tw.heading("RESEARCH RECOMMENDATIONS")
	tw.list("Must validate", report.ResearchRecommendations.MustValidate)
	tw.list("Segments", report.ResearchRecommendations.Segments)
	tw.list("Methodology", report.ResearchRecommendations.Methodology)

	return tw.err
}

type row struct {
	label string
	items []string
}

// textWriter keeps the first write error so callers check once
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) line(format string, args ...interface{}) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format+"\n", args...)
}

func (t *textWriter) blank() { t.line("") }

func (t *textWriter) heading(title string) {
	t.line("%s", strings.Repeat("=", 60))
	t.line("%s", title)
	t.line("%s", strings.Repeat("=", 60))
}

func (t *textWriter) section(title string) {
	t.line("%s", title)
	t.line("%s", strings.Repeat("-", len(title)))
}

func (t *textWriter) list(title string, items []string) {
	t.section(title)
	if len(items) == 0 {
		t.line("  (none)")
	}
	for _, item := range items {
		t.line("  - %s", item)
	}
	t.blank()
}

func (t *textWriter) indented(title string, items []string) {
	if len(items) == 0 {
		return
	}
	t.line("   %s:", title)
	for _, item := range items {
		t.line("     - %s", item)
	}
}

func (t *textWriter) table(rows []row) {
	if t.err != nil {
		return
	}
	tab := tabwriter.NewWriter(t.w, 0, 4, 2, ' ', 0)
	for _, r := range rows {
		if len(r.items) == 0 {
			fmt.Fprintf(tab, "%s\t(none)\n", r.label)
			continue
		}
		for i, item := range r.items {
			label := r.label
			if i > 0 {
				label = ""
			}
			fmt.Fprintf(tab, "%s\t%s\n", label, item)
		}
	}
	t.err = tab.Flush()
	t.blank()
}
