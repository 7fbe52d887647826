package service

import (
	"fmt"
	"strings"

	"conceptlab/internal/model"
)

const (
	fallbackConfidence = 40
	maxQuotes          = 3
)

// transcriptHits counts transcripts whose responses match at least one rule of each table
type transcriptHits struct {
	priceResistance []int // transcript indexes
	complaints      []int
}

func (s *ConsolidationService) scan(res *model.InterviewsResult) transcriptHits {
	var hits transcriptHits
	for i := range res.Transcripts {
		text := res.Transcripts[i].Responses()
		if s.priceResistance.Matches(text) {
			hits.priceResistance = append(hits.priceResistance, i)
		}
		if s.complaints.Matches(text) {
			hits.complaints = append(hits.complaints, i)
		}
	}
	return hits
}

// negative returns the transcripts that raised price or complaint keywords
func (h transcriptHits) negative() int {
	seen := make(map[int]bool, len(h.priceResistance)+len(h.complaints))
	for _, i := range h.priceResistance {
		seen[i] = true
	}
	for _, i := range h.complaints {
		seen[i] = true
	}
	return len(seen)
}

// fallbackReport builds an evidence-light report from the transcripts alone
func (s *ConsolidationService) fallbackReport(res *model.InterviewsResult, cause error) *model.ConsolidatedReport {
	n := len(res.Transcripts)
	hits := s.scan(res)
	negative := hits.negative()

	rec := model.RecommendationGo
	if negative*2 >= n {
		rec = model.RecommendationRefine
	}

	positive := quotesByTone(res, model.ToneEnthusiastic, model.TonePositive)
	critical := quotesByTone(res, model.ToneNegative, model.ToneSkeptical, model.ToneCautious)

	report := &model.ConsolidatedReport{
		Source:         model.SourceFallback,
		FallbackReason: cause.Error(),
		Decision: model.Decision{
			Recommendation: rec,
			Confidence:     fallbackConfidence,
			Reasoning: fmt.Sprintf("Automated analysis was unavailable. %d of %d interviews raised price or complaint concerns (%d on price).",
				negative, n, len(hits.priceResistance)),
			NextSteps: []string{
				"Review the interview transcripts manually",
				"Re-run the consolidation when the analysis service is available",
			},
		},
		Insights: []model.Insight{},
		KeyFindings: model.KeyFindings{
			StrengthPoints:     quoteTexts(positive),
			WeaknessPoints:     quoteTexts(critical),
			SurprisingFindings: []string{},
		},
		TargetOptimization: model.TargetOptimization{
			Messaging:   []string{},
			Positioning: []string{},
			Features:    []string{},
			Pricing:     []string{},
		},
		ResearchRecommendations: model.ResearchRecommendations{
			MustValidate: []string{"Validate the decision with a quantitative test"},
			Segments:     []string{},
			Methodology:  []string{"Repeat the consolidation with the full analysis"},
		},
	}
	if rec == model.RecommendationRefine {
		report.Decision.NextSteps = append(report.Decision.NextSteps, "Address the price and product concerns before launch")
	}
	if len(hits.complaints) > 0 {
		report.Insights = append(report.Insights, model.Insight{
			Category:    "product",
			Title:       "Recurring complaints",
			Description: fmt.Sprintf("%d of %d personas voiced complaints about the concept", len(hits.complaints), n),
			Evidence:    evidence(res, hits.complaints),
			ActionItems: []string{"Probe the complaints in follow-up interviews"},
			Impact:      string(model.LevelMedium),
		})
	}
	return report
}

// enrich adds the price-resistance insight when more than 40% of transcripts raise it
func (s *ConsolidationService) enrich(report *model.ConsolidatedReport, res *model.InterviewsResult) {
	n := len(res.Transcripts)
	hits := s.scan(res).priceResistance
	if n == 0 || float64(len(hits))/float64(n) <= priceResistanceShare {
		return
	}
	report.Insights = append(report.Insights, model.Insight{
		Category:    "pricing",
		Title:       "Price resistance",
		Description: fmt.Sprintf("%d of %d personas (%.0f%%) pushed back on price", len(hits), n, float64(len(hits))*100/float64(n)),
		Evidence:    evidence(res, hits),
		ActionItems: []string{"Test a lower price point or a smaller pack size", "Reinforce the value message"},
		Impact:      string(model.LevelHigh),
		AutoDerived: true,
	})
}

func quotesByTone(res *model.InterviewsResult, tones ...model.Tone) []model.Quote {
	quotes := []model.Quote{}
	for _, t := range res.Transcripts {
		for _, ex := range t.Exchanges {
			if len(quotes) == maxQuotes {
				return quotes
			}
			for _, tone := range tones {
				if ex.Tone == tone && ex.Response != "" {
					quotes = append(quotes, model.Quote{PersonaName: t.PersonaName, Text: ex.Response})
					break
				}
			}
		}
	}
	return quotes
}

func quoteTexts(quotes []model.Quote) []string {
	out := make([]string, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, fmt.Sprintf("%s: %q", q.PersonaName, q.Text))
	}
	return out
}

// evidence quotes the first response of each listed transcript
func evidence(res *model.InterviewsResult, idx []int) []string {
	out := make([]string, 0, maxQuotes)
	for _, i := range idx {
		if len(out) == maxQuotes {
			break
		}
		t := res.Transcripts[i]
		if len(t.Exchanges) == 0 {
			continue
		}
		out = append(out, fmt.Sprintf("%s: %q", t.PersonaName, t.Exchanges[0].Response))
	}
	return out
}

// buildSections projects a report into its named sections, always in the same order
func buildSections(r *model.ConsolidatedReport, res *model.InterviewsResult) []model.ReportSection {
	insightTitles := make([]string, 0, len(r.Insights))
	actions := []string{}
	for _, in := range r.Insights {
		insightTitles = append(insightTitles, in.Title)
		actions = append(actions, in.ActionItems...)
	}
	opt := r.TargetOptimization
	var optimization []string
	for _, group := range [][]string{opt.Messaging, opt.Positioning, opt.Features, opt.Pricing} {
		optimization = append(optimization, group...)
	}
	rr := r.ResearchRecommendations

	return []model.ReportSection{
		{
			Key:         "executive_summary",
			Title:       "Executive summary",
			Content:     fmt.Sprintf("%s with %d%% confidence. %s", r.Decision.Recommendation, r.Decision.Confidence, r.Decision.Reasoning),
			KeyInsights: []string{},
			Quotes:      quotesByTone(res, model.ToneEnthusiastic, model.TonePositive, model.ToneNeutral),
			Takeaways:   nonNil(r.Decision.NextSteps),
		},
		{
			Key:         "key_findings",
			Title:       "Key findings",
			Content:     fmt.Sprintf("%d strengths, %d weaknesses, %d surprises", len(r.KeyFindings.StrengthPoints), len(r.KeyFindings.WeaknessPoints), len(r.KeyFindings.SurprisingFindings)),
			KeyInsights: nonNil(append(append([]string{}, r.KeyFindings.StrengthPoints...), r.KeyFindings.WeaknessPoints...)),
			Quotes:      quotesByTone(res, model.ToneNegative, model.ToneSkeptical, model.ToneCautious),
			Takeaways:   nonNil(r.KeyFindings.SurprisingFindings),
		},
		{
			Key:         "insights",
			Title:       "Insights",
			Content:     strings.Join(insightTitles, "; "),
			KeyInsights: insightTitles,
			Quotes:      []model.Quote{},
			Takeaways:   actions,
		},
		{
			Key:         "optimization",
			Title:       "Target optimization",
			Content:     fmt.Sprintf("%d suggestions across messaging, positioning, features and pricing", len(optimization)),
			KeyInsights: nonNil(optimization),
			Quotes:      []model.Quote{},
			Takeaways:   nonNil(opt.Pricing),
		},
		{
			Key:         "research",
			Title:       "Research recommendations",
			Content:     strings.Join(rr.Methodology, "; "),
			KeyInsights: nonNil(rr.MustValidate),
			Quotes:      []model.Quote{},
			Takeaways:   nonNil(rr.Segments),
		},
	}
}
