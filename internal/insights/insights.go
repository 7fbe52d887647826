// Package insights rolls per-persona evaluations of one concept up into
// per-KPI, per-segment business insights.
package insights

import (
	"math"
	"sort"

	"conceptlab/internal/model"
	"conceptlab/internal/textrules"
)

const (
	highThreshold = 7.0
	lowThreshold  = 4.0
	midThreshold  = 5.0
	topMentions   = 3
)

// Input pairs an evaluation with the persona that produced it
type Input struct {
	Persona    model.Persona
	Evaluation model.Evaluation
}

// Aggregator builds ConceptInsights using a metric keyword table to filter
// drivers and barriers
type Aggregator struct {
	keywords textrules.Table
}

// New creates an aggregator with the given metric keyword table
func New(keywords textrules.Table) *Aggregator {
	return &Aggregator{keywords: keywords}
}

var defaultAggregator = New(textrules.MetricKeywords)

// Aggregate uses the default metric keywords
func Aggregate(c *model.Concept, inputs []Input) model.ConceptInsights {
	return defaultAggregator.Aggregate(c, inputs)
}

// Aggregate is pure: the same inputs always produce the same insights
func (a *Aggregator) Aggregate(c *model.Concept, inputs []Input) model.ConceptInsights {
	out := model.ConceptInsights{
		SampleSize: len(inputs),
		KPIs:       make([]model.KPIInsight, 0, len(model.Metrics)),
		Overall: model.OverallPerformance{
			Strengths:  []model.Metric{},
			Weaknesses: []model.Metric{},
		},
	}
	if c != nil {
		out.ConceptID = c.ID
		out.ConceptName = c.Name
	}

	segments := partition(inputs)
	means := make(map[model.Metric]float64, len(model.Metrics))
	var total float64

	for _, m := range model.Metrics {
		kpi := a.kpi(m, inputs, segments)
		out.KPIs = append(out.KPIs, kpi)
		means[m] = kpi.Mean
		total += kpi.Mean

		if len(inputs) == 0 {
			continue
		}
		switch {
		case kpi.Mean >= highThreshold:
			out.Overall.Strengths = append(out.Overall.Strengths, m)
		case kpi.Mean <= lowThreshold:
			out.Overall.Weaknesses = append(out.Overall.Weaknesses, m)
		}
	}

	out.Overall.Score = round1(total / float64(len(model.Metrics)))
	out.MarketOpportunity = level(means[model.MetricPurchaseIntention])
	out.Readiness = level(round1((means[model.MetricBelievability] + means[model.MetricRelevance]) / 2))
	return out
}

func (a *Aggregator) kpi(m model.Metric, inputs []Input, segments []segment) model.KPIInsight {
	scores := make([]float64, 0, len(inputs))
	var highLikes, lowConcerns []string
	for _, in := range inputs {
		v := in.Evaluation.Scores.Get(m)
		scores = append(scores, v)
		if v >= highThreshold {
			highLikes = append(highLikes, in.Evaluation.Feedback.Likes...)
		}
		if v <= lowThreshold {
			lowConcerns = append(lowConcerns, in.Evaluation.Feedback.Concerns...)
		}
	}

	keywords := a.keywords.Keywords(string(m))
	kpi := model.KPIInsight{
		Metric:   m,
		Mean:     mean(scores),
		Segments: make([]model.SegmentBreakdown, 0, len(segments)),
		Drivers:  rank(filter(highLikes, keywords), topMentions),
		Barriers: rank(filter(lowConcerns, keywords), topMentions),
	}
	kpi.Trend = trend(kpi.Mean, len(inputs))

	for _, seg := range segments {
		segScores := make([]float64, 0, len(seg.members))
		var mentions []string
		for _, in := range seg.members {
			segScores = append(segScores, in.Evaluation.Scores.Get(m))
			mentions = append(mentions, in.Evaluation.Feedback.Likes...)
			mentions = append(mentions, in.Evaluation.Feedback.Concerns...)
		}
		kpi.Segments = append(kpi.Segments, model.SegmentBreakdown{
			Segment:     seg.name,
			Count:       len(seg.members),
			Mean:        mean(segScores),
			TopMentions: rank(mentions, topMentions),
		})
	}

	kpi.BusinessImplications = implications(m, kpi.Mean, len(inputs))
	kpi.Recommendations = recommendations(m, kpi.Mean, len(inputs), kpi.Drivers, kpi.Barriers)
	return kpi
}

func trend(mean float64, n int) model.Trend {
	switch {
	case n == 0:
		return model.TrendNeutral
	case mean >= highThreshold:
		return model.TrendPositive
	case mean <= lowThreshold:
		return model.TrendNegative
	}
	return model.TrendNeutral
}

func level(v float64) model.Level {
	switch {
	case v >= highThreshold:
		return model.LevelHigh
	case v >= midThreshold:
		return model.LevelMedium
	}
	return model.LevelLow
}

// mean is rounded to one decimal; an empty set has mean 0
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return round1(sum / float64(len(values)))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// filter keeps phrases that mention at least one keyword
func filter(phrases, keywords []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if textrules.ContainsAny(p, keywords) {
			out = append(out, p)
		}
	}
	return out
}

// rank returns up to n phrases by descending frequency, ties in first-seen order
func rank(phrases []string, n int) []string {
	counts := make(map[string]int, len(phrases))
	order := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if counts[p] == 0 {
			order = append(order, p)
		}
		counts[p]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}
