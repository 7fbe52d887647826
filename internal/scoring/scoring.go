// Package scoring maps a (persona, concept) pair to the five bounded KPI scores.
//
// Every metric starts at the neutral baseline and receives a list of additive
// adjustments. Adjustments are kept in hundredths of a point so their sum is
// exact and does not depend on rule order. Clamping and rounding happen once,
// after all rules have run.
package scoring

import (
	"conceptlab/internal/model"
	"conceptlab/internal/textrules"
)

const (
	baseline = 500 // 5.0
	minScore = 100
	maxScore = 1000

	// priceUnit scales tier weight × sensitivity into hundredths (0.15 per unit)
	priceUnit = 15
)

// Delta is a per-metric adjustment in hundredths of a point
type Delta struct {
	Appeal            int
	Relevance         int
	Believability     int
	Uniqueness        int
	PurchaseIntention int
}

// Add returns the metric-wise sum of d and o
func (d Delta) Add(o Delta) Delta {
	return Delta{
		Appeal:            d.Appeal + o.Appeal,
		Relevance:         d.Relevance + o.Relevance,
		Believability:     d.Believability + o.Believability,
		Uniqueness:        d.Uniqueness + o.Uniqueness,
		PurchaseIntention: d.PurchaseIntention + o.PurchaseIntention,
	}
}

// Rule is one named adjustment keyed off persona and concept attributes
type Rule struct {
	Name  string
	Apply func(p *model.Persona, c *model.Concept) Delta
}

// Model scores personas against concepts with an ordered rule list
type Model struct {
	rules []Rule
}

// NewModel creates a model with the given rules, or the default rules when none are given
func NewModel(rules ...Rule) *Model {
	if len(rules) == 0 {
		rules = DefaultRules(textrules.Climate)
	}
	return &Model{rules: rules}
}

// Rules returns a copy of the model's rules in application order
func (m *Model) Rules() []Rule {
	return append([]Rule(nil), m.rules...)
}

// Adjustments returns the summed raw delta before clamping
func (m *Model) Adjustments(p *model.Persona, c *model.Concept) Delta {
	var total Delta
	if p == nil || c == nil {
		return total
	}
	for _, r := range m.rules {
		total = total.Add(r.Apply(p, c))
	}
	return total
}

// Score returns the clamped, one-decimal scores for p reacting to c.
// It never fails; nil inputs score at the baseline.
func (m *Model) Score(p *model.Persona, c *model.Concept) model.Scores {
	d := m.Adjustments(p, c)
	return model.Scores{
		Appeal:            finalize(d.Appeal),
		Relevance:         finalize(d.Relevance),
		Believability:     finalize(d.Believability),
		Uniqueness:        finalize(d.Uniqueness),
		PurchaseIntention: finalize(d.PurchaseIntention),
	}
}

var defaultModel = NewModel()

// Score scores with the default rule set
func Score(p *model.Persona, c *model.Concept) model.Scores {
	return defaultModel.Score(p, c)
}

// finalize clamps baseline+delta to [1,10] and rounds half up to one decimal
func finalize(delta int) float64 {
	v := baseline + delta
	if v < minScore {
		v = minScore
	}
	if v > maxScore {
		v = maxScore
	}
	tenths := (v + 5) / 10
	return float64(tenths) / 10
}
