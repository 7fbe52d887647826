// Package feedback derives a persona's narrative reaction to a concept from
// its ethnographic profile. Output is deterministic: phrases are chosen from
// the persona's own language banks by hashing persona, concept and rule.
package feedback

import (
	"fmt"
	"hash/fnv"
	"strings"

	"conceptlab/internal/model"
	"conceptlab/internal/scoring"
	"conceptlab/internal/textrules"
)

// NeutralReaction is used when the persona has no profile to react from
const NeutralReaction = "neutral: no strong emotional reaction"

type listKind int

const (
	like listKind = iota
	concern
	suggestion
)

// input is what every rule sees
type input struct {
	persona *model.Persona
	concept *model.Concept
	profile model.EthnographicProfile
	scores  model.Scores
	text    string
}

type rule struct {
	name  string
	kind  listKind
	apply func(g *Generator, in *input) (string, bool)
}

// Generator produces feedback and full evaluations
type Generator struct {
	scorer     *scoring.Model
	novelty    textrules.Table
	identity   textrules.Table
	timeEffort textrules.Table
}

// New creates a generator with the default scoring model and rule tables
func New() *Generator {
	return &Generator{
		scorer:     scoring.NewModel(),
		novelty:    textrules.Novelty,
		identity:   textrules.Identity,
		timeEffort: textrules.TimeEffort,
	}
}

// WithScorer replaces the scoring model used by Evaluate
func (g *Generator) WithScorer(m *scoring.Model) *Generator {
	g.scorer = m
	return g
}

var defaultGenerator = New()

// Generate builds feedback with the default generator
func Generate(p *model.Persona, c *model.Concept, s model.Scores) model.Feedback {
	return defaultGenerator.Generate(p, c, s)
}

// Evaluate scores and builds feedback with the default generator
func Evaluate(p *model.Persona, c *model.Concept) model.Evaluation {
	return defaultGenerator.Evaluate(p, c)
}

// Generate runs the rule chain in priority order. A persona without an
// ethnographic profile gets empty lists and the neutral reaction.
func (g *Generator) Generate(p *model.Persona, c *model.Concept, s model.Scores) model.Feedback {
	fb := model.Feedback{
		Likes:             []string{},
		Concerns:          []string{},
		Suggestions:       []string{},
		EmotionalReaction: NeutralReaction,
	}
	if p == nil || c == nil || p.Ethnography == nil {
		return fb
	}

	in := &input{persona: p, concept: c, profile: *p.Ethnography, scores: s, text: c.Text()}
	for _, r := range chain {
		phrase, ok := r.apply(g, in)
		if !ok || phrase == "" {
			continue
		}
		switch r.kind {
		case like:
			fb.Likes = append(fb.Likes, phrase)
		case concern:
			fb.Concerns = append(fb.Concerns, phrase)
		case suggestion:
			fb.Suggestions = append(fb.Suggestions, phrase)
		}
	}
	fb.EmotionalReaction = g.reaction(in)
	return fb
}

// Evaluate scores the pair and attaches feedback and demographic context
func (g *Generator) Evaluate(p *model.Persona, c *model.Concept) model.Evaluation {
	s := g.scorer.Score(p, c)
	ev := model.Evaluation{
		Scores:   s,
		Feedback: g.Generate(p, c, s),
	}
	if p != nil {
		ev.PersonaID = p.ID
	}
	if c != nil {
		ev.ConceptID = c.ID
		ev.Context = demographicContext(p, c, s)
	}
	return ev
}

// reaction is the emotional cascade: identity, price guilt, caution, cultural fallback
func (g *Generator) reaction(in *input) string {
	prof := in.profile
	if g.identity.Matches(prof.IdentityRelationship) && in.scores.Appeal >= 6 {
		return withPhrase("This speaks to who I am", pick(prof.AuthenticLanguage.Satisfaction, in, "reaction"))
	}
	if len(prof.EmotionalTriggers.PriceGuilt) > 0 && in.concept.PriceTier.IsPremium() {
		return fmt.Sprintf("I would feel guilty paying that much (%s)", prof.EmotionalTriggers.PriceGuilt[0])
	}
	for _, src := range prof.ChangeResistance.RiskAversion {
		if g.timeEffort.Matches(src) {
			return "Cautious: I would wait and see, I cannot spend time on something that might not work"
		}
	}
	if phrase := pick(prof.AuthenticLanguage.Cultural, in, "reaction"); phrase != "" {
		return fmt.Sprintf("As we say, %q", phrase)
	}
	return NeutralReaction
}

// pick chooses a phrase from bank stably for the persona, concept and rule
func pick(bank []string, in *input, rule string) string {
	if len(bank) == 0 {
		return ""
	}
	h := fnv.New32a()
	h.Write([]byte(in.persona.ID))
	h.Write([]byte{0})
	h.Write([]byte(in.concept.ID))
	h.Write([]byte{0})
	h.Write([]byte(rule))
	return strings.TrimSpace(bank[h.Sum32()%uint32(len(bank))])
}

func withPhrase(base, phrase string) string {
	if phrase == "" {
		return base
	}
	return base + ", " + phrase
}
