// Package panel builds synthetic persona panels and concept libraries for
// seeding and property tests.
package panel

import (
	"fmt"
	"strings"

	"conceptlab/internal/model"

	"github.com/brianvoe/gofakeit/v6"
)

var (
	tiers = []string{
		string(model.TierAB), string(model.TierCPlus), string(model.TierC), string(model.TierCMinus),
		string(model.TierDPlus), string(model.TierD), string(model.TierE),
	}
	climates   = []string{model.ClimateHotHumid, model.ClimateHotDry, model.ClimateTemperate, model.ClimateCold}
	attitudes  = []string{string(model.AttitudeEarlyAdopter), string(model.AttitudePragmatic), string(model.AttitudeConservative)}
	priceTiers = []string{
		"", string(model.PriceTierEconomical), string(model.PriceTierMedium),
		string(model.PriceTierPremium), string(model.PriceTierSuperPremium),
	}
	categories = []string{"shampoo", "conditioner", "hair treatment", "body lotion", "deodorant", "snack"}
	formats    = []string{"spray", "cream", "sachet", "bar", "rinse-off", "leave-in"}
	channels   = []string{"supermarket", "pharmacy", "corner store", "online", "department store"}
)

// Generator produces reproducible synthetic data from a seed
type Generator struct {
	faker *gofakeit.Faker
}

// NewGenerator creates a generator; the same seed yields the same panel
func NewGenerator(seed int64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Personas returns n synthetic personas. Roughly one in five has no
// ethnographic profile.
func (g *Generator) Personas(n int) []model.Persona {
	out := make([]model.Persona, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.Persona(fmt.Sprintf("persona-%03d", i+1)))
	}
	return out
}

// Persona returns one synthetic persona with the given id
func (g *Generator) Persona(id string) model.Persona {
	f := g.faker
	p := model.Persona{
		ID:                id,
		Name:              f.Name(),
		Age:               f.Number(18, 75),
		City:              f.City(),
		Climate:           f.RandomString(climates),
		SocioeconomicTier: model.SocioeconomicTier(f.RandomString(tiers)),
		Occupation:        f.JobTitle(),
		Income:            fmt.Sprintf("%d-%d", f.Number(5, 20)*1000, f.Number(21, 80)*1000),
		Brand: model.BrandRelationship{
			IsCurrentUser:     f.Bool(),
			SatisfactionScore: f.Number(0, 10),
			LoyaltyReasons:    g.phrases(f.Number(0, 3)),
			SwitchBarriers:    g.phrases(f.Number(0, 2)),
		},
		Journey: model.PurchaseJourney{
			PriceSensitivity: f.Number(0, 10),
			Channels:         g.pick(channels, f.Number(1, 3)),
			DecisionFactors:  g.phrases(f.Number(0, 3)),
		},
	}
	if f.Number(1, 5) > 1 {
		p.Ethnography = g.profile()
	}
	return p
}

func (g *Generator) profile() *model.EthnographicProfile {
	f := g.faker
	anchors := make([]model.PriceAnchor, 0, 2)
	for i := f.Number(0, 2); i > 0; i-- {
		anchors = append(anchors, model.PriceAnchor{Item: f.Noun(), Price: f.Price(10, 300)})
	}
	return &model.EthnographicProfile{
		Rituals: []string{
			fmt.Sprintf("uses %s every %s", f.RandomString(categories), f.RandomString([]string{"morning", "night", "weekend"})),
			f.Sentence(6),
		},
		EmotionalTriggers: model.EmotionalTriggers{
			Positive:   []string{f.Adjective(), f.RandomString([]string{"natural", "fresh", "family", "long lasting"})},
			Negative:   []string{f.RandomString([]string{"chemical", "greasy", "artificial", "sticky"})},
			PriceGuilt: g.pick([]string{"spending on myself", "premium prices", "buying for me first"}, f.Number(0, 2)),
		},
		MoneyPsychology: model.MoneyPsychology{
			PriceAnchors:    anchors,
			ValuePerception: f.Sentence(5),
		},
		IdentityRelationship: f.RandomString([]string{
			"the brand is part of who I am", "I buy what works, not a brand", "my image matters at work", "",
		}),
		ChangeResistance: model.ChangeResistance{
			Sources:      g.phrases(f.Number(0, 2)),
			RiskAversion: g.pick([]string{"no time to test products", "wasting money", "hair damage", "extra effort"}, f.Number(0, 2)),
		},
		InnovationAttitude: model.InnovationAttitude(f.RandomString(attitudes)),
		AuthenticLanguage: model.AuthenticLanguage{
			Satisfaction: []string{"it just works", strings.ToLower(f.BuzzWord()) + " and simple"},
			Complaints:   []string{"it never lasts", "too many promises"},
			Cultural:     []string{"like my mother used to say", f.Sentence(4)},
		},
	}
}

// Concepts returns n synthetic concepts
func (g *Generator) Concepts(n int) []model.Concept {
	f := g.faker
	out := make([]model.Concept, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.Concept{
			ID:              fmt.Sprintf("concept-%03d", i+1),
			Name:            f.AppName(),
			Category:        f.RandomString(categories),
			Headline:        f.Sentence(6),
			Description:     f.Paragraph(1, 3, 12, " "),
			ReasonToBelieve: f.Sentence(8),
			KeyIngredients:  []string{f.Noun(), f.Noun()},
			TargetSegment:   f.RandomString(tiers),
			PriceTier:       model.PriceTier(f.RandomString(priceTiers)),
			UsageFormat:     f.RandomString(formats),
			Version:         1,
		})
	}
	return out
}

func (g *Generator) phrases(n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, strings.TrimSuffix(g.faker.Sentence(4), "."))
	}
	return out
}

func (g *Generator) pick(from []string, n int) []string {
	if n > len(from) {
		n = len(from)
	}
	out := append([]string(nil), from...)
	g.faker.ShuffleStrings(out)
	return out[:n]
}
