package scoring

import (
	"conceptlab/internal/model"
	"conceptlab/internal/textrules"
)

// DefaultRules returns the standard adjustments in their documented order:
// brand loyalty, socioeconomic tier, age, climate relevance, innovation
// attitude, ritual relevance, price impact.
func DefaultRules(climate textrules.Table) []Rule {
	return []Rule{
		{Name: "brand_loyalty", Apply: brandLoyalty},
		{Name: "socioeconomic_tier", Apply: socioeconomicTier},
		{Name: "age", Apply: age},
		{Name: "climate_relevance", Apply: climateRelevance(climate)},
		{Name: "innovation_attitude", Apply: innovationAttitude},
		{Name: "ritual_relevance", Apply: ritualRelevance},
		{Name: "price_impact", Apply: priceImpact},
	}
}

func brandLoyalty(p *model.Persona, _ *model.Concept) Delta {
	switch {
	case p.Brand.IsLoyal():
		return Delta{Appeal: 100, Believability: 150, PurchaseIntention: 100}
	case p.Brand.IsCurrentUser && p.Brand.SatisfactionScore > 0 && p.Brand.SatisfactionScore <= 4:
		return Delta{Appeal: -50, PurchaseIntention: -50}
	}
	return Delta{}
}

func socioeconomicTier(p *model.Persona, _ *model.Concept) Delta {
	switch {
	case p.SocioeconomicTier.IsLower():
		return Delta{Uniqueness: 50, PurchaseIntention: -50}
	case p.SocioeconomicTier.IsHigher():
		return Delta{Uniqueness: -30, PurchaseIntention: 50}
	}
	return Delta{}
}

func age(p *model.Persona, _ *model.Concept) Delta {
	switch {
	case p.Age <= 0:
		return Delta{}
	case p.Age < 30:
		return Delta{Uniqueness: 80, Believability: -30}
	case p.Age >= 45:
		return Delta{Believability: 50, Uniqueness: -50}
	}
	return Delta{}
}

func climateRelevance(climate textrules.Table) func(*model.Persona, *model.Concept) Delta {
	return func(p *model.Persona, c *model.Concept) Delta {
		if p.Climate != model.ClimateHotHumid || !climate.Matches(c.Text()) {
			return Delta{}
		}
		return Delta{Relevance: 150, PurchaseIntention: 50}
	}
}

func innovationAttitude(p *model.Persona, _ *model.Concept) Delta {
	switch p.Profile().InnovationAttitude {
	case model.AttitudeEarlyAdopter:
		return Delta{Uniqueness: 100, Appeal: 50}
	case model.AttitudeConservative:
		return Delta{Uniqueness: -50, Appeal: -50}
	}
	return Delta{}
}

func ritualRelevance(p *model.Persona, c *model.Concept) Delta {
	for _, ritual := range p.Profile().Rituals {
		if (c.Category != "" && textrules.Contains(ritual, c.Category)) ||
			(c.UsageFormat != "" && textrules.Contains(ritual, c.UsageFormat)) {
			return Delta{Relevance: 100}
		}
	}
	return Delta{}
}

// priceImpact penalises purchase intention (and half as much appeal) in
// proportion to tier weight and sensitivity; economical tiers earn the reverse
func priceImpact(p *model.Persona, c *model.Concept) Delta {
	impact := c.PriceTier.Weight() * p.Journey.Sensitivity() * priceUnit
	if impact == 0 {
		return Delta{}
	}
	return Delta{PurchaseIntention: -impact, Appeal: -impact / 2}
}
