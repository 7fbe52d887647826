package feedback

import (
	"fmt"

	"conceptlab/internal/model"
)

func demographicContext(p *model.Persona, c *model.Concept, s model.Scores) model.DemographicContext {
	if p == nil {
		return model.DemographicContext{
			SocioeconomicFit: "Unknown persona",
			LifestyleFit:     "Unknown persona",
			PriceAssessment:  "Unknown persona",
		}
	}
	return model.DemographicContext{
		SocioeconomicFit: socioeconomicFit(p, c),
		LifestyleFit:     lifestyleFit(s),
		PriceAssessment:  priceAssessment(p, c),
	}
}

func socioeconomicFit(p *model.Persona, c *model.Concept) string {
	tier := p.SocioeconomicTier
	switch {
	case tier == "":
		return "Socioeconomic tier unknown"
	case c.PriceTier.IsPremium() && tier.IsLower():
		return fmt.Sprintf("Premium positioning is a stretch for NSE %s", tier)
	case c.PriceTier == model.PriceTierEconomical && tier.IsHigher():
		return fmt.Sprintf("May feel too basic for NSE %s", tier)
	}
	return fmt.Sprintf("Positioning is consistent with NSE %s", tier)
}

func lifestyleFit(s model.Scores) string {
	switch {
	case s.Relevance >= 7:
		return "Fits the persona's routine closely"
	case s.Relevance <= 4:
		return "Little connection with the persona's routine"
	}
	return "Partial fit with the persona's routine"
}

func priceAssessment(p *model.Persona, c *model.Concept) string {
	if c.PriceTier == "" {
		return "No price tier defined"
	}
	sens := p.Journey.Sensitivity()
	pressure := c.PriceTier.Weight() * sens
	verdict := "acceptable"
	switch {
	case pressure >= 6:
		verdict = "likely purchase barrier"
	case pressure <= -3:
		verdict = "perceived as good value"
	}
	return fmt.Sprintf("Price sensitivity %d/10 against a %s tier: %s", sens, c.PriceTier, verdict)
}
