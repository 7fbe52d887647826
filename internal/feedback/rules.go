package feedback

import (
	"fmt"

	"conceptlab/internal/model"
	"conceptlab/internal/textrules"
)

// chain is evaluated top to bottom; every matching rule contributes a phrase
var chain = []rule{
	// likes
	{name: "ritual_fit", kind: like, apply: ritualFit},
	{name: "positive_trigger", kind: like, apply: positiveTrigger},
	{name: "ingredient_trust", kind: like, apply: ingredientTrust},
	{name: "loyal_user", kind: like, apply: loyalUser},
	{name: "novelty_seeker", kind: like, apply: noveltySeeker},
	{name: "good_value", kind: like, apply: goodValue},

	// concerns
	{name: "premium_price", kind: concern, apply: premiumPrice},
	{name: "negative_trigger", kind: concern, apply: negativeTrigger},
	{name: "change_resistance", kind: concern, apply: changeResistance},
	{name: "switch_barrier", kind: concern, apply: switchBarrier},
	{name: "conservative_novelty", kind: concern, apply: conservativeNovelty},
	{name: "low_appeal", kind: concern, apply: lowAppeal},

	// suggestions
	{name: "trial_size", kind: suggestion, apply: trialSize},
	{name: "quick_use", kind: suggestion, apply: quickUse},
	{name: "channel", kind: suggestion, apply: channel},
}

func ritualFit(_ *Generator, in *input) (string, bool) {
	for _, ritual := range in.profile.Rituals {
		if mentions(ritual, in.concept.Category) || mentions(ritual, in.concept.UsageFormat) {
			base := fmt.Sprintf("It fits my daily routine (%s)", ritual)
			return withPhrase(base, pick(in.profile.AuthenticLanguage.Satisfaction, in, "ritual_fit")), true
		}
	}
	return "", false
}

func positiveTrigger(_ *Generator, in *input) (string, bool) {
	for _, trigger := range in.profile.EmotionalTriggers.Positive {
		if mentions(in.text, trigger) {
			base := fmt.Sprintf("I like that it is %s", trigger)
			return withPhrase(base, pick(in.profile.AuthenticLanguage.Satisfaction, in, "positive_trigger")), true
		}
	}
	return "", false
}

func ingredientTrust(_ *Generator, in *input) (string, bool) {
	sources := append([]string{}, in.persona.Brand.LoyaltyReasons...)
	sources = append(sources, in.profile.EmotionalTriggers.Positive...)
	for _, ingredient := range in.concept.KeyIngredients {
		for _, src := range sources {
			if mentions(src, ingredient) {
				return fmt.Sprintf("I trust %s as an ingredient", ingredient), true
			}
		}
	}
	return "", false
}

func loyalUser(_ *Generator, in *input) (string, bool) {
	if !in.persona.Brand.IsLoyal() {
		return "", false
	}
	return withPhrase("I trust the brand", pick(in.persona.Brand.LoyaltyReasons, in, "loyal_user")), true
}

func noveltySeeker(g *Generator, in *input) (string, bool) {
	if in.profile.InnovationAttitude != model.AttitudeEarlyAdopter || !g.novelty.Matches(in.text) {
		return "", false
	}
	return "Something new and different, I love being the first to try it", true
}

func goodValue(_ *Generator, in *input) (string, bool) {
	if in.concept.PriceTier != model.PriceTierEconomical || in.persona.Journey.Sensitivity() < 6 {
		return "", false
	}
	return "The price feels worth it, I could buy it every month", true
}

func premiumPrice(_ *Generator, in *input) (string, bool) {
	if !in.concept.PriceTier.IsPremium() || in.persona.Journey.Sensitivity() < 6 {
		return "", false
	}
	anchors := in.profile.MoneyPsychology.PriceAnchors
	if len(anchors) > 0 {
		a := anchors[0]
		return fmt.Sprintf("The price worries me, with that money I could pay for %s ($%.0f)", a.Item, a.Price), true
	}
	return withPhrase("The price worries me", pick(in.profile.AuthenticLanguage.Complaints, in, "premium_price")), true
}

func negativeTrigger(_ *Generator, in *input) (string, bool) {
	for _, trigger := range in.profile.EmotionalTriggers.Negative {
		if mentions(in.text, trigger) {
			base := fmt.Sprintf("I do not trust anything %s", trigger)
			return withPhrase(base, pick(in.profile.AuthenticLanguage.Complaints, in, "negative_trigger")), true
		}
	}
	return "", false
}

func changeResistance(_ *Generator, in *input) (string, bool) {
	sources := in.profile.ChangeResistance.Sources
	if !in.persona.Brand.IsCurrentUser || len(sources) == 0 {
		return "", false
	}
	return fmt.Sprintf("I would not change my routine easily: %s", pick(sources, in, "change_resistance")), true
}

func switchBarrier(_ *Generator, in *input) (string, bool) {
	barriers := in.persona.Brand.SwitchBarriers
	if in.persona.Brand.IsCurrentUser || len(barriers) == 0 {
		return "", false
	}
	return fmt.Sprintf("Hard to believe it beats what I use now: %s", pick(barriers, in, "switch_barrier")), true
}

func conservativeNovelty(g *Generator, in *input) (string, bool) {
	if in.profile.InnovationAttitude != model.AttitudeConservative || !g.novelty.Matches(in.text) {
		return "", false
	}
	return "Too new and different for me, I prefer proven products", true
}

func lowAppeal(_ *Generator, in *input) (string, bool) {
	if in.scores.Appeal > 4 {
		return "", false
	}
	return withPhrase("Not attractive for me", pick(in.profile.AuthenticLanguage.Complaints, in, "low_appeal")), true
}

func trialSize(_ *Generator, in *input) (string, bool) {
	if in.persona.Journey.Sensitivity() < 7 && !in.concept.PriceTier.IsPremium() {
		return "", false
	}
	return "Offer a trial size so I can try it before I pay full price", true
}

func quickUse(g *Generator, in *input) (string, bool) {
	for _, src := range in.profile.ChangeResistance.RiskAversion {
		if g.timeEffort.Matches(src) {
			return "Make it quick to use, I have no time for extra steps", true
		}
	}
	return "", false
}

func channel(_ *Generator, in *input) (string, bool) {
	if len(in.persona.Journey.Channels) == 0 {
		return "", false
	}
	return fmt.Sprintf("Make it available at the %s where I shop", in.persona.Journey.Channels[0]), true
}

func mentions(text, term string) bool {
	return term != "" && textrules.Contains(text, term)
}
