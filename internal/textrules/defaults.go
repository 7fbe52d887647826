package textrules

// Tone labels (match model.Tone values)
var Tone = Table{
	{
		Label:    "enthusiastic",
		Keywords: []string{"love", "amazing", "excited", "can't wait", "incredible", "me encanta", "perfect"},
		Except:   []string{"don't love", "do not love", "not amazing", "not excited", "not perfect", "no me encanta"},
	},
	{Label: "negative", Keywords: []string{
		"hate", "terrible", "wouldn't buy", "would not buy", "never buy", "waste", "awful", "no way",
		"don't like", "dont like", "do not like", "didn't like", "did not like", "doesn't appeal",
		"don't love", "do not love", "not interesting", "not for me", "not useful", "not appealing",
		"not good", "no me gusta", "no me encanta",
	}},
	{Label: "skeptical", Keywords: []string{"doubt", "not sure", "skeptical", "hard to believe", "suspicious", "sounds too good", "really work"}},
	{Label: "cautious", Keywords: []string{"maybe", "depends", "would try", "small size", "sample", "careful", "risk", "first see"}},
	{Label: "positive", Keywords: []string{"like", "good", "nice", "interesting", "useful", "appealing", "attractive"}},
}

// Themes detected in interview responses
var Themes = Table{
	{Label: "price", Keywords: []string{"price", "expensive", "cost", "pay", "cheap", "afford", "budget", "worth"}},
	{Label: "quality", Keywords: []string{"quality", "results", "works", "effective", "lasting"}},
	{Label: "brand", Keywords: []string{"brand", "trust", "always use", "loyal"}},
	{Label: "convenience", Keywords: []string{"easy", "quick", "fast", "time", "practical", "convenient"}},
	{Label: "health", Keywords: []string{"health", "natural", "ingredient", "chemical", "safe"}},
	{Label: "innovation", Keywords: []string{"new", "innovative", "different", "unique", "never seen"}},
	{Label: "packaging", Keywords: []string{"package", "packaging", "bottle", "size", "format", "presentation"}},
	{Label: "climate", Keywords: []string{"heat", "hot", "humid", "sweat", "weather", "summer"}},
}

// PriceResistance flags responses that push back on price
var PriceResistance = Table{
	{
		Label: "price_resistance",
		Keywords: []string{
			"expensive", "too much", "can't afford", "cannot afford", "pricey", "costly", "not worth",
			"overpriced", "out of my budget", "muy caro", "demasiado caro", "está caro", "esta caro", "es caro",
		},
		Except: []string{
			"not expensive", "isn't expensive", "is not expensive", "wasn't expensive", "not too expensive",
			"not that expensive", "not very expensive", "not so expensive", "not pricey", "not costly",
			"not overpriced", "no es caro", "no está caro", "no esta caro",
		},
	},
}

// Complaints flags generally negative responses
var Complaints = Table{
	{Label: "complaint", Keywords: []string{
		"don't like", "do not like", "problem", "disappoint", "worse", "complain", "annoying",
		"concern", "wouldn't buy", "would not buy", "not convinced",
	}},
}

// Climate matches concept copy that speaks to hot or humid weather
var Climate = Table{
	{Label: "climate", Keywords: []string{
		"heat", "hot", "humid", "humidity", "sweat", "frizz", "summer", "refresh", "cooling", "calor", "humedad",
	}},
}

// Novelty matches concept copy that promotes newness
var Novelty = Table{
	{Label: "novelty", Keywords: []string{"new", "innovative", "innovation", "first", "revolutionary", "breakthrough", "nuevo"}},
}

// Identity matches identity-relationship text about brand and self-image
var Identity = Table{
	{Label: "identity", Keywords: []string{"brand", "identity", "who i am", "self", "image", "represents me", "soy"}},
}

// TimeEffort matches risk-aversion text about time or effort
var TimeEffort = Table{
	{Label: "time_effort", Keywords: []string{"time", "effort", "hassle", "complicated", "learn", "routine change", "tiempo"}},
}

// MetricKeywords gate drivers and barriers per KPI. Labels match model.Metric values.
var MetricKeywords = Table{
	{Label: "appeal", Keywords: []string{"attractive", "interesting", "liked", "like", "love", "appealing"}},
	{Label: "relevance", Keywords: []string{"routine", "need", "fits", "daily", "weather", "climate", "heat"}},
	{Label: "believability", Keywords: []string{"trust", "believe", "brand", "proven", "ingredient", "convinced"}},
	{Label: "uniqueness", Keywords: []string{"new", "different", "unique", "innovative", "never seen", "same as"}},
	{Label: "purchaseIntention", Keywords: []string{"price", "buy", "pay", "worth", "afford", "available", "store"}},
}
