package model

// Metric names one of the five scored KPIs
type Metric string

const (
	MetricAppeal            Metric = "appeal"
	MetricRelevance         Metric = "relevance"
	MetricBelievability     Metric = "believability"
	MetricUniqueness        Metric = "uniqueness"
	MetricPurchaseIntention Metric = "purchaseIntention"
)

// Metrics lists the KPIs in report order
var Metrics = []Metric{
	MetricAppeal,
	MetricRelevance,
	MetricBelievability,
	MetricUniqueness,
	MetricPurchaseIntention,
}

const (
	MinScore = 1.0
	MaxScore = 10.0
)

// Scores are the five bounded metrics of one evaluation, each in [1,10]
type Scores struct {
	Appeal            float64 `json:"appeal" bson:"appeal"`
	Relevance         float64 `json:"relevance" bson:"relevance"`
	Believability     float64 `json:"believability" bson:"believability"`
	Uniqueness        float64 `json:"uniqueness" bson:"uniqueness"`
	PurchaseIntention float64 `json:"purchaseIntention" bson:"purchaseIntention"`
}

// Get returns the value of metric m
func (s Scores) Get(m Metric) float64 {
	switch m {
	case MetricAppeal:
		return s.Appeal
	case MetricRelevance:
		return s.Relevance
	case MetricBelievability:
		return s.Believability
	case MetricUniqueness:
		return s.Uniqueness
	case MetricPurchaseIntention:
		return s.PurchaseIntention
	}
	return 0
}

// Feedback is the narrative reaction of a persona to a concept
type Feedback struct {
	Likes             []string `json:"likes" bson:"likes"`
	Concerns          []string `json:"concerns" bson:"concerns"`
	Suggestions       []string `json:"suggestions" bson:"suggestions"`
	EmotionalReaction string   `json:"emotionalReaction" bson:"emotionalReaction"`
}

// DemographicContext holds narrative assessments of how the concept fits the persona
type DemographicContext struct {
	SocioeconomicFit string `json:"socioeconomicFit" bson:"socioeconomicFit"`
	LifestyleFit     string `json:"lifestyleFit" bson:"lifestyleFit"`
	PriceAssessment  string `json:"priceAssessment" bson:"priceAssessment"`
}

// Evaluation is the scored and narrative outcome of one persona reacting to one concept
type Evaluation struct {
	PersonaID string             `json:"personaId" bson:"personaId"`
	ConceptID string             `json:"conceptId" bson:"conceptId"`
	Scores    Scores             `json:"scores" bson:"scores"`
	Feedback  Feedback           `json:"feedback" bson:"feedback"`
	Context   DemographicContext `json:"context" bson:"context"`
}
