package model

// Trend classifies a KPI mean
type Trend string

const (
	TrendPositive Trend = "positive"
	TrendNeutral  Trend = "neutral"
	TrendNegative Trend = "negative"
)

// Level is a coarse high/medium/low rating
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// Segment names used in breakdowns; city segments are "city:<name>"
const (
	SegmentHigherTier = "higher_tier"
	SegmentLowerTier  = "lower_tier"
	SegmentUsers      = "current_users"
	SegmentNonUsers   = "non_users"
	CitySegmentPrefix = "city:"
)

// SegmentBreakdown is a KPI restricted to one panel segment
type SegmentBreakdown struct {
	Segment     string   `json:"segment" bson:"segment"`
	Count       int      `json:"count" bson:"count"`
	Mean        float64  `json:"mean" bson:"mean"`
	TopMentions []string `json:"topMentions" bson:"topMentions"`
}

// KPIInsight is the rolled-up analysis of one metric
type KPIInsight struct {
	Metric               Metric             `json:"metric" bson:"metric"`
	Mean                 float64            `json:"mean" bson:"mean"`
	Trend                Trend              `json:"trend" bson:"trend"`
	Segments             []SegmentBreakdown `json:"segments" bson:"segments"`
	Drivers              []string           `json:"drivers" bson:"drivers"`
	Barriers             []string           `json:"barriers" bson:"barriers"`
	BusinessImplications []string           `json:"businessImplications" bson:"businessImplications"`
	Recommendations      []string           `json:"recommendations" bson:"recommendations"`
}

// OverallPerformance summarises all KPIs
type OverallPerformance struct {
	Score      float64  `json:"score" bson:"score"`
	Strengths  []Metric `json:"strengths" bson:"strengths"`
	Weaknesses []Metric `json:"weaknesses" bson:"weaknesses"`
}

// ConceptInsights is the KPI/segment business report for one concept
type ConceptInsights struct {
	ConceptID         string             `json:"conceptId" bson:"conceptId"`
	ConceptName       string             `json:"conceptName" bson:"conceptName"`
	SampleSize        int                `json:"sampleSize" bson:"sampleSize"`
	KPIs              []KPIInsight       `json:"kpis" bson:"kpis"`
	Overall           OverallPerformance `json:"overallPerformance" bson:"overallPerformance"`
	MarketOpportunity Level              `json:"marketOpportunity" bson:"marketOpportunity"`
	Readiness         Level              `json:"readiness" bson:"readiness"`
}

// KPI returns the insight for metric m
func (c *ConceptInsights) KPI(m Metric) (KPIInsight, bool) {
	for _, k := range c.KPIs {
		if k.Metric == m {
			return k, true
		}
	}
	return KPIInsight{}, false
}
