package model

import (
	"strconv"
	"strings"
)

// SocioeconomicTier is the persona's socioeconomic level (AMAI-style NSE scale)
type SocioeconomicTier string

const (
	TierAB     SocioeconomicTier = "AB"
	TierCPlus  SocioeconomicTier = "C+"
	TierC      SocioeconomicTier = "C"
	TierCMinus SocioeconomicTier = "C-"
	TierDPlus  SocioeconomicTier = "D+"
	TierD      SocioeconomicTier = "D"
	TierE      SocioeconomicTier = "E"
)

// IsHigher reports whether the tier belongs to the upper segment
func (t SocioeconomicTier) IsHigher() bool {
	return t == TierAB || t == TierCPlus
}

// IsLower reports whether the tier belongs to the more price-conscious segment
func (t SocioeconomicTier) IsLower() bool {
	switch t {
	case TierCMinus, TierDPlus, TierD, TierE:
		return true
	}
	return false
}

// InnovationAttitude describes how a persona relates to new products
type InnovationAttitude string

const (
	AttitudeEarlyAdopter InnovationAttitude = "early_adopter"
	AttitudePragmatic    InnovationAttitude = "pragmatic"
	AttitudeConservative InnovationAttitude = "conservative"
)

// Climate values recognised by the relevance rules
const (
	ClimateHotHumid  = "hot_humid"
	ClimateHotDry    = "hot_dry"
	ClimateTemperate = "temperate"
	ClimateCold      = "cold"
)

// Persona is a synthetic consumer profile
type Persona struct {
	ID                string            `json:"id" bson:"_id"`
	Name              string            `json:"name" bson:"name"`
	Age               int               `json:"age" bson:"age"`
	City              string            `json:"city" bson:"city"`
	Climate           string            `json:"climate,omitempty" bson:"climate,omitempty"`
	SocioeconomicTier SocioeconomicTier `json:"socioeconomicTier" bson:"socioeconomicTier"`
	Occupation        string            `json:"occupation,omitempty" bson:"occupation,omitempty"`
	Income            string            `json:"income,omitempty" bson:"income,omitempty"`

	Brand       BrandRelationship    `json:"brand" bson:"brand"`
	Ethnography *EthnographicProfile `json:"ethnography,omitempty" bson:"ethnography,omitempty"`
	Journey     PurchaseJourney      `json:"journey" bson:"journey"`
}

// BrandRelationship is the persona's history with the focal brand
type BrandRelationship struct {
	IsCurrentUser     bool     `json:"isCurrentUser" bson:"isCurrentUser"`
	SatisfactionScore int      `json:"satisfactionScore" bson:"satisfactionScore"` // 1-10, 0 when unknown
	LoyaltyReasons    []string `json:"loyaltyReasons,omitempty" bson:"loyaltyReasons,omitempty"`
	SwitchBarriers    []string `json:"switchBarriers,omitempty" bson:"switchBarriers,omitempty"`
}

// IsLoyal reports a satisfied current user
func (b BrandRelationship) IsLoyal() bool {
	return b.IsCurrentUser && b.SatisfactionScore >= 7
}

// EthnographicProfile holds the qualitative attributes that drive narrative feedback
type EthnographicProfile struct {
	Rituals              []string           `json:"rituals,omitempty" bson:"rituals,omitempty"`
	EmotionalTriggers    EmotionalTriggers  `json:"emotionalTriggers" bson:"emotionalTriggers"`
	MoneyPsychology      MoneyPsychology    `json:"moneyPsychology" bson:"moneyPsychology"`
	IdentityRelationship string             `json:"identityRelationship,omitempty" bson:"identityRelationship,omitempty"`
	ChangeResistance     ChangeResistance   `json:"changeResistance" bson:"changeResistance"`
	InnovationAttitude   InnovationAttitude `json:"innovationAttitude,omitempty" bson:"innovationAttitude,omitempty"`
	AuthenticLanguage    AuthenticLanguage  `json:"authenticLanguage" bson:"authenticLanguage"`
}

// EmotionalTriggers are words or situations that move the persona
type EmotionalTriggers struct {
	Positive   []string `json:"positive,omitempty" bson:"positive,omitempty"`
	Negative   []string `json:"negative,omitempty" bson:"negative,omitempty"`
	PriceGuilt []string `json:"priceGuilt,omitempty" bson:"priceGuilt,omitempty"`
}

// PriceAnchor is a reference purchase the persona compares prices against
type PriceAnchor struct {
	Item  string  `json:"item" bson:"item"`
	Price float64 `json:"price" bson:"price"`
}

// MoneyPsychology captures how the persona reasons about spending
type MoneyPsychology struct {
	PriceAnchors    []PriceAnchor `json:"priceAnchors,omitempty" bson:"priceAnchors,omitempty"`
	ValuePerception string        `json:"valuePerception,omitempty" bson:"valuePerception,omitempty"`
}

// ChangeResistance lists what keeps the persona from switching habits
type ChangeResistance struct {
	Sources      []string `json:"sources,omitempty" bson:"sources,omitempty"`
	RiskAversion []string `json:"riskAversion,omitempty" bson:"riskAversion,omitempty"`
}

// AuthenticLanguage is the persona's own phrase bank
type AuthenticLanguage struct {
	Satisfaction []string `json:"satisfaction,omitempty" bson:"satisfaction,omitempty"`
	Complaints   []string `json:"complaints,omitempty" bson:"complaints,omitempty"`
	Cultural     []string `json:"cultural,omitempty" bson:"cultural,omitempty"`
}

// PurchaseJourney describes how the persona buys
type PurchaseJourney struct {
	PriceSensitivity int      `json:"priceSensitivity" bson:"priceSensitivity"` // 1-10, 0 when unknown
	Channels         []string `json:"channels,omitempty" bson:"channels,omitempty"`
	DecisionFactors  []string `json:"decisionFactors,omitempty" bson:"decisionFactors,omitempty"`
}

// Sensitivity returns the price sensitivity clamped to 1-10, defaulting to 5
func (j PurchaseJourney) Sensitivity() int {
	switch {
	case j.PriceSensitivity <= 0:
		return 5
	case j.PriceSensitivity > 10:
		return 10
	}
	return j.PriceSensitivity
}

// Profile returns the ethnographic profile or an empty one when absent
func (p *Persona) Profile() EthnographicProfile {
	if p == nil || p.Ethnography == nil {
		return EthnographicProfile{}
	}
	return *p.Ethnography
}

// Summary is the one-line demographic description used in prompts
func (p *Persona) Summary() string {
	var b strings.Builder
	b.WriteString(p.Name)
	if p.Age > 0 {
		b.WriteString(", ")
		b.WriteString(strconv.Itoa(p.Age))
		b.WriteString(" years")
	}
	if p.City != "" {
		b.WriteString(", ")
		b.WriteString(p.City)
	}
	if p.SocioeconomicTier != "" {
		b.WriteString(", NSE ")
		b.WriteString(string(p.SocioeconomicTier))
	}
	if p.Occupation != "" {
		b.WriteString(", ")
		b.WriteString(p.Occupation)
	}
	if p.Brand.IsCurrentUser {
		b.WriteString(", current brand user")
	} else {
		b.WriteString(", non-user")
	}
	return b.String()
}

// Validate checks the fields every pipeline step relies on
func (p *Persona) Validate() error {
	if p == nil {
		return &ValidationError{Field: "persona", Reason: "is required"}
	}
	if strings.TrimSpace(p.ID) == "" {
		return &ValidationError{Field: "persona.id", Reason: "is required"}
	}
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "persona.name", Reason: "is required"}
	}
	return nil
}
