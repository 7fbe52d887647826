package model

import (
	"fmt"
	"strings"
	"time"
)

// PriceTier is the ordinal price positioning of a concept
type PriceTier string

const (
	PriceTierEconomical   PriceTier = "economical"
	PriceTierMedium       PriceTier = "medium"
	PriceTierPremium      PriceTier = "premium"
	PriceTierSuperPremium PriceTier = "super_premium"
)

// Weight returns the tier's position relative to the medium tier.
// An absent or unknown tier weighs zero.
func (t PriceTier) Weight() int {
	switch t {
	case PriceTierEconomical:
		return -1
	case PriceTierPremium:
		return 1
	case PriceTierSuperPremium:
		return 2
	default:
		return 0
	}
}

// IsPremium reports whether the tier is premium or above
func (t PriceTier) IsPremium() bool {
	return t == PriceTierPremium || t == PriceTierSuperPremium
}

// Valid reports whether t is empty or one of the known tiers
func (t PriceTier) Valid() bool {
	switch t {
	case "", PriceTierEconomical, PriceTierMedium, PriceTierPremium, PriceTierSuperPremium:
		return true
	}
	return false
}

// Concept is a proposed product or message under evaluation
type Concept struct {
	ID              string    `json:"id" bson:"_id"`
	Name            string    `json:"name" bson:"name"`
	Category        string    `json:"category" bson:"category"`
	Headline        string    `json:"headline,omitempty" bson:"headline,omitempty"`
	Description     string    `json:"description" bson:"description"`
	ReasonToBelieve string    `json:"reasonToBelieve,omitempty" bson:"reasonToBelieve,omitempty"`
	KeyIngredients  []string  `json:"keyIngredients,omitempty" bson:"keyIngredients,omitempty"` // ingredients or benefits
	TargetSegment   string    `json:"targetSegment,omitempty" bson:"targetSegment,omitempty"`
	PriceTier       PriceTier `json:"priceTier,omitempty" bson:"priceTier,omitempty"`
	UsageFormat     string    `json:"usageFormat,omitempty" bson:"usageFormat,omitempty"`
	Version         int       `json:"version" bson:"version"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
}

// Text joins every free-text field of the concept for keyword matching
func (c *Concept) Text() string {
	parts := []string{c.Name, c.Category, c.Headline, c.Description, c.ReasonToBelieve, c.UsageFormat, c.TargetSegment}
	parts = append(parts, c.KeyIngredients...)
	return strings.Join(parts, " ")
}

// Validate checks the fields the pipeline cannot run without
func (c *Concept) Validate() error {
	if c == nil {
		return &ValidationError{Field: "concept", Reason: "is required"}
	}
	if strings.TrimSpace(c.ID) == "" {
		return &ValidationError{Field: "concept.id", Reason: "is required"}
	}
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "concept.name", Reason: "is required"}
	}
	if strings.TrimSpace(c.Description) == "" {
		return &ValidationError{Field: "concept.description", Reason: "is required"}
	}
	if !c.PriceTier.Valid() {
		return &ValidationError{Field: "concept.priceTier", Reason: fmt.Sprintf("unknown tier %q", c.PriceTier)}
	}
	return nil
}
