package model

import (
	"strings"
	"time"
)

// Tone is the emotional tone detected in an interview response
type Tone string

const (
	ToneEnthusiastic Tone = "enthusiastic"
	TonePositive     Tone = "positive"
	ToneSkeptical    Tone = "skeptical"
	ToneNegative     Tone = "negative"
	ToneCautious     Tone = "cautious"
	ToneNeutral      Tone = "neutral"
)

// Exchange is one question/response pair of an interview
type Exchange struct {
	Question string   `json:"question" bson:"question"`
	Response string   `json:"response" bson:"response"`
	Tone     Tone     `json:"tone" bson:"tone"`
	Themes   []string `json:"themes,omitempty" bson:"themes,omitempty"`
}

// InterviewTranscript is the full interview of one persona on one concept
type InterviewTranscript struct {
	PersonaID   string     `json:"personaId" bson:"personaId"`
	PersonaName string     `json:"personaName" bson:"personaName"`
	ConceptID   string     `json:"conceptId" bson:"conceptId"`
	Exchanges   []Exchange `json:"exchanges" bson:"exchanges"`
	KeyInsights []string   `json:"keyInsights,omitempty" bson:"keyInsights,omitempty"` // from the embedded thematic analysis
	RawText     string     `json:"rawText,omitempty" bson:"rawText,omitempty"`
}

// Responses joins every response of the transcript
func (t *InterviewTranscript) Responses() string {
	parts := make([]string, 0, len(t.Exchanges))
	for _, ex := range t.Exchanges {
		parts = append(parts, ex.Response)
	}
	return strings.Join(parts, "\n")
}

// InterviewsResult is the output of Phase 1
type InterviewsResult struct {
	Concept     Concept               `json:"concept"`
	Personas    []Persona             `json:"personas"`
	Transcripts []InterviewTranscript `json:"transcripts"`
	Elapsed     time.Duration         `json:"elapsed"`
}

// PersonaByID returns the persona interviewed for a transcript
func (r *InterviewsResult) PersonaByID(id string) (Persona, bool) {
	for _, p := range r.Personas {
		if p.ID == id {
			return p, true
		}
	}
	return Persona{}, false
}
