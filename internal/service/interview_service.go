package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"conceptlab/internal/feedback"
	"conceptlab/internal/llm"
	"conceptlab/internal/logging"
	"conceptlab/internal/model"
	"conceptlab/internal/textrules"

	"github.com/sirupsen/logrus"
)

// InterviewConfig shapes the interview requested from the collaborator
type InterviewConfig struct {
	Style      string   `json:"style"`
	Depth      int      `json:"depth"` // number of questions
	FocusAreas []string `json:"focusAreas"`
}

// DefaultInterviewConfig is a semi-structured, eight-question interview
func DefaultInterviewConfig() InterviewConfig {
	return InterviewConfig{
		Style: "semi-structured, conversational",
		Depth: 8,
		FocusAreas: []string{
			"first impression", "relevance to daily routine", "credibility of the claims",
			"differentiation", "price and purchase intention",
		},
	}
}

// InterviewService runs Phase 1: one interview per persona, strictly in order
type InterviewService struct {
	llm      llm.Client
	delay    time.Duration
	config   InterviewConfig
	tone     textrules.Table
	themes   textrules.Table
	reporter ProgressReporter
	now      func() time.Time
	log      *logrus.Entry
}

// NewInterviewService creates the Phase 1 orchestrator. A nil client runs
// simulated interviews built from the deterministic feedback rules.
func NewInterviewService(client llm.Client, delay time.Duration) *InterviewService {
	return &InterviewService{
		llm:    client,
		delay:  delay,
		config: DefaultInterviewConfig(),
		tone:   textrules.Tone,
		themes: textrules.Themes,
		now:    time.Now,
		log:    logging.For("interview"),
	}
}

// SetReporter sets the progress observer
func (s *InterviewService) SetReporter(r ProgressReporter) {
	s.reporter = r
}

// SetRules swaps the tone and theme tables
func (s *InterviewService) SetRules(tone, themes textrules.Table) {
	s.tone = tone
	s.themes = themes
}

// SetConfig replaces the interview configuration
func (s *InterviewService) SetConfig(cfg InterviewConfig) {
	s.config = cfg
}

// RunInterviews interviews every persona in input order. Any failure aborts the
// phase and no transcripts are returned.
func (s *InterviewService) RunInterviews(ctx context.Context, concept *model.Concept, personas []model.Persona) (*model.InterviewsResult, error) {
	if err := concept.Validate(); err != nil {
		return nil, err
	}
	if len(personas) == 0 {
		return nil, &model.ValidationError{Field: "personas", Reason: "at least one persona is required"}
	}
	for i := range personas {
		if err := personas[i].Validate(); err != nil {
			return nil, err
		}
	}

	log := s.log.WithFields(logrus.Fields{
		logging.FieldRunID:     RunIDFrom(ctx),
		logging.FieldConceptID: concept.ID,
	})
	tracker := newProgressTracker(ctx, s.reporter, model.PhaseInterviews, len(personas), s.now)
	start := s.now()
	transcripts := make([]model.InterviewTranscript, 0, len(personas))

	for i := range personas {
		p := &personas[i]
		tracker.emit(i, "interviewing "+p.Name, p.Name)

		raw, err := s.interview(ctx, concept, p)
		if err != nil {
			log.WithField(logging.FieldPersonaID, p.ID).WithError(err).Error("[Interview] failed, aborting phase")
			return nil, &InterviewError{
				PersonaID:   p.ID,
				PersonaName: p.Name,
				ConceptID:   concept.ID,
				ConceptName: concept.Name,
				Err:         err,
			}
		}

		transcripts = append(transcripts, s.buildTranscript(p, concept, raw))
		log.WithField(logging.FieldPersonaID, p.ID).Debugf("[Interview] %d/%d done", i+1, len(personas))

		if i < len(personas)-1 {
			if err := s.pause(ctx); err != nil {
				return nil, fmt.Errorf("interviews aborted: %w", err)
			}
		}
	}

	tracker.complete("interviews completed")
	elapsed := s.now().Sub(start)
	log.Infof("[Interview] %d interviews completed in %s", len(transcripts), elapsed.Round(time.Millisecond))

	return &model.InterviewsResult{
		Concept:     *concept,
		Personas:    personas,
		Transcripts: transcripts,
		Elapsed:     elapsed,
	}, nil
}

func (s *InterviewService) interview(ctx context.Context, concept *model.Concept, p *model.Persona) (string, error) {
	if s.llm == nil {
		return s.mockInterview(concept, p), nil
	}
	return s.llm.Generate(ctx, llm.Request{
		Purpose: llm.PurposeInterview,
		Prompt:  s.buildInterviewPrompt(concept, p),
	})
}

func (s *InterviewService) pause(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *InterviewService) buildTranscript(p *model.Persona, concept *model.Concept, raw string) model.InterviewTranscript {
	exchanges, insights := parseInterview(raw)
	for i := range exchanges {
		tone := model.ToneNeutral
		if label, ok := s.tone.First(exchanges[i].Response); ok {
			tone = model.Tone(label)
		}
		exchanges[i].Tone = tone
		exchanges[i].Themes = s.themes.All(exchanges[i].Response)
	}
	return model.InterviewTranscript{
		PersonaID:   p.ID,
		PersonaName: p.Name,
		ConceptID:   concept.ID,
		Exchanges:   exchanges,
		KeyInsights: insights,
		RawText:     raw,
	}
}

// parseInterview reads "Q:"/"A:" blocks and the bullets under an ANALYSIS
// heading. Text without any exchange becomes one opaque exchange.
func parseInterview(raw string) ([]model.Exchange, []string) {
	var (
		exchanges []model.Exchange
		insights  []string
		current   *model.Exchange
		field     *string
		analysis  bool
	)
	flush := func() {
		if current != nil && (current.Question != "" || current.Response != "") {
			current.Question = strings.TrimSpace(current.Question)
			current.Response = strings.TrimSpace(current.Response)
			exchanges = append(exchanges, *current)
		}
		current, field = nil, nil
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "*#"))
		upper := strings.ToUpper(trimmed)

		switch {
		case strings.HasPrefix(upper, "ANALYSIS") || strings.HasPrefix(upper, "THEMATIC ANALYSIS"):
			flush()
			analysis = true
		case analysis:
			if item := strings.TrimSpace(strings.TrimLeft(trimmed, "-•*")); item != "" {
				insights = append(insights, item)
			}
		case hasLabel(upper, "Q"):
			flush()
			current = &model.Exchange{Question: afterLabel(trimmed)}
			field = &current.Question
		case hasLabel(upper, "A"):
			if current == nil || current.Response != "" {
				flush()
				current = &model.Exchange{}
			}
			current.Response = afterLabel(trimmed)
			field = &current.Response
		case field != nil && trimmed != "":
			*field += " " + trimmed
		}
	}
	flush()

	if len(exchanges) == 0 {
		exchanges = []model.Exchange{{Question: "Interview", Response: strings.TrimSpace(raw)}}
	}
	if insights == nil {
		insights = []string{}
	}
	return exchanges, insights
}

func hasLabel(upper, label string) bool {
	return strings.HasPrefix(upper, label+":") || strings.HasPrefix(upper, label+" :")
}

func afterLabel(line string) string {
	if idx := strings.Index(line, ":"); idx >= 0 {
		return strings.TrimSpace(strings.TrimLeft(line[idx+1:], "* "))
	}
	return line
}

func (s *InterviewService) buildInterviewPrompt(concept *model.Concept, p *model.Persona) string {
	personaJSON, _ := json.MarshalIndent(p, "", "  ")
	configJSON, _ := json.Marshal(s.config)

	return fmt.Sprintf(`You are a qualitative market researcher running an in-depth consumer interview.
Play BOTH roles: the interviewer and the consumer described below. The consumer answers in first person,
in their own voice, using their authentic expressions, and reacts honestly (including negatively).

CONCEPT
Name: %s
Category: %s
Headline: %s
Description: %s
Reason to believe: %s
Key ingredients/benefits: %s
Price tier: %s
Usage format: %s

CONSUMER PROFILE (JSON)
%s

INTERVIEW CONFIGURATION (JSON)
%s

Return plain text in EXACTLY this format, one exchange per question:
Q: <interviewer question>
A: <consumer answer>

After the last exchange write a line "ANALYSIS:" followed by 3-5 bullet lines
("- theme: key insight") summarising what this consumer revealed.`,
		concept.Name, concept.Category, concept.Headline, concept.Description, concept.ReasonToBelieve,
		strings.Join(concept.KeyIngredients, ", "), concept.PriceTier, concept.UsageFormat,
		personaJSON, configJSON)
}

// mockInterview renders the deterministic evaluation as an interview transcript
func (s *InterviewService) mockInterview(concept *model.Concept, p *model.Persona) string {
	ev := feedback.Evaluate(p, concept)
	fb := ev.Feedback

	var b strings.Builder
	fmt.Fprintf(&b, "Q: What is your first impression of %s?\n", concept.Name)
	fmt.Fprintf(&b, "A: %s\n", firstOr(fb.Likes, "It is interesting, but nothing special for me."))
	b.WriteString("Q: Does it fit your daily routine?\n")
	if ev.Scores.Relevance >= 6 {
		b.WriteString("A: Yes, it fits what I already do every day.\n")
	} else {
		b.WriteString("A: Not really, I am not sure where it would fit.\n")
	}
	b.WriteString("Q: Is there anything that worries you?\n")
	fmt.Fprintf(&b, "A: %s\n", firstOr(fb.Concerns, "Nothing in particular."))
	b.WriteString("Q: Would you buy it?\n")
	switch {
	case ev.Scores.PurchaseIntention >= 7:
		b.WriteString("A: I would buy it, I like it.\n")
	case ev.Scores.PurchaseIntention <= 4:
		b.WriteString("A: I would not buy it, it is too expensive for what it offers.\n")
	default:
		b.WriteString("A: Maybe, it depends on the price when I see it in the store.\n")
	}
	b.WriteString("ANALYSIS:\n")
	fmt.Fprintf(&b, "- emotion: %s\n", fb.EmotionalReaction)
	if len(fb.Suggestions) > 0 {
		fmt.Fprintf(&b, "- suggestion: %s\n", fb.Suggestions[0])
	}
	return b.String()
}

func firstOr(items []string, fallback string) string {
	if len(items) > 0 {
		return items[0]
	}
	return fallback
}
