package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"conceptlab/internal/llm"
	"conceptlab/internal/model"
	"conceptlab/internal/panel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleInterview = `**Q:** What is your first impression?
**A:** I love it, the smell is amazing.
Q: What do you think about the price?
A: Honestly it is too expensive,
I cannot pay that every month.

THEMATIC ANALYSIS:
- price: strong resistance above the usual spend
- sensory: fragrance is the main hook`

func TestRunInterviewsFailsFastOnSecondPersona(t *testing.T) {
	client := &fakeLLM{
		responses: []string{sampleInterview},
		errs:      map[int]error{1: &llm.CallError{Provider: "gemini", Purpose: llm.PurposeInterview, StatusCode: 503, Err: errors.New("unavailable")}},
	}
	svc := NewInterviewService(client, 0)
	personas := testPersonas("Ana", "Beatriz", "Carla")

	res, err := svc.RunInterviews(context.Background(), testConcept(), personas)

	require.Nil(t, res)
	var ie *InterviewError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "Beatriz", ie.PersonaName)
	assert.Equal(t, personas[1].ID, ie.PersonaID)
	assert.Contains(t, err.Error(), "Beatriz")
	assert.Contains(t, err.Error(), "Argan Night Repair")

	var callErr *llm.CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, 503, callErr.StatusCode)
	assert.Equal(t, 2, client.callCount(), "third persona must not be interviewed")
}

func TestRunInterviewsValidatesBeforeCalling(t *testing.T) {
	badConcept := testConcept()
	badConcept.Description = ""
	unnamed := testPersonas("Ana", "")

	tests := []struct {
		name     string
		concept  *model.Concept
		personas []model.Persona
		field    string
	}{
		{"nil concept", nil, testPersonas("Ana"), "concept"},
		{"concept without description", badConcept, testPersonas("Ana"), "concept.description"},
		{"empty panel", testConcept(), nil, "personas"},
		{"persona without name", testConcept(), unnamed, "persona.name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeLLM{responses: []string{sampleInterview}}
			res, err := NewInterviewService(client, 0).RunInterviews(context.Background(), tt.concept, tt.personas)
			require.Nil(t, res)
			var ve *model.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Zero(t, client.callCount())
		})
	}
}

func TestRunInterviewsKeepsInputOrder(t *testing.T) {
	client := &fakeLLM{responses: []string{sampleInterview}}
	svc := NewInterviewService(client, 0)
	personas := testPersonas("Ana", "Beatriz", "Carla")

	res, err := svc.RunInterviews(context.Background(), testConcept(), personas)
	require.NoError(t, err)
	require.Len(t, res.Transcripts, 3)
	for i, tr := range res.Transcripts {
		assert.Equal(t, personas[i].ID, tr.PersonaID)
		assert.Equal(t, personas[i].Name, tr.PersonaName)
		assert.Equal(t, "concept-001", tr.ConceptID)
	}
	require.Len(t, client.calls, 3)
	for _, call := range client.calls {
		assert.Equal(t, llm.PurposeInterview, call.Purpose)
		assert.False(t, call.JSON)
		assert.Contains(t, call.Prompt, "Argan Night Repair")
	}
	assert.Contains(t, client.calls[1].Prompt, `"name": "Beatriz"`)
}

func TestBuildTranscriptExtractsToneAndThemes(t *testing.T) {
	svc := NewInterviewService(nil, 0)
	p := testPersonas("Ana")[0]

	tr := svc.buildTranscript(&p, testConcept(), sampleInterview)

	require.Len(t, tr.Exchanges, 2)
	assert.Equal(t, "What is your first impression?", tr.Exchanges[0].Question)
	assert.Equal(t, "I love it, the smell is amazing.", tr.Exchanges[0].Response)
	assert.Equal(t, model.ToneEnthusiastic, tr.Exchanges[0].Tone)

	assert.Equal(t, "Honestly it is too expensive, I cannot pay that every month.", tr.Exchanges[1].Response)
	assert.Equal(t, model.ToneNeutral, tr.Exchanges[1].Tone)
	assert.Equal(t, []string{"price"}, tr.Exchanges[1].Themes)

	assert.Equal(t, []string{
		"price: strong resistance above the usual spend",
		"sensory: fragrance is the main hook",
	}, tr.KeyInsights)
	assert.Equal(t, sampleInterview, tr.RawText)

	t.Run("negated liking", func(t *testing.T) {
		tests := []struct {
			response string
			want     model.Tone
		}{
			{"I don't like it at all.", model.ToneNegative},
			{"Honestly it is not interesting to me.", model.ToneNegative},
			{"I do not like the smell.", model.ToneNegative},
			{"I like the bottle, it looks nice.", model.TonePositive},
		}
		for _, tt := range tests {
			text := "Q: What is your first impression?\nA: " + tt.response
			tr := svc.buildTranscript(&p, testConcept(), text)
			require.Len(t, tr.Exchanges, 1)
			assert.Equal(t, tt.want, tr.Exchanges[0].Tone, tt.response)
		}
	})
}

func TestParseInterviewOpaqueText(t *testing.T) {
	exchanges, insights := parseInterview("  The consumer liked the idea but found it pricey.  ")
	require.Len(t, exchanges, 1)
	assert.Equal(t, "Interview", exchanges[0].Question)
	assert.Equal(t, "The consumer liked the idea but found it pricey.", exchanges[0].Response)
	assert.NotNil(t, insights)
	assert.Empty(t, insights)
}

func TestParseInterviewAnswerWithoutQuestion(t *testing.T) {
	exchanges, _ := parseInterview("A: first\nA: second")
	require.Len(t, exchanges, 2)
	assert.Equal(t, "", exchanges[0].Question)
	assert.Equal(t, "first", exchanges[0].Response)
	assert.Equal(t, "second", exchanges[1].Response)
}

func TestRunInterviewsReportsProgress(t *testing.T) {
	rec := &recorder{}
	svc := NewInterviewService(&fakeLLM{responses: []string{sampleInterview}}, 0)
	svc.SetReporter(rec)
	svc.now = newClock().Now
	personas := testPersonas("Ana", "Beatriz", "Carla")

	ctx := WithRunID(context.Background(), "run-1")
	_, err := svc.RunInterviews(ctx, testConcept(), personas)
	require.NoError(t, err)

	states := rec.all()
	require.Len(t, states, 4)
	for i := 0; i < 3; i++ {
		assert.Equal(t, model.PhaseInterviews, states[i].Phase)
		assert.Equal(t, i, states[i].Step)
		assert.Equal(t, 3, states[i].Total)
		assert.Equal(t, personas[i].Name, states[i].PersonaName)
		assert.Equal(t, "run-1", states[i].RunID)
	}
	assert.Nil(t, states[0].EstimatedRemaining)
	require.NotNil(t, states[1].EstimatedRemaining)

	last := states[3]
	assert.Equal(t, model.PhaseCompleted, last.Phase)
	assert.Equal(t, 3, last.Step)
	assert.Equal(t, 3, last.Total)
	require.NotNil(t, last.EstimatedRemaining)
	assert.Zero(t, *last.EstimatedRemaining)

	for i := 1; i < len(states); i++ {
		assert.GreaterOrEqual(t, states[i].ElapsedMS, states[i-1].ElapsedMS)
	}
}

func TestRunInterviewsPauseHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := &fakeLLM{responses: []string{sampleInterview}}
	svc := NewInterviewService(client, time.Hour)

	res, err := svc.RunInterviews(ctx, testConcept(), testPersonas("Ana", "Beatriz"))
	require.Nil(t, res)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, client.callCount())
}

func TestRunInterviewsNoPauseAfterLastPersona(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := NewInterviewService(&fakeLLM{responses: []string{sampleInterview}}, time.Hour)

	res, err := svc.RunInterviews(ctx, testConcept(), testPersonas("Ana"))
	require.NoError(t, err)
	require.Len(t, res.Transcripts, 1)
}

func TestRunInterviewsMockMode(t *testing.T) {
	gen := panel.NewGenerator(11)
	personas := gen.Personas(4)
	concept := testConcept()

	res, err := NewInterviewService(nil, 0).RunInterviews(context.Background(), concept, personas)
	require.NoError(t, err)
	require.Len(t, res.Transcripts, 4)
	for _, tr := range res.Transcripts {
		require.Len(t, tr.Exchanges, 4)
		assert.Contains(t, tr.Exchanges[0].Question, concept.Name)
		assert.NotEmpty(t, tr.KeyInsights)
		for _, ex := range tr.Exchanges {
			assert.NotEmpty(t, ex.Response)
		}
	}
}
