package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"conceptlab/internal/export"
	"conceptlab/internal/model"
	"conceptlab/internal/panel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadConceptFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json object", "c.json", `{"id":"c1","name":"Argan Night Repair","description":"Overnight repair","priceTier":"premium"}`},
		{"json array", "c.json", `[{"id":"c1","name":"Argan Night Repair","description":"Overnight repair","priceTier":"premium"}]`},
		{"yaml", "c.yaml", "id: c1\nname: Argan Night Repair\ndescription: Overnight repair\npriceTier: premium\nkeyIngredients:\n  - argan oil\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := readConcept(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, "Argan Night Repair", c.Name)
			assert.Equal(t, model.PriceTierPremium, c.PriceTier)
		})
	}
}

func TestReadConceptRejects(t *testing.T) {
	_, err := readConcept(writeFile(t, "c.json", `[{"id":"a","name":"A","description":"x"},{"id":"b","name":"B","description":"y"}]`))
	assert.ErrorContains(t, err, "expected one concept")

	_, err = readConcept(writeFile(t, "c.json", `{"id":"a","name":"A"}`))
	var ve *model.ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = readConcept(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadPanel(t *testing.T) {
	path := writeFile(t, "p.yml", "- id: p1\n  name: Ana\n  age: 34\n- id: p2\n  name: Beatriz\n  age: 51\n")

	personas, err := loadPanel(path, 0, 1)
	require.NoError(t, err)
	require.Len(t, personas, 2)
	assert.Equal(t, 51, personas[1].Age)

	personas, err = loadPanel("", 4, 9)
	require.NoError(t, err)
	assert.Len(t, personas, 4)

	_, err = loadPanel(path, 4, 9)
	assert.Error(t, err)
	_, err = loadPanel("", 0, 9)
	assert.Error(t, err)
}

func TestScoreConceptIsDeterministic(t *testing.T) {
	gen := panel.NewGenerator(5)
	concepts := gen.Concepts(1)
	personas := gen.Personas(8)

	first := scoreConcept(&concepts[0], personas)
	second := scoreConcept(&concepts[0], personas)

	assert.Equal(t, first, second)
	assert.Equal(t, 8, first.Insights.SampleSize)
	assert.Len(t, first.Evaluations, 8)
}

func TestWriteReport(t *testing.T) {
	report := &model.ConsolidatedReport{
		ConceptName: "Argan Night Repair",
		Source:      model.SourceFallback,
		Decision:    model.Decision{Recommendation: model.RecommendationRefine, Confidence: 40, Reasoning: "mixed", NextSteps: []string{}},
		GeneratedAt: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
	}
	dir := t.TempDir()

	var stdout bytes.Buffer
	jsonPath := filepath.Join(dir, "report.json")
	require.NoError(t, writeReport(&stdout, jsonPath, report))
	assert.Contains(t, stdout.String(), "REFINE (40%) written to")

	f, err := os.Open(jsonPath)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := export.ReadJSON(f)
	require.NoError(t, err)
	assert.Equal(t, report.Decision, decoded.Decision)

	txtPath := filepath.Join(dir, "report.TXT")
	require.NoError(t, writeReport(&stdout, txtPath, report))
	text, err := os.ReadFile(txtPath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(text), "RECOMMENDATION: REFINE"))

	stdout.Reset()
	require.NoError(t, writeReport(&stdout, "", report))
	assert.Contains(t, stdout.String(), "CONFIDENCE: 40%")
}

func TestBarReporterFollowsPhases(t *testing.T) {
	var out bytes.Buffer
	r := &barReporter{out: &out}
	remaining := int64(2000)

	r.OnProgress(model.ProgressState{Phase: model.PhaseInterviews, Step: 0, Total: 2, Action: "interviewing Ana"})
	r.OnProgress(model.ProgressState{Phase: model.PhaseInterviews, Step: 1, Total: 2, Action: "interviewing Beatriz", EstimatedRemaining: &remaining})
	r.OnProgress(model.ProgressState{Phase: model.PhaseCompleted, Step: 2, Total: 2, Action: "interviews complete"})
	assert.Nil(t, r.bar)

	r.OnProgress(model.ProgressState{Phase: model.PhaseConsolidation, Step: 0, Total: 5, Action: "building prompt"})
	require.NotNil(t, r.bar)
	assert.Equal(t, model.PhaseConsolidation, r.phase)
	assert.Contains(t, out.String(), "interviewing Beatriz (~2s left)")
}
