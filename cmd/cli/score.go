package main

import (
	"encoding/json"
	"io"

	"conceptlab/internal/feedback"
	"conceptlab/internal/insights"
	"conceptlab/internal/model"

	"github.com/spf13/cobra"
)

func init() {
	scoreCmd.Flags().String("concept", "", "concept file (json or yaml)")
	scoreCmd.Flags().String("personas", "", "persona panel file (json or yaml)")
	scoreCmd.Flags().Int("synthetic", 0, "score against N synthetic personas instead of a file")
	scoreCmd.Flags().Int64("seed", 1, "seed for the synthetic panel")
	scoreCmd.Flags().Bool("evaluations", false, "include the per-persona evaluations")
	_ = scoreCmd.MarkFlagRequired("concept")
}

// ScoreOutput is the result of the deterministic path
type ScoreOutput struct {
	Insights    model.ConceptInsights `json:"insights"`
	Evaluations []model.Evaluation    `json:"evaluations,omitempty"`
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a concept against a persona panel",
	Long:  `Runs the deterministic scoring and feedback rules for every persona and prints the aggregated insights as JSON`,
	RunE: func(cmd *cobra.Command, args []string) error {
		conceptPath, _ := cmd.Flags().GetString("concept")
		personasPath, _ := cmd.Flags().GetString("personas")
		synthetic, _ := cmd.Flags().GetInt("synthetic")
		seed, _ := cmd.Flags().GetInt64("seed")
		withEvaluations, _ := cmd.Flags().GetBool("evaluations")

		concept, err := readConcept(conceptPath)
		if err != nil {
			return err
		}
		personas, err := loadPanel(personasPath, synthetic, seed)
		if err != nil {
			return err
		}

		out := scoreConcept(concept, personas)
		if !withEvaluations {
			out.Evaluations = nil
		}
		return writeIndented(cmd.OutOrStdout(), out)
	},
}

func scoreConcept(concept *model.Concept, personas []model.Persona) ScoreOutput {
	gen := feedback.New()
	evaluations := make([]model.Evaluation, 0, len(personas))
	inputs := make([]insights.Input, 0, len(personas))
	for i := range personas {
		ev := gen.Evaluate(&personas[i], concept)
		evaluations = append(evaluations, ev)
		inputs = append(inputs, insights.Input{Persona: personas[i], Evaluation: ev})
	}
	return ScoreOutput{
		Insights:    insights.Aggregate(concept, inputs),
		Evaluations: evaluations,
	}
}

func writeIndented(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
