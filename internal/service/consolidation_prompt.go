package service

import (
	"fmt"
	"strings"

	"conceptlab/internal/model"
)

const reportSchema = `{
  "decision": {
    "recommendation": "GO" | "REFINE" | "NO_GO",
    "confidence": <integer 0-100>,
    "reasoning": "<2-3 sentences>",
    "nextSteps": ["<step>", ...]
  },
  "insights": [
    {
      "category": "<pricing|messaging|product|segment|...>",
      "title": "<short title>",
      "description": "<what was observed>",
      "evidence": ["<verbatim quote with persona name>", ...],
      "actionItems": ["<action>", ...],
      "impact": "high" | "medium" | "low"
    }
  ],
  "keyFindings": {
    "strengthPoints": ["..."],
    "weaknessPoints": ["..."],
    "surprisingFindings": ["..."]
  },
  "targetOptimization": {
    "messaging": ["..."],
    "positioning": ["..."],
    "features": ["..."],
    "pricing": ["..."]
  },
  "researchRecommendations": {
    "mustValidate": ["..."],
    "segments": ["..."],
    "methodology": ["..."]
  }
}`

func (s *ConsolidationService) buildConsolidationPrompt(res *model.InterviewsResult) string {
	var b strings.Builder
	c := res.Concept

	b.WriteString("You are a senior consumer insights director. Consolidate the qualitative interviews below into an executive go/no-go decision.\n\n")
	b.WriteString("CONCEPT\n")
	fmt.Fprintf(&b, "Name: %s\nCategory: %s\n", c.Name, c.Category)
	for _, f := range []struct{ label, value string }{
		{"Headline", c.Headline},
		{"Description", c.Description},
		{"Reason to believe", c.ReasonToBelieve},
		{"Key ingredients", strings.Join(c.KeyIngredients, ", ")},
		{"Usage format", c.UsageFormat},
		{"Target segment", c.TargetSegment},
		{"Price tier", string(c.PriceTier)},
	} {
		if f.value != "" {
			fmt.Fprintf(&b, "%s: %s\n", f.label, f.value)
		}
	}

	fmt.Fprintf(&b, "\nINTERVIEWS (%d)\n", len(res.Transcripts))
	for i := range res.Transcripts {
		t := &res.Transcripts[i]
		summary := t.PersonaName
		if p, ok := res.PersonaByID(t.PersonaID); ok {
			summary = p.Summary()
		}
		fmt.Fprintf(&b, "\n--- Interview %d: %s ---\n", i+1, summary)
		for _, ex := range t.Exchanges {
			fmt.Fprintf(&b, "Q: %s\nA: %s\n", ex.Question, ex.Response)
		}
		if len(t.KeyInsights) > 0 {
			b.WriteString("Key insights:\n")
			for _, in := range t.KeyInsights {
				fmt.Fprintf(&b, "- %s\n", in)
			}
		}
	}

	b.WriteString("\nReturn ONLY valid JSON matching this schema, no markdown, no commentary:\n")
	b.WriteString(reportSchema)
	b.WriteString("\n\nRules: quote personas verbatim in evidence, give 3-6 insights, and base the confidence on how consistent the panel was.")
	return b.String()
}
