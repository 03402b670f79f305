package judge

import "github.com/abhisek/gradewise/internal/llm"

// JudgmentSchema defines the structured reply expected from the judgment
// service. Range checks are applied after parsing so that an out-of-range
// score is clamped instead of rejected.
var JudgmentSchema = &llm.Schema{
	Name:        "judgment-score",
	Description: "A rubric-based score for one student submission",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":        "number",
				"description": "Points awarded, between 0 and the rubric total",
			},
			"maxPoints": map[string]any{
				"type":        "number",
				"description": "The rubric total the score is out of",
			},
			"reason": map[string]any{
				"type":        "string",
				"description": "One or two sentences explaining the score, addressed to the teacher",
			},
		},
		"required":             []any{"score", "maxPoints", "reason"},
		"additionalProperties": false,
	},
}
