package scoring

import (
	"context"

	"github.com/abhisek/gradewise/internal/task"
)

// PuzzlePartialCap is the share of a puzzle's points an incomplete attempt
// can earn through judgment.
const PuzzlePartialCap = 0.8

// Default photo+caption rubric weights.
const (
	PhotoRelevanceWeight = 0.6
	ExplanationWeight    = 0.4
)

const puzzleProgressGuide = "The puzzle was not completed. Award partial credit for " +
	"pieces or nodes placed sensibly relative to their correct order."

// specializedPoints is the point value for the built-in rubrics: the
// task's own points, else the type default.
func specializedPoints(def task.Definition) float64 {
	return def.PointsOr(def.Type.DefaultMaxPoints())
}

// scorePuzzle gives full credit to a completed puzzle or concept map. An
// incomplete one is judged for partial credit, capped below full marks.
func (d *Dispatcher) scorePuzzle(ctx context.Context, def task.Definition, sub task.Submission, rubric *task.Rubric) (task.ScoreResult, error) {
	points := specializedPoints(def)
	if done := sub.AsPuzzle().Completed; done != nil && *done {
		return ruleResult(points, points, map[string]any{
			"completed": true,
		}), nil
	}
	if def.AIScoringRequired != nil && !*def.AIScoringRequired {
		return noScore(def), nil
	}

	if rubric == nil {
		rubric = puzzleRubric(points)
	}
	res, err := d.judgeWork(ctx, def, sub, rubric, task.Float(points))
	if err != nil {
		return task.ScoreResult{}, err
	}

	ceiling := round2(points * PuzzlePartialCap)
	if res.Score != nil && *res.Score > ceiling {
		res.Score = task.Float(ceiling)
	}
	res.Details = map[string]any{
		"completed":  false,
		"partialCap": ceiling,
	}
	return res, nil
}

func puzzleRubric(points float64) *task.Rubric {
	return &task.Rubric{
		TotalPoints: points,
		Criteria: []task.Criterion{{
			ID:          "progress",
			Label:       "Progress toward a correct arrangement",
			MaxPoints:   points,
			Description: puzzleProgressGuide,
		}},
	}
}

// scorePhotoCaption judges a photo with an explanation, falling back to
// the default photo relevance / explanation rubric.
func (d *Dispatcher) scorePhotoCaption(ctx context.Context, def task.Definition, sub task.Submission, rubric *task.Rubric) (task.ScoreResult, error) {
	if def.AIScoringRequired != nil && !*def.AIScoringRequired {
		return noScore(def), nil
	}

	points := specializedPoints(def)
	if rubric == nil {
		rubric = PhotoCaptionRubric(points)
	}
	var total *float64
	if def.Points != nil && *def.Points > 0 {
		total = def.Points
	}
	return d.judgeWork(ctx, def, sub, rubric, total)
}

// PhotoCaptionRubric is the built-in rubric for photo+caption tasks.
func PhotoCaptionRubric(points float64) *task.Rubric {
	return &task.Rubric{
		TotalPoints: points,
		Criteria: []task.Criterion{
			{
				ID:          "photo-relevance",
				Label:       "Photo relevance",
				MaxPoints:   round2(points * PhotoRelevanceWeight),
				Description: "The photo shows something that answers the prompt.",
			},
			{
				ID:          "explanation",
				Label:       "Explanation quality",
				MaxPoints:   round2(points * ExplanationWeight),
				Description: "The caption explains what the photo shows and why it fits.",
			},
		},
	}
}
