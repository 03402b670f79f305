package scoring

import (
	"context"
	"fmt"

	"github.com/abhisek/gradewise/internal/judge"
	"github.com/abhisek/gradewise/internal/task"
	"github.com/abhisek/gradewise/internal/workdesc"
)

// Judge scores work against a rubric. *judge.Scorer implements it.
type Judge interface {
	Score(ctx context.Context, in judge.Input) (task.ScoreResult, error)
}

// Dispatcher is the single entry point for scoring a submission. It picks
// between rule-based scoring, an external judgment and no score at all.
//
// A Dispatcher holds no mutable state and is safe for concurrent use.
type Dispatcher struct {
	judge Judge
}

// NewDispatcher creates a Dispatcher. j may be nil, in which case any task
// that needs a judgment fails with a *ConfigError.
func NewDispatcher(j Judge) *Dispatcher {
	return &Dispatcher{judge: j}
}

// Score scores one submission. rubric may be nil.
//
// "No score available" is not an error: it is reported as a result with
// method none. Errors are returned only for configuration problems
// (*ConfigError) and judgment service failures.
func (d *Dispatcher) Score(ctx context.Context, def task.Definition, sub task.Submission, rubric *task.Rubric) (task.ScoreResult, error) {
	switch def.Type.Category() {
	case task.CategoryConceptMap:
		return d.scorePuzzle(ctx, def, sub, rubric)
	case task.CategoryPhotoCaption:
		return d.scorePhotoCaption(ctx, def, sub, rubric)
	}

	if res, ok := ScoreByRules(def, sub); ok {
		return res, nil
	}

	if !judgmentRequired(def, rubric) {
		return noScore(def), nil
	}
	if rubric == nil {
		return task.ScoreResult{}, &ConfigError{
			TaskType: def.Type,
			Reason:   "judgment required but no rubric was supplied",
		}
	}

	var total *float64
	if def.Points != nil && *def.Points > 0 {
		total = def.Points
	}
	return d.judgeWork(ctx, def, sub, rubric, total)
}

// judgmentRequired resolves, in order, the task's explicit override, the
// type's default, and finally infers it from the absence of an answer key
// combined with a caller-supplied rubric.
func judgmentRequired(def task.Definition, rubric *task.Rubric) bool {
	if def.AIScoringRequired != nil {
		return *def.AIScoringRequired
	}
	if d := def.Meta().JudgmentDefault; d != nil {
		return *d
	}
	return !def.HasAnswerKey() && rubric != nil
}

// noScore is the terminal "nothing to score" result.
func noScore(def task.Definition) task.ScoreResult {
	res := task.ScoreResult{Method: task.MethodNone}
	if def.Points != nil && *def.Points > 0 {
		res.MaxPoints = task.Float(*def.Points)
	}
	return res
}

func (d *Dispatcher) judgeWork(ctx context.Context, def task.Definition, sub task.Submission, rubric *task.Rubric, total *float64) (task.ScoreResult, error) {
	if d.judge == nil {
		return task.ScoreResult{}, &ConfigError{
			TaskType: def.Type,
			Reason:   "judgment required but no judgment service is configured",
		}
	}

	res, err := d.judge.Score(ctx, judge.Input{
		Task:        def,
		Rubric:      rubric,
		Work:        workdesc.Build(def, sub),
		TotalPoints: total,
	})
	if err != nil {
		return task.ScoreResult{}, fmt.Errorf("judge %s task %q: %w", def.Type, def.ID, err)
	}
	return res, nil
}
