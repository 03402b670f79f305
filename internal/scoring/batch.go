package scoring

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/gradewise/internal/task"
)

// DefaultBatchLimit bounds concurrent judgment calls in ScoreBatch.
const DefaultBatchLimit = 4

// Job is one submission to score.
type Job struct {
	Task       task.Definition
	Submission task.Submission
	Rubric     *task.Rubric
}

// Outcome is the result of one Job. Err is set instead of Result when the
// job failed.
type Outcome struct {
	Submission task.Submission
	Result     task.ScoreResult
	Err        error
}

// ScoreBatch scores jobs concurrently, at most limit at a time. Outcomes
// are returned in job order. A failed job records its error in its own
// outcome and does not stop the others; a cancelled ctx shows up as a
// per-job error.
func (d *Dispatcher) ScoreBatch(ctx context.Context, jobs []Job, limit int) []Outcome {
	if limit <= 0 {
		limit = DefaultBatchLimit
	}

	out := make([]Outcome, len(jobs))
	var g errgroup.Group
	g.SetLimit(limit)

	for i, job := range jobs {
		g.Go(func() error {
			out[i].Submission = job.Submission
			if err := ctx.Err(); err != nil {
				out[i].Err = err
				return nil
			}
			res, err := d.Score(ctx, job.Task, job.Submission, job.Rubric)
			if err != nil {
				slog.Warn("scoring failed",
					"task", job.Task.ID,
					"type", job.Task.Type,
					"submission", job.Submission.ID,
					"error", err)
				out[i].Err = err
				return nil
			}
			out[i].Result = res
			return nil
		})
	}
	_ = g.Wait()

	return out
}
