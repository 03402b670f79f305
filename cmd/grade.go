package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/gradewise/internal/analytics"
	"github.com/abhisek/gradewise/internal/bundle"
	"github.com/abhisek/gradewise/internal/report"
	"github.com/abhisek/gradewise/internal/scoring"
	"github.com/abhisek/gradewise/internal/store"
	"github.com/abhisek/gradewise/internal/task"
)

var gradeSessionCmd = &cobra.Command{
	Use:   "grade-session <bundle>",
	Short: "Score every submission of a session and aggregate the results",
	Long: "grade-session loads a session bundle (session, submissions and rubrics " +
		"as JSON or YAML), scores each submission that has no score yet, stores " +
		"the results, and prints the session analytics.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viperForCmd(cmd)
		ctx := cmd.Context()

		b, err := bundle.Load(args[0])
		if err != nil {
			return err
		}

		s, err := openStore(v)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		settings, err := loadJudgeSettings(v)
		if err != nil {
			return err
		}
		d, err := newDispatcher(ctx, settings, s.EventRepo())
		if err != nil {
			return err
		}

		rescore := v.GetBool("rescore")
		if !rescore {
			restored, err := restoreScores(ctx, s.ScoreRepo(), b)
			if err != nil {
				return err
			}
			if restored > 0 {
				slog.Info("reusing stored scores", "session", b.Session.ID, "count", restored)
			}
		}

		jobs := b.Jobs(rescore)
		start := time.Now()
		outcomes := d.ScoreBatch(ctx, jobs, v.GetInt("concurrency"))

		failed := 0
		scores := s.ScoreRepo()
		for _, o := range outcomes {
			if o.Err != nil {
				failed++
				continue
			}
			rec := store.ScoreRecord{
				SessionID:    b.Session.ID,
				SubmissionID: o.Submission.ID,
				TaskID:       o.Submission.TaskID,
				StudentID:    o.Submission.StudentID,
				Result:       o.Result,
			}
			if err := scores.SaveScore(ctx, rec); err != nil {
				return fmt.Errorf("save score for %s: %w", o.Submission.ID, err)
			}
		}
		b.Apply(outcomes)
		slog.Info("scored session",
			"session", b.Session.ID,
			"scored", len(outcomes)-failed,
			"failed", failed,
			"elapsed", time.Since(start).Round(time.Millisecond))

		result := analytics.Aggregate(b.Session, b.Submissions)

		runs := s.AnalyticsRepo()
		run := &store.AnalyticsRun{SessionID: b.Session.ID, Result: result}
		if err := runs.Save(ctx, run); err != nil {
			return fmt.Errorf("save analytics: %w", err)
		}
		if keep := v.GetInt("keep"); keep > 0 {
			if err := runs.Prune(ctx, b.Session.ID, keep); err != nil {
				slog.Warn("failed to prune analytics runs", "session", b.Session.ID, "error", err)
			}
		}

		if v.GetBool("json") {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}
		} else {
			opts := report.DefaultOptions()
			opts.GeneratedAt = run.Timestamp
			fmt.Println(report.Session(result, opts))
		}

		if failed > 0 {
			for _, o := range outcomes {
				if o.Err != nil {
					fmt.Fprintf(os.Stderr, "  %s (%s): %v\n", o.Submission.ID, o.Submission.TaskID, o.Err)
				}
			}
			return fmt.Errorf("%d of %d submissions could not be scored", failed, len(outcomes))
		}
		return nil
	},
}

// restoreScores attaches results stored by earlier runs so that unchanged
// submissions are not sent for judgment again.
func restoreScores(ctx context.Context, scores store.ScoreRepo, b *bundle.Bundle) (int, error) {
	records, err := scores.ScoresForSession(ctx, b.Session.ID)
	if err != nil {
		return 0, fmt.Errorf("load stored scores: %w", err)
	}
	stored := make(map[string]task.ScoreResult, len(records))
	for _, rec := range records {
		stored[rec.SubmissionID] = rec.Result
	}
	return b.Restore(stored), nil
}

func init() {
	f := gradeSessionCmd.Flags()
	f.IntP("concurrency", "c", scoring.DefaultBatchLimit, "Max concurrent judgment calls")
	f.Bool("rescore", false, "Rescore submissions that already carry a score, in the bundle or the database")
	f.Int("keep", 10, "Analytics runs to keep per session (0 keeps all)")
	f.Bool("json", false, "Print the analytics as JSON")
	addJudgeFlags(gradeSessionCmd)
}
