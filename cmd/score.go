package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/gradewise/internal/bundle"
	"github.com/abhisek/gradewise/internal/report"
	"github.com/abhisek/gradewise/internal/scoring"
	"github.com/abhisek/gradewise/internal/store"
	"github.com/abhisek/gradewise/internal/task"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one submission against its task definition",
	Example: `  gradewise score --task capitals.yaml --submission ana.json
  gradewise score --task essay.yaml --submission bo.yaml --rubric essay-rubric.yaml --provider openai`,
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viperForCmd(cmd)
		ctx := cmd.Context()

		var def task.Definition
		if err := bundle.Decode(v.GetString("task"), &def); err != nil {
			return err
		}
		var sub task.Submission
		if err := bundle.Decode(v.GetString("submission"), &sub); err != nil {
			return err
		}
		if sub.ID == "" {
			sub.ID = uuid.NewString()
		}
		if sub.TaskID == "" {
			sub.TaskID = def.ID
		}

		var rubric *task.Rubric
		if path := v.GetString("rubric"); path != "" {
			rubric = &task.Rubric{}
			if err := bundle.Decode(path, rubric); err != nil {
				return err
			}
			if err := rubric.Validate(); err != nil {
				return fmt.Errorf("rubric %s: %w", path, err)
			}
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

		res, err := d.Score(ctx, def, sub, rubric)
		if err != nil {
			var cfgErr *scoring.ConfigError
			if errors.As(err, &cfgErr) {
				return fmt.Errorf("%w (configure a judgment provider with --provider or an API key)", err)
			}
			return fmt.Errorf("score submission %s: %w", sub.ID, err)
		}

		if sub.SessionID != "" {
			rec := store.ScoreRecord{
				SessionID:    sub.SessionID,
				SubmissionID: sub.ID,
				TaskID:       sub.TaskID,
				StudentID:    sub.StudentID,
				Result:       res,
			}
			if err := s.ScoreRepo().SaveScore(ctx, rec); err != nil {
				slog.Warn("failed to save score", "submission", sub.ID, "error", err)
			}
		}

		if v.GetBool("json") {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		fmt.Println(report.Score(sub.ID, res))
		return nil
	},
}

func init() {
	f := scoreCmd.Flags()
	f.StringP("task", "t", "", "Task definition file (JSON or YAML)")
	f.StringP("submission", "s", "", "Submission file (JSON or YAML)")
	f.StringP("rubric", "r", "", "Rubric file for judged tasks")
	f.Bool("json", false, "Print the result as JSON")
	addJudgeFlags(scoreCmd)

	_ = scoreCmd.MarkFlagRequired("task")
	_ = scoreCmd.MarkFlagRequired("submission")
}
