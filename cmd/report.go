package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/gradewise/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report [session-id]",
	Short: "Show stored analytics for a session",
	Long:  "report prints the most recent analytics run of a session. Without a session id it lists the sessions that have stored runs.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viperForCmd(cmd)
		ctx := cmd.Context()

		s, err := openStore(v)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		runs := s.AnalyticsRepo()
		if len(args) == 0 {
			sessions, err := runs.Sessions(ctx)
			if err != nil {
				return fmt.Errorf("list sessions: %w", err)
			}
			if len(sessions) == 0 {
				fmt.Println("No sessions graded yet.")
				return nil
			}
			for _, id := range sessions {
				fmt.Println(id)
			}
			return nil
		}

		run, err := runs.Latest(ctx, args[0])
		if err != nil {
			return fmt.Errorf("load analytics: %w", err)
		}
		if run == nil {
			return fmt.Errorf("no analytics stored for session %q", args[0])
		}

		var out any = run.Result
		rendered := ""
		if studentID := v.GetString("student"); studentID != "" {
			found := false
			for _, st := range run.Result.Students {
				if st.StudentID == studentID {
					out, rendered, found = st, report.Student(st), true
					break
				}
			}
			if !found {
				return fmt.Errorf("student %q has no submissions in session %q", studentID, args[0])
			}
		} else {
			opts := report.DefaultOptions()
			opts.GeneratedAt = run.Timestamp
			rendered = report.Session(run.Result, opts)
		}

		if v.GetBool("json") {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}
		fmt.Println(rendered)
		return nil
	},
}

func init() {
	reportCmd.Flags().String("student", "", "Show one student's breakdown")
	reportCmd.Flags().Bool("json", false, "Print JSON instead of the rendered report")
}
