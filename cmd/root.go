package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhisek/gradewise/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "gradewise",
	Short: "Score classroom submissions and summarize sessions",
	Long: "gradewise scores student submissions for interactive classroom tasks, " +
		"asks an LLM to judge open-ended work against a rubric, and aggregates " +
		"finished sessions into per-task, per-team and per-student analytics.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(cmd)
	},
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides GRADEWISE_DB env var)")
	pf.String("config", "", "Config file (default: ./gradewise.yaml or ~/.config/gradewise/gradewise.yaml)")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(gradeSessionCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db (or db from the
// config file) first, then GRADEWISE_DB, then the default XDG path.
func resolveDBPath(v *viper.Viper) (string, error) {
	if p := v.GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func openStore(v *viper.Viper) (*store.Store, error) {
	dbPath, err := resolveDBPath(v)
	if err != nil {
		return nil, err
	}
	return store.Open(dbPath)
}
