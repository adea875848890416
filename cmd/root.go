package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/quizdoc/internal/store"
)

var rootCmd = &cobra.Command{
	Use:          "quizdoc",
	Short:        "Turn documents into quizzes",
	Long:         "quizdoc reads images, PDFs and Word documents, asks a language model for a quiz over the text and scores your answers.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZDOC_DB)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: ./quizdoc.yaml)")
	rootCmd.PersistentFlags().String("log-file", "", "Path to log file (overrides QUIZDOC_LOG_FILE)")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
