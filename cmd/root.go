package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gasbank",
	Short: "Multiple-choice question bank for board review",
	Long:  "Gasbank: a terminal question bank with tutor and exam sessions, performance tracking and backups.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is normal; the environment is used as is.
		_ = godotenv.Load()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, false)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides GASBANK_DB env var)")
	rootCmd.PersistentFlags().String("catalog", "", "Path to a JSON or YAML question catalog (overrides GASBANK_CATALOG env var)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(versionCmd)
}
