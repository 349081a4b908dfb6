package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studygen/studygen/internal/llm"
	"github.com/studygen/studygen/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "studygen",
	Short: "Turn study documents into quizzes, flashcards and answers",
	Long: "Studygen reads plain-text study material and uses an LLM backend to\n" +
		"generate quality-checked quizzes, flashcard decks and grounded answers.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides STUDYGEN_DB env var)")

	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(flashcardsCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then STUDYGEN_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// loadConfig reads STUDYGEN_* env config and falls back to probing the
// standard provider API key vars.
func loadConfig() (llm.Config, error) {
	cfg := llm.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		if discovered, ok := llm.DiscoverConfig(); ok {
			return discovered, nil
		}
		return llm.Config{}, err
	}
	return cfg, nil
}
