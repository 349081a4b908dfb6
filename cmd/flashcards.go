package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/studygen/studygen/internal/flashcards"
	"github.com/studygen/studygen/internal/llm"
	"github.com/studygen/studygen/internal/ratelimit"
	"github.com/studygen/studygen/internal/store"
)

var flashcardsCmd = &cobra.Command{
	Use:   "flashcards <file>",
	Short: "Generate a flashcard deck from a study document",
	Args:  cobra.ExactArgs(1),
	RunE:  runFlashcards,
}

func init() {
	flashcardsCmd.Flags().Int("count", flashcards.DefaultCardCount, "Number of cards")
	flashcardsCmd.Flags().Bool("json", false, "Print the deck as JSON instead of text")
}

func runFlashcards(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("count")
	asJSON, _ := cmd.Flags().GetBool("json")

	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	limiter := ratelimit.New(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	provider, err := llm.NewProvider(ctx, cfg, limiter, s.Events())
	if err != nil {
		return err
	}

	start := time.Now()
	deck, err := flashcards.NewService(provider, flashcards.DefaultConfig()).
		Generate(ctx, flashcards.Input{Content: string(content), Count: count})
	if err != nil {
		return err
	}

	recordRun(ctx, s, store.GenerationRunEventData{
		RunID:     uuid.NewString(),
		Kind:      "flashcards",
		Attempts:  1,
		ElapsedMs: time.Since(start).Milliseconds(),
	})

	if asJSON {
		out, err := json.MarshalIndent(deck, "", "  ")
		if err != nil {
			return fmt.Errorf("encode deck: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("Flashcards — %d cards\n\n", len(deck.Cards))
	for i, c := range deck.Cards {
		fmt.Printf("%d. [%s]\n   Q: %s\n   A: %s\n\n", i+1, c.Topic, c.Front, c.Back)
	}
	return nil
}
