package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studygen/studygen/internal/llm"
	"github.com/studygen/studygen/internal/orchestrator"
	"github.com/studygen/studygen/internal/progress"
	"github.com/studygen/studygen/internal/quiz"
	"github.com/studygen/studygen/internal/ratelimit"
	"github.com/studygen/studygen/internal/store"
)

var quizCmd = &cobra.Command{
	Use:   "quiz <file>",
	Short: "Generate a quality-checked quiz from a study document",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuiz,
}

func init() {
	quizCmd.Flags().String("difficulty", string(quiz.DifficultyUndergraduate), "Academic level: school, undergraduate or graduate")
	quizCmd.Flags().Int("count", orchestrator.DefaultQuestionCount, "Number of questions")
	quizCmd.Flags().Int("attempts", orchestrator.DefaultMaxAttempts, "Maximum generation attempts")
	quizCmd.Flags().Int("threshold", orchestrator.DefaultQualityThreshold, "Minimum quality score accepted without a warning")
	quizCmd.Flags().Bool("json", false, "Print the quiz as JSON instead of text")
}

func runQuiz(cmd *cobra.Command, args []string) error {
	difficultyFlag, _ := cmd.Flags().GetString("difficulty")
	count, _ := cmd.Flags().GetInt("count")
	attempts, _ := cmd.Flags().GetInt("attempts")
	threshold, _ := cmd.Flags().GetInt("threshold")
	asJSON, _ := cmd.Flags().GetBool("json")

	difficulty, err := quiz.ParseDifficulty(difficultyFlag)
	if err != nil {
		return err
	}

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

	base, err := llm.NewBaseProvider(ctx, cfg)
	if err != nil {
		return err
	}

	// The run loop owns retries, so the orchestrator's provider gets the
	// gate and the logger but no retry decorator.
	limiter := ratelimit.New(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	provider := llm.WithRateLimit(llm.WithLogging(base, s.Events()), limiter)

	ocfg := orchestrator.DefaultConfig()
	ocfg.Retry = cfg.Retry

	sink := progress.Func(func(e progress.Event) {
		fmt.Fprintf(os.Stderr, "[%3d%%] %-10s %s\n", e.Percent, e.Stage, e.Message)
	})

	res, err := orchestrator.New(provider, ocfg).Run(ctx, orchestrator.Request{
		Content:          string(content),
		Difficulty:       difficulty,
		QuestionCount:    count,
		MaxAttempts:      attempts,
		QualityThreshold: threshold,
	}, sink)
	if err != nil {
		return err
	}

	recordRun(ctx, s, store.GenerationRunEventData{
		RunID:         res.RunID,
		Kind:          "quiz",
		Difficulty:    string(difficulty),
		QuestionCount: len(res.Quiz.Questions),
		Attempts:      len(res.Attempts),
		Score:         res.Report.Score,
		Level:         string(res.Report.Level),
		Warning:       res.Warning,
		ElapsedMs:     res.Elapsed.Milliseconds(),
	})

	if res.Warning != "" {
		fmt.Fprintln(os.Stderr, "warning:", res.Warning)
	}

	if asJSON {
		out, err := json.MarshalIndent(res.Quiz, "", "  ")
		if err != nil {
			return fmt.Errorf("encode quiz: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	printQuiz(res)
	return nil
}

func printQuiz(res *orchestrator.Result) {
	fmt.Printf("Quiz — %d questions, quality %d (%s), attempt %d\n\n",
		len(res.Quiz.Questions), res.Report.Score, res.Report.Level, res.Attempt)

	for i, q := range res.Quiz.Questions {
		fmt.Printf("%d. %s  [%s/%s]\n", i+1, q.Question, q.Difficulty, q.Category)
		for j, opt := range q.Options {
			marker := " "
			if j == q.CorrectAnswer {
				marker = "*"
			}
			fmt.Printf("   %s %c) %s\n", marker, 'a'+rune(j), opt)
		}
		fmt.Printf("   > %s\n\n", q.Explanation)
	}
}

// recordRun appends the run event; persistence problems never fail a
// finished run.
func recordRun(ctx context.Context, s *store.Store, data store.GenerationRunEventData) {
	// The run's deadline may already have fired; the write still goes in.
	ctx = context.WithoutCancel(ctx)
	if err := s.Events().AppendGenerationRun(ctx, data); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record run: %v\n", err)
	}
}
