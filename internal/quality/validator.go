// Package quality scores generated quizzes against structural and
// content heuristics. Evaluate is a pure function: the same quiz always
// produces the same report, and nothing outside the quiz is consulted.
package quality

import (
	"fmt"
	"math"
	"strings"

	"github.com/studygen/studygen/internal/quiz"
)

// Level buckets an overall score.
type Level string

const (
	LevelExcellent  Level = "excellent"
	LevelGood       Level = "good"
	LevelAcceptable Level = "acceptable"
	LevelPoor       Level = "poor"
)

// SubScores holds the per-dimension scores, each 0-100.
type SubScores struct {
	Clarity     float64
	Diversity   float64
	Explanation float64
	Balance     float64
}

// Report is the outcome of evaluating one quiz.
type Report struct {
	// Score is the weighted overall score, 0-100.
	Score int

	// Level buckets the score at fixed boundaries.
	Level Level

	// Warnings names every dimension that fell below its threshold.
	Warnings []string

	// Sub is the per-dimension breakdown.
	Sub SubScores
}

// Evaluate scores a quiz. A nil or empty quiz scores zero across the
// board.
func Evaluate(q *quiz.Quiz) Report {
	if q == nil || len(q.Questions) == 0 {
		return Report{
			Score:    0,
			Level:    LevelPoor,
			Warnings: []string{"quiz contains no questions"},
		}
	}

	sub := SubScores{
		Clarity:     clarityScore(q),
		Diversity:   diversityScore(q),
		Explanation: explanationScore(q),
		Balance:     balanceScore(q),
	}

	weighted := sub.Clarity*WeightClarity +
		sub.Diversity*WeightDiversity +
		sub.Explanation*WeightExplanation +
		sub.Balance*WeightBalance

	score := int(math.Round(clamp(weighted)))

	return Report{
		Score:    score,
		Level:    classify(score),
		Warnings: collectWarnings(sub),
		Sub:      sub,
	}
}

// classify maps a score to its level. Boundaries are inclusive lower
// bounds: 90 is excellent, 89 is good.
func classify(score int) Level {
	switch {
	case score >= ExcellentMin:
		return LevelExcellent
	case score >= GoodMin:
		return LevelGood
	case score >= AcceptableMin:
		return LevelAcceptable
	default:
		return LevelPoor
	}
}

func collectWarnings(sub SubScores) []string {
	var warnings []string
	if sub.Clarity < ClarityWarnBelow {
		warnings = append(warnings, fmt.Sprintf("question clarity is low (%.0f): questions are missing, too short or duplicated", sub.Clarity))
	}
	if sub.Diversity < DiversityWarnBelow {
		warnings = append(warnings, fmt.Sprintf("options lack diversity (%.0f): duplicated, empty or missing choices", sub.Diversity))
	}
	if sub.Explanation < ExplanationWarnBelow {
		warnings = append(warnings, fmt.Sprintf("explanations are incomplete (%.0f)", sub.Explanation))
	}
	if sub.Balance < BalanceWarnBelow {
		warnings = append(warnings, fmt.Sprintf("correct answers cluster on one option (%.0f)", sub.Balance))
	}
	return warnings
}

// clarityScore checks that question prompts exist, fit sensible length
// bounds, and do not repeat within the quiz.
func clarityScore(q *quiz.Quiz) float64 {
	seen := make(map[string]bool, len(q.Questions))
	var total float64

	for _, question := range q.Questions {
		text := strings.TrimSpace(question.Question)
		score := 100.0

		switch {
		case text == "":
			score = 0
		case len(text) < minQuestionChars:
			score = 40
		case len(text) > maxQuestionChars:
			score = 70
		}

		key := strings.ToLower(text)
		if text != "" && seen[key] {
			score = 20 // duplicate question
		}
		seen[key] = true

		total += score
	}

	return clamp(total / float64(len(q.Questions)))
}

// diversityScore checks the option sets: exactly 4 per question, all
// distinct and non-empty, with an in-range correct index.
func diversityScore(q *quiz.Quiz) float64 {
	var total float64

	for _, question := range q.Questions {
		score := 100.0

		if len(question.Options) != quiz.OptionCount {
			total += 0
			continue
		}
		if question.CorrectAnswer < 0 || question.CorrectAnswer >= len(question.Options) {
			total += 0
			continue
		}

		seen := make(map[string]bool, len(question.Options))
		for _, opt := range question.Options {
			norm := strings.ToLower(strings.TrimSpace(opt))
			if norm == "" {
				score -= 25
				continue
			}
			if seen[norm] {
				score -= 30
			}
			seen[norm] = true
		}

		if score < 0 {
			score = 0
		}
		total += score
	}

	return clamp(total / float64(len(q.Questions)))
}

// explanationScore checks that each question carries a real explanation
// rather than an empty string or a restated option.
func explanationScore(q *quiz.Quiz) float64 {
	var total float64

	for _, question := range q.Questions {
		expl := strings.TrimSpace(question.Explanation)
		score := 100.0

		switch {
		case expl == "":
			score = 0
		case len(expl) < minExplanationChars:
			score = 50
		case restatesAnswer(question, expl):
			score = 60
		}

		total += score
	}

	return clamp(total / float64(len(q.Questions)))
}

// restatesAnswer reports whether the explanation is nothing more than
// the correct option's text.
func restatesAnswer(question quiz.Question, expl string) bool {
	if question.CorrectAnswer < 0 || question.CorrectAnswer >= len(question.Options) {
		return false
	}
	answer := strings.TrimSpace(question.Options[question.CorrectAnswer])
	return answer != "" && strings.EqualFold(expl, answer)
}

// balanceScore checks that correct answers are spread across option
// positions rather than piling on one index. A single-question quiz is
// neutral.
func balanceScore(q *quiz.Quiz) float64 {
	if len(q.Questions) < 2 {
		return 100
	}

	counts := make([]int, quiz.OptionCount)
	valid := 0
	for _, question := range q.Questions {
		if question.CorrectAnswer >= 0 && question.CorrectAnswer < quiz.OptionCount {
			counts[question.CorrectAnswer]++
			valid++
		}
	}
	if valid == 0 {
		return 0
	}

	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}

	// Share of the dominant index, scaled so a uniform spread scores
	// 100 and everything-on-one-option scores 0.
	dominant := float64(maxCount) / float64(valid)
	ideal := 1.0 / float64(quiz.OptionCount)
	score := 100 * (1 - (dominant-ideal)/(1-ideal))

	return clamp(score)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
