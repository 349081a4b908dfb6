package quality

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studygen/studygen/internal/quiz"
)

// wellFormedQuiz builds n questions with distinct prompts, four distinct
// options each, spread correct answers and real explanations.
func wellFormedQuiz(n int) *quiz.Quiz {
	q := &quiz.Quiz{}
	for i := 0; i < n; i++ {
		q.Questions = append(q.Questions, quiz.Question{
			ID:       fmt.Sprintf("q%d", i+1),
			Question: fmt.Sprintf("Which process does stage %d of the cell cycle perform?", i+1),
			Options: []string{
				fmt.Sprintf("Replication of chromosome %d", i+1),
				fmt.Sprintf("Division of organelle %d", i+1),
				fmt.Sprintf("Synthesis of protein %d", i+1),
				fmt.Sprintf("Breakdown of membrane %d", i+1),
			},
			CorrectAnswer: i % quiz.OptionCount,
			Explanation:   fmt.Sprintf("The document states that stage %d performs this process during interphase.", i+1),
			Difficulty:    quiz.QuestionMedium,
			Category:      quiz.CategoryConcept,
		})
	}
	return q
}

func TestEvaluate_WellFormedQuizScoresExcellent(t *testing.T) {
	report := Evaluate(wellFormedQuiz(8))

	require.GreaterOrEqual(t, report.Score, ExcellentMin)
	assert.Equal(t, LevelExcellent, report.Level)
	assert.Empty(t, report.Warnings)
}

func TestEvaluate_ScoreStaysInRange(t *testing.T) {
	quizzes := []*quiz.Quiz{
		nil,
		{},
		wellFormedQuiz(1),
		wellFormedQuiz(10),
		{Questions: []quiz.Question{{}}},
		{Questions: []quiz.Question{
			{Question: "?", Options: []string{"a", "a", "", "a"}, CorrectAnswer: 9},
		}},
	}

	for i, q := range quizzes {
		report := Evaluate(q)
		assert.GreaterOrEqual(t, report.Score, 0, "quiz %d", i)
		assert.LessOrEqual(t, report.Score, 100, "quiz %d", i)
	}
}

func TestClassify_ExactBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  Level
	}{
		{100, LevelExcellent},
		{90, LevelExcellent},
		{89, LevelGood},
		{75, LevelGood},
		{74, LevelAcceptable},
		{60, LevelAcceptable},
		{59, LevelPoor},
		{0, LevelPoor},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, classify(tt.score), "score %d", tt.score)
	}
}

func TestEvaluate_EmptyQuizIsPoor(t *testing.T) {
	for _, q := range []*quiz.Quiz{nil, {}} {
		report := Evaluate(q)
		assert.Equal(t, 0, report.Score)
		assert.Equal(t, LevelPoor, report.Level)
		assert.NotEmpty(t, report.Warnings)
	}
}

func TestEvaluate_DuplicateOptionsWarn(t *testing.T) {
	q := wellFormedQuiz(4)
	for i := range q.Questions {
		q.Questions[i].Options = []string{"same", "same", "same", "same"}
	}

	report := Evaluate(q)
	assert.Less(t, report.Sub.Diversity, DiversityWarnBelow)
	require.NotEmpty(t, report.Warnings)
	assert.Contains(t, report.Warnings[0], "diversity")
}

func TestEvaluate_MissingExplanationsWarn(t *testing.T) {
	q := wellFormedQuiz(4)
	for i := range q.Questions {
		q.Questions[i].Explanation = ""
	}

	report := Evaluate(q)
	assert.Equal(t, 0.0, report.Sub.Explanation)

	found := false
	for _, w := range report.Warnings {
		if strings.Contains(w, "explanation") {
			found = true
		}
	}
	assert.True(t, found, "expected an explanation warning, got %v", report.Warnings)
}

func TestEvaluate_AnswerClusteringLowersBalance(t *testing.T) {
	q := wellFormedQuiz(8)
	for i := range q.Questions {
		q.Questions[i].CorrectAnswer = 2
	}

	report := Evaluate(q)
	assert.Equal(t, 0.0, report.Sub.Balance)
	assert.Less(t, report.Score, ExcellentMin)
}

func TestEvaluate_SingleQuestionBalanceIsNeutral(t *testing.T) {
	report := Evaluate(wellFormedQuiz(1))
	assert.Equal(t, 100.0, report.Sub.Balance)
}

func TestEvaluate_Deterministic(t *testing.T) {
	q := wellFormedQuiz(6)
	first := Evaluate(q)
	second := Evaluate(q)
	assert.Equal(t, first, second)
}

func TestEvaluate_ShortQuestionsLowerClarity(t *testing.T) {
	q := wellFormedQuiz(4)
	for i := range q.Questions {
		q.Questions[i].Question = "Why?"
	}

	report := Evaluate(q)
	assert.Less(t, report.Sub.Clarity, ClarityWarnBelow)
}
