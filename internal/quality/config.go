package quality

// Scoring policy. These weights and thresholds are deliberate,
// versioned constants: changing any of them changes which quizzes the
// orchestrator accepts, so treat edits like a policy decision.

// Sub-score weights. Must sum to 1.
const (
	WeightClarity     = 0.30
	WeightDiversity   = 0.25
	WeightExplanation = 0.25
	WeightBalance     = 0.20
)

// Overall level boundaries, inclusive lower bounds.
const (
	ExcellentMin  = 90
	GoodMin       = 75
	AcceptableMin = 60
)

// Per-dimension warning thresholds. A sub-score below its threshold
// adds a warning to the report even when the overall score passes.
const (
	ClarityWarnBelow     = 70.0
	DiversityWarnBelow   = 70.0
	ExplanationWarnBelow = 70.0
	BalanceWarnBelow     = 60.0
)

// Clarity heuristics.
const (
	minQuestionChars = 10
	maxQuestionChars = 300
)

// Explanation heuristics.
const minExplanationChars = 20
