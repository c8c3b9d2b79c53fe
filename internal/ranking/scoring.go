// Package ranking scores prompts by their recorded engagement metrics.
package ranking

import (
	"github.com/jonathan/prompt-library/internal/types"
)

// Weights for the engagement score. Early retention dominates because it
// measures how well the first seconds hook the viewer.
const (
	retention3sWeight    = 0.4
	retention5sWeight    = 0.3
	completionRateWeight = 0.3
)

// ScoreFormula is the human-readable form of WeightedScore.
const ScoreFormula = "retention_3s × 0.4 + retention_5s × 0.3 + completion_rate × 0.3"

// WeightedScore returns the weighted engagement score of a prompt.
// All three metrics must be present; otherwise the score is 0.
func WeightedScore(perf *types.Performance) float64 {
	if perf == nil || perf.Retention3s == nil || perf.Retention5s == nil || perf.CompletionRate == nil {
		return 0.0
	}
	return *perf.Retention3s*retention3sWeight +
		*perf.Retention5s*retention5sWeight +
		*perf.CompletionRate*completionRateWeight
}

// PromptPerformance is a scored prompt.
type PromptPerformance struct {
	Path           string
	Title          string
	Category       string
	Created        string
	Retention3s    *float64
	Retention5s    *float64
	CompletionRate *float64
	Replays        *int
	WeightedScore  float64
}

// ExtractPerformance builds a scored entry from a prompt. Prompts without
// performance data or without retention_3s are not rankable.
func ExtractPerformance(path string, prompt *types.Prompt) (PromptPerformance, bool) {
	if prompt == nil || prompt.Performance.IsEmpty() || prompt.Performance.Retention3s == nil {
		return PromptPerformance{}, false
	}

	perf := prompt.Performance
	return PromptPerformance{
		Path:           path,
		Title:          prompt.TitleOrDefault(),
		Category:       prompt.CategoryOrDefault(),
		Created:        prompt.Created,
		Retention3s:    perf.Retention3s,
		Retention5s:    perf.Retention5s,
		CompletionRate: perf.CompletionRate,
		Replays:        perf.Replays,
		WeightedScore:  WeightedScore(perf),
	}, true
}
