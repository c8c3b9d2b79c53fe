package ranking

import (
	"sort"

	"github.com/jonathan/prompt-library/internal/prompts"
)

// DefaultTopPercent is the share of scored prompts reported as top performers.
const DefaultTopPercent = 0.10

// topPerCategory is how many prompts are listed per category in the breakdown.
const topPerCategory = 3

// CategorySummary aggregates scored prompts of one category.
type CategorySummary struct {
	Category     string
	Count        int
	AverageScore float64
	Top          []PromptPerformance
}

// Analyze scores every loaded prompt that has performance data, in input order.
func Analyze(loaded []prompts.Loaded) []PromptPerformance {
	performances := make([]PromptPerformance, 0, len(loaded))
	for _, l := range loaded {
		if perf, ok := ExtractPerformance(l.Path, l.Prompt); ok {
			performances = append(performances, perf)
		}
	}
	return performances
}

// SortByScore returns a copy sorted by weighted score, highest first.
// Ties keep their input order.
func SortByScore(performances []PromptPerformance) []PromptPerformance {
	sorted := make([]PromptPerformance, len(performances))
	copy(sorted, performances)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].WeightedScore > sorted[j].WeightedScore
	})
	return sorted
}

// TopPerformers returns the best topPercent of prompts by weighted score,
// never fewer than one when any prompt was scored.
func TopPerformers(performances []PromptPerformance, topPercent float64) []PromptPerformance {
	if len(performances) == 0 {
		return nil
	}

	sorted := SortByScore(performances)
	count := max(1, int(float64(len(sorted))*topPercent))
	count = min(count, len(sorted))

	return sorted[:count]
}

// CategoryBreakdown groups scored prompts by category, sorted by category name.
func CategoryBreakdown(performances []PromptPerformance) []CategorySummary {
	byCategory := make(map[string][]PromptPerformance)
	for _, perf := range performances {
		byCategory[perf.Category] = append(byCategory[perf.Category], perf)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	summaries := make([]CategorySummary, 0, len(categories))
	for _, category := range categories {
		perfs := byCategory[category]

		total := 0.0
		for _, perf := range perfs {
			total += perf.WeightedScore
		}

		top := SortByScore(perfs)
		if len(top) > topPerCategory {
			top = top[:topPerCategory]
		}

		summaries = append(summaries, CategorySummary{
			Category:     category,
			Count:        len(perfs),
			AverageScore: total / float64(len(perfs)),
			Top:          top,
		})
	}

	return summaries
}
