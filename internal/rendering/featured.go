package rendering

import (
	"fmt"
	"strings"

	"github.com/jonathan/prompt-library/internal/prompts"
	"github.com/jonathan/prompt-library/internal/ranking"
)

// Badge thresholds for featured entries are inclusive, unlike the index badges.
const (
	featuredHookThreshold       = 80.0
	featuredCompletionThreshold = 60.0
)

// NoFeaturedPrompts is rendered when nothing has been scored yet.
const NoFeaturedPrompts = "No featured prompts available yet."

type featuredPage struct {
	Entries []featuredEntry
	Formula string
}

type featuredEntry struct {
	Badge       string
	Title       string
	Path        string
	Category    string
	Retention3s string
	Score       string
}

// RenderFeatured renders the README fragment listing the top performers.
func RenderFeatured(top []ranking.PromptPerformance) (string, error) {
	if len(top) == 0 {
		return NoFeaturedPrompts, nil
	}

	page := featuredPage{
		Entries: make([]featuredEntry, 0, len(top)),
		Formula: ranking.ScoreFormula,
	}
	for _, perf := range top {
		retention := 0.0
		if perf.Retention3s != nil {
			retention = *perf.Retention3s
		}
		page.Entries = append(page.Entries, featuredEntry{
			Badge:       FeaturedBadge(perf),
			Title:       perf.Title,
			Path:        prompts.DisplayPath(perf.Path, 2),
			Category:    perf.Category,
			Retention3s: fmt.Sprintf("%.1f", retention),
			Score:       fmt.Sprintf("%.2f", perf.WeightedScore),
		})
	}

	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, "featured.md.tmpl", page); err != nil {
		return "", &TemplateError{Message: "failed to execute featured template", Cause: err}
	}
	return sb.String(), nil
}

// FeaturedBadge returns 🔥 when retention_3s is at least 80, else ⭐ when
// completion_rate is at least 60.
func FeaturedBadge(perf ranking.PromptPerformance) string {
	if perf.Retention3s != nil && *perf.Retention3s >= featuredHookThreshold {
		return "🔥 "
	}
	if perf.CompletionRate != nil && *perf.CompletionRate >= featuredCompletionThreshold {
		return "⭐ "
	}
	return ""
}
