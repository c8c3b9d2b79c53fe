// Package rendering renders the markdown documents generated from the prompt library:
// per-category README indexes and the featured-prompts fragment.
package rendering

import (
	"embed"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"unicode"

	"github.com/jonathan/prompt-library/internal/prompts"
	"github.com/jonathan/prompt-library/internal/types"
)

//go:embed templates/*.md.tmpl
var templateFiles embed.FS

var templates = template.Must(template.ParseFS(templateFiles, "templates/*.md.tmpl"))

// Badge thresholds used on category index entries.
const (
	hookBadgeThreshold       = 80.0
	completionBadgeThreshold = 60.0
)

// CategoryInfo describes a prompt category.
type CategoryInfo struct {
	Emoji       string
	Description string
}

// Categories are the known prompt categories, keyed by directory name.
var Categories = map[string]CategoryInfo{
	"cinematic": {
		Emoji:       "🎬",
		Description: "Story-driven videos with traditional filmmaking techniques. Character-focused scenes with narrative elements and dramatic lighting.",
	},
	"hyperrealism": {
		Emoji:       "📸",
		Description: "Photorealistic simulations with material accuracy and physics. Natural lighting, real-world plausibility, physics-based rendering.",
	},
	"animation": {
		Emoji:       "🎨",
		Description: "Stylized, non-realistic aesthetics using creative animation techniques. Artistic stylization, handcrafted quality, emphasis on design.",
	},
	"experimental": {
		Emoji:       "🔬",
		Description: "Boundary-pushing, avant-garde work exploring the model's capabilities. Innovative concepts, surreal visuals, unconventional approaches.",
	},
}

type categoryPage struct {
	Emoji       string
	Title       string
	Description string
	Entries     []indexEntry
}

type indexEntry struct {
	Badge       string
	Title       string
	Summary     string
	Tags        string
	Camera      string
	Performance string
	DemoLink    string
	FileName    string
}

// RenderCategoryIndex renders the README for one category. Entries are
// ordered by their created date, newest first; equal dates keep input order.
func RenderCategoryIndex(category string, loaded []prompts.Loaded) (string, error) {
	info, ok := Categories[category]
	if !ok {
		return "", &UnknownCategoryError{Category: category}
	}

	sorted := make([]prompts.Loaded, len(loaded))
	copy(sorted, loaded)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Prompt.Created > sorted[j].Prompt.Created
	})

	page := categoryPage{
		Emoji:       info.Emoji,
		Title:       titleCase(category),
		Description: info.Description,
		Entries:     make([]indexEntry, 0, len(sorted)),
	}
	for _, l := range sorted {
		page.Entries = append(page.Entries, newIndexEntry(l))
	}

	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, "category.md.tmpl", page); err != nil {
		return "", &TemplateError{Message: "failed to execute category template", Cause: err}
	}
	return sb.String(), nil
}

func newIndexEntry(l prompts.Loaded) indexEntry {
	p := l.Prompt
	return indexEntry{
		Badge:       IndexBadge(p.Performance),
		Title:       p.Title,
		Summary:     strings.TrimSpace(p.Summary),
		Tags:        FormatTags(p.Tags),
		Camera:      FormatCamera(p.Camera),
		Performance: FormatPerformance(p.Performance),
		DemoLink:    p.DemoLink,
		FileName:    filepath.Base(l.Path),
	}
}

// IndexBadge returns 🔥 for a strong hook (retention_3s above 80) or ⭐ for
// strong engagement (completion_rate above 60). The badge includes a trailing space.
func IndexBadge(perf *types.Performance) string {
	if perf == nil {
		return ""
	}
	if perf.Retention3s != nil && *perf.Retention3s > hookBadgeThreshold {
		return "🔥 "
	}
	if perf.CompletionRate != nil && *perf.CompletionRate > completionBadgeThreshold {
		return "⭐ "
	}
	return ""
}

// FormatTags renders tags as inline code elements.
func FormatTags(tags []string) string {
	formatted := make([]string, 0, len(tags))
	for _, tag := range tags {
		formatted = append(formatted, "`"+tag+"`")
	}
	return strings.Join(formatted, " ")
}

// FormatCamera renders the camera setup, e.g. "35mm lens | slow dolly | close-up".
func FormatCamera(camera *types.Camera) string {
	if camera == nil {
		return ""
	}
	var parts []string
	if camera.Lens != "" {
		parts = append(parts, camera.Lens+" lens")
	}
	if camera.Movement != "" {
		parts = append(parts, camera.Movement)
	}
	if camera.Framing != "" {
		parts = append(parts, camera.Framing)
	}
	return strings.Join(parts, " | ")
}

// FormatPerformance renders the recorded retention metrics.
func FormatPerformance(perf *types.Performance) string {
	if perf == nil {
		return ""
	}
	var parts []string
	if perf.Retention3s != nil {
		parts = append(parts, fmt.Sprintf("3s: %.1f%%", *perf.Retention3s))
	}
	if perf.Retention5s != nil {
		parts = append(parts, fmt.Sprintf("5s: %.1f%%", *perf.Retention5s))
	}
	if perf.CompletionRate != nil {
		parts = append(parts, fmt.Sprintf("completion: %.1f%%", *perf.CompletionRate))
	}
	return strings.Join(parts, " | ")
}

func titleCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
