// Package observability provides the formatted terminal reports printed by the CLI.
package observability

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonathan/prompt-library/internal/fetch"
	"github.com/jonathan/prompt-library/internal/prompts"
	"github.com/jonathan/prompt-library/internal/ranking"
	"github.com/jonathan/prompt-library/internal/schemas"
)

const (
	// bannerWidth is the width of section separators in reports
	bannerWidth = 80
	// displayLevels is how many ancestors are kept when displaying prompt paths
	displayLevels = 2
)

// Printer handles formatted report output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// PrintBanner prints a title framed by separator lines
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintBanner(title string) {
	border := strings.Repeat("=", bannerWidth)
	fmt.Fprintln(p.out, border)
	fmt.Fprintln(p.out, title)
	fmt.Fprintln(p.out, border)
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printRule(title string) {
	fmt.Fprintln(p.out, title)
	fmt.Fprintln(p.out, strings.Repeat("-", bannerWidth))
}

// PrintFileResult prints the outcome of validating a single file, followed
// by every violation block when it is invalid.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintFileResult(result schemas.FileResult) {
	if result.Valid() {
		fmt.Fprintf(p.out, "✓ %s - VALID\n", result.Path)
		return
	}
	fmt.Fprintf(p.out, "✗ %s - INVALID\n\n", result.Path)
	p.PrintViolations(result.Violations)
}

// PrintDirectoryProgress prints one VALID/INVALID line per file, with paths
// shown relative to the parent of the scanned directory.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintDirectoryProgress(dir string, result schemas.DirectoryResult) {
	fmt.Fprintf(p.out, "✓ Validating prompts in: %s\n\n", dir)

	base := filepath.Dir(filepath.Clean(dir))
	for _, file := range result.Files {
		display := file.Path
		if rel, err := filepath.Rel(base, file.Path); err == nil {
			display = rel
		}
		if file.Valid() {
			fmt.Fprintf(p.out, "✓ %s - VALID\n", display)
		} else {
			fmt.Fprintf(p.out, "✗ %s - INVALID\n", display)
		}
	}
}

// PrintViolations prints every violation block separated by blank lines.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintViolations(violations []schemas.Violation) {
	for _, v := range violations {
		fmt.Fprintln(p.out, v.String())
		fmt.Fprintln(p.out)
	}
}

// ValidationSummary formats the directory summary line.
func ValidationSummary(result schemas.DirectoryResult) string {
	if len(result.Violations) > 0 {
		return fmt.Sprintf("Summary: %d/%d prompts valid (%d errors)", result.Valid, result.Total, len(result.Violations))
	}
	return fmt.Sprintf("Summary: %d/%d prompts valid", result.Valid, result.Total)
}

// PrintDirectoryReport prints the violations of a directory scan followed by its summary line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintDirectoryReport(result schemas.DirectoryResult) {
	fmt.Fprintln(p.out)
	p.PrintViolations(result.Violations)
	fmt.Fprintln(p.out, ValidationSummary(result))
}

// PrintLinkProgress prints the per-file check line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintLinkProgress(index, total int, checked fetch.CheckedFile) {
	status := "⏭️  (no demo link)"
	if checked.Checked {
		status = linkIcon(checked.Result.Reachable)
	}
	fmt.Fprintf(p.out, "[%d/%d] Checking %s... %s\n", index, total, filepath.Base(checked.Path), status)
}

// FormatLinkResult formats one link check result as an indented block.
func FormatLinkResult(result fetch.LinkResult) string {
	lines := []string{
		fmt.Sprintf("%s %s", linkIcon(result.Reachable), result.Title),
		fmt.Sprintf("   File: %s", prompts.DisplayPath(result.File, displayLevels)),
		fmt.Sprintf("   Link: %s", result.DemoLink),
	}

	if result.Platform != "" {
		lines = append(lines, fmt.Sprintf("   Platform: %s", result.Platform))
	}

	if result.Reachable {
		lines = append(lines, fmt.Sprintf("   Status: %d (Accessible)", result.StatusCode))
	} else {
		lines = append(lines, "   Status: BROKEN")
		if result.StatusCode != 0 {
			lines = append(lines, fmt.Sprintf("   HTTP Code: %d", result.StatusCode))
		}
		if result.Error != "" {
			lines = append(lines, fmt.Sprintf("   Error: %s", result.Error))
		}
	}

	return strings.Join(lines, "\n")
}

// PlatformCount is the number of checked links hosted on one platform.
type PlatformCount struct {
	Platform fetch.Platform
	Count    int
}

// CountPlatforms tallies results by platform, most common first, ties by name.
func CountPlatforms(results []fetch.LinkResult) []PlatformCount {
	counts := make(map[fetch.Platform]int)
	for _, r := range results {
		if r.Platform != "" {
			counts[r.Platform]++
		}
	}

	tally := make([]PlatformCount, 0, len(counts))
	for platform, count := range counts {
		tally = append(tally, PlatformCount{Platform: platform, Count: count})
	}
	sort.Slice(tally, func(i, j int) bool {
		if tally[i].Count != tally[j].Count {
			return tally[i].Count > tally[j].Count
		}
		return tally[i].Platform < tally[j].Platform
	})
	return tally
}

// PrintLinkSummary prints totals, the broken links, and the platform breakdown.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintLinkSummary(results []fetch.LinkResult) {
	broken := fetch.BrokenCount(results)

	p.PrintBanner("LINK CHECK SUMMARY")
	fmt.Fprintf(p.out, "Total Links Checked: %d\n", len(results))
	fmt.Fprintf(p.out, "✅ Accessible: %d\n", len(results)-broken)
	fmt.Fprintf(p.out, "❌ Broken: %d\n", broken)

	if broken > 0 {
		fmt.Fprintln(p.out)
		p.printRule("BROKEN LINKS:")
		for _, r := range results {
			if !r.Reachable {
				fmt.Fprintln(p.out)
				fmt.Fprintln(p.out, FormatLinkResult(r))
			}
		}
	}

	if len(results) > 0 {
		fmt.Fprintln(p.out)
		p.printRule("PLATFORMS:")
		for _, pc := range CountPlatforms(results) {
			fmt.Fprintf(p.out, "  %s: %d\n", pc.Platform, pc.Count)
		}
	}
}

// PrintPerformanceReport prints the ranked top performers with their metrics.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintPerformanceReport(top []ranking.PromptPerformance) {
	if len(top) == 0 {
		fmt.Fprintln(p.out, "No prompts with performance data found.")
		return
	}

	p.PrintBanner("TOP PERFORMING PROMPTS")
	fmt.Fprintln(p.out)

	for i, perf := range top {
		fmt.Fprintf(p.out, "#%d - %s\n", i+1, perf.Title)
		fmt.Fprintf(p.out, "    Category: %s\n", perf.Category)
		fmt.Fprintf(p.out, "    File: %s\n", prompts.DisplayPath(perf.Path, displayLevels))
		fmt.Fprintf(p.out, "    Weighted Score: %.2f\n", perf.WeightedScore)
		fmt.Fprintln(p.out, "    Metrics:")
		if perf.Retention3s != nil {
			fmt.Fprintf(p.out, "      - 3s Retention: %.1f%%\n", *perf.Retention3s)
		}
		if perf.Retention5s != nil {
			fmt.Fprintf(p.out, "      - 5s Retention: %.1f%%\n", *perf.Retention5s)
		}
		if perf.CompletionRate != nil {
			fmt.Fprintf(p.out, "      - Completion Rate: %.1f%%\n", *perf.CompletionRate)
		}
		if perf.Replays != nil {
			fmt.Fprintf(p.out, "      - Replays: %d\n", *perf.Replays)
		}
		fmt.Fprintln(p.out)
	}
}

// PrintCategoryBreakdown prints per-category counts, averages, and leaders.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintCategoryBreakdown(breakdown []ranking.CategorySummary) {
	if len(breakdown) == 0 {
		fmt.Fprintln(p.out, "No data available.")
		return
	}

	p.printRule("PERFORMANCE BY CATEGORY")
	fmt.Fprintln(p.out)

	for _, summary := range breakdown {
		fmt.Fprintf(p.out, "%s: %d prompts | Avg Score: %.2f\n", strings.ToUpper(summary.Category), summary.Count, summary.AverageScore)
		for i, perf := range summary.Top {
			fmt.Fprintf(p.out, "  %d. %s (Score: %.2f)\n", i+1, perf.Title, perf.WeightedScore)
		}
		fmt.Fprintln(p.out)
	}
}

func linkIcon(reachable bool) string {
	if reachable {
		return "✅"
	}
	return "❌"
}
