package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/prompt-library/internal/observability"
	"github.com/jonathan/prompt-library/internal/observability/logging"
	"github.com/jonathan/prompt-library/internal/observability/metrics"
	"github.com/jonathan/prompt-library/internal/prompts"
	"github.com/jonathan/prompt-library/internal/ranking"
	"github.com/jonathan/prompt-library/internal/rendering"
	"github.com/spf13/cobra"
)

// featuredFileName is written next to the prompts directory unless --out is given.
const featuredFileName = "featured_prompts.md"

var topPerformersCmd = &cobra.Command{
	Use:   "top-performers",
	Short: "Rank prompts by weighted audience retention",
	Long: `Scores every prompt with performance data, prints the top performers and a
per-category breakdown, and saves a README fragment listing the featured prompts.`,
	Args: cobra.NoArgs,
	RunE: runTopPerformers,
}

var (
	topPerformersPrompts    string
	topPerformersPercent    float64
	topPerformersOutput     string
	topPerformersMetricsOut string
)

func init() {
	topPerformersCmd.Flags().StringVarP(&topPerformersPrompts, "prompts", "p", "", "Path to the prompts directory (default: prompts/ of the project)")
	topPerformersCmd.Flags().Float64Var(&topPerformersPercent, "top-percent", 0, "Share of scored prompts to feature, 0-1 (default from config, 0.10)")
	topPerformersCmd.Flags().StringVarP(&topPerformersOutput, "out", "o", "", "Path to the README fragment (default: featured_prompts.md next to the prompts directory)")
	topPerformersCmd.Flags().StringVar(&topPerformersMetricsOut, "metrics-out", "", "Write Prometheus textfile metrics to this path (optional)")

	rootCmd.AddCommand(topPerformersCmd)
}

func runTopPerformers(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)
	logger := logging.WithComponent(appLogger, "ranking")
	_, _ = fmt.Fprint(out, "🔍 Identifying Top Performing Prompts...\n\n")

	promptsDir := resolvePromptsDir(topPerformersPrompts)
	if info, err := os.Stat(promptsDir); err != nil || !info.IsDir() {
		return fmt.Errorf("prompts directory not found: %s", promptsDir)
	}

	topPercent := firstPositiveFloat(topPerformersPercent, appConfig.TopPercent)
	if topPercent > 1 {
		return fmt.Errorf("--top-percent must be between 0 and 1, got %g", topPercent)
	}

	files, err := prompts.FindFiles(promptsDir)
	if err != nil {
		return fmt.Errorf("failed to list prompt files in %s: %w", promptsDir, err)
	}
	performances := ranking.Analyze(prompts.LoadAll(files, logger))

	if len(performances) == 0 {
		_, _ = fmt.Fprint(out, `⚠️  No prompts with performance data found.

To add performance data, include a 'performance' section in your YAML:
performance:
  retention_3s: 85.5
  retention_5s: 72.3
  completion_rate: 68.9
  replays: 12
`)
		return nil
	}
	_, _ = fmt.Fprintf(out, "✅ Found %d prompts with performance data\n\n", len(performances))

	top := ranking.TopPerformers(performances, topPercent)
	breakdown := ranking.CategoryBreakdown(performances)
	logger.Info().Int("scored", len(performances)).Int("featured", len(top)).Msg("prompts ranked")

	printer.PrintPerformanceReport(top)
	_, _ = fmt.Fprint(out, "\n\n")
	printer.PrintCategoryBreakdown(breakdown)
	_, _ = fmt.Fprint(out, "\n\n")

	fragment, err := rendering.RenderFeatured(top)
	if err != nil {
		return err
	}
	printer.PrintBanner("README FORMAT OUTPUT")
	_, _ = fmt.Fprintln(out, fragment)

	outputPath := topPerformersOutput
	if outputPath == "" {
		outputPath = filepath.Join(filepath.Dir(filepath.Clean(promptsDir)), featuredFileName)
	}
	if err := os.WriteFile(outputPath, []byte(fragment), 0644); err != nil {
		return fmt.Errorf("could not save README format to %s: %w", outputPath, err)
	}
	_, _ = fmt.Fprintf(out, "\n💾 Saved README format to: %s\n", outputPath)

	if topPerformersMetricsOut != "" {
		m := metrics.NewPerformanceMetrics()
		m.Observe(performances, top, breakdown)
		if err := m.WriteTextfile(topPerformersMetricsOut); err != nil {
			return err
		}
	}

	return nil
}
