package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jonathan/prompt-library/internal/fetch"
	"github.com/jonathan/prompt-library/internal/observability"
	"github.com/jonathan/prompt-library/internal/observability/logging"
	"github.com/jonathan/prompt-library/internal/observability/metrics"
	"github.com/jonathan/prompt-library/internal/prompts"
	"github.com/spf13/cobra"
)

var checkLinksCmd = &cobra.Command{
	Use:   "check-links [path]",
	Short: "Check that every prompt's demo video link is reachable",
	Long: `Probes the demo_link of every prompt under path (default: the prompts directory)
with a HEAD request, falling back to GET. Exits with status 1 when any link is broken.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheckLinks,
}

var (
	checkLinksConcurrency int
	checkLinksTimeout     float64
	checkLinksMetricsOut  string
)

func init() {
	checkLinksCmd.Flags().IntVar(&checkLinksConcurrency, "concurrency", 0, "Number of links checked in parallel (default from config, 4)")
	checkLinksCmd.Flags().Float64Var(&checkLinksTimeout, "timeout", 0, "Per-request timeout in seconds (default from config, 10)")
	checkLinksCmd.Flags().StringVar(&checkLinksMetricsOut, "metrics-out", "", "Write Prometheus textfile metrics to this path (optional)")

	rootCmd.AddCommand(checkLinksCmd)
}

func runCheckLinks(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)
	_, _ = fmt.Fprint(out, "🔗 Checking demo video links...\n\n")

	checkPath := ""
	if len(args) > 0 {
		checkPath = args[0]
	}
	checkPath = resolvePromptsDir(checkPath)

	if _, err := os.Stat(checkPath); err != nil {
		return fmt.Errorf("path not found: %s", checkPath)
	}

	files, err := prompts.FindFiles(checkPath)
	if err != nil {
		return fmt.Errorf("failed to list prompt files in %s: %w", checkPath, err)
	}
	if len(files) == 0 {
		_, _ = fmt.Fprintf(out, "⚠️  No YAML files found in: %s\n", checkPath)
		return nil
	}
	_, _ = fmt.Fprintf(out, "Found %d prompt files\n\n", len(files))

	checker := fetch.NewChecker(logging.WithComponent(appLogger, "link-checker"))
	checker.Concurrency = firstPositiveInt(checkLinksConcurrency, appConfig.LinkConcurrency)
	checker.Options.Timeout = time.Duration(firstPositiveFloat(checkLinksTimeout, appConfig.LinkTimeoutSeconds) * float64(time.Second))

	checked, err := checker.CheckAll(cmd.Context(), files)
	if err != nil {
		return fmt.Errorf("link check interrupted: %w", err)
	}
	for i, c := range checked {
		printer.PrintLinkProgress(i+1, len(checked), c)
	}

	results := fetch.Results(checked)
	_, _ = fmt.Fprintln(out)
	printer.PrintLinkSummary(results)

	if checkLinksMetricsOut != "" {
		m := metrics.NewLinkMetrics()
		m.Observe(results)
		if err := m.WriteTextfile(checkLinksMetricsOut); err != nil {
			return err
		}
	}

	if broken := fetch.BrokenCount(results); broken > 0 {
		return fmt.Errorf("%d broken link(s) found", broken)
	}
	_, _ = fmt.Fprintln(out, "\n✨ All demo links are accessible!")
	return nil
}

func firstPositiveInt(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func firstPositiveFloat(values ...float64) float64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
