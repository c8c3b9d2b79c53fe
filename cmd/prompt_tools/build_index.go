package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/prompt-library/internal/observability/logging"
	"github.com/jonathan/prompt-library/internal/prompts"
	"github.com/jonathan/prompt-library/internal/rendering"
	"github.com/spf13/cobra"
)

var buildIndexCmd = &cobra.Command{
	Use:   "build-index",
	Short: "Regenerate the README index of every prompt category",
	Long:  "Scans each category directory under the prompts root and rewrites its README.md with one entry per prompt, newest first.",
	Args:  cobra.NoArgs,
	RunE:  runBuildIndex,
}

var (
	buildIndexPrompts string
	buildIndexDryRun  bool
)

func init() {
	buildIndexCmd.Flags().StringVarP(&buildIndexPrompts, "prompts", "p", "", "Path to the prompts directory (default: prompts/ of the project)")
	buildIndexCmd.Flags().BoolVar(&buildIndexDryRun, "dry-run", false, "Print the generated READMEs instead of writing them")

	rootCmd.AddCommand(buildIndexCmd)
}

func runBuildIndex(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	logger := logging.WithComponent(appLogger, "build-index")
	_, _ = fmt.Fprint(out, "🔨 Building category indexes...\n\n")

	promptsDir := resolvePromptsDir(buildIndexPrompts)
	if info, err := os.Stat(promptsDir); err != nil || !info.IsDir() {
		return fmt.Errorf("prompts directory not found: %s", promptsDir)
	}

	entries, err := os.ReadDir(promptsDir)
	if err != nil {
		return fmt.Errorf("failed to read prompts directory %s: %w", promptsDir, err)
	}

	updated := 0
	var writeErrs []error
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		category := entry.Name()
		categoryDir := filepath.Join(promptsDir, category)

		files, err := prompts.FindCategoryFiles(categoryDir)
		if err != nil {
			return fmt.Errorf("failed to list category %s: %w", category, err)
		}
		loaded := prompts.LoadAll(files, logger)
		if len(loaded) == 0 {
			_, _ = fmt.Fprintf(out, "⚠️  No prompts found for category: %s\n", category)
			continue
		}

		content, err := rendering.RenderCategoryIndex(category, loaded)
		if err != nil {
			var unknown *rendering.UnknownCategoryError
			if errors.As(err, &unknown) {
				logger.Warn().Str("category", category).Msg("unknown category, skipping")
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  Unknown category: %s\n", category)
				continue
			}
			return err
		}

		if buildIndexDryRun {
			_, _ = fmt.Fprintf(out, "----- %s/README.md -----\n%s\n", category, content)
			updated++
			continue
		}

		readmePath := filepath.Join(categoryDir, "README.md")
		if err := os.WriteFile(readmePath, []byte(content), 0644); err != nil {
			logger.Error().Err(err).Str("file", readmePath).Msg("failed to write index")
			writeErrs = append(writeErrs, fmt.Errorf("failed to write %s: %w", readmePath, err))
			continue
		}
		_, _ = fmt.Fprintf(out, "✅ Updated %s/README.md (%d prompts)\n", category, len(loaded))
		updated++
	}

	_, _ = fmt.Fprintf(out, "\n✨ Successfully updated %d category READMEs\n", updated)
	return errors.Join(writeErrs...)
}
