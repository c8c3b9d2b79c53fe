// Package main provides the prompt_tools CLI for maintaining the prompt library.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/jonathan/prompt-library/internal/config"
	"github.com/jonathan/prompt-library/internal/observability/logging"
	"github.com/jonathan/prompt-library/internal/prompts"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:               "prompt_tools",
	Short:             "Prompt library maintenance tools",
	Long:              "prompt_tools validates video prompt records against prompt.schema.json, rebuilds category indexes, checks demo links, and ranks prompts by audience performance.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupRun,
}

var (
	configPath string
	logLevel   string
	logFormat  string
)

// Per-run state populated by setupRun.
var (
	appConfig config.Config
	appLogger = zerolog.Nop()
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file (optional)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: console or json")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	if err != nil {
		return 1
	}
	return 0
}

// setupRun loads configuration and builds the run logger before any subcommand.
func setupRun(cmd *cobra.Command, _ []string) error {
	cfg := config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = *loaded
	}
	cfg.ApplyEnv()
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	appConfig = cfg.MergeWithDefaults(config.Defaults())

	logger := logging.New(logging.Config{Level: appConfig.LogLevel, Format: appConfig.LogFormat}, cmd.ErrOrStderr())
	appLogger = logging.WithRun(logger, uuid.NewString())
	appLogger.Debug().Str("command", cmd.Name()).Msg("starting run")
	return nil
}

// resolvePromptsDir picks the prompt library root: the explicit flag, then
// the configured directory, then the prompts/ directory of the enclosing project.
func resolvePromptsDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if info, err := os.Stat(appConfig.PromptsDir); err == nil && info.IsDir() {
		return appConfig.PromptsDir
	}
	if root, err := prompts.FindProjectRoot("."); err == nil {
		return filepath.Join(root, prompts.PromptsDirName)
	}
	return appConfig.PromptsDir
}
