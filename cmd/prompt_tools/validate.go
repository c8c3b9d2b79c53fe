package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathan/prompt-library/internal/observability"
	"github.com/jonathan/prompt-library/internal/observability/logging"
	"github.com/jonathan/prompt-library/internal/prompts"
	"github.com/jonathan/prompt-library/internal/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file-or-directory>",
	Short: "Validate prompt YAML files against prompt.schema.json",
	Long: `Validates a single prompt file or every .yaml/.yml file under a directory.
Every violation is printed with its field, issue, and constitution reference.
Exits with status 1 when any record is invalid.`,
	Example: `  prompt_tools validate prompts/
  prompt_tools validate prompts/cinematic/noir-detective.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

var validateSchema string

func init() {
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", "", "Path to prompt.schema.json (default: current or parent directory)")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	target := args[0]

	info, err := os.Stat(target)
	if err != nil {
		return &schemas.PathError{Path: target, Reason: "path does not exist"}
	}
	if !info.IsDir() && !info.Mode().IsRegular() {
		return &schemas.PathError{Path: target, Reason: "path is neither a file nor a directory"}
	}

	schemaPath, err := locateSchema(validateSchema)
	if err != nil {
		return err
	}

	validator, err := schemas.NewValidator(schemaPath)
	if err != nil {
		return err
	}
	validator.WithLogger(logging.WithComponent(appLogger, "validator"))
	appLogger.Debug().Str("schema", validator.SchemaPath()).Str("target", target).Msg("validating")

	return validateTarget(cmd.OutOrStdout(), validator, target, info.IsDir())
}

// locateSchema finds the schema: explicit flag, configured path, then
// prompt.schema.json in the working directory or its parents, then schemas/.
func locateSchema(flagValue string) (string, error) {
	for _, explicit := range []string{flagValue, appConfig.SchemaPath} {
		if explicit != "" {
			return explicit, nil
		}
	}

	for _, rel := range []string{
		prompts.SchemaFileName,
		filepath.Join("schemas", prompts.SchemaFileName),
	} {
		if found := schemas.ResolveSchemaPath(rel); found != "" {
			return found, nil
		}
	}

	return "", &schemas.SchemaLoadError{
		Path:    prompts.SchemaFileName,
		Message: "schema file not found; ensure it is in the current or parent directory, or pass --schema",
	}
}

// validateTarget validates a file or a directory, prints the report, and
// returns an error when any record is invalid.
func validateTarget(out io.Writer, validator *schemas.Validator, target string, isDir bool) error {
	printer := observability.NewPrinter(out)

	if !isDir {
		result := validator.ValidateFile(target)
		printer.PrintFileResult(result)
		if !result.Valid() {
			return fmt.Errorf("%s is invalid: %d violation(s)", target, len(result.Violations))
		}
		return nil
	}

	result, err := validator.ValidateDirectory(target)
	if err != nil {
		return err
	}

	printer.PrintDirectoryProgress(target, result)
	if result.Total == 0 {
		_, _ = fmt.Fprintf(out, "⚠️  No YAML files found in: %s\n", target)
	}
	printer.PrintDirectoryReport(result)

	if len(result.Violations) > 0 {
		return fmt.Errorf("validation found %d violation(s) in %d of %d prompt(s)",
			len(result.Violations), result.Total-result.Valid, result.Total)
	}
	return nil
}
