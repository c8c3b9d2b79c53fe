package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/prompt-library/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// TestMain clears PROMPT_TOOLS_* overrides so a developer's environment cannot leak into tests.
func TestMain(m *testing.M) {
	_ = os.Unsetenv(config.EnvLogLevel)
	_ = os.Unsetenv(config.EnvSchema)

	os.Exit(m.Run())
}

// executeCommand runs the CLI in-process and returns what it printed.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// repoSchema is the prompt schema shipped with the repository.
func repoSchema(t *testing.T) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("..", "..", "schemas", "prompt.schema.json"))
	require.NoError(t, err)
	return path
}

func writePrompt(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validPrompt = `title: Noir Detective
category: cinematic
summary: A rain-soaked detective walks through neon alleys.
tags: [noir, rain]
created: 2024-03-01
prompt: Slow dolly through a rain-soaked alley lit by flickering neon signs.
camera:
  lens: 35mm
  movement: slow dolly in
`

const missingLensPrompt = `title: Glass City
category: experimental
summary: A city made of glass refracts a setting sun.
tags: [glass]
created: 2024-04-12
prompt: Aerial orbit over a translucent skyline catching the last light.
camera:
  movement: orbit
`
