package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonathan/prompt-library/internal/config"
	"github.com/jonathan/prompt-library/internal/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand_RequiresOneArgument(t *testing.T) {
	_, _, err := executeCommand(t, "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s), received 0")
	assert.Equal(t, 1, exitCode(err))

	_, _, err = executeCommand(t, "validate", "a", "b")
	require.Error(t, err)
}

func TestValidateCommand_MissingPath(t *testing.T) {
	stdout, _, err := executeCommand(t, "validate", "--schema", repoSchema(t), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)

	var pathErr *schemas.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Contains(t, err.Error(), "path does not exist")
	assert.NotContains(t, stdout, "VALID")
	assert.Equal(t, 1, exitCode(err))
}

func TestValidateCommand_SchemaNotFound(t *testing.T) {
	path := writePrompt(t, filepath.Join(t.TempDir(), "noir.yaml"), validPrompt)

	stdout, _, err := executeCommand(t, "validate", "--schema", filepath.Join(t.TempDir(), "prompt.schema.json"), path)
	require.Error(t, err)

	var loadErr *schemas.SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "schema file not found")
	assert.Empty(t, stdout)
}

func TestValidateCommand_ValidFile(t *testing.T) {
	path := writePrompt(t, filepath.Join(t.TempDir(), "noir.yaml"), validPrompt)

	stdout, _, err := executeCommand(t, "validate", "--schema", repoSchema(t), path)
	require.NoError(t, err)
	assert.Equal(t, "✓ "+path+" - VALID\n", stdout)
}

func TestValidateCommand_InvalidFile(t *testing.T) {
	path := writePrompt(t, filepath.Join(t.TempDir(), "glass.yaml"), missingLensPrompt)

	stdout, _, err := executeCommand(t, "validate", "--schema", repoSchema(t), path)
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))

	assert.True(t, strings.HasPrefix(stdout, "✗ "+path+" - INVALID\n\n"))
	assert.Contains(t, stdout, "[ERROR] "+path+"\nField: camera.lens\n")
	assert.Contains(t, stdout, "Issue: camera.lens must be specified (e.g. 35mm, 85mm anamorphic)")
	assert.Contains(t, stdout, "Constitution Reference: Principle IV: Cinematic Specificity")
}

func TestValidateCommand_Directory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prompts")
	writePrompt(t, filepath.Join(dir, "cinematic", "noir.yaml"), validPrompt)
	writePrompt(t, filepath.Join(dir, "experimental", "glass.yml"), missingLensPrompt)

	stdout, _, err := executeCommand(t, "validate", "--schema", repoSchema(t), dir)
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))

	assert.Contains(t, stdout, "✓ "+filepath.Join("prompts", "cinematic", "noir.yaml")+" - VALID")
	assert.Contains(t, stdout, "✗ "+filepath.Join("prompts", "experimental", "glass.yml")+" - INVALID")

	violation := strings.Index(stdout, "Field: camera.lens")
	summary := strings.Index(stdout, "Summary: 1/2 prompts valid (1 errors)")
	require.NotEqual(t, -1, violation)
	require.NotEqual(t, -1, summary)
	assert.Less(t, violation, summary)
}

func TestValidateCommand_DirectoryAllValid(t *testing.T) {
	dir := t.TempDir()
	writePrompt(t, filepath.Join(dir, "noir.yaml"), validPrompt)

	stdout, _, err := executeCommand(t, "validate", "--schema", repoSchema(t), dir)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(stdout, "Summary: 1/1 prompts valid\n"))
}

func TestValidateCommand_EmptyDirectory(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := executeCommand(t, "validate", "--schema", repoSchema(t), dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No YAML files found in: "+dir)
	assert.Contains(t, stdout, "Summary: 0/0 prompts valid")
}

func TestValidateCommand_SchemaFromEnvironment(t *testing.T) {
	t.Setenv(config.EnvSchema, repoSchema(t))
	path := writePrompt(t, filepath.Join(t.TempDir(), "noir.yaml"), validPrompt)

	stdout, _, err := executeCommand(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "VALID")
}

func TestValidateCommand_LocatesRepositorySchema(t *testing.T) {
	path := writePrompt(t, filepath.Join(t.TempDir(), "noir.yaml"), validPrompt)

	// Falls back to schemas/prompt.schema.json two levels up from this package.
	stdout, _, err := executeCommand(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "VALID")
}

func TestLocateSchema_ExplicitWins(t *testing.T) {
	appConfig = config.Config{SchemaPath: "/from/config.json"}
	t.Cleanup(func() { appConfig = config.Config{} })

	path, err := locateSchema("/from/flag.json")
	require.NoError(t, err)
	assert.Equal(t, "/from/flag.json", path)

	path, err = locateSchema("")
	require.NoError(t, err)
	assert.Equal(t, "/from/config.json", path)
}
