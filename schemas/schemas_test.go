package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/prompt-library/internal/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const promptSchemaFile = "prompt.schema.json"

func TestPromptSchema_ValidJSON(t *testing.T) {
	data, err := os.ReadFile(promptSchemaFile)
	require.NoError(t, err, "should be able to read schema file")

	var schemaObj map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &schemaObj))

	assert.Equal(t, "http://json-schema.org/draft-07/schema#", schemaObj["$schema"])
	assert.Equal(t, "object", schemaObj["type"])
}

func TestPromptSchema_Compiles(t *testing.T) {
	_, err := schemas.NewValidator(promptSchemaFile)
	require.NoError(t, err)
}

func TestPromptSchema_ValidPrompt(t *testing.T) {
	v, err := schemas.NewValidator(promptSchemaFile)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "noir-detective.yaml")
	content := `title: Noir Detective
category: cinematic
summary: A rain-soaked detective walks through neon alleys at night.
tags: [noir, rain, neon-city]
created: "2025-01-15"
prompt: A weary detective in a trench coat walks slowly through a rain-soaked alley lit by flickering neon.
camera:
  lens: 35mm
  movement: slow dolly in
  framing: medium shot
demo_link: https://youtu.be/abc123
performance:
  retention_3s: 84.2
  retention_5s: 71.0
  completion_rate: 62.5
  replays: 9
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	result := v.ValidateFile(path)
	assert.True(t, result.Valid(), "violations: %v", result.Violations)
}

func TestPromptSchema_MissingLensUsesConstitutionMessage(t *testing.T) {
	v, err := schemas.NewValidator(promptSchemaFile)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "no-lens.yaml")
	content := `title: Paper Fox
category: animation
summary: A paper fox folds itself out of a notebook page.
tags: [paper, stop-motion]
created: "2025-02-01"
prompt: A small paper fox unfolds from a notebook page and runs across the desk.
camera:
  movement: locked-off
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	result := v.ValidateFile(path)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "camera.lens", result.Violations[0].Field)
	assert.Contains(t, result.Violations[0].Issue, "camera.lens must be specified")
	assert.Equal(t, "Principle IV: Cinematic Specificity", result.Violations[0].Reference)
}

func TestPromptSchema_WrongCategoryTypeReportedOnce(t *testing.T) {
	v, err := schemas.NewValidator(promptSchemaFile)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "numeric-category.yaml")
	content := `title: Paper Fox
category: 5
summary: A paper fox folds itself out of a notebook page.
tags: [paper, stop-motion]
created: "2025-02-01"
prompt: A small paper fox unfolds from a notebook page and runs across the desk.
camera:
  lens: 50mm
  movement: locked-off
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	// A type mismatch stops validation of the value, so the enum is not
	// reported on top of it.
	result := v.ValidateFile(path)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "category", result.Violations[0].Field)
	assert.Equal(t, "category must be one of: cinematic, hyperrealism, animation, experimental", result.Violations[0].Issue)
	assert.Equal(t, "Principle II: Categorization", result.Violations[0].Reference)
}
