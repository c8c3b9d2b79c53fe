package rendering

import (
	"strings"
	"testing"

	"github.com/jonathan/prompt-library/internal/prompts"
	"github.com/jonathan/prompt-library/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestRenderCategoryIndex(t *testing.T) {
	loaded := []prompts.Loaded{
		{
			Path: "/repo/prompts/cinematic/older.yaml",
			Prompt: &types.Prompt{
				Title:   "Older Scene",
				Created: "2025-01-01",
			},
		},
		{
			Path: "/repo/prompts/cinematic/noir-detective.yaml",
			Prompt: &types.Prompt{
				Title:       "Noir Detective",
				Summary:     "  A detective in the rain.  \n",
				Tags:        []string{"noir", "rain"},
				Created:     "2025-02-10",
				DemoLink:    "https://youtu.be/abc",
				Camera:      &types.Camera{Lens: "35mm", Movement: "slow dolly", Framing: "close-up"},
				Performance: &types.Performance{Retention3s: f(85), Retention5s: f(70.3), CompletionRate: f(55)},
			},
		},
	}

	out, err := RenderCategoryIndex("cinematic", loaded)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "# 🎬 Cinematic Prompts\n"))
	assert.Contains(t, out, "**Total Prompts**: 2")
	assert.Contains(t, out, "### 🔥 Noir Detective")
	assert.Contains(t, out, "**Summary**: A detective in the rain.\n")
	assert.Contains(t, out, "**Tags**: `noir` `rain`")
	assert.Contains(t, out, "**Camera**: 35mm lens | slow dolly | close-up")
	assert.Contains(t, out, "**Performance**: 3s: 85.0% | 5s: 70.3% | completion: 55.0%")
	assert.Contains(t, out, "**Demo**: [Watch on YouTube](https://youtu.be/abc)")
	assert.Contains(t, out, "**File**: [`noir-detective.yaml`](noir-detective.yaml)")
	assert.Contains(t, out, "← [Back to Main README](../../README.md)")

	newer := strings.Index(out, "Noir Detective")
	older := strings.Index(out, "Older Scene")
	assert.Less(t, newer, older, "newest prompt should be listed first")

	olderSection := out[older:]
	assert.NotContains(t, olderSection[:strings.Index(olderSection, "**File**")], "**Tags**")
}

func TestRenderCategoryIndex_UnknownCategory(t *testing.T) {
	_, err := RenderCategoryIndex("documentary", nil)
	require.Error(t, err)

	var unknown *UnknownCategoryError
	assert.ErrorAs(t, err, &unknown)
	assert.Equal(t, "documentary", unknown.Category)
}

func TestIndexBadge(t *testing.T) {
	tests := []struct {
		name string
		perf *types.Performance
		want string
	}{
		{name: "nil", perf: nil, want: ""},
		{name: "strong hook", perf: &types.Performance{Retention3s: f(80.1)}, want: "🔥 "},
		{name: "threshold is exclusive", perf: &types.Performance{Retention3s: f(80), CompletionRate: f(60)}, want: ""},
		{name: "strong completion", perf: &types.Performance{Retention3s: f(50), CompletionRate: f(61)}, want: "⭐ "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IndexBadge(tt.perf))
		})
	}
}

func TestFormatCamera(t *testing.T) {
	assert.Equal(t, "", FormatCamera(nil))
	assert.Equal(t, "85mm lens", FormatCamera(&types.Camera{Lens: "85mm"}))
	assert.Equal(t, "handheld | wide", FormatCamera(&types.Camera{Movement: "handheld", Framing: "wide"}))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Hyperrealism", titleCase("hyperrealism"))
	assert.Equal(t, "Stop Motion", titleCase("stop-motion"))
}
