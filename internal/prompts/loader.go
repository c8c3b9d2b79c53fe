// Package prompts discovers and loads the YAML prompt records of the library.
package prompts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonathan/prompt-library/internal/types"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// SchemaFileName is the schema file expected at the project root.
const SchemaFileName = "prompt.schema.json"

// PromptsDirName is the directory holding one sub-directory per category.
const PromptsDirName = "prompts"

// maxRootSearchDepth is how many parent directories FindProjectRoot inspects.
const maxRootSearchDepth = 5

// Loaded pairs a decoded prompt with the file it came from.
type Loaded struct {
	Path   string
	Prompt *types.Prompt
}

// IsPromptFile reports whether path has a recognised YAML extension.
func IsPromptFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// FindFiles returns every prompt file under root in lexical order.
// A file root is returned as-is when it has a YAML extension.
func FindFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if IsPromptFile(root) {
			return []string{root}, nil
		}
		return nil, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() && IsPromptFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// FindCategoryFiles returns the prompt files directly inside a category directory.
func FindCategoryFiles(categoryDir string) ([]string, error) {
	entries, err := os.ReadDir(categoryDir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !IsPromptFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(categoryDir, entry.Name()))
	}
	return files, nil
}

// Load reads and decodes a single prompt file.
func Load(path string) (*types.Prompt, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Path: path, Message: "file not found"}
		}
		return nil, &LoadError{Path: path, Message: "failed to read file", Cause: err}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, &LoadError{Path: path, Message: "YAML parsing error", Cause: err}
	}
	if len(doc.Content) == 0 || doc.Content[0].Tag == "!!null" {
		return nil, &LoadError{Path: path, Message: "empty prompt file"}
	}

	var prompt types.Prompt
	if err := doc.Decode(&prompt); err != nil {
		return nil, &LoadError{Path: path, Message: "unexpected prompt structure", Cause: err}
	}

	return &prompt, nil
}

// LoadAll loads every file in paths, logging and skipping the ones that fail.
func LoadAll(paths []string, logger zerolog.Logger) []Loaded {
	loaded := make([]Loaded, 0, len(paths))
	for _, path := range paths {
		prompt, err := Load(path)
		if err != nil {
			logger.Warn().Err(err).Str("file", path).Msg("skipping prompt")
			continue
		}
		if prompt.Performance != nil && len(prompt.Performance.Invalid) > 0 {
			logger.Warn().
				Str("file", path).
				Strs("fields", prompt.Performance.Invalid).
				Msg("ignoring performance metrics that are not numbers")
		}
		loaded = append(loaded, Loaded{Path: path, Prompt: prompt})
	}
	return loaded
}

// FindProjectRoot walks up from start looking for a directory that holds both
// the prompts directory and the prompt schema (at the root or under schemas/).
func FindProjectRoot(start string) (string, error) {
	current, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", start, err)
	}

	for i := 0; i < maxRootSearchDepth; i++ {
		if isProjectRoot(current) {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	return "", fmt.Errorf("could not find project root directory: expected %s and %s/ together", SchemaFileName, PromptsDirName)
}

func isProjectRoot(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, PromptsDirName))
	if err != nil || !info.IsDir() {
		return false
	}
	for _, candidate := range []string{
		filepath.Join(dir, SchemaFileName),
		filepath.Join(dir, "schemas", SchemaFileName),
	} {
		if _, err := os.Stat(candidate); err == nil {
			return true
		}
	}
	return false
}

// DisplayPath returns path relative to its levelsUp-th ancestor, so
// /repo/prompts/cinematic/noir.yaml becomes prompts/cinematic/noir.yaml for 2.
// Falls back to the base name when the path is too shallow.
func DisplayPath(path string, levelsUp int) string {
	clean := filepath.Clean(path)
	base := clean
	for i := 0; i <= levelsUp; i++ {
		parent := filepath.Dir(base)
		if parent == base {
			return filepath.Base(clean)
		}
		base = parent
	}

	rel, err := filepath.Rel(base, clean)
	if err != nil {
		return filepath.Base(clean)
	}
	return rel
}
