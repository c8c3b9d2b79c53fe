// Package schemas validates YAML prompt records against the draft-07 prompt schema
// and turns every constraint failure into a report-ready Violation.
package schemas

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonathan/prompt-library/internal/prompts"
	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// rootContext is the gojsonschema context string for the document root.
const rootContext = "(root)"

// ResolveSchemaPath attempts to find a schema file by trying multiple common path resolutions.
// It tries paths relative to the current working directory, then paths relative to likely repo root locations.
// Returns the first path that exists, or empty string if none found.
func ResolveSchemaPath(relativePath string) string {
	candidates := []string{
		relativePath,
		filepath.Join("..", relativePath),
		filepath.Join("..", "..", relativePath),
	}

	for _, candidate := range candidates {
		if absPath, err := filepath.Abs(candidate); err == nil {
			if _, err := os.Stat(absPath); err == nil {
				return absPath
			}
		}
	}

	return ""
}

// Validator checks prompt records against one compiled schema.
// It is read-only after construction and reused for every file in a run.
type Validator struct {
	schemaPath  string
	schema      *gojsonschema.Schema
	flattened   *gojsonschema.Schema
	annotations *annotationTree
	logger      zerolog.Logger
}

// NewValidator loads and compiles the schema at schemaPath.
func NewValidator(schemaPath string) (*Validator, error) {
	absPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return nil, &SchemaLoadError{Path: schemaPath, Message: "failed to resolve schema path", Cause: err}
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &SchemaLoadError{Path: absPath, Message: "schema file not found"}
		}
		return nil, &SchemaLoadError{Path: absPath, Message: "failed to read schema", Cause: err}
	}

	return NewValidatorFromBytes(absPath, data)
}

// NewValidatorFromBytes compiles schema content; name is only used in errors.
func NewValidatorFromBytes(name string, data []byte) (*Validator, error) {
	if !json.Valid(data) {
		return nil, &SchemaLoadError{Path: name, Message: "schema is not valid JSON"}
	}

	annotations, err := parseAnnotationTree(data)
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "failed to parse schema annotations", Cause: err}
	}

	loader := gojsonschema.NewSchemaLoader()
	loader.Draft = gojsonschema.Draft7
	loader.AutoDetect = false

	schema, err := loader.Compile(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "failed to compile schema", Cause: err}
	}

	flattened, err := compileFlattened(data)
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "failed to compile schema", Cause: err}
	}

	return &Validator{
		schemaPath:  name,
		schema:      schema,
		flattened:   flattened,
		annotations: annotations,
		logger:      zerolog.Nop(),
	}, nil
}

// WithLogger attaches a diagnostics logger and returns the validator.
func (v *Validator) WithLogger(logger zerolog.Logger) *Validator {
	v.logger = logger
	return v
}

// SchemaPath returns the location the schema was loaded from.
func (v *Validator) SchemaPath() string {
	return v.schemaPath
}

// ValidateFile validates a single YAML record. Load failures produce exactly
// one violation at the root field; schema failures produce one violation per
// failed constraint.
func (v *Validator) ValidateFile(path string) FileResult {
	result := FileResult{Path: path}

	doc, err := loadRecord(path)
	if err != nil {
		var loadErr *RecordLoadError
		if !errors.As(err, &loadErr) {
			loadErr = &RecordLoadError{Path: path, Kind: LoadErrorUnexpected, Cause: err}
		}
		v.logger.Debug().Str("file", path).Err(err).Msg("record could not be loaded")
		result.Violations = []Violation{{File: path, Field: RootField, Issue: loadErr.Issue()}}
		return result
	}

	errs, err := v.constraintErrors(doc)
	if err != nil {
		result.Violations = []Violation{{
			File:  path,
			Field: RootField,
			Issue: fmt.Sprintf("Unexpected error: %v", err),
		}}
		return result
	}

	for _, desc := range errs {
		if wrapperErrors[desc.Type()] {
			continue
		}
		result.Violations = append(result.Violations, v.formatError(path, desc))
	}
	sortViolations(result.Violations)

	v.logger.Debug().Str("file", path).Int("violations", len(result.Violations)).Msg("record validated")
	return result
}

// constraintErrors returns the engine errors for doc. When anyOf/oneOf
// failed, the errors of their closest branch are replaced by the errors of
// the same document against the schema without branching keywords.
func (v *Validator) constraintErrors(doc interface{}) ([]gojsonschema.ResultError, error) {
	outcome, err := v.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, err
	}
	if outcome.Valid() || v.flattened == nil {
		return outcome.Errors(), nil
	}

	errs := v.branchFailures(outcome.Errors())
	if len(errs) == 0 {
		return outcome.Errors(), nil
	}

	flat, err := v.flattened.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, err
	}
	return append(errs, flat.Errors()...), nil
}

// ValidateDirectory recursively validates every .yaml/.yml file under dir in
// lexical path order. Invalid records are data, not errors; an error is only
// returned when the tree cannot be walked.
func (v *Validator) ValidateDirectory(dir string) (DirectoryResult, error) {
	files, err := prompts.FindFiles(dir)
	if err != nil {
		return DirectoryResult{}, fmt.Errorf("failed to list prompt files in %s: %w", dir, err)
	}

	result := DirectoryResult{
		Total: len(files),
		Files: make([]FileResult, 0, len(files)),
	}

	for _, file := range files {
		fileResult := v.ValidateFile(file)
		result.Files = append(result.Files, fileResult)
		if fileResult.Valid() {
			result.Valid++
			continue
		}
		result.Violations = append(result.Violations, fileResult.Violations...)
	}

	v.logger.Info().
		Str("dir", dir).
		Int("valid", result.Valid).
		Int("total", result.Total).
		Int("violations", len(result.Violations)).
		Msg("directory validated")

	return result, nil
}

// formatError applies the violation formatting policy to one engine error:
// dotted field path, custom message over generic description, optional reference.
func (v *Validator) formatError(path string, desc gojsonschema.ResultError) Violation {
	segments := contextSegments(desc.Context())
	candidates := []*Node{v.annotations.lookup(segments)}

	if desc.Type() == "required" {
		if property, ok := desc.Details()["property"].(string); ok && property != "" {
			segments = append(segments, property)
			candidates = append([]*Node{v.annotations.lookup(segments)}, candidates...)
		}
	}

	violation := Violation{
		File:  path,
		Field: fieldPath(segments),
		Issue: desc.Description(),
	}
	for _, node := range candidates {
		if !node.HasAnnotations() {
			continue
		}
		if node.ErrorMsg != "" {
			violation.Issue = node.ErrorMsg
		}
		violation.Reference = node.ConstitutionRef
		break
	}

	return violation
}

func contextSegments(ctx *gojsonschema.JsonContext) []string {
	if ctx == nil {
		return nil
	}
	full := ctx.String(".")
	if full == rootContext {
		return nil
	}
	return strings.Split(strings.TrimPrefix(full, rootContext+"."), ".")
}

// sortViolations orders violations by field then issue. gojsonschema walks
// schema properties in map order, so the raw error order is not stable.
func sortViolations(violations []Violation) {
	sort.SliceStable(violations, func(i, j int) bool {
		if violations[i].Field != violations[j].Field {
			return violations[i].Field < violations[j].Field
		}
		return violations[i].Issue < violations[j].Issue
	})
}

// loadRecord reads and decodes one YAML record into JSON-compatible values.
func loadRecord(path string) (interface{}, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &RecordLoadError{Path: path, Kind: LoadErrorNotFound, Cause: err}
		}
		return nil, &RecordLoadError{Path: path, Kind: LoadErrorUnexpected, Cause: err}
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, &RecordLoadError{Path: path, Kind: LoadErrorUnexpected, Cause: err}
	}

	var doc interface{}
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, &RecordLoadError{Path: path, Kind: LoadErrorSyntax, Cause: err}
	}

	return normalize(doc), nil
}

// normalize converts YAML maps with non-string keys into string-keyed maps
// so the document can be marshalled to JSON for the schema engine.
// Non-finite floats have no JSON form and are kept as their YAML spelling,
// which numeric constraints reject as a string.
func normalize(value interface{}) interface{} {
	switch typed := value.(type) {
	case float64:
		switch {
		case math.IsNaN(typed):
			return ".nan"
		case math.IsInf(typed, 1):
			return ".inf"
		case math.IsInf(typed, -1):
			return "-.inf"
		}
		return typed
	case map[string]interface{}:
		for key, item := range typed {
			typed[key] = normalize(item)
		}
		return typed
	case map[interface{}]interface{}:
		converted := make(map[string]interface{}, len(typed))
		for key, item := range typed {
			converted[fmt.Sprint(key)] = normalize(item)
		}
		return converted
	case []interface{}:
		for i, item := range typed {
			typed[i] = normalize(item)
		}
		return typed
	default:
		return value
	}
}
