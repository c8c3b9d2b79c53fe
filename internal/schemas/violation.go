package schemas

import (
	"fmt"
	"strings"
)

// RootField is the field path reported for failures at the top of a record.
const RootField = "root"

// Violation is a single schema non-conformance in one record file.
type Violation struct {
	File      string
	Field     string
	Issue     string
	Reference string
}

// String renders the violation as the multi-line report block:
//
//	[ERROR] prompts/cinematic/noir.yaml
//	Field: camera.lens
//	Issue: lens must be specified
//	Constitution Reference: Section 4.2
//
// The reference line is omitted when the schema node has no citation.
func (v Violation) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[ERROR] %s\nField: %s\nIssue: %s", v.File, v.Field, v.Issue)
	if v.Reference != "" {
		fmt.Fprintf(&sb, "\nConstitution Reference: %s", v.Reference)
	}
	return sb.String()
}

// FileResult is the outcome of validating one record file.
type FileResult struct {
	Path       string
	Violations []Violation
}

// Valid reports whether the record passed every schema constraint.
func (r FileResult) Valid() bool {
	return len(r.Violations) == 0
}

// DirectoryResult aggregates the outcome of a directory scan.
type DirectoryResult struct {
	Valid      int
	Total      int
	Files      []FileResult
	Violations []Violation
}

func fieldPath(segments []string) string {
	if len(segments) == 0 {
		return RootField
	}
	return strings.Join(segments, ".")
}
