package schemas

import "fmt"

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// LoadErrorKind classifies why a record file could not be loaded.
type LoadErrorKind int

const (
	// LoadErrorNotFound means the record file does not exist
	LoadErrorNotFound LoadErrorKind = iota
	// LoadErrorSyntax means the file is not well-formed YAML
	LoadErrorSyntax
	// LoadErrorUnexpected covers read failures and anything else
	LoadErrorUnexpected
)

// RecordLoadError is raised when a record file cannot be read or parsed.
// ValidateFile converts it into a single violation at the root field.
type RecordLoadError struct {
	Path  string
	Kind  LoadErrorKind
	Cause error
}

func (e *RecordLoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Issue())
}

func (e *RecordLoadError) Unwrap() error {
	return e.Cause
}

// Issue returns the human-readable issue text used in the violation block.
func (e *RecordLoadError) Issue() string {
	switch e.Kind {
	case LoadErrorNotFound:
		return fmt.Sprintf("File not found: %s", e.Path)
	case LoadErrorSyntax:
		return fmt.Sprintf("YAML parsing error: %v", e.Cause)
	default:
		return fmt.Sprintf("Unexpected error: %v", e.Cause)
	}
}

// PathError reports a validation target that is missing or of an unsupported kind.
type PathError struct {
	Path   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Path)
}
