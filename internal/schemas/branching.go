package schemas

import (
	"bytes"
	"encoding/json"

	"github.com/xeipuuv/gojsonschema"
)

// gojsonschema reports a failed anyOf/oneOf together with every error of the
// closest branch, and wraps allOf and if/then/else failures in an extra
// error. A failed constraint must yield exactly one violation, so records
// failing a schema with anyOf/oneOf are validated a second time against a
// copy with those keywords removed; the branching failures themselves are
// taken from the first pass.

// wrapperErrors are reported alongside the sub-errors they summarize.
var wrapperErrors = map[string]bool{
	"number_all_of":  true,
	"condition_then": true,
	"condition_else": true,
}

// branchingErrors maps combinator error types to the keyword that raised them.
var branchingErrors = map[string]string{
	"number_any_of": "anyOf",
	"number_one_of": "oneOf",
}

// schemaMaps are keywords whose object values map names to subschemas.
var schemaMaps = map[string]bool{
	"properties":        true,
	"patternProperties": true,
	"definitions":       true,
	"$defs":             true,
	"dependencies":      true,
}

// schemaValues are keywords holding one subschema or a list of them.
// not and if are left alone: their subschemas only decide a condition and
// removing keywords inside them would change the outcome.
var schemaValues = map[string]bool{
	"items":                true,
	"additionalItems":      true,
	"additionalProperties": true,
	"contains":             true,
	"propertyNames":        true,
	"then":                 true,
	"else":                 true,
	"allOf":                true,
}

// compileFlattened compiles a copy of the schema without anyOf/oneOf.
// It returns nil when the schema declares neither keyword.
func compileFlattened(data []byte) (*gojsonschema.Schema, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var doc interface{}
	if err := decoder.Decode(&doc); err != nil {
		return nil, err
	}

	stripped, found := stripBranching(doc)
	if !found {
		return nil, nil
	}

	flattened, err := json.Marshal(stripped)
	if err != nil {
		return nil, err
	}

	loader := gojsonschema.NewSchemaLoader()
	loader.Draft = gojsonschema.Draft7
	loader.AutoDetect = false
	return loader.Compile(gojsonschema.NewBytesLoader(flattened))
}

// stripBranching returns a copy of a decoded schema node without anyOf and
// oneOf keywords, and whether any were removed.
func stripBranching(node interface{}) (interface{}, bool) {
	obj, ok := node.(map[string]interface{})
	if !ok {
		return node, false
	}

	out := make(map[string]interface{}, len(obj))
	found := false
	for key, value := range obj {
		switch {
		case key == "anyOf" || key == "oneOf":
			found = true
			continue
		case schemaMaps[key]:
			if named, ok := value.(map[string]interface{}); ok {
				copied := make(map[string]interface{}, len(named))
				for name, sub := range named {
					stripped, f := stripBranching(sub)
					copied[name] = stripped
					found = found || f
				}
				value = copied
			}
		case schemaValues[key]:
			if list, ok := value.([]interface{}); ok {
				copied := make([]interface{}, len(list))
				for i, sub := range list {
					stripped, f := stripBranching(sub)
					copied[i] = stripped
					found = found || f
				}
				value = copied
			} else {
				stripped, f := stripBranching(value)
				value = stripped
				found = found || f
			}
		}
		out[key] = value
	}
	return out, found
}

// branchFailures keeps the anyOf/oneOf errors raised by the schema itself,
// dropping copies that came from inside the closest branch.
func (v *Validator) branchFailures(errs []gojsonschema.ResultError) []gojsonschema.ResultError {
	seen := make(map[string]int)
	var kept []gojsonschema.ResultError
	for _, desc := range errs {
		keyword, ok := branchingErrors[desc.Type()]
		if !ok {
			continue
		}
		segments := contextSegments(desc.Context())
		key := keyword + " " + fieldPath(segments)
		if seen[key] >= v.annotations.declared(segments, keyword) {
			continue
		}
		seen[key]++
		kept = append(kept, desc)
	}
	return kept
}
