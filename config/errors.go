package config

import (
	"fmt"
	"strings"
)

// SchemaError reports a structurally malformed run document: a missing
// required field, an unknown field, or a value of the wrong type.  Field is
// the path of the offending field, e.g. "sampleEntries[1].algorithm.aligner";
// it is empty when the YAML itself could not be decoded.
type SchemaError struct {
	Field string
	Msg   string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return "schema: " + e.Msg
	}
	return fmt.Sprintf("schema: %s: %s", e.Field, e.Msg)
}

// Violation is one semantic constraint failure, tied to the field that
// violated it.
type Violation struct {
	Field string
	Msg   string
}

func (v Violation) String() string { return v.Field + ": " + v.Msg }

// ValidationError aggregates the hard semantic violations found in one run
// document.  Validation does not stop at the first violation, so a single
// failed run surfaces every problem in the document.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return "validate: " + strings.Join(msgs, "; ")
}
