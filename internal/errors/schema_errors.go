package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// SchemaError reports that a CSV file is missing one or more required
// canonical columns after alias resolution. It is fatal for the whole file:
// the file contributes zero records to the merged dataset. Row-level data
// quality problems are never schema errors; those rows are dropped silently.
type SchemaError struct {
	// File is the name of the offending upload, as supplied by the client.
	File string
	// Missing lists the canonical field names that could not be resolved.
	Missing []string
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	return fmt.Sprintf("file %q: missing required column(s): %s", e.File, strings.Join(e.Missing, ", "))
}

// NewSchemaError creates a schema error for a file with the given missing
// canonical fields.
func NewSchemaError(file string, missing []string) *SchemaError {
	return &SchemaError{File: file, Missing: missing}
}

// AsSchemaError extracts a SchemaError from an error chain.
func AsSchemaError(err error) (*SchemaError, bool) {
	var se *SchemaError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}
