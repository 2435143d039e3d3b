// Package schemas provides JSON Schema validation for LLM output.
// Structural brace-extraction alone is too trusting of model output; every
// parsed response is validated against a strict schema before use.
package schemas

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.json
var schemaFiles embed.FS

// Known schema names
const (
	WeeklySchedule = "weekly_schedule"
	GeneratedPosts = "generated_posts"
	GeneratedPost  = "generated_post"
)

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// ValidationError represents a schema validation failure with field paths
type ValidationError struct {
	Schema string
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s validation failed:\n", ve.Schema))
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Validate checks JSON bytes against the named embedded schema.
// Returns *ValidationError when the document is well-formed JSON of the
// wrong shape, or a plain error when it cannot be evaluated at all.
func Validate(name string, document []byte) error {
	data, err := schemaFiles.ReadFile(name + ".json")
	if err != nil {
		return fmt.Errorf("unknown schema %q: %w", name, err)
	}

	schemaLoader := gojsonschema.NewBytesLoader(data)
	documentLoader := gojsonschema.NewBytesLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Schema: name}
	for _, resultErr := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   resultErr.Field(),
			Message: resultErr.Description(),
		})
	}
	return ve
}
