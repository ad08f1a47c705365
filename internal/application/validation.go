package application

import (
	"fmt"
	"strings"

	"esxforge/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "editorID" -> "editor ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"editorID":    "editor ID",
		"newEditorID": "new editor ID",
		"formID":      "form ID",
		"aliasID":     "alias ID",
		"path":        "plugin path",
		"outputPath":  "output path",
		"prefix":      "alias prefix",
		"key":         "object key",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}

// ValidateFormID checks that a form id is hex text, with or without the 0x prefix.
// Empty input is accepted and means "allocate one".
func ValidateFormID(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	if _, err := domain.ParseFormID(value); err != nil {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("expected hex %s, got: %s", formatFieldName(fieldName), value),
		}
	}
	return nil
}

// ValidatePositive checks that a count is at least one
func ValidatePositive(fieldName string, n int) error {
	if n < 1 {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be at least 1, got: %d", formatFieldName(fieldName), n),
		}
	}
	return nil
}
