package application

import (
	"fmt"
	"strings"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "ownerID" -> "owner ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"objectID":      "object ID",
		"ownerID":       "owner ID",
		"newOwnerID":    "new owner ID",
		"rootID":        "root ID",
		"relationship":  "relationship",
		"class":         "class",
		"name":          "name",
		"expandLevels":  "expand levels",
		"displayLevels": "display levels",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// ValidateLevel checks a depth limit: a non-negative depth, or -1 for no limit
func ValidateLevel(fieldName string, level int) error {
	if level < -1 {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be -1 (unlimited) or at least 0, got: %d", formatFieldName(fieldName), level),
		}
	}
	return nil
}
