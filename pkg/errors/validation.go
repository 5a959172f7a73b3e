package errors

import (
	"strings"
	"unicode"
)

// maxNodeIDLength bounds node identifiers accepted from files and requests.
const maxNodeIDLength = 512

// ValidateNodeID validates a job or flow node identifier.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - No edge-key separator (">>"), which would make edge keys ambiguous
//   - Maximum length of 512 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}

	if len(id) > maxNodeIDLength {
		return New(ErrCodeInvalidInput, "node id too long (max %d characters)", maxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id %q contains control characters", id)
		}
	}

	if strings.Contains(id, ">>") {
		return New(ErrCodeInvalidInput, "node id %q contains the edge separator \">>\"", id)
	}

	return nil
}

// ValidateLevel checks that a caller-assigned level is usable as a layer index.
func ValidateLevel(id string, level int) error {
	if level < 0 {
		return New(ErrCodeInvalidInput, "node %q has negative level %d", id, level)
	}
	return nil
}
