package common

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ValidationError represents a single field-level validation failure
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors aggregates failures across an entire import batch
type ValidationErrors []ValidationError

// Error implements the error interface so a batch rejection can travel
// through normal error returns
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// ToJSON converts the failure list to a JSON string for job persistence
func (v ValidationErrors) ToJSON() string {
	if len(v) == 0 {
		return ""
	}
	data, _ := json.Marshal(v)
	return string(data)
}

// RowPrefixed returns a copy of the failure with its message prefixed by the
// 1-based row number it came from, e.g. "Row 3: Invalid email address"
func (e ValidationError) RowPrefixed(rowNum int) ValidationError {
	return ValidationError{
		Field:   e.Field,
		Message: fmt.Sprintf("Row %d: %s", rowNum, e.Message),
	}
}

// Email validation regex (simplified RFC 5322)
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks if email format is valid. It backs the "email" rule of
// the contact validator, which requires a dotted domain with a TLD.
func ValidateEmail(email string) bool {
	if email == "" {
		return false
	}
	return emailRegex.MatchString(email)
}
