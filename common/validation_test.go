package common

import (
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"user@example.com", true},
		{"test.user+tag@domain.co.uk", true},
		{"", false},
		{"invalid", false},
		{"@domain.com", false},
		{"user@", false},
		{"user @domain.com", false},
		{"user@domain", false},
	}

	for _, tt := range tests {
		result := ValidateEmail(tt.email)
		if result != tt.valid {
			t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, result, tt.valid)
		}
	}
}

func TestValidationErrors_Error(t *testing.T) {
	var empty ValidationErrors
	if empty.Error() != "validation failed" {
		t.Errorf("Empty list should use the generic message, got %q", empty.Error())
	}

	errs := ValidationErrors{
		{Field: "first_name", Message: "First name is required"},
		{Field: "email_address.address", Message: "Invalid email address"},
	}
	want := "First name is required; Invalid email address"
	if errs.Error() != want {
		t.Errorf("Error() = %q, want %q", errs.Error(), want)
	}
}

func TestValidationErrors_ToJSON(t *testing.T) {
	var empty ValidationErrors
	if empty.ToJSON() != "" {
		t.Error("Empty list should serialize to the empty string")
	}

	errs := ValidationErrors{{Field: "email", Message: "Invalid email address"}}
	json := errs.ToJSON()
	if json == "" {
		t.Error("ToJSON should return non-empty string")
	}
	if json != `[{"field":"email","message":"Invalid email address"}]` {
		t.Errorf("Unexpected JSON %q", json)
	}
}

func TestRowPrefixed(t *testing.T) {
	e := ValidationError{Field: "email_address.address", Message: "Invalid email address"}

	prefixed := e.RowPrefixed(3)
	if prefixed.Message != "Row 3: Invalid email address" {
		t.Errorf("Unexpected message %q", prefixed.Message)
	}
	if prefixed.Field != e.Field {
		t.Error("Field must carry over unchanged")
	}
	if e.Message != "Invalid email address" {
		t.Error("Original must not be mutated")
	}
}
