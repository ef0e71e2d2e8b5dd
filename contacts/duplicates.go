package contacts

import (
	"fmt"
	"strings"

	"contact-importer/common"
)

// DuplicatePolicy selects how a batch containing repeated email addresses is
// handled
type DuplicatePolicy string

const (
	// DuplicateReject fails the whole batch when any email repeats
	DuplicateReject DuplicatePolicy = "reject"
	// DuplicateSkip keeps the first occurrence of each email and drops the rest
	DuplicateSkip DuplicatePolicy = "skip"
)

// FindDuplicateEmails returns the email addresses that appear two or more
// times in the batch, in the order their first repeat was seen. Comparison is
// case-sensitive on the trimmed address; batches arrive already validated, so
// trimming only strips accidental surrounding whitespace.
func FindDuplicateEmails(batch []Contact) []string {
	seen := make(map[string]bool, len(batch))
	isDup := make(map[string]bool)
	var duplicates []string

	for _, contact := range batch {
		email := strings.TrimSpace(contact.EmailAddress.Address)
		if seen[email] {
			if !isDup[email] {
				isDup[email] = true
				duplicates = append(duplicates, email)
			}
			continue
		}
		seen[email] = true
	}

	return duplicates
}

// ApplyDuplicatePolicy resolves duplicates in a validated batch.
//
// Under DuplicateReject a non-empty duplicate set fails the batch with a
// single failure on the synthetic field "email", listing each duplicate
// address exactly once. Under DuplicateSkip the first occurrence of every
// email is retained and later occurrences are dropped, preserving batch
// order otherwise.
func ApplyDuplicatePolicy(batch []Contact, policy DuplicatePolicy) ([]Contact, common.ValidationErrors) {
	duplicates := FindDuplicateEmails(batch)
	if len(duplicates) == 0 {
		return batch, nil
	}

	if policy != DuplicateSkip {
		return nil, common.ValidationErrors{{
			Field:   "email",
			Message: fmt.Sprintf("Duplicate email addresses found: %s", strings.Join(duplicates, ", ")),
		}}
	}

	seen := make(map[string]bool, len(batch))
	kept := make([]Contact, 0, len(batch))
	for _, contact := range batch {
		email := strings.TrimSpace(contact.EmailAddress.Address)
		if seen[email] {
			continue
		}
		seen[email] = true
		kept = append(kept, contact)
	}

	return kept, nil
}
