package contacts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contact-importer/parsers"
)

func contactWithEmail(email string) Contact {
	return FromCSVRecord(parsers.Record{
		"first_name": "A",
		"last_name":  "B",
		"email":      email,
	}, time.Now())
}

func emailBatch(emails ...string) []Contact {
	batch := make([]Contact, len(emails))
	for i, email := range emails {
		batch[i] = contactWithEmail(email)
	}
	return batch
}

func TestFindDuplicateEmails(t *testing.T) {
	batch := emailBatch("a@x.com", "b@x.com", "a@x.com", "c@x.com", "b@x.com", "a@x.com")

	duplicates := FindDuplicateEmails(batch)

	assert.Equal(t, []string{"a@x.com", "b@x.com"}, duplicates, "Each duplicate listed once, in first-repeat order")
}

func TestFindDuplicateEmails_None(t *testing.T) {
	assert.Empty(t, FindDuplicateEmails(emailBatch("a@x.com", "b@x.com")))
	assert.Empty(t, FindDuplicateEmails(nil))
}

func TestFindDuplicateEmails_TrimsBeforeComparing(t *testing.T) {
	batch := emailBatch("a@x.com", " a@x.com ")

	assert.Equal(t, []string{"a@x.com"}, FindDuplicateEmails(batch))
}

func TestFindDuplicateEmails_CaseSensitive(t *testing.T) {
	batch := emailBatch("a@x.com", "A@x.com")

	assert.Empty(t, FindDuplicateEmails(batch), "Comparison is case-sensitive")
}

func TestApplyDuplicatePolicy_RejectFailsBatch(t *testing.T) {
	batch := emailBatch("a@x.com", "b@x.com", "a@x.com", "b@x.com")

	kept, failures := ApplyDuplicatePolicy(batch, DuplicateReject)

	assert.Nil(t, kept)
	require.Len(t, failures, 1, "One synthetic failure for the whole batch")
	assert.Equal(t, "email", failures[0].Field)
	assert.Equal(t, "Duplicate email addresses found: a@x.com, b@x.com", failures[0].Message)
}

func TestApplyDuplicatePolicy_SkipKeepsFirstOccurrence(t *testing.T) {
	batch := emailBatch("a@x.com", "b@x.com", "a@x.com", "c@x.com", "a@x.com")

	kept, failures := ApplyDuplicatePolicy(batch, DuplicateSkip)

	assert.Nil(t, failures)
	require.Len(t, kept, 3)
	assert.Equal(t, "a@x.com", kept[0].EmailAddress.Address)
	assert.Equal(t, "b@x.com", kept[1].EmailAddress.Address)
	assert.Equal(t, "c@x.com", kept[2].EmailAddress.Address)
}

func TestApplyDuplicatePolicy_NoDuplicates(t *testing.T) {
	batch := emailBatch("a@x.com", "b@x.com")

	kept, failures := ApplyDuplicatePolicy(batch, DuplicateReject)

	assert.Nil(t, failures)
	assert.Equal(t, batch, kept, "A clean batch passes through unchanged")
}
