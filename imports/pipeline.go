package imports

import (
	"fmt"
	"io"
	"time"

	"contact-importer/contacts"
	"contact-importer/parsers"
)

// ParseError means the CSV source was unreadable or malformed. It is
// terminal for the import attempt: nothing gets validated or uploaded.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Failed to parse CSV file: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// BuildBatch runs the pre-upload pipeline: parse the CSV, adapt every row to
// the normalized contact shape, validate the batch, and resolve duplicate
// emails under the chosen policy.
//
// Errors are either *ParseError (malformed file) or
// common.ValidationErrors (row failures or rejected duplicates); in both
// cases no partial batch is returned.
func BuildBatch(reader io.Reader, policy contacts.DuplicatePolicy) ([]contacts.Contact, error) {
	records, errs := parsers.ParseCSV(reader)

	var batch []contacts.Contact
	for record := range records {
		batch = append(batch, contacts.FromCSVRecord(record, time.Now()))
	}
	if err := <-errs; err != nil {
		return nil, &ParseError{Err: err}
	}

	validator := contacts.NewValidator()
	if failures := validator.ValidateBatch(batch); len(failures) > 0 {
		return nil, failures
	}

	batch, dupFailures := contacts.ApplyDuplicatePolicy(batch, policy)
	if len(dupFailures) > 0 {
		return nil, dupFailures
	}

	return batch, nil
}
