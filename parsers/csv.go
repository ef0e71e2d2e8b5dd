package parsers

import (
	"encoding/csv"
	"io"
)

// Record represents a single CSV row as a map of column name to value
type Record map[string]string

// ParseCSV reads CSV from io.Reader and streams records via channel.
// The first row is treated as the header; data rows with fewer columns than
// the header come back with empty strings for the missing columns, and rows
// whose cells are all empty are skipped.
// Returns two channels: one for records, one for errors. A malformed file
// produces one error and ends the stream; the attempt cannot be salvaged
// row by row because column alignment is no longer trustworthy.
// Caller must consume both channels to avoid goroutine leak.
func ParseCSV(reader io.Reader) (<-chan Record, <-chan error) {
	records := make(chan Record, 100) // Buffered for better throughput
	errors := make(chan error, 1)

	go func() {
		defer close(records)
		defer close(errors)

		csvReader := csv.NewReader(reader)
		csvReader.ReuseRecord = true
		csvReader.FieldsPerRecord = -1 // Allow variable number of fields

		// Read header row; an empty file is an empty sequence, not an error
		headers, err := csvReader.Read()
		if err != nil {
			if err != io.EOF {
				errors <- err
			}
			return
		}

		// Copy headers since the record slice is reused
		headersCopy := make([]string, len(headers))
		copy(headersCopy, headers)

		for {
			row, err := csvReader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				errors <- err
				return
			}

			if isEmptyRow(row) {
				continue
			}

			// Map row to headers; missing columns default to empty string
			record := make(Record, len(headersCopy))
			for i, header := range headersCopy {
				if i < len(row) {
					record[header] = row[i]
				} else {
					record[header] = ""
				}
			}

			records <- record
		}
	}()

	return records, errors
}

// isEmptyRow reports whether every cell in the row is the empty string
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
