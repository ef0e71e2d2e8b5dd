// Package parsers provides a streaming parser for the CSV contact files
// accepted by the import pipeline.
//
// The parser is designed for memory-efficient processing of large files by
// streaming records through Go channels instead of loading the whole file.
//
// It returns two channels:
//   - A records channel that streams parsed rows as column-name → value maps
//   - An errors channel that reports a malformed file
//
// Callers must consume both channels to avoid goroutine leaks. Any error on
// the error channel means the file could not be trusted past that point and
// the import attempt should be abandoned.
//
// Example usage:
//
//	file, _ := os.Open("contacts.csv")
//	defer file.Close()
//	records, errs := parsers.ParseCSV(file)
//
//	for record := range records {
//	    // Process each record (map[string]string)
//	    fmt.Println(record["email"])
//	}
//	if err := <-errs; err != nil {
//	    log.Printf("CSV error: %v", err)
//	}
package parsers
