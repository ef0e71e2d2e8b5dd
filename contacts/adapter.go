package contacts

import (
	"time"

	"contact-importer/parsers"
)

// CSVContactInput is the fixed column set expected in an import file. Every
// field is a plain string; absent columns arrive as empty strings from the
// parser, so construction is total over any row.
type CSVContactInput struct {
	FirstName      string
	LastName       string
	Email          string
	AddressLine1   string
	AddressLine2   string
	AddressCity    string
	AddressState   string
	AddressZip     string
	AddressCountry string
	PhoneNumber    string
}

// CSVInputFromRecord picks the known columns out of a parsed CSV row
func CSVInputFromRecord(record parsers.Record) CSVContactInput {
	return CSVContactInput{
		FirstName:      record["first_name"],
		LastName:       record["last_name"],
		Email:          record["email"],
		AddressLine1:   record["address_line_1"],
		AddressLine2:   record["address_line_2"],
		AddressCity:    record["address_city"],
		AddressState:   record["address_state"],
		AddressZip:     record["address_zip"],
		AddressCountry: record["address_country"],
		PhoneNumber:    record["phone_number"],
	}
}

// Contact maps the CSV input to the normalized contact shape without
// validating it. The mapping always produces exactly one home street address
// and one home phone entry, even when their columns are empty, and stamps
// both timestamps with the same instant.
func (in CSVContactInput) Contact(now time.Time) Contact {
	ts := now.UTC().Format(time.RFC3339)

	return Contact{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		EmailAddress: EmailAddress{
			Address:          in.Email,
			PermissionToSend: PermissionImplicit,
		},
		CreateSource: CreateSourceAccount,
		StreetAddresses: []StreetAddress{
			{
				Kind:       KindHome,
				Street:     in.AddressLine1,
				City:       in.AddressCity,
				State:      in.AddressState,
				PostalCode: in.AddressZip,
				Country:    in.AddressCountry,
			},
		},
		PhoneNumbers: []PhoneNumber{
			{
				Kind:   KindHome,
				Number: in.PhoneNumber,
			},
		},
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

// FromCSVRecord is the full row adapter: raw CSV row in, unvalidated
// normalized contact out
func FromCSVRecord(record parsers.Record, now time.Time) Contact {
	return CSVInputFromRecord(record).Contact(now)
}
