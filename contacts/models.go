package contacts

// Entry kinds accepted by the remote API for addresses and phone numbers
const (
	KindHome  = "home"
	KindWork  = "work"
	KindOther = "other"
)

// CreateSourceAccount is the fixed create_source the importer stamps on
// every contact it sends
const CreateSourceAccount = "Account"

// PermissionImplicit is the default permission_to_send for imported contacts
const PermissionImplicit = "implicit"

// EmailAddress is the contact's primary email on the wire
type EmailAddress struct {
	Address          string `json:"address" validate:"email"`
	PermissionToSend string `json:"permission_to_send,omitempty"`
}

// StreetAddress is one postal address entry; all fields may be empty strings
type StreetAddress struct {
	Kind       string `json:"kind" validate:"required,oneof=home work other"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// PhoneNumber is one phone entry
type PhoneNumber struct {
	Kind   string `json:"kind" validate:"required,oneof=home work other"`
	Number string `json:"phone_number"`
}

// Contact is the normalized contact entity. The JSON field names are part of
// the remote API contract and must not be renamed.
type Contact struct {
	ContactID       string          `json:"contact_id,omitempty"`
	FirstName       string          `json:"first_name" validate:"required"`
	LastName        string          `json:"last_name" validate:"required"`
	EmailAddress    EmailAddress    `json:"email_address" validate:"required"`
	CreateSource    string          `json:"create_source" validate:"required,eq=Account"`
	StreetAddresses []StreetAddress `json:"street_addresses,omitempty" validate:"dive"`
	PhoneNumbers    []PhoneNumber   `json:"phone_numbers,omitempty" validate:"dive"`
	CreatedAt       string          `json:"created_at,omitempty"`
	UpdatedAt       string          `json:"updated_at,omitempty"`
}

// Upload statuses for one contact within an import batch
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusError   = "error"
)

// ContactWithStatus pairs a contact with its upload outcome. The status
// transitions pending → success or pending → error at most once, driven by
// the import session's upload loop.
type ContactWithStatus struct {
	Contact      Contact `json:"contact"`
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message,omitempty"`
}
