package contacts

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"contact-importer/common"
)

// Validator checks normalized contacts against the schema the remote API
// enforces: non-empty first and last name, a syntactically valid email, and
// known kinds on address/phone entries. Everything else may be empty.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a validator that reports field paths using the wire
// (JSON) names, e.g. "email_address.address"
func NewValidator() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// The remote API's email rule wants a dotted domain with a TLD, which is
	// stricter than the default rule
	_ = v.RegisterValidation("email", func(fl validator.FieldLevel) bool {
		return common.ValidateEmail(fl.Field().String())
	})

	return &Validator{validate: v}
}

// ValidateContact returns all field-level failures for a single contact, or
// nil when the contact is valid
func (v *Validator) ValidateContact(contact Contact) common.ValidationErrors {
	err := v.validate.Struct(contact)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return common.ValidationErrors{{Field: "", Message: err.Error()}}
	}

	failures := make(common.ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		failures = append(failures, common.ValidationError{
			Field:   fieldPath(fe),
			Message: failureMessage(fe),
		})
	}
	return failures
}

// ValidateBatch validates every contact in order. Row failures are
// independent: a bad row never stops validation of the rest. Each failure
// message is prefixed with its 1-based row number, and if any row fails the
// whole batch is rejected with the aggregated list.
func (v *Validator) ValidateBatch(batch []Contact) common.ValidationErrors {
	var all common.ValidationErrors

	for i, contact := range batch {
		for _, failure := range v.ValidateContact(contact) {
			all = append(all, failure.RowPrefixed(i+1))
		}
	}

	return all
}

// fieldPath strips the root struct name from the namespace, leaving the
// JSON path of the failing field
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// failureMessage mirrors the messages users see in the import UI
func failureMessage(fe validator.FieldError) string {
	switch {
	case fe.Tag() == "email":
		return "Invalid email address"
	case fe.Tag() == "required":
		return fmt.Sprintf("%s is required", fieldLabel(fe.Field()))
	case fe.Tag() == "oneof":
		return fmt.Sprintf("%s must be one of: %s", fieldLabel(fe.Field()), strings.ReplaceAll(fe.Param(), " ", ", "))
	case fe.Tag() == "eq":
		return fmt.Sprintf("%s must be %q", fieldLabel(fe.Field()), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fieldLabel(fe.Field()))
	}
}

// fieldLabel turns a wire field name into a human label: "first_name" →
// "First name"
func fieldLabel(field string) string {
	label := strings.ReplaceAll(field, "_", " ")
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
