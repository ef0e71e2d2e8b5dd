package ccapi

import (
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// ErrorDetail is one entry of the structured error list the remote API
// returns on failed requests
type ErrorDetail struct {
	ErrorKey     string `json:"error_key"`
	ErrorMessage string `json:"error_message"`
}

// APIError represents a non-2xx response from the remote API
type APIError struct {
	StatusCode int
	Details    []ErrorDetail
}

// Error prefers the first structured error_message; otherwise it falls back
// to the HTTP status
func (e *APIError) Error() string {
	for _, d := range e.Details {
		if d.ErrorMessage != "" {
			return d.ErrorMessage
		}
	}
	return fmt.Sprintf("remote API returned HTTP %d", e.StatusCode)
}

// newAPIError builds an APIError from a failed response, parsing the
// structured error list when the body carries one
func newAPIError(resp *resty.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode()}

	var details []ErrorDetail
	if err := json.Unmarshal(resp.Body(), &details); err == nil {
		apiErr.Details = details
	}

	return apiErr
}
