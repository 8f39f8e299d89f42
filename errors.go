package hostsdk

import (
	"encoding/json"
	"fmt"
)

// ErrorResponse is the structured error shape returned to extension
// bundles instead of a Go error, so guests can decode failures uniformly.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ToJSON serializes the error response. Marshal of this shape cannot fail.
func (e *ErrorResponse) ToJSON() []byte {
	data, _ := json.Marshal(e)
	return data
}

// NewValidationError creates an error response for a rejected payload.
func NewValidationError(message string) *ErrorResponse {
	return &ErrorResponse{Code: "VALIDATION_FAILED", Message: message}
}

// NewInternalError creates an error response for a host-side failure.
func NewInternalError(message string) *ErrorResponse {
	return &ErrorResponse{Code: "INTERNAL_ERROR", Message: message}
}

// NewPanicError creates an error response from a recovered panic value.
func NewPanicError(recovered any) *ErrorResponse {
	return &ErrorResponse{
		Code:    "HOST_PANIC",
		Message: fmt.Sprintf("host function panicked: %v", recovered),
	}
}
