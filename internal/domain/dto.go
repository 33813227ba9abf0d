package domain

import "errors"

// DTOs (Data Transfer Objects) - results assembled by the application layer

type (
	// ValidationReport - outcome of validating one message set against every send endpoint.
	// Results is keyed by endpoint: reply, push, multicast, narrowcast, broadcast.
	ValidationReport struct {
		Valid   bool                        `json:"valid"`
		Results map[string]ValidationResult `json:"results"`
	}

	// ValidationResult - outcome of one validation endpoint
	ValidationResult struct {
		Valid     bool          `json:"valid"`
		Kind      ErrorKind     `json:"kind,omitempty"`
		Message   string        `json:"message,omitempty"`
		Details   []ErrorDetail `json:"details,omitempty"`
		RequestID string        `json:"requestId,omitempty"`
	}
)

// NewValidationResult summarizes the error a validation endpoint resolved with
func NewValidationResult(err error) ValidationResult {
	if err == nil {
		return ValidationResult{Valid: true}
	}
	result := ValidationResult{Message: err.Error()}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		result.Kind = apiErr.Kind
		result.Message = apiErr.Message
		result.Details = apiErr.Details
		result.RequestID = apiErr.RequestID
		if result.Message == "" {
			result.Message = apiErr.Error()
		}
	}
	return result
}
