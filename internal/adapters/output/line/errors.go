package line

import (
	"bytes"
	"encoding/json"
	"net/http"
	"unicode/utf8"

	"golang-line-connect/internal/domain"
)

// maxRawMessage caps how much of a non-JSON error body is kept as the message
const maxRawMessage = 512

// errorBody is the platform's error response
type errorBody struct {
	Message string               `json:"message"`
	Details []domain.ErrorDetail `json:"details"`
}

// ClassifyStatus maps a non-2xx HTTP status to an error kind
func ClassifyStatus(status int) domain.ErrorKind {
	switch {
	case status == http.StatusBadRequest:
		return domain.ErrorKindBadRequest
	case status == http.StatusUnauthorized:
		return domain.ErrorKindUnauthorized
	case status == http.StatusForbidden:
		return domain.ErrorKindForbidden
	case status == http.StatusNotFound:
		return domain.ErrorKindNotFound
	case status == http.StatusTooManyRequests:
		return domain.ErrorKindTooManyRequests
	case status >= 400 && status < 500:
		return domain.ErrorKindBadRequest
	default:
		// 5xx and anything the platform is not documented to send
		return domain.ErrorKindServerError
	}
}

// Classify builds the error for a non-2xx response. The platform's own
// message and details are kept when the body carries them, otherwise the
// raw body text is used. It never fails.
func Classify(status int, body []byte) *domain.APIError {
	apiErr := &domain.APIError{
		Kind:       ClassifyStatus(status),
		StatusCode: status,
	}

	var parsed errorBody
	trimmed := bytes.TrimSpace(body)
	switch {
	case len(trimmed) > 0 && json.Unmarshal(trimmed, &parsed) == nil && parsed.Message != "":
		apiErr.Message = parsed.Message
		apiErr.Details = parsed.Details
	case len(trimmed) > 0:
		apiErr.Message = truncate(string(trimmed), maxRawMessage)
	default:
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// transportError wraps a failure that produced no response, including
// cancellation and per-call timeouts
func transportError(err error) *domain.APIError {
	return &domain.APIError{Kind: domain.ErrorKindTransport, Err: err}
}

// requestError reports a request that could not be built and was never sent
func requestError(err error) *domain.APIError {
	return &domain.APIError{Kind: domain.ErrorKindBadRequest, Message: err.Error(), Err: err}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s + "..."
}
