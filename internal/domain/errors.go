package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Inbound webhook errors

var (
	// ErrMissingSignature indicates the delivery had no X-Line-Signature header
	ErrMissingSignature = errors.New("missing signature header")

	// ErrSignatureInvalid indicates the signature does not match the raw body
	ErrSignatureInvalid = errors.New("signature is invalid")

	// ErrInvalidPayload indicates a body that is not a webhook envelope or message
	ErrInvalidPayload = errors.New("invalid payload")
)

// DecodeError reports a single event that could not be decoded.
// Its siblings in the same delivery are unaffected.
type DecodeError struct {
	Index int
	Type  string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("events[%d]: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("events[%d] (type %q): %v", e.Index, e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ErrorKind classifies a failed messaging API call
type ErrorKind string

const (
	// ErrorKindBadRequest - the request was rejected as invalid (4xx)
	ErrorKindBadRequest ErrorKind = "bad_request"
	// ErrorKindUnauthorized - the channel access token was rejected
	ErrorKindUnauthorized ErrorKind = "unauthorized"
	// ErrorKindForbidden - the channel is not allowed to use the endpoint
	ErrorKindForbidden ErrorKind = "forbidden"
	// ErrorKindNotFound - the target resource does not exist
	ErrorKindNotFound ErrorKind = "not_found"
	// ErrorKindTooManyRequests - the rate limit or monthly quota was exceeded
	ErrorKindTooManyRequests ErrorKind = "too_many_requests"
	// ErrorKindServerError - the platform failed (5xx or an unreadable response)
	ErrorKindServerError ErrorKind = "server_error"
	// ErrorKindTransport - the request never produced a response
	ErrorKindTransport ErrorKind = "transport_error"
)

// Sentinels matched by errors.Is against an *APIError of the same kind
var (
	ErrBadRequest      = errors.New("bad request")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrTooManyRequests = errors.New("too many requests")
	ErrServerError     = errors.New("server error")
	ErrTransport       = errors.New("transport error")
)

var kindSentinels = map[ErrorKind]error{
	ErrorKindBadRequest:      ErrBadRequest,
	ErrorKindUnauthorized:    ErrUnauthorized,
	ErrorKindForbidden:       ErrForbidden,
	ErrorKindNotFound:        ErrNotFound,
	ErrorKindTooManyRequests: ErrTooManyRequests,
	ErrorKindServerError:     ErrServerError,
	ErrorKindTransport:       ErrTransport,
}

// ErrorDetail is one entry of the platform's validation error list
type ErrorDetail struct {
	Message  string `json:"message"`
	Property string `json:"property"`
}

// APIError is the classified failure of a messaging API call.
// StatusCode is zero when no response was received.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Details    []ErrorDetail
	RequestID  string
	Err        error
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString("line api: ")
	b.WriteString(string(e.Kind))
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	for i, d := range e.Details {
		if i == 0 {
			b.WriteString(" [")
		} else {
			b.WriteString("; ")
		}
		if d.Property != "" {
			b.WriteString(d.Property)
			b.WriteString(": ")
		}
		b.WriteString(d.Message)
		if i == len(e.Details)-1 {
			b.WriteString("]")
		}
	}
	if e.Err != nil && e.Message == "" {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *APIError) Unwrap() error { return e.Err }

// Is matches the kind sentinels, e.g. errors.Is(err, ErrBadRequest)
func (e *APIError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && target == sentinel
}

// KindOf returns the kind of a classified error, or "" when err is not an *APIError
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// InvalidRequestError reports a request rejected before it reached the platform,
// one entry per violated constraint
type InvalidRequestError struct {
	Problems []string
}

func (e *InvalidRequestError) Error() string {
	return "invalid request: " + strings.Join(e.Problems, "; ")
}

func (e *InvalidRequestError) Unwrap() error { return ErrInvalidPayload }
