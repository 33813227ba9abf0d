package http

import (
	"errors"
	"net/http"

	"golang-line-connect/internal/domain"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes carried in error responses
const (
	TextCodeSignatureMissing = "LINE_SIGNATURE_MISSING"
	TextCodeSignatureInvalid = "LINE_SIGNATURE_INVALID"
	TextCodeInvalidPayload   = "LINE_INVALID_PAYLOAD"
	TextCodeInvalidRequest   = "INVALID_REQUEST"
	TextCodeUpstreamRejected = "LINE_API_REJECTED"
	TextCodeUpstreamFailed   = "LINE_API_FAILED"
	TextCodeRateLimited      = "LINE_API_RATE_LIMITED"
	TextCodeInternal         = "INTERNAL_ERROR"
)

const missingSignatureMessage = "Missing 'X-Line-Signature' header, signature is required"

func newError(message string, category goerrors.Category, code int, textCode string) *goerrors.Error {
	return goerrors.New(message, category).
		WithCode(code).
		WithTextCode(textCode)
}

// toHTTPError maps domain and API failures to the error envelope returned to callers
func toHTTPError(err error) *goerrors.Error {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich
	}

	var invalid *domain.InvalidRequestError
	if errors.As(err, &invalid) {
		return newError("invalid request", goerrors.CategoryValidation, http.StatusBadRequest, TextCodeInvalidRequest).
			WithMetadata(map[string]any{"problems": invalid.Problems})
	}

	switch {
	case errors.Is(err, domain.ErrMissingSignature):
		return newError(missingSignatureMessage, goerrors.CategoryBadInput, http.StatusBadRequest, TextCodeSignatureMissing)
	case errors.Is(err, domain.ErrSignatureInvalid):
		return newError("Invalid signature", goerrors.CategoryAuth, http.StatusBadRequest, TextCodeSignatureInvalid)
	case errors.Is(err, domain.ErrInvalidPayload):
		return newError(err.Error(), goerrors.CategoryBadInput, http.StatusBadRequest, TextCodeInvalidPayload)
	}

	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return fromAPIError(apiErr)
	}

	return newError("Internal Server Error", goerrors.CategoryInternal, http.StatusInternalServerError, TextCodeInternal)
}

// fromAPIError keeps caller mistakes as 4xx and reports platform or credential
// problems as a bad gateway
func fromAPIError(apiErr *domain.APIError) *goerrors.Error {
	var out *goerrors.Error
	switch apiErr.Kind {
	case domain.ErrorKindBadRequest:
		out = newError(apiErr.Error(), goerrors.CategoryBadInput, http.StatusBadRequest, TextCodeUpstreamRejected)
	case domain.ErrorKindNotFound:
		out = newError(apiErr.Error(), goerrors.CategoryNotFound, http.StatusNotFound, TextCodeUpstreamRejected)
	case domain.ErrorKindTooManyRequests:
		out = newError(apiErr.Error(), goerrors.CategoryRateLimit, http.StatusTooManyRequests, TextCodeRateLimited)
	case domain.ErrorKindTransport:
		out = newError(apiErr.Error(), goerrors.CategoryExternal, http.StatusGatewayTimeout, TextCodeUpstreamFailed)
	default:
		out = newError(apiErr.Error(), goerrors.CategoryExternal, http.StatusBadGateway, TextCodeUpstreamFailed)
	}
	if apiErr.RequestID != "" {
		out.WithMetadata(map[string]any{"request_id": apiErr.RequestID})
	}
	return out
}
