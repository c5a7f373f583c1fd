// Package errs defines the error kinds shared by the catalog client, the
// enrichment engine, the caches and the HTTP layer.
//
// Every kind is a platform error from github.com/jmgilman/go/errors, so the
// code and retry classification travel with the error through wrapping and
// serialize directly into API responses.
package errs

import (
	"context"
	"errors"
	"net/http"

	perrors "github.com/jmgilman/go/errors"
)

// NotFound reports that the catalog has no record for the requested key.
func NotFound(format string, args ...any) error {
	return perrors.Newf(perrors.CodeNotFound, format, args...)
}

// Upstream reports a transport, status or decoding failure talking to the
// catalog. A deadline in cause is reported with the timeout code.
func Upstream(cause error, format string, args ...any) error {
	code := perrors.CodeNetwork
	if errors.Is(cause, context.DeadlineExceeded) {
		code = perrors.CodeTimeout
	}
	if cause == nil {
		return perrors.Newf(code, format, args...)
	}
	return perrors.Wrapf(cause, code, format, args...)
}

// Mapping reports a catalog payload that decoded but lacks a required part.
func Mapping(format string, args ...any) error {
	return perrors.Newf(perrors.CodeSchemaFailed, format, args...)
}

// InvalidInput reports a caller-supplied argument outside its domain.
func InvalidInput(format string, args ...any) error {
	return perrors.Newf(perrors.CodeInvalidInput, format, args...)
}

// Unavailable reports that a component has shut down or cannot take work.
func Unavailable(cause error, format string, args ...any) error {
	if cause == nil {
		return perrors.Newf(perrors.CodeUnavailable, format, args...)
	}
	return perrors.Wrapf(cause, perrors.CodeUnavailable, format, args...)
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool {
	return perrors.GetCode(err) == perrors.CodeNotFound
}

// IsUpstream reports whether err is an Upstream error.
func IsUpstream(err error) bool {
	code := perrors.GetCode(err)
	return code == perrors.CodeNetwork || code == perrors.CodeTimeout
}

// IsMapping reports whether err is a Mapping error.
func IsMapping(err error) bool {
	return perrors.GetCode(err) == perrors.CodeSchemaFailed
}

// IsInvalidInput reports whether err is an InvalidInput error.
func IsInvalidInput(err error) bool {
	return perrors.GetCode(err) == perrors.CodeInvalidInput
}

// HTTPStatus maps an error to the status code the API answers with.
func HTTPStatus(err error) int {
	switch perrors.GetCode(err) {
	case perrors.CodeNotFound:
		return http.StatusNotFound
	case perrors.CodeInvalidInput:
		return http.StatusBadRequest
	case perrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case perrors.CodeNetwork, perrors.CodeSchemaFailed:
		return http.StatusBadGateway
	case perrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// ToJSON renders err as an API error body.
func ToJSON(err error) *perrors.ErrorResponse {
	return perrors.ToJSON(err)
}
