package http

import (
	"errors"
	"net/http"

	"github.com/hanriver/zipview/internal/service"
	"github.com/hanriver/zipview/pkg/httpx"
)

// Canned API error bodies. Invalid credentials and disabled accounts share
// one body on purpose: the response must not reveal which case applied.
var (
	errInvalidJSONBody = httpx.NewError(http.StatusBadRequest,
		"invalid_request", "Request body must be valid JSON.")
	errMissingFields = httpx.NewError(http.StatusBadRequest,
		"invalid_request", "Required fields are missing.")
	errAuthFailed = httpx.NewError(http.StatusUnauthorized,
		"authentication_failed", "Please log in again.")
	errStorageUnavailable = httpx.NewError(http.StatusServiceUnavailable,
		"temporarily_unavailable", "Try again shortly.")
	errUpstreamFailed = httpx.NewError(http.StatusBadGateway,
		"upstream_error", "The data provider did not answer.")
)

// isAuthFailure reports whether err belongs to the terminal authentication
// failure taxonomy. Anything else from the service layer is treated as a
// transient storage failure and is safe to retry.
func isAuthFailure(err error) bool {
	for _, target := range []error{
		service.ErrInvalidCredentials,
		service.ErrAccountDisabled,
		service.ErrTokenInvalid,
		service.ErrTokenExpired,
		service.ErrTokenTypeMismatch,
		service.ErrSessionNotFound,
		service.ErrSessionRevoked,
		service.ErrReplayDetected,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
