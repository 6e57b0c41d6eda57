package errors

import (
	stderrors "errors"
	"net/http"
)

const (
	CodeMissingQuery        = "MISSING_QUERY"
	CodeQueryTooLong        = "QUERY_TOO_LONG"
	CodeInvalidQuery        = "INVALID_QUERY"
	CodeMissingLocation     = "MISSING_LOCATION"
	CodeLocationNotFound    = "LOCATION_NOT_FOUND"
	CodeInsufficientFilters = "INSUFFICIENT_FILTERS"
	CodeUpstreamRateLimited = "UPSTREAM_RATE_LIMITED"
	CodeUpstreamTimeout     = "UPSTREAM_TIMEOUT"
	CodeInternalError       = "INTERNAL_ERROR"
)

var (
	ErrMissingQuery = New(
		CodeMissingQuery,
		"Query is required",
		http.StatusBadRequest,
	)

	ErrQueryTooLong = New(
		CodeQueryTooLong,
		"Query must be at most 500 characters",
		http.StatusBadRequest,
	)

	ErrInvalidQuery = New(
		CodeInvalidQuery,
		"Invalid query",
		http.StatusBadRequest,
	)

	ErrMissingLocation = New(
		CodeMissingLocation,
		"Could not determine a location from the query",
		http.StatusBadRequest,
	)

	ErrLocationNotFound = New(
		CodeLocationNotFound,
		"Location not found",
		http.StatusNotFound,
	)

	ErrInsufficientFilters = New(
		CodeInsufficientFilters,
		"Query must specify an asset type or operator",
		http.StatusBadRequest,
	)

	ErrUpstreamRateLimited = New(
		CodeUpstreamRateLimited,
		"Upstream service is rate limiting requests, retry later",
		http.StatusTooManyRequests,
	)

	ErrUpstreamTimeout = New(
		CodeUpstreamTimeout,
		"Upstream service did not respond",
		http.StatusGatewayTimeout,
	)

	ErrInternal = New(
		CodeInternalError,
		"Internal server error",
		http.StatusInternalServerError,
	)
)

// AsAppError извлекает AppError из цепочки ошибок
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
