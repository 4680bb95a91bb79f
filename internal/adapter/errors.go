package adapter

import "errors"

var (
	ErrBadRequest          = errors.New("bad request")
	ErrNotFound            = errors.New("not found")
	ErrUnprocessable       = errors.New("unprocessable entity")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
	ErrServiceUnavailable  = errors.New("service unavailable")

	// ErrBackendUnreachable is returned when the request never got a response.
	ErrBackendUnreachable = errors.New("detection backend unreachable")
	// ErrInvalidResponse is returned for a response that cannot be decoded.
	ErrInvalidResponse = errors.New("invalid detection response")
	// ErrUnsupportedDetector is returned by [NewDetector] for unknown modes.
	ErrUnsupportedDetector = errors.New("unsupported detector")
)
