package service

import (
	"errors"

	"github.com/MKhiriev/deepguard/internal/app"
)

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrInvalidCredentials  = errors.New("invalid email or password")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrVersionIsNotSpecified = errors.New("version is not specified")

	ErrInvalidMediaFile   = errors.New("invalid media file")
	ErrBackendUnavailable = errors.New("detection backend is unavailable")
	ErrAnalysisFailed     = errors.New("analysis failed")

	// ErrMissingSession is logged, never returned: operations that need a
	// current identity silently do nothing without one.
	ErrMissingSession = errors.New("no current user")
)

// ValidationError is the only failure meant for display. Message is the
// fixed human-readable text, Err the underlying cause for [errors.Is].
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func newValidationError(message string, cause error) *ValidationError {
	return &ValidationError{Message: message, Err: cause}
}

// UserMessage returns the display text of err: the message of a wrapped
// [ValidationError], or fallback.
func UserMessage(err error, fallback string) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return fallback
}

func invalidCredentials() error {
	return newValidationError(app.MsgInvalidEmailOrPassword, ErrInvalidCredentials)
}
