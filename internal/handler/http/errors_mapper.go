package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/deepguard/internal/app"
	"github.com/MKhiriev/deepguard/internal/logger"
	"github.com/MKhiriev/deepguard/internal/service"
	"github.com/MKhiriev/deepguard/internal/store"
	"github.com/MKhiriev/deepguard/internal/utils"
	"github.com/MKhiriev/deepguard/internal/validators"
	"github.com/MKhiriev/deepguard/models"
)

var errorStatusMap = map[error]int{
	ErrInvalidJSON:                http.StatusBadRequest,
	ErrMissingFile:                http.StatusBadRequest,
	ErrUploadTooLarge:             http.StatusRequestEntityTooLarge,
	ErrEmptyAuthorizationHeader:   http.StatusUnauthorized,
	ErrInvalidAuthorizationHeader: http.StatusUnauthorized,

	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrInvalidCredentials:      http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrInvalidMediaFile:        http.StatusBadRequest,
	service.ErrBackendUnavailable:      http.StatusServiceUnavailable,
	service.ErrAnalysisFailed:          http.StatusBadGateway,
	service.ErrTokenCreationFailed:     http.StatusInternalServerError,

	validators.ErrNameRequired:        http.StatusBadRequest,
	validators.ErrInvalidEmail:        http.StatusBadRequest,
	validators.ErrPasswordTooShort:    http.StatusBadRequest,
	validators.ErrPasswordsDoNotMatch: http.StatusBadRequest,
	validators.ErrInvalidMediaFile:    http.StatusBadRequest,

	store.ErrLoginAlreadyExists:  http.StatusConflict,
	store.ErrNoUserWasFound:      http.StatusNotFound,
	store.ErrHistoryItemNotFound: http.StatusNotFound,
}

// formErrors already carry their display text.
var formErrors = []error{
	validators.ErrNameRequired,
	validators.ErrInvalidEmail,
	validators.ErrPasswordTooShort,
	validators.ErrPasswordsDoNotMatch,
	validators.ErrInvalidMediaFile,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// messageFromError returns the fixed text shown to API callers. Internal
// causes never leak into the response body.
func messageFromError(err error, status int) string {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	for _, target := range formErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}

	switch {
	case errors.Is(err, ErrEmptyAuthorizationHeader), errors.Is(err, ErrInvalidAuthorizationHeader),
		errors.Is(err, service.ErrTokenIsExpiredOrInvalid):
		return app.MsgTokenIsExpiredOrInvalid
	case errors.Is(err, store.ErrHistoryItemNotFound):
		return app.MsgHistoryItemNotFound
	case status == http.StatusBadRequest:
		return app.MsgInvalidDataProvided
	case status == http.StatusInternalServerError:
		return app.MsgInternalServerError
	}
	return http.StatusText(status)
}

// writeError logs err and answers with its mapped status and message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)

	log := logger.FromRequest(r)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", status).Send()
	} else {
		log.Warn().Err(err).Int("status", status).Send()
	}

	if _, writeErr := utils.WriteJSON(w, models.ErrorResponse{Error: messageFromError(err, status)}, status); writeErr != nil {
		log.Err(writeErr).Msg("error writing error response")
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, data any, status int) {
	if _, err := utils.WriteJSON(w, data, status); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing response")
	}
}
