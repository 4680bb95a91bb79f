// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// deepguard services, HTTP handlers and terminal client.
//
// All Msg* constants are human-readable message strings written into HTTP
// response bodies, shown on TUI screens or attached to log entries. Keeping
// them in one place keeps the wording identical on every surface.
package app

const (
	// MsgInvalidEmailOrPassword is shown when a login attempt matches neither
	// the demo credential nor a registered identity.
	MsgInvalidEmailOrPassword = "Invalid email or password"

	// MsgUserAlreadyExists is shown when a signup email is already registered.
	MsgUserAlreadyExists = "User with this email already exists"

	// MsgInvalidMediaFile is shown when an upload is neither a supported video
	// nor a supported audio file.
	MsgInvalidMediaFile = "Please upload a valid media file (MP4, AVI, MOV, WebM, OGG, WAV, MP3)"

	// MsgAnalysisFailed is shown when the detector returns an error.
	MsgAnalysisFailed = "Analysis failed. Please try again."

	// MsgBackendUnavailable is shown while the detection backend is not
	// healthy.
	MsgBackendUnavailable = "Backend unreachable"

	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded or fails basic validation.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgTokenIsExpiredOrInvalid is returned when a bearer token is either
	// expired or cannot be verified.
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgNoUserIDProvided is returned when a handler requires the caller's
	// user ID but none is present in the request context.
	MsgNoUserIDProvided = "no user ID provided"

	// MsgHistoryItemNotFound is returned when a history record does not exist
	// for the current user.
	MsgHistoryItemNotFound = "history item not found"

	// MsgNameRequired, MsgEmailInvalid, MsgPasswordTooShort and
	// MsgPasswordsDoNotMatch describe signup form failures.
	MsgNameRequired        = "Name is required"
	MsgEmailInvalid        = "Please enter a valid email address"
	MsgPasswordTooShort    = "Password must be at least 6 characters"
	MsgPasswordsDoNotMatch = "Passwords do not match"
)
