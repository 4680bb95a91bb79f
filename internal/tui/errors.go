// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"

	"github.com/MKhiriev/deepguard/internal/service"
	"github.com/MKhiriev/deepguard/internal/validators"
)

var formErrors = []error{
	validators.ErrNameRequired,
	validators.ErrInvalidEmail,
	validators.ErrPasswordTooShort,
	validators.ErrPasswordsDoNotMatch,
	validators.ErrInvalidMediaFile,
}

// displayError returns the fixed text shown for err. Causes are never
// rendered: only validation messages reach the screen.
func displayError(err error, fallback string) string {
	if err == nil {
		return ""
	}
	for _, target := range formErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return service.UserMessage(err, fallback)
}
