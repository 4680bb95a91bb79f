package validators

import (
	"context"
	"regexp"
	"strings"

	"github.com/MKhiriev/deepguard/models"
)

// Field names accepted by [FormValidator.Validate].
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirm_password"
	FieldMediaType       = "media_type"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FormValidator validates [models.SignupRequest], [models.LoginRequest] and
// [models.MediaFile] values, by value or by pointer.
type FormValidator struct {
}

// NewFormValidator constructs a new FormValidator and returns it as the
// Validator interface.
func NewFormValidator() Validator {
	return &FormValidator{}
}

// Validate dispatches on the dynamic type of obj. When fields is empty every
// field of the type is checked in declaration order, and the first failure is
// returned.
func (v *FormValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.SignupRequest:
		return v.validateSignup(value, fields...)
	case *models.SignupRequest:
		return v.validateSignup(*value, fields...)
	case models.LoginRequest:
		return v.validateLogin(value, fields...)
	case *models.LoginRequest:
		return v.validateLogin(*value, fields...)
	case models.MediaFile:
		return v.validateMedia(value, fields...)
	case *models.MediaFile:
		return v.validateMedia(*value, fields...)
	default:
		return ErrUnsupportedType
	}
}

func (v *FormValidator) validateSignup(request models.SignupRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName, FieldEmail, FieldPassword, FieldConfirmPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldName:
			if strings.TrimSpace(request.Name) == "" {
				return ErrNameRequired
			}
		case FieldEmail:
			if !emailPattern.MatchString(request.Email) {
				return ErrInvalidEmail
			}
		case FieldPassword:
			if len([]rune(request.Password)) < MinPasswordLength {
				return ErrPasswordTooShort
			}
		case FieldConfirmPassword:
			// API clients may omit the confirmation.
			if request.ConfirmPassword != "" && request.ConfirmPassword != request.Password {
				return ErrPasswordsDoNotMatch
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateLogin only checks shape; wrong credentials are reported by the
// auth service with one generic message.
func (v *FormValidator) validateLogin(request models.LoginRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			if !emailPattern.MatchString(request.Email) {
				return ErrInvalidEmail
			}
		case FieldPassword:
			if request.Password == "" {
				return ErrPasswordTooShort
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *FormValidator) validateMedia(media models.MediaFile, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldMediaType}
	}

	for _, f := range fields {
		switch f {
		case FieldMediaType:
			if !media.IsValid() {
				return ErrInvalidMediaFile
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
