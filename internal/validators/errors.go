package validators

import (
	"errors"

	"github.com/MKhiriev/deepguard/internal/app"
)

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	// Form errors carry the message shown to the user.
	ErrNameRequired        = errors.New(app.MsgNameRequired)
	ErrInvalidEmail        = errors.New(app.MsgEmailInvalid)
	ErrPasswordTooShort    = errors.New(app.MsgPasswordTooShort)
	ErrPasswordsDoNotMatch = errors.New(app.MsgPasswordsDoNotMatch)
	ErrInvalidMediaFile    = errors.New(app.MsgInvalidMediaFile)
)
