// Package validator adapts go-playground/validator to echo's Validator hook.
package validator

import (
	domainerrors "identity/internal/domain/errors"

	playground "github.com/go-playground/validator/v10"
)

// Validator wraps a go-playground validator instance for echo.
type Validator struct {
	validate *playground.Validate
}

// New creates the request validator used by the HTTP server.
func New() *Validator {
	return &Validator{
		validate: playground.New(playground.WithRequiredStructEnabled()),
	}
}

// Validate checks struct tags and maps failures to the domain validation error
// so the error handler renders a 400 with the offending fields.
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
