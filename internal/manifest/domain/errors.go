package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors classified by the delivery layer. Storage error text
// never travels past these.
var (
	ErrManifestNotFound       = errors.New("manifest not found")
	ErrManifestAlreadyClosed  = errors.New("manifest is already closed")
	ErrOpenManifestExists     = errors.New("an open manifest already exists for this combination")
	ErrWarehouseNotFound      = errors.New("warehouse not found for tenant")
	ErrWarehouseNotAuthorized = errors.New("caller is not authorized for this warehouse")
)

// ValidationError marks malformed input the caller can fix and retry.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// Validationf builds a ValidationError with a formatted message
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a validation failure
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
