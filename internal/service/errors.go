package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotFound           = errors.New("not found")
	ErrCartItemNotFound   = errors.New("item not in cart")
	ErrCartEmpty          = errors.New("cart is empty")
)

// FieldError is a validation failure attributable to one request field,
// named by its JSON key.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

func fieldErr(field, msg string) error { return &FieldError{Field: field, Message: msg} }
