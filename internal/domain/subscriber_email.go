package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var emailValidator = validator.New()

// SubscriberEmail is a validated email address. Use NewSubscriberEmail.
type SubscriberEmail struct {
	value string
}

// NewSubscriberEmail validates a raw address against a standard email
// grammar. Empty and whitespace-only values are rejected.
func NewSubscriberEmail(raw string) (SubscriberEmail, error) {
	if err := emailValidator.Var(raw, "required,email"); err != nil {
		return SubscriberEmail{}, fmt.Errorf("invalid email address %q", raw)
	}
	return SubscriberEmail{value: raw}, nil
}

// String returns the validated address.
func (e SubscriberEmail) String() string {
	return e.value
}
