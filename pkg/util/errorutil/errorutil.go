package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// BasicChallenge is the WWW-Authenticate value sent with every failed
// operator authentication.
const BasicChallenge = `Basic realm="publish"`

// DomainError standardizes application errors at the HTTP boundary.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	// Challenge, when set, is emitted as a WWW-Authenticate header so the
	// client receives an authentication challenge rather than a generic
	// failure.
	Challenge string
	Details   map[string]any
	Err       error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

// NewUnauthorizedChallenge builds an auth failure that carries a
// WWW-Authenticate challenge.
func NewUnauthorizedChallenge(message, challenge string) error {
	return &DomainError{
		Code:       "UNAUTHORIZED",
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
		Challenge:  challenge,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError. Unknown errors map
// to an internal failure so their detail never reaches the client.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
