package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Credentials carries the username/password pair extracted from a Basic
// Authorization header.
type Credentials struct {
	Username string
	Password string
}

// ParseBasic decodes an "Authorization: Basic ..." header value. Error
// messages are diagnostics for logs; callers map every failure to the same
// challenge response.
func ParseBasic(header string) (Credentials, error) {
	if header == "" {
		return Credentials{}, errors.New("authorization header is missing")
	}

	encoded, ok := strings.CutPrefix(header, "Basic ")
	if !ok {
		return Credentials{}, errors.New("authorization scheme was not 'Basic'")
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Credentials{}, fmt.Errorf("decode base64 credentials: %w", err)
	}
	if !utf8.Valid(decoded) {
		return Credentials{}, errors.New("decoded credentials are not valid UTF-8")
	}

	username, password, found := strings.Cut(string(decoded), ":")
	if !found {
		return Credentials{}, errors.New("a password must be provided")
	}
	if username == "" {
		return Credentials{}, errors.New("a username must be provided")
	}
	return Credentials{Username: username, Password: password}, nil
}
