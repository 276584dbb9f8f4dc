package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

const maxNameGraphemes = 256

const forbiddenNameChars = `/"\(){}<>`

// SubscriberName is a validated display name. Use NewSubscriberName; the zero
// value is empty and never produced by the constructor.
type SubscriberName struct {
	value string
}

// NewSubscriberName validates a raw name. The limit counts grapheme clusters
// rather than runes so combining sequences are not over-counted.
func NewSubscriberName(raw string) (SubscriberName, error) {
	if strings.TrimSpace(raw) == "" {
		return SubscriberName{}, errors.New("name must not be empty")
	}
	if uniseg.GraphemeClusterCount(raw) > maxNameGraphemes {
		return SubscriberName{}, fmt.Errorf("name exceeds %d characters", maxNameGraphemes)
	}
	if strings.ContainsAny(raw, forbiddenNameChars) {
		return SubscriberName{}, errors.New("name contains forbidden characters")
	}
	return SubscriberName{value: raw}, nil
}

// String returns the validated name.
func (n SubscriberName) String() string {
	return n.value
}
