package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Column length limits.  Where the legacy schemas disagreed the stricter
// bound is kept.
const (
	MaxRestaurantNameLen  = 128
	MaxLocationLen        = 256
	MaxDescriptionLen     = 1000
	MaxPhoneLen           = 20
	MaxEmailLen           = 128
	MaxTableNumberLen     = 20
	MaxPersonNameLen      = 64
	MaxSpecialRequestsLen = 500
)

// ErrInvalidEntity is wrapped by every Validate failure so callers can map
// it to a 400 without inspecting the message.
var ErrInvalidEntity = errors.New("invalid entity")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidEntity, fmt.Sprintf(format, args...))
}

func required(field, v string, max int) error {
	if strings.TrimSpace(v) == "" {
		return invalid("%s is required", field)
	}
	return maxLen(field, v, max)
}

func maxLen(field, v string, max int) error {
	if utf8.RuneCountInString(v) > max {
		return invalid("%s must be at most %d characters", field, max)
	}
	return nil
}

func optional(field string, v *string, max int) error {
	if v == nil {
		return nil
	}
	return maxLen(field, *v, max)
}
