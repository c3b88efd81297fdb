// Package validate holds the input shape checks shared by the use cases.
// Every failure is an apperr validation error carrying a client-facing message.
package validate

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/artem13815/blog/pkg/apperr"
)

// Length checks the rune length of s (after trimming) is within [min, max].
// max <= 0 means unbounded.
func Length(field, s string, min, max int) error {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	switch {
	case n == 0 && min > 0:
		return apperr.Invalid(field + " is required")
	case max > 0 && min > 0 && (n < min || n > max):
		return apperr.Invalid(fmt.Sprintf("%s must be between %d and %d characters", field, min, max))
	case min > 0 && n < min:
		return apperr.Invalid(fmt.Sprintf("%s must be at least %d characters long", field, min))
	case max > 0 && n > max:
		return apperr.Invalid(fmt.Sprintf("%s must not exceed %d characters", field, max))
	}
	return nil
}

// URL accepts absolute http(s) URLs.
func URL(field, s string) error {
	u, err := url.ParseRequestURI(strings.TrimSpace(s))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperr.Invalid(field + " must be a valid URL")
	}
	return nil
}

func Email(s string) error {
	addr, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil || addr.Address != strings.TrimSpace(s) {
		return apperr.Invalid("Please provide a valid email")
	}
	return nil
}

// PositiveIDs rejects zero or negative identifiers.
func PositiveIDs(field string, ids []int64) error {
	for _, id := range ids {
		if id < 1 {
			return apperr.Invalid("Each " + field + " must be a positive integer")
		}
	}
	return nil
}
