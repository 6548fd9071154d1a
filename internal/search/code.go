package search

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nexus-sus/nexus/internal/errors"
)

// CodeLength is the number of letters in a region code (UF).
const CodeLength = 2

var codePattern = regexp.MustCompile(`^[A-Z]{2}$`)

// NormalizeKeystroke is applied to the input field after every keystroke:
// the text is uppercased and capped at CodeLength characters. It does not
// trim, so the field still shows what the user typed.
func NormalizeKeystroke(s string) string {
	s = strings.ToUpper(s)
	if utf8.RuneCountInString(s) <= CodeLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:CodeLength])
}

// Sanitize trims surrounding whitespace and uppercases raw.
func Sanitize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// IsValidCode reports whether code is exactly two uppercase ASCII letters.
func IsValidCode(code string) bool {
	return codePattern.MatchString(code)
}

// ParseCode sanitizes raw and validates the result. The returned error is
// a *errors.ValidationError wrapping errors.ErrInvalidRegionCode.
func ParseCode(raw string) (string, error) {
	code := Sanitize(raw)
	if !IsValidCode(code) {
		return "", errors.NewValidationError("region code must be two letters").
			WithField("estado").
			WithValue(raw).
			WithCause(errors.ErrInvalidRegionCode)
	}
	return code, nil
}
