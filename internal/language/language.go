// Package language defines the closed set of locale codes content can be
// stored in. The set is compiled in; adding a language is a code change,
// not a runtime operation.
package language

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
)

// Code identifies a supported locale.
type Code string

// Supported locale codes. The declaration order is the canonical order used
// for complete per-language projections.
const (
	English Code = "en"
	Arabic  Code = "ar"
	Russian Code = "ru"
)

// ErrInvalidLanguage indicates a locale code outside the supported set.
var ErrInvalidLanguage = errors.New("language: unsupported locale code")

var all = []Code{English, Arabic, Russian}

// All returns the supported codes in canonical order (en, ar, ru).
func All() []Code {
	out := make([]Code, len(all))
	copy(out, all)
	return out
}

// IsSupported reports whether code is in the supported set.
func IsSupported(code Code) bool {
	for _, c := range all {
		if c == code {
			return true
		}
	}
	return false
}

// Parse normalizes raw input into a supported Code. Input is canonicalized
// through BCP 47 parsing so variants such as "EN" or "ar-EG" resolve to
// their base code before matching against the closed set.
func Parse(raw string) (Code, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidLanguage
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", ErrInvalidLanguage
	}
	base, _ := tag.Base()
	code := Code(base.String())
	if !IsSupported(code) {
		return "", ErrInvalidLanguage
	}
	return code, nil
}
