package service

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	MinNameLength = 2
	MaxNameLength = 50
)

// validateNamePart trims and composes v, then checks it against the
// certificate name rules. Lengths count composed characters.
func validateNamePart(field, v string) (string, error) {
	v = norm.NFC.String(strings.TrimSpace(v))

	n := utf8.RuneCountInString(v)
	switch {
	case n == 0:
		return "", &InvalidNameError{Field: field, Reason: "required"}
	case n < MinNameLength:
		return "", &InvalidNameError{Field: field, Reason: "must be at least 2 characters"}
	case n > MaxNameLength:
		return "", &InvalidNameError{Field: field, Reason: "must be at most 50 characters"}
	}

	for _, r := range v {
		if unicode.IsControl(r) || r == utf8.RuneError {
			return "", &InvalidNameError{Field: field, Reason: "contains invalid characters"}
		}
	}
	return v, nil
}

// ValidateCertificationName validates and normalises both name parts.
func ValidateCertificationName(first, last string) (string, string, error) {
	first, err := validateNamePart("first_name", first)
	if err != nil {
		return "", "", err
	}
	last, err = validateNamePart("last_name", last)
	if err != nil {
		return "", "", err
	}
	return first, last, nil
}

// foldName canonicalises a full name for comparison: whitespace runs
// collapse, composed form, case folded.
func foldName(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return cases.Fold().String(norm.NFC.String(s))
}

// SameName reports whether two full names match for verification purposes.
func SameName(a, b string) bool {
	return foldName(a) == foldName(b)
}
