package validation

import (
	"strings"
	"unicode/utf8"
)

// Violations maps a form field name to an i18n error code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Has reports whether field has a violation.
func (v Violations) Has(field string) bool {
	_, ok := v[field]
	return ok
}

// Chooser reports whether a code is allowed.
type Chooser interface {
	Valid(value string) bool
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

// Choice accepts an empty value; use Required for mandatory choices.
func Choice(field, value string, c Chooser, v Violations) {
	if value == "" || v.Has(field) {
		return
	}
	if !c.Valid(value) {
		v[field] = "invalid_choice"
	}
}

// Choices rejects any value not allowed by c.
func Choices(field string, values []string, c Chooser, v Violations) {
	for _, val := range values {
		if !c.Valid(val) {
			v[field] = "invalid_choice"
			return
		}
	}
}

func MaxLength(field, value string, n int, v Violations) {
	if utf8.RuneCountInString(value) > n {
		v[field] = "too_long"
	}
}

// SIREN requires exactly nine ASCII digits.
func SIREN(field, value string, v Violations) {
	if len(value) != 9 {
		v[field] = "invalid_siren"
		return
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			v[field] = "invalid_siren"
			return
		}
	}
}
