// Package forms parses and validates questionnaire submissions.
package forms

import (
	"net/url"
	"strings"
)

const maxNameLength = 255

// checkbox reads an HTML checkbox: present and truthy means checked.
func checkbox(values url.Values, key string) bool {
	switch strings.ToLower(strings.TrimSpace(values.Get(key))) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func text(values url.Values, key string) string {
	return strings.TrimSpace(values.Get(key))
}

func multi(values url.Values, key string) []string {
	raw := values[key]
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
