// Package validate holds field checks shared by request DTOs.
package validate

import (
	"strings"

	"github.com/mcnijman/go-emailaddress"
)

const maxEmailLength = 254

// Email reports whether s is a syntactically valid address.
func Email(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxEmailLength {
		return false
	}
	_, err := emailaddress.Parse(s)
	return err == nil
}

// NormalizeEmail trims and lower-cases an address for storage and lookup.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Digits reports whether s is exactly n ASCII digits.
func Digits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Blank reports whether s is empty after trimming.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
