package validation

import (
	"regexp"
	"strings"
)

// US 5-digit zip, with optional +4.
var zipRe = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// Two-letter state code.
var stateRe = regexp.MustCompile(`^[A-Za-z]{2}$`)

func IsValidZip(zip string) bool {
	return zipRe.MatchString(strings.TrimSpace(zip))
}

func IsValidState(state string) bool {
	return stateRe.MatchString(strings.TrimSpace(state))
}

// IsValidStreet requires a non-empty street line with at least one letter or digit.
func IsValidStreet(street string) bool {
	street = strings.TrimSpace(street)
	if street == "" {
		return false
	}
	for _, r := range street {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
