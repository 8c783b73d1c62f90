// Package validate holds the address-field validators applied before a
// checkout submission is accepted.
package validate

import (
	"regexp"
	"strings"
)

var (
	pincodeRe = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	phoneRe   = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// Pincode reports whether s is a valid Indian postal code: six digits, no
// leading zero.
func Pincode(s string) bool {
	return pincodeRe.MatchString(s)
}

// Phone reports whether s is a valid Indian mobile number: ten digits with
// leading digit 6-9, optionally prefixed with +91 or 91.
func Phone(s string) bool {
	clean := cleanPhone(s)
	if strings.HasPrefix(clean, "+91") {
		return phoneRe.MatchString(clean[3:])
	}
	if strings.HasPrefix(clean, "91") && len(clean) == 12 {
		return phoneRe.MatchString(clean[2:])
	}
	return phoneRe.MatchString(clean)
}

// FormatPhone normalises a valid Indian mobile number to +91 form. Inputs it
// cannot normalise are returned unchanged.
func FormatPhone(s string) string {
	clean := cleanPhone(s)
	if strings.HasPrefix(clean, "+91") {
		return clean
	}
	if strings.HasPrefix(clean, "91") && len(clean) == 12 {
		return "+" + clean
	}
	if phoneRe.MatchString(clean) {
		return "+91" + clean
	}
	return s
}

// Email applies the same minimal check the storefront always has: the address
// must contain an '@'.
func Email(s string) bool {
	return strings.Contains(s, "@")
}

func cleanPhone(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, s)
}
