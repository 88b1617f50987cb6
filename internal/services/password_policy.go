package services

import "strings"

const (
	minPasswordLength = 8
	passwordSymbols   = "@$!%*?&"
)

// ValidPassword reports whether pw has at least eight characters drawn from
// ASCII letters, digits and @$!%*?&, with at least one of each class.
func ValidPassword(pw string) bool {
	if len(pw) < minPasswordLength {
		return false
	}

	var lower, upper, digit, symbol bool
	for _, r := range pw {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		default:
			return false
		}
	}
	return lower && upper && digit && symbol
}
