package utils

import "strings"

// NormalizeContactNumber strips spaces and dashes so the same number always
// stores and matches identically.
func NormalizeContactNumber(number string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, number)
}

// ValidateContactNumber checks a contact number: optional leading +,
// 7 to 15 digits.
func ValidateContactNumber(number string) bool {
	number = NormalizeContactNumber(number)
	if strings.HasPrefix(number, "+") {
		number = number[1:]
	}
	if len(number) < 7 || len(number) > 15 {
		return false
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
