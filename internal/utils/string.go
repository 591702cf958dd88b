package utils

import (
	"strings"
	"unicode"
)

// NormalizePhone keeps only the digits of a phone number so "+55 (11) 99999-0000" and
// "5511999990000" compare equal. Returns "" when no digit is present.
func NormalizePhone(s string) string {
	var digits strings.Builder
	for _, char := range s {
		if unicode.IsDigit(char) {
			digits.WriteRune(char)
		}
	}
	return digits.String()
}

// NormalizeList trims entries and drops the empty ones
func NormalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
