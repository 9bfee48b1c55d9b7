package utils

import (
	"strings"
	"unicode/utf8"
)

// CleanUTF8 removes or replaces invalid UTF8 characters from a string
// Returns the cleaned string and a boolean indicating if cleaning was needed
func CleanUTF8(input string) (string, bool) {
	needsCleaning := strings.Contains(input, "\x00") || !utf8.ValidString(input)

	if !needsCleaning {
		return input, false
	}

	cleaned := strings.ToValidUTF8(input, "")
	cleaned = strings.ReplaceAll(cleaned, "\x00", "")

	return cleaned, true
}

// CleanText trims and sanitizes free text typed on a device.
func CleanText(input string) string {
	cleaned, _ := CleanUTF8(input)
	return strings.TrimSpace(cleaned)
}

// OptionalText cleans an optional field; blank values become nil.
func OptionalText(input *string) *string {
	if input == nil {
		return nil
	}
	cleaned := CleanText(*input)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
