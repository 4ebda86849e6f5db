package domain

import (
	"regexp"
	"strings"
)

// Operator MSISDN patterns, full international form without the plus sign.
// Checked before any network call so a bad number never reaches the
// processor.
var operatorPhonePatterns = map[string]*regexp.Regexp{
	"mpesa":  regexp.MustCompile(`^254(7[0-2]\d|74[0-6]|79\d|11\d)\d{6}$`),
	"airtel": regexp.MustCompile(`^254(73\d|75[0-6]|78[5-9]|10[0-2])\d{6}$`),
	"telkom": regexp.MustCompile(`^25477\d{7}$`),
}

// NormalizePhoneNumber strips spacing and converts local and plus-prefixed
// forms to the bare international form.
func NormalizePhoneNumber(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	cleaned = strings.TrimPrefix(cleaned, "+")
	if strings.HasPrefix(cleaned, "0") && len(cleaned) == 10 {
		cleaned = "254" + cleaned[1:]
	}
	return cleaned
}

// ValidatePhoneNumber checks the number against the operator's numbering
// plan. Returns the normalized number on success.
func ValidatePhoneNumber(operator, raw string) (string, error) {
	pattern, ok := operatorPhonePatterns[strings.ToLower(strings.TrimSpace(operator))]
	if !ok {
		return "", ErrInvalidOperator
	}
	normalized := NormalizePhoneNumber(raw)
	if !pattern.MatchString(normalized) {
		return "", ErrInvalidPhoneNumber
	}
	return normalized, nil
}
