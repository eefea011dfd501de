package auth

import (
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^\+7[0-9]{10}$`)

// NormalizePhone maps whatever the operator typed onto the +7XXXXXXXXXX
// canonical form. Idempotent: a normalized number passes through unchanged.
func NormalizePhone(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case digits == "":
		return value
	case strings.HasPrefix(digits, "8"):
		return "+7" + digits[1:]
	case strings.HasPrefix(digits, "7"):
		return "+" + digits
	default:
		// Bare mobile numbers (9xx...) and anything else get the country code.
		return "+7" + digits
	}
}

// ValidPhone reports whether the number is in canonical +7 form.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
