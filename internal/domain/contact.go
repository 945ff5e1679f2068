package domain

import (
	"errors"
	"strings"
	"unicode"
)

// ErrInvalidContact is returned when a phone number fails validation.
var ErrInvalidContact = errors.New("contact must be a 010 or 011 number with at least 10 digits")

// StripContact removes every non-digit rune, leaving the bare number.
func StripContact(contact string) string {
	var b strings.Builder
	for _, r := range contact {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatContact normalizes raw input into the canonical hyphenated form:
// 010-1234-5678 for 11 digits, 010-123-4567 for 10. Short input is
// returned partially formatted, mirroring incremental form entry.
func FormatContact(raw string) string {
	digits := StripContact(raw)
	if len(digits) > 11 {
		digits = digits[:11]
	}
	switch {
	case len(digits) <= 3:
		return digits
	case len(digits) <= 7:
		return digits[:3] + "-" + digits[3:]
	case len(digits) == 10:
		return digits[:3] + "-" + digits[3:6] + "-" + digits[6:]
	default:
		return digits[:3] + "-" + digits[3:7] + "-" + digits[7:]
	}
}

// ValidateContact checks that the number is a plausible mobile number:
// 010 or 011 prefix and at least 10 digits.
func ValidateContact(contact string) error {
	digits := StripContact(contact)
	if len(digits) < 10 {
		return ErrInvalidContact
	}
	if !strings.HasPrefix(digits, "010") && !strings.HasPrefix(digits, "011") {
		return ErrInvalidContact
	}
	return nil
}
