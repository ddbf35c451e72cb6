package catalogview

import (
	"fmt"
	"net/url"
	"strings"
)

// defaultCountryCode is prepended when a normalized phone number looks like
// a national number without its country prefix.
const defaultCountryCode = "1"

// DeepLink builds a wa.me link that opens a chat with the phone number and
// a pre-filled message. The number is normalized to digits only; a 10-digit
// number gets the default country code prepended.
func DeepLink(phone, text string) string {
	digits := normalizePhone(phone)
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, url.QueryEscape(text))
}

func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 10 {
		digits = defaultCountryCode + digits
	}
	return digits
}
