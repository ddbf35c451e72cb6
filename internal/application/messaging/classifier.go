package messaging

import "strings"

// Intent is the classified meaning of an inbound text message
type Intent string

const (
	IntentRegistration Intent = "registration"
	IntentHelp         Intent = "help"
	IntentCatalogLink  Intent = "catalog_link"
	IntentFallback     Intent = "fallback"
)

var registrationKeywords = map[string]bool{
	"start":    true,
	"hello":    true,
	"hi":       true,
	"register": true,
	"signup":   true,
}

var helpKeywords = map[string]bool{
	"help":  true,
	"?":     true,
	"how":   true,
	"guide": true,
}

var catalogLinkSubstrings = []string{"link", "catalog", "my shop", "my store"}

// ClassifyText maps a free-form message body to an intent. Matching runs
// against the lower-cased, trimmed body in priority order: registration,
// help, catalog link, fallback.
func ClassifyText(body string) Intent {
	normalized := strings.ToLower(strings.TrimSpace(body))

	if registrationKeywords[normalized] {
		return IntentRegistration
	}
	if helpKeywords[normalized] {
		return IntentHelp
	}
	for _, sub := range catalogLinkSubstrings {
		if strings.Contains(normalized, sub) {
			return IntentCatalogLink
		}
	}
	return IntentFallback
}
