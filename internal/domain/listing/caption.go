package listing

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultName is used when a caption yields no usable listing name
const DefaultName = "Untitled Product"

// maxNameFromCaption caps the name taken from a priceless caption
const maxNameFromCaption = 50

var priceToken = regexp.MustCompile(`([$£€]?)(\d+(?:\.\d{2})?)`)

var currencyBySymbol = map[string]string{
	"$": "USD",
	"£": "GBP",
	"€": "EUR",
}

// ParsedCaption is the result of interpreting an image caption
type ParsedCaption struct {
	Name     string
	Price    *decimal.Decimal
	Currency string
}

// ParseCaption extracts a listing name and optional price from a free-form
// image caption. The first token of the form [symbol]digits[.2 digits] binds
// as the price and the preceding text becomes the name; ambiguous captions
// with multiple numbers always bind the first match. A caption without a
// price token contributes its first 50 characters as the name.
func ParseCaption(caption string) ParsedCaption {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return ParsedCaption{Name: DefaultName}
	}

	loc := priceToken.FindStringSubmatchIndex(caption)
	if loc == nil {
		name := caption
		// Truncate by characters, not bytes, so a multibyte caption is
		// never cut mid-rune.
		if runes := []rune(name); len(runes) > maxNameFromCaption {
			name = string(runes[:maxNameFromCaption])
		}
		return ParsedCaption{Name: strings.TrimSpace(name)}
	}

	symbol := caption[loc[2]:loc[3]]
	amount := caption[loc[4]:loc[5]]

	price, err := decimal.NewFromString(amount)
	if err != nil {
		return ParsedCaption{Name: DefaultName}
	}
	price = price.Round(2)

	name := strings.TrimSpace(caption[:loc[0]])
	name = strings.TrimRight(name, "-–—: \t")
	if name == "" {
		name = DefaultName
	}

	currency := "USD"
	if c, ok := currencyBySymbol[symbol]; ok {
		currency = c
	}

	return ParsedCaption{Name: name, Price: &price, Currency: currency}
}
