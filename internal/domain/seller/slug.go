package seller

import (
	"crypto/rand"

	"github.com/hustle/backend/internal/domain/shared"
)

// SlugLength is the length of generated catalog slugs
const SlugLength = 8

const slugAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// slugRejectBound is the largest multiple of the alphabet size below 256.
// Bytes at or above it are rejected so every character is drawn uniformly.
const slugRejectBound = 256 - 256%len(slugAlphabet)

// GenerateSlug returns a random catalog slug drawn from a uniform
// lowercase-alphanumeric alphabet using a cryptographically strong source.
func GenerateSlug() (string, error) {
	out := make([]byte, 0, SlugLength)
	buf := make([]byte, SlugLength*2)
	for len(out) < SlugLength {
		if _, err := rand.Read(buf); err != nil {
			return "", shared.NewDomainError("SLUG_GENERATION_FAILED", "Could not read random bytes for slug")
		}
		for _, v := range buf {
			if int(v) >= slugRejectBound {
				continue
			}
			out = append(out, slugAlphabet[int(v)%len(slugAlphabet)])
			if len(out) == SlugLength {
				break
			}
		}
	}
	return string(out), nil
}

// ValidateSlug validates a catalog slug
func ValidateSlug(slug string) error {
	if len(slug) != SlugLength {
		return shared.NewDomainError("INVALID_SLUG", "Catalog slug must be exactly 8 characters")
	}
	for _, r := range slug {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			return shared.NewDomainError("INVALID_SLUG", "Catalog slug can only contain lowercase letters and digits")
		}
	}
	return nil
}
