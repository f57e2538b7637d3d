package ledger

import (
	"strings"
)

// Fingerprint is the exact-match dedup key for a listing: a normalized
// tuple of the attributes that survive reformatting between scrape
// runs. Incidental whitespace, line breaks, and casing never change it.
type Fingerprint string

// NewFingerprint derives the key from the stable listing attributes.
func NewFingerprint(address, city, saleDate, fileDate, propertyType string) Fingerprint {
	parts := []string{
		normalizeComponent(address),
		normalizeComponent(city),
		normalizeComponent(saleDate),
		normalizeComponent(fileDate),
		normalizeComponent(propertyType),
	}
	return Fingerprint(strings.Join(parts, "|"))
}

// normalizeComponent uppercases and collapses every whitespace run,
// including line breaks, to a single space.
func normalizeComponent(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}
