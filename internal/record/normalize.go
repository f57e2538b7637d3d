package record

import (
	"regexp"
	"strings"
)

var (
	reTitles      = regexp.MustCompile(`(?i)\b(Mr|Mrs|Ms|Dr|Jr|Sr|III|II)\b\.?`)
	reConjunction = regexp.MustCompile(`(?i)\s+(?:&|and)\s+`)
	reCityStZip   = regexp.MustCompile(`^([^,]+),\s*([A-Z]{2})\s+(\d{5}(?:-\d{4})?)$`)
	reInlineCity  = regexp.MustCompile(`,\s*([A-Za-z .]+),\s*([A-Z]{2})\s*(\d{5}(?:-\d{4})?)`)
)

func trimSpace(s string) string { return strings.TrimSpace(s) }

// CollapseWhitespace folds line breaks, tabs and runs of spaces into
// single spaces. Listing addresses arrive with arbitrary wrapping and
// this is the shared normalization for display and fingerprinting.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Normalize fills the derived address and owner components from whichever
// tier produced the raw fields. It is applied uniformly: the generative
// path and the deterministic fallback both feed through here.
func (r *StructuredRecord) Normalize() {
	if r.PropertyAddress != nil {
		parts := ParseAddress(*r.PropertyAddress)
		if parts.Street != "" {
			r.StreetAddress = Ptr(parts.Street)
		}
		if parts.City != "" {
			r.City = Ptr(parts.City)
		}
		if parts.State != "" {
			r.State = Ptr(parts.State)
		}
		if parts.Zip != "" {
			r.Zip = Ptr(parts.Zip)
		}
	}

	if len(r.BorrowerNames) > 0 {
		first, last := SplitName(r.BorrowerNames[0])
		r.Owner1FirstName = Ptr(first)
		r.Owner1LastName = Ptr(last)
		if len(r.BorrowerNames) > 1 {
			first2, last2 := SplitName(r.BorrowerNames[1])
			r.Owner2FirstName = Ptr(first2)
			r.Owner2LastName = Ptr(last2)
		}
		r.OwnerName = Ptr(strings.Join(r.BorrowerNames, " & "))
	}
}

// AddressParts is a property address broken into components.
type AddressParts struct {
	Street string
	City   string
	State  string
	Zip    string
}

// ParseAddress splits an address into street/city/state/zip. Multi-line
// addresses use the second line's "City, ST ZIP" shape; single-line
// addresses fall back to an inline match so OCR-flattened text still parses.
func ParseAddress(address string) AddressParts {
	var parts AddressParts
	address = strings.TrimSpace(address)
	if address == "" {
		return parts
	}

	lines := strings.Split(address, "\n")
	parts.Street = strings.TrimSpace(lines[0])

	if len(lines) >= 2 {
		if m := reCityStZip.FindStringSubmatch(strings.TrimSpace(lines[1])); m != nil {
			parts.City = strings.TrimSpace(m[1])
			parts.State = m[2]
			parts.Zip = m[3]
			return parts
		}
	}

	if m := reInlineCity.FindStringSubmatch(address); m != nil {
		parts.City = strings.TrimSpace(m[1])
		parts.State = m[2]
		parts.Zip = m[3]
		if idx := strings.Index(address, ","); idx > 0 {
			parts.Street = strings.TrimSpace(address[:idx])
		}
	}
	return parts
}

// SplitName breaks a full personal name into first and last, dropping
// common titles and suffixes first.
func SplitName(full string) (first, last string) {
	name := strings.TrimSpace(reTitles.ReplaceAllString(full, ""))
	parts := strings.Fields(name)
	switch {
	case len(parts) == 0:
		return "", ""
	case len(parts) == 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

// SplitOwners breaks a combined owner string ("John Smith and Jane Smith",
// "J & K Doe") into individual names on the first and/&-conjunction.
func SplitOwners(full string) []string {
	full = strings.TrimSpace(full)
	if full == "" {
		return nil
	}
	halves := reConjunction.Split(full, 2)
	out := make([]string, 0, len(halves))
	for _, h := range halves {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}
	return out
}
