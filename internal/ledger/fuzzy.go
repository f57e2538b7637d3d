package ledger

import "strings"

// KnownListing is the slice of a stored record the fuzzy pass needs.
type KnownListing struct {
	Address string
	City    string
}

// FuzzyMatch reports whether a listing matches one already stored. The
// exact-key checkpoint under-deduplicates when the source reformats an
// address between runs, so this second pass accepts a match when one
// address contains the other (case-insensitively) and the city agrees
// exactly. It is an additional skip condition only, never a reason to
// treat an exact-key hit as unprocessed.
func FuzzyMatch(address, city string, known []KnownListing) bool {
	addr := normalizeComponent(address)
	cty := normalizeComponent(city)
	if addr == "" {
		return false
	}
	for _, k := range known {
		kAddr := normalizeComponent(k.Address)
		if kAddr == "" || normalizeComponent(k.City) != cty {
			continue
		}
		if strings.Contains(kAddr, addr) || strings.Contains(addr, kAddr) {
			return true
		}
	}
	return false
}
