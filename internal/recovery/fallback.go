package recovery

import (
	"regexp"
	"strconv"
	"strings"
)

// Deterministic extraction: a fixed battery of patterns run straight
// over the document text. It recovers only the highest-value fields,
// but it needs no network and cannot fail — any document with readable
// text yields at least a skeleton record.

// materialityFloor filters out filing fees and page counts masquerading
// as debt amounts.
const materialityFloor = 1000

var (
	fallbackAddressRes = []*regexp.Regexp{
		regexp.MustCompile(`(?im)PROPERTY ADDRESS[:\s]+([^\n]+(?:\n[^\n]+)*?)(?:\n\n|\n[A-Z]{3,}|$)`),
		regexp.MustCompile(`(?im)PROPERTY[:\s]+([^\n]+(?:\n[^\n\r]+)*?)(?:\n\n|\nLEGAL|$)`),
		regexp.MustCompile(`(?im)(\d+[^\n]*(?:STREET|ST|DRIVE|DR|LANE|LN|AVENUE|AVE|ROAD|RD|BOULEVARD|BLVD|CIRCLE|CIR|COURT|CT|PLACE|PL|TRAIL|TRL)[^\n]*(?:\n[^\n]*(?:TX|TEXAS)[^\n]*\d{5})?)`),
	}
	fallbackNameRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)BORROWERS?[:\s]+([^\n]+)`),
		regexp.MustCompile(`(?i)GRANTORS?[:\s]+([^\n]+)`),
		regexp.MustCompile(`(?i)DEBTORS?[:\s]+([^\n]+)`),
	}
	fallbackMoneyRe = regexp.MustCompile(`\$[\d,]+\.?\d*`)
	fallbackDateRes = []*regexp.Regexp{
		regexp.MustCompile(`(\d{1,2}[/-]\d{1,2}[/-]\d{4})`),
		regexp.MustCompile(`(\d{4}[/-]\d{1,2}[/-]\d{1,2})`),
		regexp.MustCompile(`(?i)((?:JANUARY|FEBRUARY|MARCH|APRIL|MAY|JUNE|JULY|AUGUST|SEPTEMBER|OCTOBER|NOVEMBER|DECEMBER)\s+\d{1,2},?\s+\d{4})`),
	}
	reAndSplit = regexp.MustCompile(`(?i)\s+AND\s+`)
)

// FallbackExtract runs the deterministic battery over the document
// text. Returns false when none of the high-value fields (address,
// names, amount) could be found.
func FallbackExtract(documentText string) (map[string]any, bool) {
	obj := map[string]any{
		"case_type":     "FORECLOSURE",
		"ai_confidence": "LOW",
	}

	for _, re := range fallbackAddressRes {
		if m := re.FindStringSubmatch(documentText); m != nil {
			addr := strings.TrimSpace(m[1])
			if len(addr) > 10 {
				obj["property_address"] = addr
				break
			}
		}
	}

	for _, re := range fallbackNameRes {
		if m := re.FindStringSubmatch(documentText); m != nil {
			names := strings.TrimSpace(m[1])
			if len(names) > 3 {
				obj["defendant"] = names
				var list []any
				for _, n := range reAndSplit.Split(names, -1) {
					if n = strings.TrimSpace(n); n != "" {
						list = append(list, n)
					}
				}
				if len(list) > 0 {
					obj["borrower_names"] = list
				}
				break
			}
		}
	}

	if amount := largestMaterialAmount(documentText); amount != "" {
		obj["total_debt"] = amount
	}

	for _, re := range fallbackDateRes {
		if m := re.FindStringSubmatch(documentText); m != nil {
			obj["deed_of_trust_date"] = m[1]
			break
		}
	}

	if obj["property_address"] == nil && obj["defendant"] == nil && obj["total_debt"] == nil {
		return nil, false
	}
	return obj, true
}

func largestMaterialAmount(text string) string {
	best := ""
	bestVal := 0.0
	for _, m := range fallbackMoneyRe.FindAllString(text, -1) {
		raw := strings.ReplaceAll(strings.TrimPrefix(m, "$"), ",", "")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= materialityFloor {
			continue
		}
		if v > bestVal {
			bestVal = v
			best = m
		}
	}
	return best
}
