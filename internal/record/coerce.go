package record

import (
	"fmt"
	"strings"
	"time"

	"github.com/leadharvest/foreclosure-tracker/constants"
)

// Sanitize rewrites a freshly decoded response object into the exact
// shape the record schema expects: unknown keys are dropped, scalar
// values are stringified, literal "null"/"none" strings become null, and
// borrower_names tolerates a model that returned a single joined string.
// Returns the cleaned object plus the list of dropped keys.
func Sanitize(obj map[string]any) (map[string]any, []string) {
	known := map[string]bool{
		"borrower_names": true,
		"attorney_info":  true,
		"ai_confidence":  true,
	}
	for _, name := range StringFieldNames() {
		known[name] = true
	}

	cleaned := make(map[string]any, len(obj))
	var dropped []string
	for k, v := range obj {
		key := strings.ToLower(strings.TrimSpace(k))
		if !known[key] {
			dropped = append(dropped, k)
			continue
		}
		switch key {
		case "borrower_names":
			cleaned[key] = sanitizeNames(v)
		case "attorney_info":
			cleaned[key] = sanitizeStringMap(v)
		default:
			cleaned[key] = sanitizeScalar(v)
		}
	}
	return cleaned, dropped
}

func sanitizeScalar(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "none") || strings.EqualFold(s, "n/a") {
			return nil
		}
		return s
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%.2f", t)
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		return nil
	}
}

func sanitizeNames(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		return toAnySlice(SplitOwners(s))
	case []any:
		var out []any
		for _, item := range t {
			if s, ok := sanitizeScalar(item).(string); ok {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	default:
		return nil
	}
}

func sanitizeStringMap(v any) any {
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, item := range m {
		if s, ok := sanitizeScalar(item).(string); ok {
			out[strings.ToLower(strings.TrimSpace(k))] = s
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func toAnySlice(ss []string) []any {
	out := make([]any, 0, len(ss))
	for _, s := range ss {
		out = append(out, s)
	}
	return out
}

// FromObject converts a sanitized, schema-valid object into a
// StructuredRecord. Provenance fields are left for the caller to stamp.
func FromObject(obj map[string]any) *StructuredRecord {
	r := &StructuredRecord{ExtractedAt: time.Now().UTC()}

	get := func(key string) *string {
		if v, ok := obj[key]; ok {
			if s, ok := v.(string); ok {
				return Ptr(s)
			}
		}
		return nil
	}

	r.CaseNumber = get("case_number")
	r.FilingDate = get("filing_date")
	r.CaseType = get("case_type")
	r.Court = get("court")
	r.Plaintiff = get("plaintiff")
	r.Defendant = get("defendant")
	r.Trustee = get("trustee")
	r.LenderName = get("lender_name")
	r.PropertyAddress = get("property_address")
	r.LegalDescription = get("legal_description")
	r.ParcelNumber = get("parcel_number")
	r.LotBlockSubdivision = get("lot_block_subdivision")
	r.OriginalLoanAmount = get("original_loan_amount")
	r.UnpaidBalance = get("unpaid_balance")
	r.TotalDebt = get("total_debt")
	r.DeedOfTrustDate = get("deed_of_trust_date")
	r.DeedOfTrustRecordingDate = get("deed_of_trust_recording_date")
	r.DeedOfTrustVolumePage = get("deed_of_trust_volume_page")
	r.DeedOfTrustInstrumentNumber = get("deed_of_trust_instrument_number")
	r.DeedOfTrustNumber = get("deed_of_trust_number")
	r.SaleDate = get("sale_date")
	r.SaleTime = get("sale_time")
	r.SaleLocation = get("sale_location")

	if v, ok := obj["borrower_names"].([]any); ok {
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				r.BorrowerNames = append(r.BorrowerNames, strings.TrimSpace(s))
			}
		}
	}
	if v, ok := obj["attorney_info"].(map[string]any); ok {
		r.AttorneyInfo = make(map[string]string, len(v))
		for k, item := range v {
			if s, ok := item.(string); ok {
				r.AttorneyInfo[k] = s
			}
		}
	}
	if v, ok := obj["ai_confidence"].(string); ok {
		conf, _ := constants.Canonicalize(v)
		r.ExtractionConfidence = conf
	} else {
		r.ExtractionConfidence = constants.ConfidenceLow
	}

	r.Normalize()
	return r
}

// FieldCount reports how many substantive fields the record carries,
// used to judge whether a salvage attempt recovered enough to keep.
func (r *StructuredRecord) FieldCount() int {
	n := 0
	for _, p := range []*string{
		r.CaseNumber, r.FilingDate, r.CaseType, r.Court, r.Plaintiff,
		r.Defendant, r.Trustee, r.LenderName, r.PropertyAddress,
		r.LegalDescription, r.ParcelNumber, r.LotBlockSubdivision,
		r.OriginalLoanAmount, r.UnpaidBalance, r.TotalDebt,
		r.DeedOfTrustDate, r.DeedOfTrustRecordingDate,
		r.DeedOfTrustVolumePage, r.DeedOfTrustInstrumentNumber,
		r.DeedOfTrustNumber, r.SaleDate, r.SaleTime, r.SaleLocation,
	} {
		if p != nil && *p != "" {
			n++
		}
	}
	if len(r.BorrowerNames) > 0 {
		n++
	}
	if len(r.AttorneyInfo) > 0 {
		n++
	}
	return n
}
