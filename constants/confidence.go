package constants

// Confidence is the extraction confidence reported on a StructuredRecord.
type Confidence string

// Stable values (store these exact strings in the record store).
const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// Canonicalize maps a free-form confidence label from the generative
// service onto one of the stable values. Unknown labels come back as
// LOW so that downstream consumers never over-trust a record.
func Canonicalize(label string) (Confidence, bool) {
	switch Confidence(normalizeLabel(label)) {
	case ConfidenceHigh:
		return ConfidenceHigh, true
	case ConfidenceMedium:
		return ConfidenceMedium, true
	case ConfidenceLow:
		return ConfidenceLow, true
	}
	return ConfidenceLow, false
}

// ExtractionMethod records which tier produced a StructuredRecord.
type ExtractionMethod string

const (
	MethodAI            ExtractionMethod = "AI"
	MethodFallbackRegex ExtractionMethod = "FALLBACK_REGEX"
)
