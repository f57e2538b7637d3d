package record

import (
	"time"

	"github.com/leadharvest/foreclosure-tracker/constants"
)

// StructuredRecord is the canonical output of the pipeline: one validated
// record per foreclosure notice. Optional scalars are pointers so that
// "absent" and "known empty" stay distinguishable at the boundary;
// downstream sinks may flatten them.
type StructuredRecord struct {
	// Case information
	CaseNumber *string `json:"case_number"`
	FilingDate *string `json:"filing_date"`
	CaseType   *string `json:"case_type"`
	Court      *string `json:"court"`

	// Parties
	Plaintiff     *string  `json:"plaintiff"`
	Defendant     *string  `json:"defendant"`
	Trustee       *string  `json:"trustee"`
	BorrowerNames []string `json:"borrower_names"`
	LenderName    *string  `json:"lender_name"`

	// Property information
	PropertyAddress     *string `json:"property_address"`
	LegalDescription    *string `json:"legal_description"`
	ParcelNumber        *string `json:"parcel_number"`
	LotBlockSubdivision *string `json:"lot_block_subdivision"`

	// Financial information
	OriginalLoanAmount *string `json:"original_loan_amount"`
	UnpaidBalance      *string `json:"unpaid_balance"`
	TotalDebt          *string `json:"total_debt"`

	// Deed of trust information
	DeedOfTrustDate             *string `json:"deed_of_trust_date"`
	DeedOfTrustRecordingDate    *string `json:"deed_of_trust_recording_date"`
	DeedOfTrustVolumePage       *string `json:"deed_of_trust_volume_page"`
	DeedOfTrustInstrumentNumber *string `json:"deed_of_trust_instrument_number"`
	DeedOfTrustNumber           *string `json:"deed_of_trust_number"`

	// Sale information
	SaleDate     *string `json:"sale_date"`
	SaleTime     *string `json:"sale_time"`
	SaleLocation *string `json:"sale_location"`

	// Attorney information
	AttorneyInfo map[string]string `json:"attorney_info"`

	// Derived address components (filled by Normalize)
	StreetAddress *string `json:"street_address,omitempty"`
	City          *string `json:"city,omitempty"`
	State         *string `json:"state,omitempty"`
	Zip           *string `json:"zip,omitempty"`

	// Derived owner components (filled by Normalize)
	Owner1FirstName *string `json:"owner_1_first_name,omitempty"`
	Owner1LastName  *string `json:"owner_1_last_name,omitempty"`
	Owner2FirstName *string `json:"owner_2_first_name,omitempty"`
	Owner2LastName  *string `json:"owner_2_last_name,omitempty"`
	OwnerName       *string `json:"owner_name,omitempty"`

	// Provenance
	SourceDocumentID     string                     `json:"source_document_id"`
	ExtractionConfidence constants.Confidence       `json:"extraction_confidence"`
	ExtractionMethod     constants.ExtractionMethod `json:"extraction_method"`
	ExtractedAt          time.Time                  `json:"extracted_at"`
}

// Ptr returns a pointer to a trimmed copy of s, or nil when s is blank.
// Field values flow through here so an empty string never stands in for
// "unknown".
func Ptr(s string) *string {
	s = trimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the value behind p or "" when absent. Export-sink use only.
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
