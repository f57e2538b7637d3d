package recovery

import "strings"

// truncationMarker is appended when the document text exceeds the
// prompt budget so a reader of the stored record can tell the model saw
// a clipped document.
const truncationMarker = "\n[TRUNCATED DUE TO LENGTH]"

// TruncateForPrompt clips document text to the budget and appends the
// marker. Budgets <= 0 disable clipping.
func TruncateForPrompt(text string, budget int) string {
	if budget <= 0 || len(text) <= budget {
		return text
	}
	return text[:budget] + truncationMarker
}

// BuildPrompt renders the extraction prompt for one document. The
// output format block names every field the record schema accepts; the
// rules push the model toward parseable single-line string values.
func BuildPrompt(documentText string, budget int) string {
	var b strings.Builder
	b.WriteString(`You are an expert foreclosure document parser. Extract ALL relevant information from this Texas foreclosure notice/deed of trust document.

DOCUMENT TEXT:
`)
	b.WriteString(TruncateForPrompt(documentText, budget))
	b.WriteString(`

REQUIRED JSON OUTPUT FORMAT:
{
    "case_number": "Extract case number if any",
    "filing_date": "Extract filing date in YYYY-MM-DD format",
    "case_type": "FORECLOSURE or DEED_OF_TRUST",
    "court": "Extract court name if mentioned",
    "plaintiff": "Extract plaintiff/lender name (clean, no extra text)",
    "defendant": "Extract defendant/borrower name (clean)",
    "trustee": "Extract trustee name if mentioned",
    "property_address": "Extract COMPLETE property address",
    "legal_description": "Extract full legal description (lot, block, subdivision, etc.)",
    "parcel_number": "Extract parcel/property ID number",
    "lot_block_subdivision": "Extract lot, block, and subdivision details",
    "original_loan_amount": "Extract original loan amount (format: $X,XXX.XX)",
    "unpaid_balance": "Extract current unpaid balance",
    "total_debt": "Extract total debt amount",
    "deed_of_trust_date": "Extract deed of trust execution date",
    "deed_of_trust_recording_date": "Extract recording date",
    "deed_of_trust_volume_page": "Extract volume and page numbers",
    "deed_of_trust_instrument_number": "Extract instrument/document number",
    "deed_of_trust_number": "Extract deed of trust number/ID",
    "sale_date": "Extract foreclosure sale date",
    "sale_time": "Extract sale time",
    "sale_location": "Extract where sale will be held",
    "borrower_names": ["List ALL borrower/debtor names"],
    "lender_name": "Extract original lender name",
    "attorney_info": {
        "name": "Attorney name",
        "firm": "Law firm name",
        "address": "Attorney address",
        "phone": "Phone number",
        "email": "Email address",
        "bar_number": "State bar number"
    },
    "ai_confidence": "HIGH/MEDIUM/LOW based on data clarity and completeness"
}

EXTRACTION RULES:
1. Return ONLY valid JSON - no explanations, no markdown, no code blocks
2. Use null for missing fields (not empty strings)
3. For addresses, extract the COMPLETE property address, not attorney addresses
4. For legal descriptions, include ALL details (lot, block, subdivision, survey, etc.)
5. For monetary amounts, include dollar signs and proper formatting
6. For dates, convert to YYYY-MM-DD format when possible
7. Extract ALL borrower names mentioned
8. Clean names by removing titles, addresses, and extra text
9. Look for recording information (volume, page, instrument numbers)
10. Look for deed of trust number (may appear as "Deed of Trust #", "DOT #", "Trust Deed No.", or similar)
11. Extract sale details (date, time, location)
12. CRITICAL: Distinguish between PROPERTY ADDRESS and ATTORNEY/OFFICE addresses
13. Look for Collin County specific details
14. IMPORTANT: Ensure all string values are properly escaped (no unescaped quotes or backslashes)
15. IMPORTANT: Do not include newlines or tabs inside string values

RESPOND WITH CLEAN JSON ONLY - START WITH { AND END WITH }`)
	return b.String()
}
