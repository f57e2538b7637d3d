package export

import (
	"github.com/leadharvest/foreclosure-tracker/internal/ingest"
	"github.com/leadharvest/foreclosure-tracker/internal/record"
)

// CombinedRow is the flattened lead row the sinks emit: the scraper's
// list/detail fields merged with the parsed notice, parsed values
// winning wherever both sides have something.
type CombinedRow struct {
	DetailID          string
	FullAddress       string
	County            string
	ListName          string
	StreetAddress     string
	City              string
	State             string
	Zip               string
	Owner1FirstName   string
	Owner1LastName    string
	Owner2FirstName   string
	Owner2LastName    string
	SaleDate          string
	SaleTime          string
	RecordedDate      string
	RecordedTime      string
	DocumentID        string
	DocumentType      string
	LegalDescription  string
	URLToLead         string
	PDFURL            string
	DeedOfTrustNumber string
}

// Headers lists the row's column titles in emit order.
func Headers() []string {
	return []string{
		"Full Address", "County", "List Name", "Street Address", "City",
		"State", "Zip", "Owner 1 First Name", "Owner 1 Last Name",
		"Owner 2 First Name", "Owner 2 Last Name", "Sale Date", "Sale Time",
		"Recorded Date", "Recorded Time", "Document ID", "Document Type",
		"Legal Description", "URL to Lead", "PDF URL", "Deed of Trust Number",
	}
}

// Values flattens the row in the same order as Headers.
func (r CombinedRow) Values() []any {
	return []any{
		r.FullAddress, r.County, r.ListName, r.StreetAddress, r.City,
		r.State, r.Zip, r.Owner1FirstName, r.Owner1LastName,
		r.Owner2FirstName, r.Owner2LastName, r.SaleDate, r.SaleTime,
		r.RecordedDate, r.RecordedTime, r.DocumentID, r.DocumentType,
		r.LegalDescription, r.URLToLead, r.PDFURL, r.DeedOfTrustNumber,
	}
}

func or(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Combine merges a listing row with its parsed record. Either side may
// be nil: a listing with no parsed notice still makes a usable lead,
// and a parsed notice with no listing still carries the notice fields.
func Combine(meta *ingest.ListingMetadata, rec *record.StructuredRecord) CombinedRow {
	if meta == nil {
		meta = &ingest.ListingMetadata{}
	}
	var row CombinedRow
	row.County = or(meta.County, "Collin")
	row.ListName = meta.ListName
	row.DetailID = meta.DetailID
	row.RecordedTime = meta.RecordedTime
	row.DocumentID = meta.DocumentID
	row.DocumentType = or(meta.DocumentType, "Foreclosure Notice")
	row.URLToLead = meta.URLToLead
	row.PDFURL = meta.PDFURL

	if rec == nil {
		rec = &record.StructuredRecord{}
	}
	if row.DetailID == "" {
		row.DetailID = rec.SourceDocumentID
	}
	row.FullAddress = or(record.Deref(rec.PropertyAddress), meta.FullAddress, meta.Address)
	row.StreetAddress = or(meta.StreetAddress, record.Deref(rec.StreetAddress))
	row.City = or(meta.City, record.Deref(rec.City))
	row.State = or(meta.State, record.Deref(rec.State), "TX")
	row.Zip = or(meta.Zip, record.Deref(rec.Zip))
	row.Owner1FirstName = or(record.Deref(rec.Owner1FirstName), meta.Owner1First)
	row.Owner1LastName = or(record.Deref(rec.Owner1LastName), meta.Owner1Last)
	row.Owner2FirstName = or(record.Deref(rec.Owner2FirstName), meta.Owner2First)
	row.Owner2LastName = or(record.Deref(rec.Owner2LastName), meta.Owner2Last)
	row.SaleDate = or(meta.SaleDate, record.Deref(rec.SaleDate))
	row.SaleTime = or(record.Deref(rec.SaleTime), meta.SaleTime)
	row.RecordedDate = or(record.Deref(rec.DeedOfTrustRecordingDate), meta.RecordedDate)
	row.LegalDescription = or(record.Deref(rec.LegalDescription), meta.LegalDescription)
	row.DeedOfTrustNumber = or(record.Deref(rec.DeedOfTrustNumber), meta.DeedOfTrust)
	return row
}
