package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/leadharvest/foreclosure-tracker/internal/ingest"
	"github.com/leadharvest/foreclosure-tracker/internal/record"
)

func TestCombinePrefersParsedNoticeFields(t *testing.T) {
	meta := &ingest.ListingMetadata{
		DetailID:     "4417",
		Address:      "100 ELM ST",
		City:         "Plano",
		SaleDate:     "2025-06-03",
		SaleTime:     "10:00 AM",
		RecordedDate: "2025-04-01",
		DeedOfTrust:  "",
	}
	rec := &record.StructuredRecord{
		SourceDocumentID:         "4417",
		PropertyAddress:          record.Ptr("100 Elm St, Plano, TX 75074"),
		SaleTime:                 record.Ptr("1:00 PM"),
		DeedOfTrustRecordingDate: record.Ptr("2025-04-02"),
		DeedOfTrustNumber:        record.Ptr("DOT-9912"),
		BorrowerNames:            []string{"John Smith", "Jane Smith"},
	}
	rec.Normalize()

	row := Combine(meta, rec)
	assert.Equal(t, "4417", row.DetailID)
	assert.Equal(t, "100 Elm St, Plano, TX 75074", row.FullAddress, "parsed address wins over listing address")
	assert.Equal(t, "1:00 PM", row.SaleTime, "parsed sale time wins")
	assert.Equal(t, "2025-04-02", row.RecordedDate)
	assert.Equal(t, "DOT-9912", row.DeedOfTrustNumber)
	assert.Equal(t, "John", row.Owner1FirstName)
	assert.Equal(t, "Smith", row.Owner2LastName)
	assert.Equal(t, "Collin", row.County)
	assert.Equal(t, "Foreclosure Notice", row.DocumentType)
}

func TestCombineListingOnly(t *testing.T) {
	meta := &ingest.ListingMetadata{DetailID: "9", Address: "9 Oak Cir", City: "Allen", State: "TX"}
	row := Combine(meta, nil)
	assert.Equal(t, "9 Oak Cir", row.FullAddress)
	assert.Equal(t, "Allen", row.City)
}

func TestCombineRecordOnly(t *testing.T) {
	rec := &record.StructuredRecord{
		SourceDocumentID: "55",
		PropertyAddress:  record.Ptr("1 Pine Dr, Frisco, TX 75034"),
	}
	rec.Normalize()
	row := Combine(nil, rec)
	assert.Equal(t, "55", row.DetailID)
	assert.Equal(t, "Frisco", row.City)
	assert.Equal(t, "TX", row.State)
}

func TestValuesAlignWithHeaders(t *testing.T) {
	assert.Len(t, CombinedRow{}.Values(), len(Headers()))
}

func TestWriteXLSX(t *testing.T) {
	rows := []CombinedRow{
		Combine(&ingest.ListingMetadata{DetailID: "1", Address: "100 Elm St", City: "Plano"}, nil),
		Combine(&ingest.ListingMetadata{DetailID: "2", Address: "9 Oak Cir", City: "Allen"}, nil),
	}
	b, err := WriteXLSX(rows, nil)
	require.NoError(t, err)
	require.NotEmpty(t, b)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows("Leads")
	require.NoError(t, err)
	require.Len(t, got, 3, "header plus two data rows")
	assert.Equal(t, "Full Address", got[0][0])
	assert.Equal(t, "100 Elm St", got[1][0])
}
