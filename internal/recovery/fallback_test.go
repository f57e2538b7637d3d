package recovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackExtractNoticeText(t *testing.T) {
	text := `NOTICE OF SUBSTITUTE TRUSTEE'S SALE
BORROWER: John Smith AND Jane Smith
Deed of Trust dated 01/05/2019 securing payment of $285,000.00
Recording fee of $42.00 paid.
Property Address: 100 Elm St, Plano, TX 75074
LEGAL DESCRIPTION: LOT 4, BLOCK B, WILLOW BEND`

	obj, ok := FallbackExtract(text)
	require.True(t, ok)
	assert.Equal(t, "100 Elm St, Plano, TX 75074", obj["property_address"])
	assert.Equal(t, []any{"John Smith", "Jane Smith"}, obj["borrower_names"])
	assert.Equal(t, "John Smith AND Jane Smith", obj["defendant"])
	// $42.00 is below the materiality floor and must lose to the debt.
	assert.Equal(t, "$285,000.00", obj["total_debt"])
	assert.Equal(t, "01/05/2019", obj["deed_of_trust_date"])
	assert.Equal(t, "LOW", obj["ai_confidence"])
	assert.Equal(t, "FORECLOSURE", obj["case_type"])
}

func TestFallbackExtractStreetSuffixAddress(t *testing.T) {
	text := "sale of the property at 2205 Cedar Ridge DRIVE\nsome other line"
	obj, ok := FallbackExtract(text)
	require.True(t, ok)
	assert.Contains(t, obj["property_address"], "2205 Cedar Ridge DRIVE")
}

func TestFallbackExtractNothingUsable(t *testing.T) {
	_, ok := FallbackExtract("lorem ipsum dolor sit amet")
	assert.False(t, ok)
}

func TestLargestMaterialAmount(t *testing.T) {
	assert.Equal(t, "$12,500.00", largestMaterialAmount("fees $900.00 then $12,500.00 and $3,000"))
	assert.Equal(t, "", largestMaterialAmount("only $999.99 here"))
}
