package recovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeObjectValidJSONIsUntouched(t *testing.T) {
	// Colons inside values must survive; the key-quoting repair would
	// mangle them if it ran on already-valid input.
	obj, ok := DecodeObject(`{"sale_time": "10:00 AM", "case_number": "12-345"}`)
	require.True(t, ok)
	assert.Equal(t, "10:00 AM", obj["sale_time"])
	assert.Equal(t, "12-345", obj["case_number"])
}

func TestDecodeObjectFencedWithTrailingComma(t *testing.T) {
	obj, ok := DecodeObject("```json\n{\"case_number\": \"12345\",}\n```")
	require.True(t, ok)
	assert.Equal(t, "12345", obj["case_number"])
}

func TestDecodeObjectSurroundingCommentary(t *testing.T) {
	resp := `Sure! Here is the extracted data you asked for:

{"property_address": "100 Elm St, Plano, TX 75074", "trustee": "J. Doe"}

Let me know if you need anything else.`
	obj, ok := DecodeObject(resp)
	require.True(t, ok)
	assert.Equal(t, "100 Elm St, Plano, TX 75074", obj["property_address"])
}

func TestDecodeObjectSingleQuotes(t *testing.T) {
	obj, ok := DecodeObject(`{'case_number': '4-2024-117', 'court': null}`)
	require.True(t, ok)
	assert.Equal(t, "4-2024-117", obj["case_number"])
	assert.Nil(t, obj["court"])
}

func TestDecodeObjectUnquotedKeys(t *testing.T) {
	obj, ok := DecodeObject(`{case_number: "99", lender_name: "First Bank",}`)
	require.True(t, ok)
	assert.Equal(t, "99", obj["case_number"])
	assert.Equal(t, "First Bank", obj["lender_name"])
}

func TestDecodeObjectJSONMarker(t *testing.T) {
	resp := `The document describes a foreclosure sale. JSON: {"sale_date": "2025-03-04"}`
	obj, ok := DecodeObject(resp)
	require.True(t, ok)
	assert.Equal(t, "2025-03-04", obj["sale_date"])
}

func TestDecodeObjectNonASCIINoise(t *testing.T) {
	obj, ok := DecodeObject("{\"case_number\": \"55\",   \"trustee\": \"K. Adams\",}")
	require.True(t, ok)
	assert.Equal(t, "55", obj["case_number"])
}

func TestDecodeObjectStrayBackslash(t *testing.T) {
	obj, ok := DecodeObject(`{"case_number": "12", "legal_description": "Lot 5 \Block 2, Eldorado"}`)
	require.True(t, ok)
	assert.Equal(t, "12", obj["case_number"])
	assert.Equal(t, `Lot 5 \Block 2, Eldorado`, obj["legal_description"])
}

func TestEscapeStrayBackslashes(t *testing.T) {
	// Lone backslashes get doubled; valid JSON escapes survive.
	assert.Equal(t, `{"a": "x\\y"}`, escapeStrayBackslashes(`{"a": "x\y"}`))
	assert.Equal(t, `{"a": "x\\y"}`, escapeStrayBackslashes(`{"a": "x\\y"}`))
	assert.Equal(t, `{"a": "line\nbreak"}`, escapeStrayBackslashes(`{"a": "line\nbreak"}`))
	// Backslashes outside string literals are left alone.
	assert.Equal(t, `\ {"a": "b"}`, escapeStrayBackslashes(`\ {"a": "b"}`))
}

func TestDecodeObjectHopeless(t *testing.T) {
	_, ok := DecodeObject("the model refused to answer")
	assert.False(t, ok)
	_, ok = DecodeObject("")
	assert.False(t, ok)
}

func TestManualFieldExtraction(t *testing.T) {
	// Broken structure but recognizable pairs.
	resp := `{"case_number": "31`
	_, ok := ManualFieldExtraction(resp)
	assert.False(t, ok, "fewer than three fields must be rejected")

	resp = `garbage "case_number": "31-17" more garbage
"property_address": "415 Oak Dr, McKinney, TX 75070" ...
"sale_date": "2025-06-03" and also
"borrower_names": ["Pat Lee", "Sam Lee"]`
	obj, ok := ManualFieldExtraction(resp)
	require.True(t, ok)
	assert.Equal(t, "31-17", obj["case_number"])
	assert.Equal(t, "415 Oak Dr, McKinney, TX 75070", obj["property_address"])
	assert.Equal(t, []any{"Pat Lee", "Sam Lee"}, obj["borrower_names"])
	assert.Equal(t, "LOW", obj["ai_confidence"])
}

func TestTruncateForPrompt(t *testing.T) {
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'x'
	}
	out := TruncateForPrompt(string(long), 40)
	require.Len(t, out, 40+len(truncationMarker))
	assert.Contains(t, out, "[TRUNCATED DUE TO LENGTH]")

	assert.Equal(t, "short", TruncateForPrompt("short", 40))
}
