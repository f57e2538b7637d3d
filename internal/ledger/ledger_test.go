package ledger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintNormalization(t *testing.T) {
	a := NewFingerprint(" 123  Main  St\n", "Plano", "2025-06-03", "2025-05-01", "SFR")
	b := NewFingerprint("123 Main St", "PLANO", "2025-06-03", "2025-05-01", "sfr")
	assert.Equal(t, a, b, "whitespace and case must not change the key")

	// Idempotent: already-normalized components are a fixed point.
	c := NewFingerprint("123 MAIN ST", "PLANO", "2025-06-03", "2025-05-01", "SFR")
	assert.Equal(t, a, c)

	e := NewFingerprint("124 Main St", "Plano", "2025-06-03", "2025-05-01", "SFR")
	assert.NotEqual(t, a, e)
}

func TestLedgerMarkAndCheck(t *testing.T) {
	ctx := context.Background()
	l, err := Open(filepath.Join(t.TempDir(), "checkpoints.db"), nil)
	require.NoError(t, err)
	defer l.Close()

	key := string(NewFingerprint("100 Elm St", "Plano", "2025-06-03", "2025-05-01", "SFR"))
	assert.False(t, l.IsProcessed(ctx, key))

	require.NoError(t, l.MarkProcessed(ctx, key, KindListing, map[string]string{"pdf_downloaded": "true"}))
	assert.True(t, l.IsProcessed(ctx, key))
	assert.Equal(t, map[string]string{"pdf_downloaded": "true"}, l.Metadata(ctx, key))

	// Re-marking refreshes metadata without losing processed status.
	require.NoError(t, l.MarkProcessed(ctx, key, KindListing, map[string]string{"pdf_downloaded": "true", "sheet_row": "14"}))
	assert.True(t, l.IsProcessed(ctx, key))
	assert.Equal(t, "14", l.Metadata(ctx, key)["sheet_row"])

	assert.Equal(t, 1, l.Count(ctx, KindListing))
	assert.Equal(t, 0, l.Count(ctx, KindDocument))
}

func TestLedgerSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "checkpoints.db")

	l, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, l.MarkProcessed(ctx, "doc-42", KindDocument, nil))
	require.NoError(t, l.Close())

	l2, err := Open(path, nil)
	require.NoError(t, err)
	defer l2.Close()
	assert.True(t, l2.IsProcessed(ctx, "doc-42"))
}

func TestFuzzyMatch(t *testing.T) {
	known := []KnownListing{
		{Address: "100 ELM ST, PLANO, TX 75074", City: "Plano"},
		{Address: "9 Oak Cir", City: "Allen"},
	}

	assert.True(t, FuzzyMatch("100 Elm St", "plano", known), "substring with matching city")
	assert.True(t, FuzzyMatch("100  elm st,\nplano, tx 75074", "Plano", known))
	assert.False(t, FuzzyMatch("100 Elm St", "Allen", known), "city must match exactly")
	assert.False(t, FuzzyMatch("", "Plano", known))
	assert.False(t, FuzzyMatch("7 Pine Dr", "Plano", known))
}
