package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadharvest/foreclosure-tracker/internal/record"
)

func testRecord(docID, address string) *record.StructuredRecord {
	rec := &record.StructuredRecord{
		SourceDocumentID: docID,
		PropertyAddress:  record.Ptr(address),
	}
	rec.Normalize()
	return rec
}

func TestStoreUpsertIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.Upsert(testRecord("d1", "100 Elm St, Plano, TX 75074")))
	require.NoError(t, s.Upsert(testRecord("d2", "9 Oak Cir, Allen, TX 75002")))
	require.NoError(t, s.Upsert(testRecord("d1", "100 Elm St, Plano, TX 75074")))

	assert.Equal(t, 2, s.Len(), "re-upserting the same id must not duplicate")

	// Reload from disk and confirm the snapshot round-trips.
	s2, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 2, s2.Len())
	rec, ok := s2.Get("d1")
	require.True(t, ok)
	assert.Equal(t, "100 Elm St, Plano, TX 75074", record.Deref(rec.PropertyAddress))
}

func TestStoreAllIsOrdered(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "records.json"))
	require.NoError(t, err)
	require.NoError(t, s.Upsert(testRecord("b", "2 B St, Plano, TX 75074")))
	require.NoError(t, s.Upsert(testRecord("a", "1 A St, Plano, TX 75074")))

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].SourceDocumentID)
	assert.Equal(t, "b", all[1].SourceDocumentID)
}

func TestStoreRejectsMissingID(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "records.json"))
	require.NoError(t, err)
	assert.Error(t, s.Upsert(&record.StructuredRecord{}))
}

func TestStoreOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := Open(path)
	assert.Error(t, err)
}

func TestStoreKnownListings(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "records.json"))
	require.NoError(t, err)
	require.NoError(t, s.Upsert(testRecord("d1", "100 Elm St\nPlano, TX 75074")))

	known := s.KnownListings()
	require.Len(t, known, 1)
	assert.Equal(t, "Plano", known[0].City)
}
