// Package store persists recovered records as a JSON snapshot keyed by
// source document id. The whole file is rewritten through a temp file
// and rename, so readers never observe a torn snapshot and a rerun that
// upserts the same ids produces an identical file.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/leadharvest/foreclosure-tracker/internal/ledger"
	"github.com/leadharvest/foreclosure-tracker/internal/record"
)

type RecordStore struct {
	mu      sync.Mutex
	path    string
	records map[string]*record.StructuredRecord
}

// Open loads the snapshot at path, or starts empty when it is absent.
func Open(path string) (*RecordStore, error) {
	s := &RecordStore{path: path, records: make(map[string]*record.StructuredRecord)}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read record store: %w", err)
	}
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.records); err != nil {
		return nil, fmt.Errorf("decode record store %s: %w", path, err)
	}
	return s, nil
}

// Upsert inserts or replaces the record for its source document id.
func (s *RecordStore) Upsert(rec *record.StructuredRecord) error {
	if rec.SourceDocumentID == "" {
		return fmt.Errorf("record has no source document id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.SourceDocumentID] = rec
	return s.save()
}

// Get returns the stored record for a document id, if any.
func (s *RecordStore) Get(docID string) (*record.StructuredRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[docID]
	return rec, ok
}

// Len reports the number of stored records.
func (s *RecordStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// All returns the stored records ordered by document id.
func (s *RecordStore) All() []*record.StructuredRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*record.StructuredRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.records[id])
	}
	return out
}

// KnownListings projects the stored records into the shape the fuzzy
// dedup pass consumes.
func (s *RecordStore) KnownListings() []ledger.KnownListing {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ledger.KnownListing, 0, len(s.records))
	for _, rec := range s.records {
		addr := record.Deref(rec.PropertyAddress)
		if addr == "" {
			addr = record.Deref(rec.StreetAddress)
		}
		if addr == "" {
			continue
		}
		out = append(out, ledger.KnownListing{Address: addr, City: record.Deref(rec.City)})
	}
	return out
}

// save writes the snapshot atomically. Callers hold s.mu.
func (s *RecordStore) save() error {
	b, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode record store: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".records-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
