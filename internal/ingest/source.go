// Package ingest adapts the scraper's on-disk output — a listing JSON
// plus a directory of downloaded notice PDFs — into the document stream
// the pipeline consumes.
package ingest

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leadharvest/foreclosure-tracker/constants"
)

// ListingMetadata is one row of the scraper's listing output. The
// list-page attributes (address, sale_date, file_date, property_type)
// were captured before the notice was opened and drive fingerprinting.
type ListingMetadata struct {
	FullAddress      string `json:"full_address"`
	County           string `json:"county"`
	ListName         string `json:"list_name"`
	StreetAddress    string `json:"street_address"`
	City             string `json:"city"`
	State            string `json:"state"`
	Zip              string `json:"zip"`
	Owner1First      string `json:"owner_1_first"`
	Owner1Last       string `json:"owner_1_last"`
	Owner2First      string `json:"owner_2_first"`
	Owner2Last       string `json:"owner_2_last"`
	SaleDate         string `json:"sale_date"`
	SaleTime         string `json:"sale_time"`
	RecordedDate     string `json:"recorded_date"`
	RecordedTime     string `json:"recorded_time"`
	DocumentID       string `json:"document_id"`
	DocumentType     string `json:"document_type"`
	LegalDescription string `json:"legal_description"`
	URLToLead        string `json:"url_to_lead"`
	PDFURL           string `json:"pdf_url"`
	DeedOfTrust      string `json:"deed_of_trust"`
	Address          string `json:"address"`
	FileDate         string `json:"file_date"`
	PropertyType     string `json:"property_type"`
	DetailID         string `json:"detail_id"`
}

// RawDocument is one downloaded notice paired with its listing row, if
// the scraper recorded one. Immutable once produced.
type RawDocument struct {
	ID   string // detail id; derived from the file name
	Path string
	Meta *ListingMetadata
}

// FSSource discovers documents on the local filesystem. PDFs are named
// <detail_id>.pdf by the scraper.
type FSSource struct {
	pdfDir      string
	listingFile string
	logger      *slog.Logger
}

func NewFSSource(pdfDir, listingFile string, logger *slog.Logger) *FSSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSSource{pdfDir: pdfDir, listingFile: listingFile, logger: logger}
}

// Documents walks the PDF directory in name order and pairs each file
// with its listing row. A missing listing file is not fatal: documents
// still flow, just without list-page metadata.
func (s *FSSource) Documents() ([]RawDocument, error) {
	meta, err := s.loadListings()
	if err != nil {
		s.logger.Warn("ingest.listings.unavailable", "file", s.listingFile, "error", err)
		meta = nil
	}

	var docs []RawDocument
	walkErr := filepath.WalkDir(s.pdfDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := constants.NormalizeExt(filepath.Ext(path))
		if !constants.AllowedExt(ext) {
			return nil
		}
		id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		docs = append(docs, RawDocument{ID: id, Path: path, Meta: meta[id]})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %w", s.pdfDir, walkErr)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	s.logger.Info("ingest.documents.discovered", "dir", s.pdfDir, "count", len(docs))
	return docs, nil
}

// Listings returns every listing row, including ones with no PDF yet.
func (s *FSSource) Listings() ([]ListingMetadata, error) {
	raw, err := os.ReadFile(s.listingFile)
	if err != nil {
		return nil, fmt.Errorf("read listings: %w", err)
	}
	var rows []ListingMetadata
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode listings %s: %w", s.listingFile, err)
	}
	return rows, nil
}

func (s *FSSource) loadListings() (map[string]*ListingMetadata, error) {
	rows, err := s.Listings()
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*ListingMetadata, len(rows))
	for i := range rows {
		if id := rows[i].DetailID; id != "" {
			byID[id] = &rows[i]
		}
	}
	return byID, nil
}
