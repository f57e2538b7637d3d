// Package pipeline sequences the per-document flow: ledger check, text
// extraction, structured recovery, record store, export sink, ledger
// mark. Documents are processed strictly one at a time; the generative
// call inside recovery is the single rate-limited external dependency
// and parallelism would defeat its pacing.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/leadharvest/foreclosure-tracker/constants"
	"github.com/leadharvest/foreclosure-tracker/internal/export"
	"github.com/leadharvest/foreclosure-tracker/internal/extract"
	"github.com/leadharvest/foreclosure-tracker/internal/ingest"
	"github.com/leadharvest/foreclosure-tracker/internal/ledger"
	"github.com/leadharvest/foreclosure-tracker/internal/record"
	"github.com/leadharvest/foreclosure-tracker/internal/store"
)

// Recoverer is what the pipeline needs from the recovery engine.
type Recoverer interface {
	Recover(ctx context.Context, docID, documentText string) (*record.StructuredRecord, error)
}

type Pipeline struct {
	extractor extract.TextExtractor
	engine    Recoverer
	ledger    *ledger.Ledger
	store     *store.RecordStore
	sink      export.Sink
	logger    *slog.Logger
}

func New(extractor extract.TextExtractor, engine Recoverer, led *ledger.Ledger, st *store.RecordStore, sink export.Sink, logger *slog.Logger) *Pipeline {
	if sink == nil {
		sink = export.NopSink{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{extractor: extractor, engine: engine, ledger: led, store: st, sink: sink, logger: logger}
}

// Run processes the documents in order. Every document-level failure is
// classified, logged, and stepped over; the only errors that end a run
// are context cancellation between documents.
func (p *Pipeline) Run(ctx context.Context, docs []ingest.RawDocument) (*Stats, error) {
	stats := &Stats{Total: len(docs), Started: time.Now()}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			stats.Finished = time.Now()
			p.logger.Warn("pipeline.run.interrupted", "remaining", stats.Total-stats.Processed-stats.SkippedCheckpoint-stats.SkippedExisting)
			return stats, err
		}
		p.process(ctx, doc, stats)
	}

	stats.Finished = time.Now()
	stats.LogSummary(p.logger)
	return stats, nil
}

func (p *Pipeline) process(ctx context.Context, doc ingest.RawDocument, stats *Stats) {
	log := p.logger.With("document_id", doc.ID)

	if reason, skip := p.shouldSkip(ctx, doc); skip {
		log.Info("pipeline.document.skipped", "reason", reason)
		switch reason {
		case constants.SkipCheckpoint:
			stats.SkippedCheckpoint++
		default:
			stats.SkippedExisting++
		}
		return
	}

	res, err := p.extractor.Extract(ctx, doc.Path)
	if err != nil {
		log.Error("pipeline.extract.failed", "error", err)
		stats.ExtractionFailures++
		return
	}
	log.Info("pipeline.extract.ok", "method", res.Method, "pages", res.Pages, "chars", len(res.Text))

	rec, err := p.engine.Recover(ctx, doc.ID, res.Text)
	if err != nil {
		log.Error("pipeline.recover.failed", "error", err)
		stats.RecoveryFailures++
		return
	}
	log.Info("pipeline.recover.ok", "method", rec.ExtractionMethod, "confidence", rec.ExtractionConfidence, "fields", rec.FieldCount())

	if err := p.store.Upsert(rec); err != nil {
		// The record never reached durable storage; leaving the ledger
		// unmarked makes the next run retry this document.
		log.Error("pipeline.store.failed", "error", err)
		stats.StoreFailures++
		return
	}

	if err := p.sink.UpsertRow(ctx, export.Combine(doc.Meta, rec)); err != nil {
		// Sink failures do not block the ledger: dedup correctness does
		// not depend on the export succeeding.
		log.Error("pipeline.sink.failed", "error", err)
		stats.SinkFailures++
	}

	p.markProcessed(ctx, doc, rec, log)
	stats.Processed++
}

func (p *Pipeline) shouldSkip(ctx context.Context, doc ingest.RawDocument) (constants.SkipReason, bool) {
	if p.ledger.IsProcessed(ctx, documentKey(doc.ID)) {
		return constants.SkipCheckpoint, true
	}
	if doc.Meta != nil {
		fp := listingFingerprint(doc.Meta)
		if p.ledger.IsProcessed(ctx, string(fp)) {
			return constants.SkipCheckpoint, true
		}
		if ledger.FuzzyMatch(doc.Meta.Address, doc.Meta.City, p.store.KnownListings()) {
			return constants.SkipExistingData, true
		}
	}
	return "", false
}

func (p *Pipeline) markProcessed(ctx context.Context, doc ingest.RawDocument, rec *record.StructuredRecord, log *slog.Logger) {
	meta := map[string]string{
		"extraction_method": string(rec.ExtractionMethod),
		"confidence":        string(rec.ExtractionConfidence),
	}
	if err := p.ledger.MarkProcessed(ctx, documentKey(doc.ID), ledger.KindDocument, meta); err != nil {
		log.Error("pipeline.ledger.mark_failed", "error", err)
	}
	if doc.Meta != nil {
		if err := p.ledger.MarkProcessed(ctx, string(listingFingerprint(doc.Meta)), ledger.KindListing, nil); err != nil {
			log.Error("pipeline.ledger.mark_failed", "error", err)
		}
	}
}

func documentKey(id string) string { return "doc|" + id }

func listingFingerprint(m *ingest.ListingMetadata) ledger.Fingerprint {
	return ledger.NewFingerprint(m.Address, m.City, m.SaleDate, m.FileDate, m.PropertyType)
}
