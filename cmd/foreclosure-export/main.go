package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/leadharvest/foreclosure-tracker/internal/common"
	"github.com/leadharvest/foreclosure-tracker/internal/export"
	"github.com/leadharvest/foreclosure-tracker/internal/ingest"
	"github.com/leadharvest/foreclosure-tracker/internal/store"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dataDir = flag.String("data-dir", "", "base directory for listings and records (overrides FT_BASE_DIR)")
		out     = flag.String("out", "", "output XLSX file path (optional; defaults to <base>/foreclosure_leads.xlsx)")
		sheets  = flag.Bool("sheets", false, "also upsert every row into the configured Google Sheet")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "error", err)
	}
	if *dataDir != "" {
		os.Setenv("FT_BASE_DIR", *dataDir)
	}
	cfg := common.LoadConfig()
	if *out == "" {
		*out = filepath.Join(cfg.Paths.BaseDir, "foreclosure_leads.xlsx")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(cfg.Paths.RecordsFile)
	if err != nil {
		logger.Error("failed to open record store", "error", err)
		os.Exit(1)
	}

	source := ingest.NewFSSource(cfg.Paths.PDFDir, cfg.Paths.ListingFile, logger)
	listings, err := source.Listings()
	if err != nil {
		logger.Warn("listings unavailable; exporting parsed records only", "error", err)
	}

	rows := combineAll(listings, st)
	logger.Info("combined lead rows", "listings", len(listings), "records", st.Len(), "rows", len(rows))

	b, err := export.WriteXLSX(rows, logger)
	if err != nil {
		logger.Error("xlsx export failed", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, b, 0o644); err != nil {
		logger.Error("write xlsx", "path", *out, "error", err)
		os.Exit(1)
	}
	logger.Info("wrote workbook", "path", *out, "rows", len(rows))

	if *sheets {
		if cfg.Sheets.SpreadsheetID == "" {
			printError("Error: --sheets requires SHEETS_SPREADSHEET_ID\n")
			os.Exit(1)
		}
		sink, err := export.NewSheetsSink(ctx, cfg.Sheets, logger)
		if err != nil {
			logger.Error("failed to create sheets sink", "error", err)
			os.Exit(1)
		}
		defer sink.Close()

		failed := 0
		for _, row := range rows {
			if ctx.Err() != nil {
				logger.Warn("interrupted", "uploaded", len(rows)-failed)
				return
			}
			if err := sink.UpsertRow(ctx, row); err != nil {
				logger.Error("upsert failed", "detail_id", row.DetailID, "error", err)
				failed++
			}
		}
		logger.Info("sheet upload complete", "rows", len(rows), "failed", failed)
	}
}

// combineAll merges every listing with its parsed record, then appends
// parsed records that never had a listing row.
func combineAll(listings []ingest.ListingMetadata, st *store.RecordStore) []export.CombinedRow {
	var rows []export.CombinedRow
	seen := make(map[string]bool, len(listings))
	for i := range listings {
		meta := &listings[i]
		rec, _ := st.Get(meta.DetailID)
		rows = append(rows, export.Combine(meta, rec))
		if meta.DetailID != "" {
			seen[meta.DetailID] = true
		}
	}
	for _, rec := range st.All() {
		if !seen[rec.SourceDocumentID] {
			rows = append(rows, export.Combine(nil, rec))
		}
	}
	return rows
}
