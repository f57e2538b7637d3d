package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/leadharvest/foreclosure-tracker/internal/common"
	"github.com/leadharvest/foreclosure-tracker/internal/export"
	"github.com/leadharvest/foreclosure-tracker/internal/extract"
	"github.com/leadharvest/foreclosure-tracker/internal/ingest"
	"github.com/leadharvest/foreclosure-tracker/internal/ledger"
	"github.com/leadharvest/foreclosure-tracker/internal/pipeline"
	"github.com/leadharvest/foreclosure-tracker/internal/recovery"
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
		dir      = flag.String("dir", "", "directory of downloaded notice PDFs (overrides FT_PDF_DIR)")
		dataDir  = flag.String("data-dir", "", "base directory for listings, records and checkpoints (overrides FT_BASE_DIR)")
		noSink   = flag.Bool("no-sink", false, "process and store records without exporting to Google Sheets")
		watch    = flag.Bool("watch", false, "keep running and re-scan the PDF directory on an interval")
		interval = flag.Duration("interval", 15*time.Minute, "re-scan interval in watch mode")
		debug    = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "error", err)
	}

	if *dataDir != "" {
		os.Setenv("FT_BASE_DIR", *dataDir)
	}
	if *dir != "" {
		os.Setenv("FT_PDF_DIR", *dir)
	}
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		printError("Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	led, err := ledger.Open(cfg.Paths.LedgerDB, logger)
	if err != nil {
		logger.Error("failed to open checkpoint ledger", "error", err)
		os.Exit(1)
	}
	defer led.Close()

	st, err := store.Open(cfg.Paths.RecordsFile)
	if err != nil {
		logger.Error("failed to open record store", "error", err)
		os.Exit(1)
	}

	extractor := extract.NewExtractor(extract.Config{
		Pdftotext:     cfg.Extract.Pdftotext,
		Pdftoppm:      cfg.Extract.Pdftoppm,
		Tesseract:     cfg.Extract.Tesseract,
		TesseractLang: cfg.Extract.TesseractLang,
		DPI:           cfg.Extract.DPI,
		MaxOCRPages:   cfg.Extract.MaxOCRPages,
	}, logger)

	var generator recovery.Generator
	if cfg.Gemini.APIKey != "" {
		generator, err = recovery.NewGeminiGenerator(ctx, cfg.Gemini, logger)
		if err != nil {
			logger.Error("failed to create generative client", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("GEMINI_API_KEY not set; running with deterministic extraction only")
	}
	engine := recovery.NewEngine(recovery.EngineConfig{
		MaxAttempts:    cfg.Gemini.MaxAttempts,
		InterCallDelay: cfg.Gemini.InterCallDelay,
		PromptBudget:   cfg.Gemini.PromptBudget,
	}, generator, logger)
	defer engine.Close()

	var sink export.Sink = export.NopSink{}
	if !*noSink && cfg.Sheets.SpreadsheetID != "" {
		sheetsSink, err := export.NewSheetsSink(ctx, cfg.Sheets, logger)
		if err != nil {
			logger.Error("failed to create sheets sink", "error", err)
			os.Exit(1)
		}
		sink = sheetsSink
	}
	defer sink.Close()

	source := ingest.NewFSSource(cfg.Paths.PDFDir, cfg.Paths.ListingFile, logger)
	p := pipeline.New(extractor, engine, led, st, sink, logger)

	runOnce := func() error {
		docs, err := source.Documents()
		if err != nil {
			return err
		}
		_, err = p.Run(ctx, docs)
		return err
	}

	if err := runOnce(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}

	for *watch {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case <-time.After(*interval):
			if err := runOnce(); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("run failed", "error", err)
			}
		}
	}
}
