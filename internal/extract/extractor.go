package extract

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode"

	"github.com/leadharvest/foreclosure-tracker/internal/common"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxOCRPages   int    // pages to rasterize, default 3
	OCRWorkers    int    // concurrent tesseract processes, default 2

	// A strategy's output is accepted only above these non-whitespace
	// character counts. Text-layer tiers get the stricter bar because
	// stamped scans often carry a few stray characters of real text.
	MinTextChars int // text-layer tiers, default 100
	MinOCRChars  int // optical tier, default 50
}

// Extractor runs the three-layer extraction cascade: native text layer,
// alternate PDF parser, then optical recognition.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.MaxOCRPages <= 0 {
		cfg.MaxOCRPages = 3
	}
	if cfg.OCRWorkers <= 0 {
		cfg.OCRWorkers = 2
	}
	if cfg.MinTextChars <= 0 {
		cfg.MinTextChars = 100
	}
	if cfg.MinOCRChars <= 0 {
		cfg.MinOCRChars = 50
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// Extract walks the cascade and returns the first result whose text
// clears that layer's length bar. Cheaper layers run first; optical
// recognition is the last resort and its output is accepted as-is.
func (e *Extractor) Extract(ctx context.Context, path string) (*Result, error) {
	start := time.Now()
	var warns []string

	text, pages, w, err := e.nativeLayer(ctx, path)
	warns = append(warns, w...)
	if err == nil && nonWhitespaceLen(text) > e.cfg.MinTextChars {
		e.logger.Debug("extract.native.ok", "path", path, "pages", pages, "chars", len(text), "duration_ms", time.Since(start).Milliseconds())
		return &Result{Text: text, Method: MethodNativeLayer, Pages: pages, Warnings: warns}, nil
	}
	e.logger.Info("extract.native.insufficient", "path", path, "chars", nonWhitespaceLen(text), "error", err)

	text, pages, w, err = e.alternateParser(ctx, path)
	warns = append(warns, w...)
	if err == nil && nonWhitespaceLen(text) > e.cfg.MinTextChars {
		e.logger.Debug("extract.alternate.ok", "path", path, "pages", pages, "chars", len(text), "duration_ms", time.Since(start).Milliseconds())
		return &Result{Text: text, Method: MethodAlternate, Pages: pages, Warnings: warns}, nil
	}
	e.logger.Info("extract.alternate.insufficient", "path", path, "chars", nonWhitespaceLen(text), "error", err)

	text, pages, w, err = e.opticalRecognition(ctx, path)
	warns = append(warns, w...)
	if err != nil {
		return &Result{Method: MethodNone, Warnings: warns},
			fmt.Errorf("%w: all strategies failed for %s: %v", common.ErrExtraction, path, err)
	}
	if nonWhitespaceLen(text) <= e.cfg.MinOCRChars {
		return &Result{Method: MethodNone, Pages: pages, Warnings: warns},
			fmt.Errorf("%w: no extractable text in %s", common.ErrExtraction, path)
	}
	e.logger.Info("extract.ocr.ok", "path", path, "pages", pages, "chars", len(text), "duration_ms", time.Since(start).Milliseconds())
	return &Result{Text: text, Method: MethodOptical, Pages: pages, Warnings: warns}, nil
}

func nonWhitespaceLen(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
