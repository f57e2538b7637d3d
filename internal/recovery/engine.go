package recovery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leadharvest/foreclosure-tracker/constants"
	"github.com/leadharvest/foreclosure-tracker/internal/common"
	"github.com/leadharvest/foreclosure-tracker/internal/record"
)

type EngineConfig struct {
	MaxAttempts    int           // generative call retries, default 3
	Backoff        time.Duration // base backoff, grows linearly per attempt, default 3s
	InterCallDelay time.Duration // pause between consecutive generative calls, default 2s
	PromptBudget   int           // max document chars placed into a prompt, default 45000
}

// Engine turns extracted document text into a validated StructuredRecord.
// The generative service is the first-choice strategy; every way it can
// fail lands on the deterministic battery, so Recover only errors when
// the text itself carries nothing recognizable.
type Engine struct {
	cfg       EngineConfig
	generator Generator
	logger    *slog.Logger
	calls     int
}

// NewEngine builds an engine. A nil generator is allowed and routes
// every document straight to deterministic extraction.
func NewEngine(cfg EngineConfig, generator Generator, logger *slog.Logger) *Engine {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 3 * time.Second
	}
	if cfg.InterCallDelay <= 0 {
		cfg.InterCallDelay = 2 * time.Second
	}
	if cfg.PromptBudget <= 0 {
		cfg.PromptBudget = 45000
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{cfg: cfg, generator: generator, logger: logger}
}

// Recover extracts a structured record from the document text.
func (e *Engine) Recover(ctx context.Context, docID, documentText string) (*record.StructuredRecord, error) {
	if e.generator != nil {
		rec, err := e.recoverViaService(ctx, docID, documentText)
		if err == nil {
			return rec, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.logger.Warn("recovery.service_path.failed", "document_id", docID, "error", err)
	}

	obj, ok := FallbackExtract(documentText)
	if !ok {
		return nil, fmt.Errorf("%w: no recognizable fields in document %s", common.ErrRecoveryParse, docID)
	}
	rec := e.buildRecord(docID, obj, constants.MethodFallbackRegex)
	rec.ExtractionConfidence = constants.ConfidenceLow
	e.logger.Info("recovery.fallback.ok", "document_id", docID, "fields", rec.FieldCount())
	return rec, nil
}

func (e *Engine) recoverViaService(ctx context.Context, docID, documentText string) (*record.StructuredRecord, error) {
	prompt := BuildPrompt(documentText, e.cfg.PromptBudget)

	var response string
	var lastErr error
	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		if e.calls > 0 {
			if err := sleepCtx(ctx, e.cfg.InterCallDelay); err != nil {
				return nil, err
			}
		}
		e.logger.Info("recovery.generate.attempt", "document_id", docID, "attempt", attempt)
		resp, err := e.generator.Generate(ctx, prompt)
		e.calls++
		if err == nil {
			response = resp
			lastErr = nil
			break
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt < e.cfg.MaxAttempts {
			if err := sleepCtx(ctx, time.Duration(attempt)*e.cfg.Backoff); err != nil {
				return nil, err
			}
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %d attempts exhausted: %v", common.ErrRecoveryService, e.cfg.MaxAttempts, lastErr)
	}

	obj, ok := DecodeObject(response)
	if ok {
		rec, err := e.validateAndBuild(docID, obj)
		if err == nil {
			return rec, nil
		}
		e.logger.Warn("recovery.validate.failed", "document_id", docID, "error", err)
	}

	// Structural parsing lost; scrape field-by-field.
	obj, ok = ManualFieldExtraction(response)
	if !ok {
		return nil, fmt.Errorf("%w: response unparseable at every repair tier for %s", common.ErrRecoveryParse, docID)
	}
	rec, err := e.validateAndBuild(docID, obj)
	if err != nil {
		return nil, fmt.Errorf("%w: manual reconstruction invalid for %s: %v", common.ErrRecoveryParse, docID, err)
	}
	e.logger.Info("recovery.manual.ok", "document_id", docID, "fields", rec.FieldCount())
	return rec, nil
}

func (e *Engine) validateAndBuild(docID string, obj map[string]any) (*record.StructuredRecord, error) {
	cleaned, dropped := record.Sanitize(obj)
	if len(dropped) > 0 {
		e.logger.Debug("recovery.sanitize.dropped_keys", "document_id", docID, "keys", dropped)
	}
	if err := record.ValidateObject(cleaned); err != nil {
		return nil, err
	}
	return e.buildRecord(docID, cleaned, constants.MethodAI), nil
}

func (e *Engine) buildRecord(docID string, obj map[string]any, method constants.ExtractionMethod) *record.StructuredRecord {
	rec := record.FromObject(obj)
	rec.SourceDocumentID = docID
	rec.ExtractionMethod = method
	return rec
}

// Close releases the underlying generator, if any.
func (e *Engine) Close() error {
	if e.generator != nil {
		return e.generator.Close()
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
