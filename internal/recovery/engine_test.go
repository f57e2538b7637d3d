package recovery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadharvest/foreclosure-tracker/constants"
	"github.com/leadharvest/foreclosure-tracker/internal/common"
	"github.com/leadharvest/foreclosure-tracker/internal/record"
)

type scriptedGenerator struct {
	responses []string
	errs      []error
	calls     int
}

func (g *scriptedGenerator) Generate(_ context.Context, _ string) (string, error) {
	i := g.calls
	g.calls++
	if i < len(g.errs) && g.errs[i] != nil {
		return "", g.errs[i]
	}
	if i < len(g.responses) {
		return g.responses[i], nil
	}
	return "", errors.New("script exhausted")
}

func (g *scriptedGenerator) Close() error { return nil }

func fastEngine(g Generator) *Engine {
	return NewEngine(EngineConfig{
		MaxAttempts:    3,
		Backoff:        time.Millisecond,
		InterCallDelay: time.Millisecond,
	}, g, nil)
}

func TestServiceErrorUnwrapsToSentinel(t *testing.T) {
	err := &ServiceError{Reason: "generate content", Err: errors.New("429 quota exceeded")}
	assert.True(t, errors.Is(err, common.ErrRecoveryService))
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestRecoverCleanResponse(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		`{"case_number": "24-0117", "property_address": "309 Birch Ln\nAllen, TX 75002", "borrower_names": ["R. Vega"], "ai_confidence": "HIGH"}`,
	}}
	e := fastEngine(gen)

	rec, err := e.Recover(context.Background(), "doc-1", "irrelevant")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", rec.SourceDocumentID)
	assert.Equal(t, constants.MethodAI, rec.ExtractionMethod)
	assert.Equal(t, constants.ConfidenceHigh, rec.ExtractionConfidence)
	assert.Equal(t, "24-0117", record.Deref(rec.CaseNumber))
	assert.Equal(t, []string{"R. Vega"}, rec.BorrowerNames)
	// Derived address parts come from normalization.
	assert.Equal(t, "Allen", record.Deref(rec.City))
	assert.Equal(t, "75002", record.Deref(rec.Zip))
	assert.Equal(t, 1, gen.calls)
}

func TestRecoverRetriesThenSucceeds(t *testing.T) {
	gen := &scriptedGenerator{
		errs:      []error{errors.New("503"), errors.New("503"), nil},
		responses: []string{"", "", `{"case_number": "7", "trustee": "M. Cole", "sale_date": "2025-09-02"}`},
	}
	e := fastEngine(gen)

	rec, err := e.Recover(context.Background(), "doc-2", "text")
	require.NoError(t, err)
	assert.Equal(t, 3, gen.calls)
	assert.Equal(t, constants.MethodAI, rec.ExtractionMethod)
	assert.Equal(t, "M. Cole", record.Deref(rec.Trustee))
}

func TestRecoverServiceDownFallsBackDeterministically(t *testing.T) {
	gen := &scriptedGenerator{errs: []error{
		errors.New("unreachable"), errors.New("unreachable"), errors.New("unreachable"),
	}}
	e := fastEngine(gen)

	text := "BORROWER: John Smith AND Jane Smith\nProperty Address: 100 Elm St, Plano, TX 75074\nOWING $201,330.00"
	rec, err := e.Recover(context.Background(), "doc-3", text)
	require.NoError(t, err)
	assert.Equal(t, 3, gen.calls, "every retry must be consumed before falling back")
	assert.Equal(t, constants.MethodFallbackRegex, rec.ExtractionMethod)
	assert.Equal(t, constants.ConfidenceLow, rec.ExtractionConfidence)
	assert.Equal(t, "100 Elm St, Plano, TX 75074", record.Deref(rec.PropertyAddress))
	assert.Equal(t, []string{"John Smith", "Jane Smith"}, rec.BorrowerNames)
}

func TestRecoverNilGeneratorUsesFallbackOnly(t *testing.T) {
	e := NewEngine(EngineConfig{}, nil, nil)

	rec, err := e.Recover(context.Background(), "doc-4", "GRANTOR: Lee Wong\n$88,000.00 owing")
	require.NoError(t, err)
	assert.Equal(t, constants.MethodFallbackRegex, rec.ExtractionMethod)
	assert.Equal(t, "Lee Wong", record.Deref(rec.Defendant))
}

func TestRecoverGarbageResponseThenFallback(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"I cannot help with that."}}
	e := fastEngine(gen)

	rec, err := e.Recover(context.Background(), "doc-5", "DEBTOR: A. Price\n$55,400.00 due")
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls, "parse failures must not burn service retries")
	assert.Equal(t, constants.MethodFallbackRegex, rec.ExtractionMethod)
}

func TestRecoverNothingRecoverable(t *testing.T) {
	e := NewEngine(EngineConfig{}, nil, nil)

	_, err := e.Recover(context.Background(), "doc-6", "no fields of interest here")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrRecoveryParse))
}

func TestRecoverHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gen := &scriptedGenerator{errs: []error{errors.New("503")}}
	e := NewEngine(EngineConfig{Backoff: time.Hour}, gen, nil)

	_, err := e.Recover(ctx, "doc-7", "text")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
