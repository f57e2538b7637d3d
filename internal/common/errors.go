package common

import (
	"errors"
	"fmt"
)

// Document-level failure classes. Every per-document error the pipeline
// logs wraps exactly one of these so a replay can tell which tier failed.
var (
	// ErrExtraction: no usable text came out of any extraction strategy.
	ErrExtraction = errors.New("text extraction produced no usable text")
	// ErrRecoveryService: the generative call exhausted its retry budget.
	ErrRecoveryService = errors.New("generative service exhausted retries")
	// ErrRecoveryParse: the response was unparseable at every repair tier.
	ErrRecoveryParse = errors.New("response unparseable at every repair tier")
	// ErrLedgerIO: checkpoint read/write failed; callers treat the key as
	// not yet processed (reprocessing is safe, skipping is not).
	ErrLedgerIO = errors.New("ledger i/o failure")
	// ErrSink: the export sink rejected a row. Does not block ledger progress.
	ErrSink = errors.New("sink upsert failed")
)

// AppError carries a stable code alongside the wrapped cause.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
