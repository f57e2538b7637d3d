package export

import "context"

// Sink receives combined lead rows. Implementations must tolerate the
// same row arriving twice (the pipeline fails open on ledger errors).
type Sink interface {
	UpsertRow(ctx context.Context, row CombinedRow) error
	Close() error
}

// NopSink discards rows; used when a run is export-disabled.
type NopSink struct{}

func (NopSink) UpsertRow(context.Context, CombinedRow) error { return nil }
func (NopSink) Close() error                                 { return nil }
