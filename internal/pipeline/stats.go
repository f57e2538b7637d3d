package pipeline

import (
	"log/slog"
	"time"
)

// Stats summarizes one pipeline run. Every document lands in exactly
// one bucket.
type Stats struct {
	Total              int
	Processed          int
	SkippedCheckpoint  int
	SkippedExisting    int
	ExtractionFailures int
	RecoveryFailures   int
	StoreFailures      int
	SinkFailures       int
	Started            time.Time
	Finished           time.Time
}

func (s *Stats) LogSummary(logger *slog.Logger) {
	logger.Info("pipeline.run.summary",
		"total", s.Total,
		"processed", s.Processed,
		"skipped_checkpoint", s.SkippedCheckpoint,
		"skipped_existing", s.SkippedExisting,
		"extraction_failures", s.ExtractionFailures,
		"recovery_failures", s.RecoveryFailures,
		"store_failures", s.StoreFailures,
		"sink_failures", s.SinkFailures,
		"duration_ms", s.Finished.Sub(s.Started).Milliseconds(),
	)
}
