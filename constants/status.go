package constants

// SkipReason explains why the pipeline skipped a document without
// running extraction. Stable values (logged and counted in stats).
type SkipReason string

const (
	SkipCheckpoint   SkipReason = "CHECKPOINT"    // exact fingerprint already in the ledger
	SkipExistingData SkipReason = "EXISTING_DATA" // fuzzy address+city match against stored records
)
