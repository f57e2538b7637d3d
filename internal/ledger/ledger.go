package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/leadharvest/foreclosure-tracker/internal/common"
)

// Kind distinguishes what a checkpoint key identifies.
type Kind string

const (
	KindDocument Kind = "document"
	KindListing  Kind = "listing"
)

// Ledger is the durable checkpoint store behind idempotent reruns.
// Reads fail open: any I/O error is reported as "not processed",
// because reprocessing a document is safe and skipping one is not.
type Ledger struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open connects to (or creates) the checkpoint database.
func Open(path string, logger *slog.Logger) (*Ledger, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open checkpoint db: %v", common.ErrLedgerIO, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: apply pragma %q: %v", common.ErrLedgerIO, pragma, execErr)
		}
	}

	const schema = `CREATE TABLE IF NOT EXISTS checkpoints (
		key          TEXT PRIMARY KEY,
		kind         TEXT NOT NULL,
		metadata     TEXT,
		processed_at TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: create schema: %v", common.ErrLedgerIO, err)
	}

	return &Ledger{db: db, path: path, logger: logger}, nil
}

func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// IsProcessed reports whether the key was ever marked processed.
func (l *Ledger) IsProcessed(ctx context.Context, key string) bool {
	var one int
	err := l.db.QueryRowContext(ctx, `SELECT 1 FROM checkpoints WHERE key = ?`, key).Scan(&one)
	switch {
	case err == nil:
		return true
	case errors.Is(err, sql.ErrNoRows):
		return false
	default:
		l.logger.Error("ledger.read.failed", "key", key, "error", err)
		return false
	}
}

// MarkProcessed records the key as processed. Marking an existing key
// again only refreshes its auxiliary metadata; the processed status and
// original timestamp are never rewound.
func (l *Ledger) MarkProcessed(ctx context.Context, key string, kind Kind, metadata map[string]string) error {
	var metaJSON any
	if len(metadata) > 0 {
		b, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("%w: encode metadata: %v", common.ErrLedgerIO, err)
		}
		metaJSON = string(b)
	}

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO checkpoints (key, kind, metadata, processed_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET metadata = excluded.metadata`,
		key, string(kind), metaJSON, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("%w: mark processed %q: %v", common.ErrLedgerIO, key, err)
	}
	return nil
}

// Metadata returns the auxiliary metadata stored with a processed key,
// or nil when the key is unknown. Errors fail open like IsProcessed.
func (l *Ledger) Metadata(ctx context.Context, key string) map[string]string {
	var raw sql.NullString
	err := l.db.QueryRowContext(ctx, `SELECT metadata FROM checkpoints WHERE key = ?`, key).Scan(&raw)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			l.logger.Error("ledger.read.failed", "key", key, "error", err)
		}
		return nil
	}
	if !raw.Valid {
		return nil
	}
	var meta map[string]string
	if err := json.Unmarshal([]byte(raw.String), &meta); err != nil {
		l.logger.Error("ledger.metadata.decode_failed", "key", key, "error", err)
		return nil
	}
	return meta
}

// Count reports how many keys of a kind are recorded; used by run stats.
func (l *Ledger) Count(ctx context.Context, kind Kind) int {
	var n int
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM checkpoints WHERE kind = ?`, string(kind)).Scan(&n); err != nil {
		l.logger.Error("ledger.count.failed", "kind", kind, "error", err)
		return 0
	}
	return n
}
