package export

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/leadharvest/foreclosure-tracker/internal/common"
)

// SheetsSink writes lead rows to a Google Sheet through a service
// account. Rows land in columns B..V keyed by the detail id in column
// A; an id already present gets its row rewritten in place, everything
// else appends below the last used row.
type SheetsSink struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
	logger        *slog.Logger

	mu      sync.Mutex
	rowByID map[string]int // detail id -> 1-based sheet row
	nextRow int

	// writes are spaced out to stay under the per-minute quota
	lastWrite time.Time
	minGap    time.Duration
}

func NewSheetsSink(ctx context.Context, cfg common.SheetsConfig, logger *slog.Logger) (*SheetsSink, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("%w: missing spreadsheet id", common.ErrSink)
	}
	if logger == nil {
		logger = slog.Default()
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	opts = append(opts, option.WithScopes(sheets.SpreadsheetsScope))
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: create sheets client: %v", common.ErrSink, err)
	}

	s := &SheetsSink{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
		logger:        logger,
		minGap:        time.Second,
	}
	if s.sheetName == "" {
		s.sheetName = "Sheet1"
	}
	if err := s.loadIndex(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// loadIndex reads the id column once so upserts know where rows live.
func (s *SheetsSink) loadIndex(ctx context.Context) error {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.sheetName+"!A:A").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: read id column: %v", common.ErrSink, err)
	}
	s.rowByID = make(map[string]int, len(resp.Values))
	for i, cells := range resp.Values {
		if len(cells) == 0 {
			continue
		}
		if id, ok := cells[0].(string); ok && id != "" && i > 0 {
			s.rowByID[id] = i + 1
		}
	}
	s.nextRow = len(resp.Values) + 1
	if s.nextRow < 2 {
		s.nextRow = 2 // row 1 is the header
	}
	return nil
}

func (s *SheetsSink) UpsertRow(ctx context.Context, row CombinedRow) error {
	if row.DetailID == "" {
		return fmt.Errorf("%w: row has no detail id", common.ErrSink)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if wait := s.minGap - time.Since(s.lastWrite); wait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	rowNum, existed := s.rowByID[row.DetailID]
	if !existed {
		rowNum = s.nextRow
	}

	values := append([]any{row.DetailID}, row.Values()...)
	rangeName := fmt.Sprintf("%s!A%d:V%d", s.sheetName, rowNum, rowNum)
	vr := &sheets.ValueRange{Values: [][]any{values}}
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rangeName, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	s.lastWrite = time.Now()
	if err != nil {
		return fmt.Errorf("%w: update row %d for %s: %v", common.ErrSink, rowNum, row.DetailID, err)
	}

	if !existed {
		s.rowByID[row.DetailID] = rowNum
		s.nextRow++
	}
	s.logger.Info("export.sheets.upsert", "detail_id", row.DetailID, "row", rowNum, "appended", !existed)
	return nil
}

func (s *SheetsSink) Close() error { return nil }
