// internal/workers/archive_processor.go
package workers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/wms-ledger/internal/core/domain"
	"github.com/ammerola/wms-ledger/internal/core/ports"
	"github.com/ammerola/wms-ledger/internal/tasks"
)

const (
	journalSheet = "journal"
	xlsxMIME     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var journalColumns = []string{
	"Sequence", "Transaction ID", "Committed At (UTC)", "Type", "Package ID", "Product ID",
	"Quantity", "Source", "Destination", "Acting User ID", "Acting User",
}

// ArchiveProcessor exports a day of committed transactions to archive storage
type ArchiveProcessor struct {
	journal ports.TransactionRepository
	storage ports.ArchiveStorage
	now     func() time.Time
	logger  *slog.Logger
}

// NewArchiveProcessor creates a new archive processor
func NewArchiveProcessor(journal ports.TransactionRepository, storage ports.ArchiveStorage, logger *slog.Logger) *ArchiveProcessor {
	return &ArchiveProcessor{
		journal: journal,
		storage: storage,
		now:     time.Now,
		logger:  logger.With(slog.String("processor", "archive")),
	}
}

// WithClock overrides the clock used to resolve and close archive days
func (p *ArchiveProcessor) WithClock(now func() time.Time) *ArchiveProcessor {
	p.now = now
	return p
}

// JournalKey is the object key of the archive for day
func JournalKey(day time.Time) string {
	return day.UTC().Format("journal/2006/01/02.xlsx")
}

// ProcessJournalArchive writes the day's journal as a workbook. Days that are
// already archived are skipped; archives are never overwritten.
func (p *ArchiveProcessor) ProcessJournalArchive(ctx context.Context, t *asynq.Task) error {
	var payload tasks.JournalArchivePayload
	if err := tasks.Decode(t, &payload); err != nil {
		return err
	}

	from, to, err := payload.ArchiveWindow(p.now())
	if err != nil {
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}
	key := JournalKey(from)
	log := p.logger.With(slog.String("key", key))

	exists, err := p.storage.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check archive %s: %w", key, err)
	}
	if exists {
		log.InfoContext(ctx, "journal already archived")
		return nil
	}

	entries, err := p.journal.ListJournal(ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}

	var buf bytes.Buffer
	if err := writeJournalWorkbook(&buf, from, entries); err != nil {
		return fmt.Errorf("failed to build journal workbook: %w", err)
	}

	location, err := p.storage.Upload(ctx, key, &buf, xlsxMIME)
	if err != nil {
		return fmt.Errorf("failed to upload journal archive: %w", err)
	}

	log.InfoContext(ctx, "journal archived",
		slog.String("location", location),
		slog.Int("transactions", len(entries)),
		slog.Time("from", from),
		slog.Time("to", to))
	return nil
}

func writeJournalWorkbook(buf *bytes.Buffer, day time.Time, entries []domain.JournalEntry) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(journalSheet)
	if err != nil {
		return err
	}

	header := sheet.AddRow()
	for _, col := range journalColumns {
		header.AddCell().SetString(col)
	}

	for _, e := range entries {
		row := sheet.AddRow()
		row.AddCell().SetInt64(e.Sequence)
		row.AddCell().SetString(e.ID.String())
		row.AddCell().SetString(e.CommittedAt.UTC().Format(time.RFC3339Nano))
		row.AddCell().SetString(string(e.Type))
		row.AddCell().SetString(e.PackageID.String())
		row.AddCell().SetString(e.ProductID.String())
		row.AddCell().SetInt(e.Quantity)
		row.AddCell().SetString(e.SourceLocation)
		row.AddCell().SetString(e.DestinationLabel)
		row.AddCell().SetString(e.ActingUserID.String())
		row.AddCell().SetString(e.ActingUserName)
	}

	props, err := file.AddSheet("summary")
	if err != nil {
		return err
	}
	summary := [][2]string{
		{"Day", day.Format(tasks.DayLayout)},
		{"Transactions", fmt.Sprint(len(entries))},
		{"Generated At (UTC)", time.Now().UTC().Format(time.RFC3339)},
	}
	for _, kv := range summary {
		row := props.AddRow()
		row.AddCell().SetString(kv[0])
		row.AddCell().SetString(kv[1])
	}

	return file.Write(buf)
}
