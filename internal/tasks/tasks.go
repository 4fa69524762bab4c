// internal/tasks/tasks.go
package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/ammerola/wms-ledger/internal/core/domain"
)

const (
	TypeMovementRecorded  = "ledger:movement_recorded"
	TypeConservationAudit = "ledger:conservation_audit"
	TypeJournalArchive    = "ledger:journal_archive"
)

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// DayLayout is the format of JournalArchivePayload.Day.
const DayLayout = "2006-01-02"

// MovementRecordedPayload describes a committed movement.
type MovementRecordedPayload struct {
	TransactionID uuid.UUID              `json:"transaction_id"`
	Sequence      int64                  `json:"sequence"`
	Type          domain.TransactionType `json:"transaction_type"`
	PackageID     uuid.UUID              `json:"package_id"`
	ProductID     uuid.UUID              `json:"product_id"`
	Quantity      int                    `json:"quantity"`
}

// ConservationAuditPayload configures a full conservation scan.
type ConservationAuditPayload struct {
	Limit int `json:"limit"`
}

// JournalArchivePayload selects the UTC day to archive. Empty means yesterday.
type JournalArchivePayload struct {
	Day string `json:"day,omitempty"`
}

// NewMovementRecordedTask builds the post-commit task of a movement.
func NewMovementRecordedTask(p MovementRecordedPayload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal movement payload: %w", err)
	}
	return asynq.NewTask(TypeMovementRecorded, b,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(5),
		asynq.Retention(24*time.Hour)), nil
}

// NewConservationAuditTask builds a full conservation scan task.
func NewConservationAuditTask(limit int) (*asynq.Task, error) {
	b, err := json.Marshal(ConservationAuditPayload{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal audit payload: %w", err)
	}
	return asynq.NewTask(TypeConservationAudit, b,
		asynq.Queue(QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(10*time.Minute)), nil
}

// NewJournalArchiveTask builds an archive task for day. A zero day archives
// yesterday at run time.
func NewJournalArchiveTask(day time.Time) (*asynq.Task, error) {
	var p JournalArchivePayload
	if !day.IsZero() {
		p.Day = day.UTC().Format(DayLayout)
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal archive payload: %w", err)
	}
	return asynq.NewTask(TypeJournalArchive, b,
		asynq.Queue(QueueLow),
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Minute)), nil
}

// Decode unmarshals a task payload into dest, marking malformed payloads
// so asynq does not retry them.
func Decode(t *asynq.Task, dest interface{}) error {
	if len(t.Payload()) == 0 {
		return nil
	}
	if err := json.Unmarshal(t.Payload(), dest); err != nil {
		return fmt.Errorf("invalid %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	return nil
}

// ArchiveSettle is how long after midnight UTC a day stays open for
// movements that were still committing when it ended.
const ArchiveSettle = 10 * time.Minute

// ErrArchiveDayOpen is returned for a day that has not closed yet.
var ErrArchiveDayOpen = errors.New("archive day is not closed yet")

// ArchiveWindow resolves the [from, to) UTC range of an archive payload. A
// day can only be archived once ArchiveSettle has passed since it ended.
func (p JournalArchivePayload) ArchiveWindow(now time.Time) (time.Time, time.Time, error) {
	var day time.Time
	if p.Day == "" {
		y, m, d := now.UTC().AddDate(0, 0, -1).Date()
		day = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	} else {
		parsed, err := time.Parse(DayLayout, p.Day)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid archive day %q: %w", p.Day, err)
		}
		day = parsed
	}
	end := day.AddDate(0, 0, 1)
	if end.After(now.UTC().Add(-ArchiveSettle)) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s closes at %s",
			ErrArchiveDayOpen, day.Format(DayLayout), end.Add(ArchiveSettle).Format(time.RFC3339))
	}
	return day, end, nil
}
