// internal/workers/schedule.go
package workers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/wms-ledger/internal/tasks"
)

// Processors groups the task handlers run by the worker
type Processors struct {
	Movement *MovementProcessor
	Audit    *AuditProcessor
	Archive  *ArchiveProcessor
}

// Register wires every processor into mux
func (p *Processors) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(tasks.TypeMovementRecorded, p.Movement.ProcessMovementRecorded)
	mux.HandleFunc(tasks.TypeConservationAudit, p.Audit.ProcessConservationAudit)
	mux.HandleFunc(tasks.TypeJournalArchive, p.Archive.ProcessJournalArchive)
}

// Registrar is the subset of *asynq.Scheduler used to register periodic tasks
type Registrar interface {
	Register(cronspec string, task *asynq.Task, opts ...asynq.Option) (string, error)
}

// ScheduleConfig holds the cron specs of the periodic tasks. An empty spec
// disables the task.
type ScheduleConfig struct {
	AuditCron   string
	AuditLimit  int
	ArchiveCron string
}

// RegisterSchedules registers the conservation audit and journal archive
func RegisterSchedules(r Registrar, cfg ScheduleConfig, logger *slog.Logger) error {
	if cfg.AuditCron != "" {
		task, err := tasks.NewConservationAuditTask(cfg.AuditLimit)
		if err != nil {
			return err
		}
		id, err := r.Register(cfg.AuditCron, task)
		if err != nil {
			return fmt.Errorf("failed to schedule conservation audit %q: %w", cfg.AuditCron, err)
		}
		logger.Info("scheduled conservation audit", slog.String("cron", cfg.AuditCron), slog.String("entry_id", id))
	}

	if cfg.ArchiveCron != "" {
		// zero day: the archive resolves "yesterday" when it runs
		task, err := tasks.NewJournalArchiveTask(time.Time{})
		if err != nil {
			return err
		}
		id, err := r.Register(cfg.ArchiveCron, task)
		if err != nil {
			return fmt.Errorf("failed to schedule journal archive %q: %w", cfg.ArchiveCron, err)
		}
		logger.Info("scheduled journal archive", slog.String("cron", cfg.ArchiveCron), slog.String("entry_id", id))
	}
	return nil
}
