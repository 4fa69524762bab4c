// internal/workers/audit_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ammerola/wms-ledger/internal/core/ports"
	"github.com/ammerola/wms-ledger/internal/tasks"
)

const defaultAuditLimit = 1000

// AuditProcessor scans every package for conservation violations
type AuditProcessor struct {
	packages     ports.PackageRepository
	defaultLimit int
	logger       *slog.Logger
}

// NewAuditProcessor creates a new audit processor. limit caps the number of
// violations reported per run when the task does not set one.
func NewAuditProcessor(packages ports.PackageRepository, limit int, logger *slog.Logger) *AuditProcessor {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	return &AuditProcessor{
		packages:     packages,
		defaultLimit: limit,
		logger:       logger.With(slog.String("processor", "audit")),
	}
}

// ProcessConservationAudit logs each violating package at error level.
// Violations fail the task without retry; rescanning cannot repair them.
func (p *AuditProcessor) ProcessConservationAudit(ctx context.Context, t *asynq.Task) error {
	var payload tasks.ConservationAuditPayload
	if err := tasks.Decode(t, &payload); err != nil {
		return err
	}
	limit := payload.Limit
	if limit <= 0 {
		limit = p.defaultLimit
	}

	violations, err := p.packages.FindConservationViolations(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to scan for conservation violations: %w", err)
	}

	if len(violations) == 0 {
		p.logger.InfoContext(ctx, "conservation audit passed")
		return nil
	}

	for _, v := range violations {
		p.logger.ErrorContext(ctx, "conservation violated",
			slog.String("package_id", v.PackageID.String()),
			slog.Int("original", v.Original),
			slog.Int("placed", v.Placed),
			slog.Int("deducted", v.Deducted),
			slog.Int("drift", v.Placed+v.Deducted-v.Original))
	}

	return fmt.Errorf("conservation audit found %d unbalanced packages: %w", len(violations), asynq.SkipRetry)
}
