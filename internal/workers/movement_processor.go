// internal/workers/movement_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/ammerola/wms-ledger/internal/core/ports"
	"github.com/ammerola/wms-ledger/internal/tasks"
)

// LocationInvalidator drops cached product locations.
// *services.LocationQuery satisfies it.
type LocationInvalidator interface {
	InvalidateProducts(ctx context.Context, productIDs ...uuid.UUID) error
}

// MovementProcessor follows up on committed movements
type MovementProcessor struct {
	packages    ports.PackageRepository
	invalidator LocationInvalidator
	logger      *slog.Logger
}

// NewMovementProcessor creates a new movement processor
func NewMovementProcessor(packages ports.PackageRepository, invalidator LocationInvalidator, logger *slog.Logger) *MovementProcessor {
	return &MovementProcessor{
		packages:    packages,
		invalidator: invalidator,
		logger:      logger.With(slog.String("processor", "movement")),
	}
}

// ProcessMovementRecorded invalidates the product's cached locations and
// re-checks the package balance. An imbalance fails the task so it stays
// visible in the queue after its retries run out.
func (p *MovementProcessor) ProcessMovementRecorded(ctx context.Context, t *asynq.Task) error {
	var payload tasks.MovementRecordedPayload
	if err := tasks.Decode(t, &payload); err != nil {
		return err
	}
	if payload.PackageID == uuid.Nil {
		return fmt.Errorf("movement payload without package_id: %w", asynq.SkipRetry)
	}

	log := p.logger.With(
		slog.String("transaction_id", payload.TransactionID.String()),
		slog.String("package_id", payload.PackageID.String()),
		slog.Int64("sequence", payload.Sequence))

	if payload.ProductID != uuid.Nil {
		if err := p.invalidator.InvalidateProducts(ctx, payload.ProductID); err != nil {
			log.WarnContext(ctx, "failed to invalidate product locations",
				slog.String("product_id", payload.ProductID.String()),
				slog.Any("error", err))
		}
	}

	c, err := p.packages.CheckConservation(ctx, payload.PackageID)
	if err != nil {
		return fmt.Errorf("failed to check conservation: %w", err)
	}

	if !c.Balanced() {
		log.ErrorContext(ctx, "conservation violated after movement",
			slog.Int("original", c.Original),
			slog.Int("placed", c.Placed),
			slog.Int("deducted", c.Deducted))
		return fmt.Errorf("package %s out of balance: placed %d + deducted %d != original %d",
			c.PackageID, c.Placed, c.Deducted, c.Original)
	}

	log.DebugContext(ctx, "movement verified", slog.String("type", string(payload.Type)))
	return nil
}
