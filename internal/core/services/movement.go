// internal/core/services/movement.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/wms-ledger/internal/core/capacity"
	"github.com/ammerola/wms-ledger/internal/core/domain"
	"github.com/ammerola/wms-ledger/internal/core/ledger"
	"github.com/ammerola/wms-ledger/internal/core/ports"
	"github.com/ammerola/wms-ledger/internal/tasks"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// MovementDeps are the collaborators of the transaction processor. Cache and
// Queue are optional.
type MovementDeps struct {
	Tx         ports.Transactor
	Placements ports.PlacementStore
	Packages   ports.PackageRepository
	Shelves    ports.ShelfRepository
	History    ports.TransactionRepository
	Checker    *capacity.Checker
	Sequence   ports.SequenceGenerator
	Cache      ports.CacheRepository
	Queue      ports.TaskQueue
}

// MovementConfig tunes contention handling.
type MovementConfig struct {
	MaxRetries   int
	RetryBackoff time.Duration
}

// TransactionProcessor applies outbound and internal transfer movements to
// the placement ledger.
type TransactionProcessor struct {
	tx         ports.Transactor
	placements ports.PlacementStore
	packages   ports.PackageRepository
	shelves    ports.ShelfRepository
	history    ports.TransactionRepository
	checker    *capacity.Checker
	sequence   ports.SequenceGenerator
	cache      ports.CacheRepository
	queue      ports.TaskQueue
	config     MovementConfig
	logger     *slog.Logger
}

// Statically assert that *TransactionProcessor implements the MovementService interface.
var _ ports.MovementService = (*TransactionProcessor)(nil)

// NewTransactionProcessor creates a movement processor
func NewTransactionProcessor(deps MovementDeps, config MovementConfig, logger *slog.Logger) *TransactionProcessor {
	if deps.Checker == nil {
		deps.Checker = capacity.NewChecker()
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	return &TransactionProcessor{
		tx:         deps.Tx,
		placements: deps.Placements,
		packages:   deps.Packages,
		shelves:    deps.Shelves,
		history:    deps.History,
		checker:    deps.Checker,
		sequence:   deps.Sequence,
		cache:      deps.Cache,
		queue:      deps.Queue,
		config:     config,
		logger:     logger.With(slog.String("service", "movement")),
	}
}

// movementOutcome is what a committed attempt hands back to the caller.
type movementOutcome struct {
	record    domain.Transaction
	productID uuid.UUID
}

// ProcessTransaction validates and applies a movement atomically. Contention
// is retried up to MaxRetries times; every other rejection is returned on
// the first attempt.
func (p *TransactionProcessor) ProcessTransaction(ctx context.Context, req domain.MovementRequest) (*domain.MovementResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	log := p.logger.With(
		slog.String("transaction_type", string(req.Type)),
		slog.String("package_id", req.PackageID.String()),
		slog.Int("quantity", req.Quantity))

	var (
		outcome *movementOutcome
		err     error
	)
	attempts := 0
	for {
		attempts++
		outcome, err = p.attempt(ctx, req)
		if err == nil || !domain.IsRetryable(err) || attempts > p.config.MaxRetries {
			break
		}

		log.WarnContext(ctx, "movement hit contention, retrying",
			slog.Int("attempt", attempts),
			slog.Any("error", err))

		if waitErr := p.backoff(ctx, attempts); waitErr != nil {
			err = waitErr
			break
		}
	}

	if err != nil {
		var le *domain.Error
		if errors.As(err, &le) && le.Code == domain.CodeConcurrentModification {
			err = le.With("attempts", attempts)
		}
		log.WarnContext(ctx, "movement rejected",
			slog.String("code", string(domain.CodeOf(err))),
			slog.Int("attempts", attempts),
			slog.Any("error", err))
		return nil, err
	}

	p.afterCommit(ctx, outcome)

	log.InfoContext(ctx, "movement committed",
		slog.String("transaction_id", outcome.record.ID.String()),
		slog.Int64("sequence", outcome.record.Sequence),
		slog.Int("attempts", attempts))

	return &domain.MovementResult{
		TransactionID: outcome.record.ID,
		Sequence:      outcome.record.Sequence,
		CommittedAt:   outcome.record.CommittedAt,
	}, nil
}

// attempt runs one read-validate-write cycle inside a single transaction.
// Reads honour the caller's deadline. Once the first write is issued the
// transaction runs to completion regardless of cancellation.
func (p *TransactionProcessor) attempt(ctx context.Context, req domain.MovementRequest) (*movementOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, timeoutError(err)
	}

	writeCtx := context.WithoutCancel(ctx)
	committing := false
	outcome := &movementOutcome{}

	err := p.tx.Transaction(writeCtx, func(tx pgx.Tx) error {
		pkg, err := p.packages.GetForUpdate(ctx, tx, req.PackageID)
		if err != nil {
			return err
		}
		outcome.productID = pkg.ProductID

		var destShelf *domain.Shelf
		if req.Type == domain.TransactionInternalTransfer {
			destShelf, err = p.shelves.GetForUpdate(ctx, tx, *req.DestinationShelfID)
			if err != nil {
				return err
			}
		}

		current, err := p.placements.GetPlacementForUpdate(ctx, tx, req.PackageID, req.SourceShelfID)
		if err != nil {
			return err
		}
		source, err := ledger.ApplyDelta(*current, -req.Quantity)
		if err != nil {
			return err
		}
		source.LastModifiedBy = req.ActingUserID

		var dest domain.Placement
		if destShelf != nil {
			occupants, err := p.placements.ListShelfOccupants(ctx, tx, destShelf.ID)
			if err != nil {
				return err
			}
			if err := p.checker.CanAccept(*destShelf, *pkg, req.Quantity, occupants).Err(); err != nil {
				return err
			}

			existing, err := p.placements.GetPlacementForUpdate(ctx, tx, req.PackageID, destShelf.ID)
			switch {
			case errors.Is(err, domain.ErrPlacementNotFound):
				existing = &domain.Placement{PackageID: req.PackageID, ShelfID: destShelf.ID}
			case err != nil:
				return err
			}
			dest, err = ledger.ApplyDelta(*existing, req.Quantity)
			if err != nil {
				return err
			}
			dest.LastModifiedBy = req.ActingUserID
		}

		if err := ctx.Err(); err != nil {
			return timeoutError(err)
		}

		committing = true

		if err := p.placements.UpsertPlacement(writeCtx, tx, &source); err != nil {
			return err
		}
		if req.Type == domain.TransactionOutbound {
			if err := p.packages.AddDeducted(writeCtx, tx, req.PackageID, req.Quantity); err != nil {
				return err
			}
		} else {
			if err := p.placements.UpsertPlacement(writeCtx, tx, &dest); err != nil {
				return err
			}
		}

		outcome.record = domain.Transaction{
			ID:                 uuid.New(),
			Sequence:           p.sequence.Next(),
			Type:               req.Type,
			PackageID:          req.PackageID,
			Quantity:           req.Quantity,
			SourceShelfID:      req.SourceShelfID,
			DestinationShelfID: req.DestinationShelfID,
			ActingUserID:       req.ActingUserID,
		}
		return p.history.Append(writeCtx, tx, &outcome.record)
	})
	if err != nil {
		return nil, mapAttemptError(ctx, err, committing)
	}
	return outcome, nil
}

// mapAttemptError converts a failed attempt into a ledger error. Ledger
// errors pass through unchanged.
func mapAttemptError(ctx context.Context, err error, committing bool) error {
	var le *domain.Error
	if errors.As(err, &le) {
		return err
	}
	if !committing && ctx.Err() != nil {
		return timeoutError(ctx.Err())
	}
	return domain.WrapError(domain.CodePersistenceFailure, err, "movement could not be persisted")
}

func timeoutError(cause error) error {
	return domain.WrapError(domain.CodeTimeout, cause, "deadline exceeded before the movement was written")
}

func (p *TransactionProcessor) backoff(ctx context.Context, attempt int) error {
	base := p.config.RetryBackoff
	if base <= 0 {
		return nil
	}
	delay := base * time.Duration(attempt)
	delay += time.Duration(rand.Int64N(int64(base)))

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return timeoutError(ctx.Err())
	case <-timer.C:
		return nil
	}
}

// afterCommit invalidates cached locations and publishes the movement. Both
// are best effort; the movement is already durable.
func (p *TransactionProcessor) afterCommit(ctx context.Context, outcome *movementOutcome) {
	ctx = context.WithoutCancel(ctx)

	if p.cache != nil {
		if err := p.cache.Delete(ctx, locationsCacheKey(outcome.productID)); err != nil {
			p.logger.WarnContext(ctx, "failed to invalidate locations cache",
				slog.String("product_id", outcome.productID.String()),
				slog.Any("error", err))
		}
	}

	if p.queue == nil {
		return
	}
	task, err := tasks.NewMovementRecordedTask(tasks.MovementRecordedPayload{
		TransactionID: outcome.record.ID,
		Sequence:      outcome.record.Sequence,
		Type:          outcome.record.Type,
		PackageID:     outcome.record.PackageID,
		ProductID:     outcome.productID,
		Quantity:      outcome.record.Quantity,
	})
	if err == nil {
		_, err = p.queue.EnqueueContext(ctx, task)
	}
	if err != nil {
		p.logger.WarnContext(ctx, "failed to enqueue movement task",
			slog.String("transaction_id", outcome.record.ID.String()),
			slog.Any("error", err))
	}
}

// History returns the most recent movements of a package, newest first.
func (p *TransactionProcessor) History(ctx context.Context, packageID uuid.UUID, limit int) ([]domain.Transaction, error) {
	if packageID == uuid.Nil {
		return nil, domain.NewError(domain.CodeInvalidRequest, "package_id is required")
	}
	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}

	if _, err := p.packages.FindByID(ctx, packageID); err != nil {
		return nil, err
	}

	history, err := p.history.ListByPackage(ctx, packageID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load movement history: %w", err)
	}
	return history, nil
}
