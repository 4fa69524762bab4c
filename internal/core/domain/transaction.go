// internal/core/domain/transaction.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType is the kind of inventory movement
type TransactionType string

const (
	TransactionOutbound         TransactionType = "OUTBOUND"
	TransactionInternalTransfer TransactionType = "INTERNAL_TRANSFER"
)

// IsValid reports whether t is a known movement type.
func (t TransactionType) IsValid() bool {
	return t == TransactionOutbound || t == TransactionInternalTransfer
}

// MovementRequest asks the processor to move quantity of a package out of
// the warehouse or between two shelves.
type MovementRequest struct {
	Type               TransactionType `json:"transaction_type"`
	PackageID          uuid.UUID       `json:"package_id"`
	SourceShelfID      uuid.UUID       `json:"source_shelf_id"`
	DestinationShelfID *uuid.UUID      `json:"destination_shelf_id,omitempty"`
	Quantity           int             `json:"quantity"`
	ActingUserID       uuid.UUID       `json:"acting_user_id"`
}

// Validate checks the request shape. It does not touch storage.
func (r MovementRequest) Validate() error {
	switch {
	case !r.Type.IsValid():
		return NewError(CodeInvalidRequest, "unknown transaction type %q", r.Type)
	case r.Quantity <= 0:
		return NewError(CodeInvalidRequest, "quantity must be a positive integer").With("requested", r.Quantity)
	case r.PackageID == uuid.Nil:
		return NewError(CodeInvalidRequest, "package_id is required")
	case r.SourceShelfID == uuid.Nil:
		return NewError(CodeInvalidRequest, "source_shelf_id is required")
	case r.ActingUserID == uuid.Nil:
		return NewError(CodeInvalidRequest, "acting user is required")
	}

	switch r.Type {
	case TransactionOutbound:
		if r.DestinationShelfID != nil {
			return NewError(CodeInvalidRequest, "outbound movements have no destination shelf")
		}
	case TransactionInternalTransfer:
		if r.DestinationShelfID == nil || *r.DestinationShelfID == uuid.Nil {
			return NewError(CodeInvalidRequest, "internal transfer requires a destination shelf")
		}
		if *r.DestinationShelfID == r.SourceShelfID {
			return NewError(CodeInvalidRequest, "destination shelf must differ from source shelf")
		}
	}
	return nil
}

// Transaction is an immutable record of a committed movement.
type Transaction struct {
	ID                 uuid.UUID       `json:"id"`
	Sequence           int64           `json:"sequence"`
	Type               TransactionType `json:"transaction_type"`
	PackageID          uuid.UUID       `json:"package_id"`
	Quantity           int             `json:"quantity"`
	SourceShelfID      uuid.UUID       `json:"source_shelf_id"`
	DestinationShelfID *uuid.UUID      `json:"destination_shelf_id,omitempty"`
	ActingUserID       uuid.UUID       `json:"acting_user_id"`
	CommittedAt        time.Time       `json:"committed_at"`
}

// MovementResult is returned by a successful movement.
type MovementResult struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	Sequence      int64     `json:"sequence"`
	CommittedAt   time.Time `json:"committed_at"`
}

// JournalEntry is a transaction joined with display names, used for the
// archived movement journal.
type JournalEntry struct {
	Transaction
	ProductID        uuid.UUID `json:"product_id"`
	SourceLocation   string    `json:"source_location"`
	DestinationLabel string    `json:"destination_location,omitempty"`
	ActingUserName   string    `json:"acting_user_name"`
}
