// internal/handlers/transaction.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/ammerola/wms-ledger/internal/core/domain"
	"github.com/ammerola/wms-ledger/internal/core/ports"
	"github.com/ammerola/wms-ledger/internal/handlers/middleware"
)

// TransactionHandler exposes outbound and internal transfer movements
type TransactionHandler struct {
	service ports.MovementService
	logger  *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(service ports.MovementService, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "transaction")),
	}
}

// CreateTransactionRequest is the body of POST /transactions
type CreateTransactionRequest struct {
	Type               string `json:"transaction_type" validate:"required,oneof=OUTBOUND INTERNAL_TRANSFER"`
	PackageID          string `json:"package_id" validate:"required,uuid"`
	SourceShelfID      string `json:"source_shelf_id" validate:"required,uuid"`
	DestinationShelfID string `json:"destination_shelf_id,omitempty" validate:"omitempty,uuid"`
	Quantity           int    `json:"quantity" validate:"required,gt=0"`
}

// ToDomain converts the request for the acting user
func (r *CreateTransactionRequest) ToDomain(actingUser uuid.UUID) domain.MovementRequest {
	req := domain.MovementRequest{
		Type:          domain.TransactionType(r.Type),
		PackageID:     uuid.MustParse(r.PackageID),
		SourceShelfID: uuid.MustParse(r.SourceShelfID),
		Quantity:      r.Quantity,
		ActingUserID:  actingUser,
	}
	if r.DestinationShelfID != "" {
		dest := uuid.MustParse(r.DestinationShelfID)
		req.DestinationShelfID = &dest
	}
	return req
}

// CreateTransaction handles POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actingUser, ok := middleware.ActingUserFromContext(ctx)
	if !ok {
		respondError(w, r, h.logger, invalidRequest("X-User-ID header is required"))
		return
	}

	var req CreateTransactionRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	result, err := h.service.ProcessTransaction(ctx, req.ToDomain(actingUser))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "transaction committed",
		slog.String("transaction_id", result.TransactionID.String()),
		slog.Int64("sequence", result.Sequence))

	respondJSON(w, r, h.logger, http.StatusCreated, result)
}

// ListPackageTransactions handles GET /api/v1/packages/{id}/transactions
func (h *TransactionHandler) ListPackageTransactions(w http.ResponseWriter, r *http.Request) {
	packageID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	history, err := h.service.History(r.Context(), packageID, limit)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if history == nil {
		history = []domain.Transaction{}
	}

	respondJSON(w, r, h.logger, http.StatusOK, map[string]interface{}{
		"package_id":   packageID,
		"transactions": history,
		"count":        len(history),
	})
}
