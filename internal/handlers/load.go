// internal/handlers/load.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammerola/wms-ledger/internal/core/domain"
	"github.com/ammerola/wms-ledger/internal/core/ports"
	"github.com/ammerola/wms-ledger/internal/handlers/middleware"
)

// LoadHandler handles incoming loads and their workflow status
type LoadHandler struct {
	service ports.IntakeService
	logger  *slog.Logger
}

// NewLoadHandler creates a new load handler
func NewLoadHandler(service ports.IntakeService, logger *slog.Logger) *LoadHandler {
	return &LoadHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "load")),
	}
}

// PackageRequest describes one package of an incoming load
type PackageRequest struct {
	ProductID     string          `json:"product_id" validate:"required,uuid"`
	Quantity      int             `json:"quantity" validate:"required,gt=0"`
	Width         decimal.Decimal `json:"width"`
	Height        decimal.Decimal `json:"height"`
	Length        decimal.Decimal `json:"length"`
	Weight        decimal.Decimal `json:"weight"`
	Stackable     bool            `json:"stackable"`
	PackQuantity  int             `json:"pack_quantity" validate:"gte=0"`
	Type          string          `json:"package_type" validate:"required,oneof=BX CT PL PK UN"`
	TargetShelfID string          `json:"target_shelf_id" validate:"required,uuid"`
}

// CreateLoadRequest is the body of POST /loads
type CreateLoadRequest struct {
	SupplierID     string           `json:"supplier_id" validate:"required,uuid"`
	DocumentNumber string           `json:"document_number" validate:"required,max=64"`
	DeclaredValue  decimal.Decimal  `json:"declared_value"`
	Packages       []PackageRequest `json:"packages" validate:"required,min=1,dive"`
}

// ToDomain converts the request for the acting user
func (r *CreateLoadRequest) ToDomain(actingUser uuid.UUID) domain.LoadRequest {
	req := domain.LoadRequest{
		SupplierID:     uuid.MustParse(r.SupplierID),
		DocumentNumber: r.DocumentNumber,
		DeclaredValue:  r.DeclaredValue,
		ActingUserID:   actingUser,
		Packages:       make([]domain.PackageSpec, 0, len(r.Packages)),
	}
	for _, p := range r.Packages {
		req.Packages = append(req.Packages, domain.PackageSpec{
			ProductID:     uuid.MustParse(p.ProductID),
			Quantity:      p.Quantity,
			Width:         p.Width,
			Height:        p.Height,
			Length:        p.Length,
			Weight:        p.Weight,
			Stackable:     p.Stackable,
			PackQuantity:  p.PackQuantity,
			Type:          domain.PackageType(p.Type),
			TargetShelfID: uuid.MustParse(p.TargetShelfID),
		})
	}
	return req
}

// UpdateLoadStatusRequest is the body of PATCH /loads/{id}/status
type UpdateLoadStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=received processing stored dispatched rejected cancelled"`
}

// CreateLoad handles POST /api/v1/loads
func (h *LoadHandler) CreateLoad(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actingUser, ok := middleware.ActingUserFromContext(ctx)
	if !ok {
		respondError(w, r, h.logger, invalidRequest("X-User-ID header is required"))
		return
	}

	var req CreateLoadRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	receipt, err := h.service.ReceiveLoad(ctx, req.ToDomain(actingUser))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "load received",
		slog.String("load_id", receipt.LoadID.String()),
		slog.Int("packages", len(receipt.PackageIDs)))

	w.Header().Set("Location", "/api/v1/loads/"+receipt.LoadID.String())
	respondJSON(w, r, h.logger, http.StatusCreated, receipt)
}

// GetLoad handles GET /api/v1/loads/{id}
func (h *LoadHandler) GetLoad(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	load, err := h.service.GetLoad(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, r, h.logger, http.StatusOK, load)
}

// UpdateLoadStatus handles PATCH /api/v1/loads/{id}/status
func (h *LoadHandler) UpdateLoadStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, ok := middleware.ActingUserFromContext(ctx); !ok {
		respondError(w, r, h.logger, invalidRequest("X-User-ID header is required"))
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req UpdateLoadStatusRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	load, err := h.service.UpdateLoadStatus(ctx, id, domain.LoadStatus(req.Status))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, r, h.logger, http.StatusOK, load)
}
