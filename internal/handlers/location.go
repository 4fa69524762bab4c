// internal/handlers/location.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/wms-ledger/internal/core/domain"
	"github.com/ammerola/wms-ledger/internal/core/ports"
)

// LocationHandler answers where a product or package currently sits
type LocationHandler struct {
	service ports.LocationService
	logger  *slog.Logger
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(service ports.LocationService, logger *slog.Logger) *LocationHandler {
	return &LocationHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "location")),
	}
}

// ProductLocations handles GET /api/v1/products/{id}/locations
func (h *LocationHandler) ProductLocations(w http.ResponseWriter, r *http.Request) {
	productID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	locations, err := h.service.LocationsForProduct(r.Context(), productID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if locations == nil {
		locations = []domain.ProductLocation{}
	}

	total := 0
	for _, l := range locations {
		total += l.Quantity
	}

	respondJSON(w, r, h.logger, http.StatusOK, map[string]interface{}{
		"product_id":     productID,
		"locations":      locations,
		"total_quantity": total,
	})
}

// PackageSummary handles GET /api/v1/packages/{id}
func (h *LocationHandler) PackageSummary(w http.ResponseWriter, r *http.Request) {
	packageID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	summary, err := h.service.PackageSummary(r.Context(), packageID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, r, h.logger, http.StatusOK, summary)
}
