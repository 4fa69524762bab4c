// internal/core/domain/load.go
package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoadStatus represents the operator workflow state of a load
type LoadStatus string

const (
	LoadStatusReceived   LoadStatus = "received"
	LoadStatusProcessing LoadStatus = "processing"
	LoadStatusStored     LoadStatus = "stored"
	LoadStatusDispatched LoadStatus = "dispatched"
	LoadStatusRejected   LoadStatus = "rejected"
	LoadStatusCancelled  LoadStatus = "cancelled"
)

var loadTransitions = map[LoadStatus][]LoadStatus{
	LoadStatusReceived:   {LoadStatusProcessing, LoadStatusRejected, LoadStatusCancelled},
	LoadStatusProcessing: {LoadStatusStored, LoadStatusRejected, LoadStatusCancelled},
	LoadStatusStored:     {LoadStatusDispatched, LoadStatusCancelled},
}

// IsValid reports whether s is a known status.
func (s LoadStatus) IsValid() bool {
	switch s {
	case LoadStatusReceived, LoadStatusProcessing, LoadStatusStored,
		LoadStatusDispatched, LoadStatusRejected, LoadStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (s LoadStatus) IsTerminal() bool {
	return len(loadTransitions[s]) == 0
}

// CanTransitionTo reports whether the workflow allows moving from s to next.
func (s LoadStatus) CanTransitionTo(next LoadStatus) bool {
	for _, allowed := range loadTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PackageType is the packaging unit code.
type PackageType string

const (
	PackageTypeBox    PackageType = "BX"
	PackageTypeCarton PackageType = "CT"
	PackageTypePallet PackageType = "PL"
	PackageTypePack   PackageType = "PK"
	PackageTypeUnit   PackageType = "UN"
)

// IsValid reports whether t is a known packaging code.
func (t PackageType) IsValid() bool {
	switch t {
	case PackageTypeBox, PackageTypeCarton, PackageTypePallet, PackageTypePack, PackageTypeUnit:
		return true
	}
	return false
}

// Load is a supplier delivery
type Load struct {
	ID             uuid.UUID       `json:"id"`
	SupplierID     uuid.UUID       `json:"supplier_id"`
	DocumentNumber string          `json:"document_number"`
	DeclaredValue  decimal.Decimal `json:"declared_value"`
	Status         LoadStatus      `json:"status"`
	CreatedBy      uuid.UUID       `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Packages       []Package       `json:"packages,omitempty"`
}

// Package is a unit of a load holding a quantity of one product.
// Deducted only grows, and only through outbound movements.
type Package struct {
	ID               uuid.UUID       `json:"id"`
	LoadID           uuid.UUID       `json:"load_id"`
	ProductID        uuid.UUID       `json:"product_id"`
	OriginalQuantity int             `json:"original_quantity"`
	Deducted         int             `json:"deducted"`
	Width            decimal.Decimal `json:"width"`
	Height           decimal.Decimal `json:"height"`
	Length           decimal.Decimal `json:"length"`
	Weight           decimal.Decimal `json:"weight"`
	Stackable        bool            `json:"stackable"`
	PackQuantity     int             `json:"pack_quantity"`
	Type             PackageType     `json:"package_type"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Remaining is the quantity not yet removed from the warehouse.
func (p Package) Remaining() int {
	return p.OriginalQuantity - p.Deducted
}

// Storage limits of intake values. Quantities are 32-bit counters and
// measures are fixed-precision numerics.
const MaxQuantity = math.MaxInt32

var (
	MaxDimension     = decimal.New(1, 8)
	MaxWeight        = decimal.New(1, 9)
	MaxDeclaredValue = decimal.New(1, 12)
)

// PackageSpec describes one package of an incoming load and where it goes.
type PackageSpec struct {
	ProductID     uuid.UUID       `json:"product_id"`
	Quantity      int             `json:"quantity"`
	Width         decimal.Decimal `json:"width"`
	Height        decimal.Decimal `json:"height"`
	Length        decimal.Decimal `json:"length"`
	Weight        decimal.Decimal `json:"weight"`
	Stackable     bool            `json:"stackable"`
	PackQuantity  int             `json:"pack_quantity"`
	Type          PackageType     `json:"package_type"`
	TargetShelfID uuid.UUID       `json:"target_shelf_id"`
}

// Validate checks a single package spec.
func (s PackageSpec) Validate() error {
	var problems []string
	if s.ProductID == uuid.Nil {
		problems = append(problems, "product_id is required")
	}
	if s.Quantity <= 0 {
		problems = append(problems, "quantity must be positive")
	}
	if s.Quantity > MaxQuantity {
		problems = append(problems, fmt.Sprintf("quantity cannot exceed %d", MaxQuantity))
	}
	if s.TargetShelfID == uuid.Nil {
		problems = append(problems, "target_shelf_id is required")
	}
	if !s.Type.IsValid() {
		problems = append(problems, fmt.Sprintf("invalid package_type %q", s.Type))
	}
	if s.PackQuantity < 0 {
		problems = append(problems, "pack_quantity cannot be negative")
	}
	if s.PackQuantity > MaxQuantity {
		problems = append(problems, fmt.Sprintf("pack_quantity cannot exceed %d", MaxQuantity))
	}
	measures := []struct {
		name  string
		value decimal.Decimal
		limit decimal.Decimal
	}{
		{"width", s.Width, MaxDimension},
		{"height", s.Height, MaxDimension},
		{"length", s.Length, MaxDimension},
		{"weight", s.Weight, MaxWeight},
	}
	for _, m := range measures {
		switch {
		case m.value.IsNegative():
			problems = append(problems, m.name+" cannot be negative")
		case m.value.GreaterThanOrEqual(m.limit):
			problems = append(problems, fmt.Sprintf("%s must be less than %s", m.name, m.limit))
		}
	}
	if len(problems) > 0 {
		return NewError(CodeInvalidRequest, "%s", strings.Join(problems, "; "))
	}
	return nil
}

// ToPackage builds a new package for the given load.
func (s PackageSpec) ToPackage(loadID uuid.UUID) Package {
	return Package{
		ID:               uuid.New(),
		LoadID:           loadID,
		ProductID:        s.ProductID,
		OriginalQuantity: s.Quantity,
		Width:            s.Width,
		Height:           s.Height,
		Length:           s.Length,
		Weight:           s.Weight,
		Stackable:        s.Stackable,
		PackQuantity:     s.PackQuantity,
		Type:             s.Type,
	}
}

// LoadRequest is the intake of a supplier delivery.
type LoadRequest struct {
	SupplierID     uuid.UUID       `json:"supplier_id"`
	DocumentNumber string          `json:"document_number"`
	DeclaredValue  decimal.Decimal `json:"declared_value"`
	ActingUserID   uuid.UUID       `json:"acting_user_id"`
	Packages       []PackageSpec   `json:"packages"`
}

// Validate checks the load header and every package spec.
func (r LoadRequest) Validate() error {
	if r.SupplierID == uuid.Nil {
		return NewError(CodeInvalidRequest, "supplier_id is required")
	}
	if strings.TrimSpace(r.DocumentNumber) == "" {
		return NewError(CodeInvalidRequest, "document_number is required")
	}
	if r.DeclaredValue.IsNegative() {
		return NewError(CodeInvalidRequest, "declared_value cannot be negative")
	}
	if r.DeclaredValue.GreaterThanOrEqual(MaxDeclaredValue) {
		return NewError(CodeInvalidRequest, "declared_value must be less than %s", MaxDeclaredValue)
	}
	if r.ActingUserID == uuid.Nil {
		return NewError(CodeInvalidRequest, "acting user is required")
	}
	if len(r.Packages) == 0 {
		return NewError(CodeInvalidRequest, "a load needs at least one package")
	}
	for i, spec := range r.Packages {
		if err := spec.Validate(); err != nil {
			return NewError(CodeInvalidRequest, "package %d: %s", i, err.(*Error).Message)
		}
	}
	return nil
}

// LoadReceipt is returned by a successful intake.
type LoadReceipt struct {
	LoadID     uuid.UUID   `json:"load_id"`
	PackageIDs []uuid.UUID `json:"package_ids"`
}

// Conservation compares a package's placed and deducted quantities against
// its original quantity.
type Conservation struct {
	PackageID uuid.UUID `json:"package_id"`
	Original  int       `json:"original"`
	Placed    int       `json:"placed"`
	Deducted  int       `json:"deducted"`
}

// Balanced reports whether placed + deducted equals original.
func (c Conservation) Balanced() bool {
	return c.Placed+c.Deducted == c.Original
}

// PackageSummary is a package with its current placements.
type PackageSummary struct {
	Package      Package           `json:"package"`
	Placements   []ProductLocation `json:"placements"`
	Conservation Conservation      `json:"conservation"`
	Balanced     bool              `json:"balanced"`
}
