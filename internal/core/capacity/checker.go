// Package capacity decides whether a shelf can physically take a quantity
// of a package.
package capacity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammerola/wms-ledger/internal/core/domain"
)

// Reason explains a rejected placement.
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonWeightExceeded     Reason = "WEIGHT_EXCEEDED"
	ReasonNotStackable       Reason = "NOT_STACKABLE"
	ReasonDimensionsExceeded Reason = "DIMENSIONS_EXCEEDED"
)

// Decision is the outcome of a capacity check.
type Decision struct {
	Accepted             bool
	Reason               Reason
	RequestedWeight      decimal.Decimal
	MaxWeight            decimal.Decimal
	ConflictingPackageID uuid.UUID
	Dimension            string
	PackageSize          decimal.Decimal
	ShelfLimit           decimal.Decimal
}

// Err converts a rejection into a ledger error. It returns nil for an
// accepted decision.
func (d Decision) Err() error {
	switch d.Reason {
	case ReasonNone:
		return nil
	case ReasonWeightExceeded:
		return domain.NewError(domain.CodeCapacityExceeded,
			"load of %s exceeds shelf limit %s", d.RequestedWeight, d.MaxWeight).
			With("weight", d.RequestedWeight.String()).
			With("max_weight", d.MaxWeight.String())
	case ReasonNotStackable:
		return domain.NewError(domain.CodeNotStackable,
			"shelf is not stackable and already holds package %s", d.ConflictingPackageID).
			With("conflicting_package_id", d.ConflictingPackageID.String())
	case ReasonDimensionsExceeded:
		return domain.NewError(domain.CodeCapacityExceeded,
			"package %s %s exceeds shelf limit %s", d.Dimension, d.PackageSize, d.ShelfLimit).
			With("dimension", d.Dimension).
			With("size", d.PackageSize.String()).
			With("limit", d.ShelfLimit.String())
	}
	return domain.NewError(domain.CodeCapacityExceeded, "shelf rejected placement")
}

// Checker evaluates shelf constraints. It holds no state; callers pass the
// current occupants of the shelf.
type Checker struct{}

// NewChecker returns a capacity checker.
func NewChecker() *Checker {
	return &Checker{}
}

// CanAccept reports whether quantity units of pkg fit on shelf next to occupants.
//
// The weight rule compares the incoming weight alone against the shelf type
// limit; existing occupancy is not added. A zero max weight disables the rule.
func (c *Checker) CanAccept(shelf domain.Shelf, pkg domain.Package, quantity int, occupants []domain.Placement) Decision {
	st := shelf.Type
	requested := pkg.Weight.Mul(decimal.NewFromInt(int64(quantity)))

	if st.MaxWeight.IsPositive() && requested.GreaterThan(st.MaxWeight) {
		return Decision{
			Reason:          ReasonWeightExceeded,
			RequestedWeight: requested,
			MaxWeight:       st.MaxWeight,
		}
	}

	if !st.Stackable {
		for _, o := range occupants {
			if o.PackageID != pkg.ID && o.Quantity > 0 {
				return Decision{
					Reason:               ReasonNotStackable,
					ConflictingPackageID: o.PackageID,
				}
			}
		}
	}

	if dim, size, limit, ok := exceededDimension(st, pkg); ok {
		return Decision{
			Reason:      ReasonDimensionsExceeded,
			Dimension:   dim,
			PackageSize: size,
			ShelfLimit:  limit,
		}
	}

	return Decision{Accepted: true, RequestedWeight: requested, MaxWeight: st.MaxWeight}
}

// exceededDimension returns the first dimension where pkg is larger than the
// shelf. Package length is measured against shelf depth.
func exceededDimension(st domain.ShelfType, pkg domain.Package) (string, decimal.Decimal, decimal.Decimal, bool) {
	checks := []struct {
		name  string
		limit decimal.Decimal
		size  decimal.Decimal
	}{
		{"width", st.Width, pkg.Width},
		{"height", st.Height, pkg.Height},
		{"depth", st.Depth, pkg.Length},
	}
	for _, ch := range checks {
		if ch.limit.IsPositive() && ch.size.GreaterThan(ch.limit) {
			return ch.name, ch.size, ch.limit, true
		}
	}
	return "", decimal.Zero, decimal.Zero, false
}
