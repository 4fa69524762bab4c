// Package ledger holds the quantity arithmetic applied to placements.
// Nothing in here touches storage.
package ledger

import (
	"github.com/ammerola/wms-ledger/internal/core/domain"
)

// ApplyDelta returns p with its quantity shifted by delta. The result is never
// negative. Version and identity are carried through so the store can
// compare-and-swap on write.
func ApplyDelta(p domain.Placement, delta int) (domain.Placement, error) {
	if delta == 0 {
		return p, domain.NewError(domain.CodeInvalidDelta, "delta must be a non-zero integer")
	}

	next := p.Quantity + delta
	if next < 0 {
		return p, domain.NewError(domain.CodeInsufficientQuantity,
			"requested %d but only %d available on shelf", -delta, p.Quantity).
			With("requested", -delta).
			With("available", p.Quantity).
			With("package_id", p.PackageID.String()).
			With("shelf_id", p.ShelfID.String())
	}

	p.Quantity = next
	return p, nil
}

// Total sums the quantity of a set of placements.
func Total(placements []domain.Placement) int {
	total := 0
	for _, p := range placements {
		total += p.Quantity
	}
	return total
}

// Conserve reports the conservation state of pkg given all of its placements.
func Conserve(pkg domain.Package, placements []domain.Placement) domain.Conservation {
	return domain.Conservation{
		PackageID: pkg.ID,
		Original:  pkg.OriginalQuantity,
		Placed:    Total(placements),
		Deducted:  pkg.Deducted,
	}
}
