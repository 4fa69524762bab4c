package ledger_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/wms-ledger/internal/core/domain"
	"github.com/ammerola/wms-ledger/internal/core/ledger"
)

func TestApplyDelta(t *testing.T) {
	base := domain.Placement{
		PackageID: uuid.New(),
		ShelfID:   uuid.New(),
		Quantity:  10,
		Version:   3,
	}

	tests := []struct {
		name      string
		quantity  int
		delta     int
		want      int
		wantErr   error
		requested int
		available int
	}{
		{name: "partial_removal", quantity: 10, delta: -4, want: 6},
		{name: "full_removal", quantity: 10, delta: -10, want: 0},
		{name: "addition", quantity: 10, delta: 5, want: 15},
		{name: "addition_to_empty", quantity: 0, delta: 7, want: 7},
		{name: "zero_delta", quantity: 10, delta: 0, wantErr: domain.ErrInvalidDelta},
		{
			name: "removal_exceeds_quantity", quantity: 10, delta: -11,
			wantErr: domain.ErrInsufficientQuantity, requested: 11, available: 10,
		},
		{
			name: "removal_from_empty", quantity: 0, delta: -1,
			wantErr: domain.ErrInsufficientQuantity, requested: 1, available: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			p.Quantity = tt.quantity

			got, err := ledger.ApplyDelta(p, tt.delta)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.quantity, got.Quantity, "input must be returned unchanged")
				if tt.requested > 0 {
					var le *domain.Error
					require.ErrorAs(t, err, &le)
					assert.Equal(t, tt.requested, le.Details["requested"])
					assert.Equal(t, tt.available, le.Details["available"])
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Quantity)
			assert.Equal(t, base.Version, got.Version)
			assert.Equal(t, base.PackageID, got.PackageID)
			assert.Equal(t, base.ShelfID, got.ShelfID)
		})
	}
}

func TestApplyDelta_NeverNegative(t *testing.T) {
	for q := 0; q <= 20; q++ {
		for d := -25; d <= 25; d++ {
			if d == 0 {
				continue
			}
			got, err := ledger.ApplyDelta(domain.Placement{Quantity: q}, d)
			if err != nil {
				assert.Less(t, q+d, 0)
				continue
			}
			assert.GreaterOrEqual(t, got.Quantity, 0)
			assert.Equal(t, q+d, got.Quantity)
		}
	}
}

func TestConserve(t *testing.T) {
	pkg := domain.Package{ID: uuid.New(), OriginalQuantity: 10, Deducted: 4}
	placements := []domain.Placement{{Quantity: 2}, {Quantity: 4}}

	c := ledger.Conserve(pkg, placements)

	assert.Equal(t, 6, c.Placed)
	assert.True(t, c.Balanced())
	assert.Equal(t, 0, ledger.Total(nil))
}
