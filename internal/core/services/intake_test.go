package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/wms-ledger/internal/core/domain"
	"github.com/ammerola/wms-ledger/internal/core/services"
	"github.com/ammerola/wms-ledger/test/helpers"
	"github.com/ammerola/wms-ledger/test/mocks"
)

func TestReceiveLoad(t *testing.T) {
	w := newWarehouse(t)
	productA, productB := uuid.New(), uuid.New()

	receipt, err := w.intake.ReceiveLoad(context.Background(), domain.LoadRequest{
		SupplierID:     uuid.New(),
		DocumentNumber: "INV-2024-0042",
		DeclaredValue:  decimal.NewFromFloat(1234.50),
		ActingUserID:   w.user,
		Packages: []domain.PackageSpec{
			w.spec(productA, 12, w.s1),
			w.spec(productB, 3, w.s2),
		},
	})
	require.NoError(t, err)
	require.Len(t, receipt.PackageIDs, 2)

	load, err := w.intake.GetLoad(context.Background(), receipt.LoadID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoadStatusReceived, load.Status)
	assert.Equal(t, "INV-2024-0042", load.DocumentNumber)
	assert.Len(t, load.Packages, 2)

	assert.Equal(t, 12, w.ledger.QuantityOn(receipt.PackageIDs[0], w.s1.ID))
	assert.Equal(t, 3, w.ledger.QuantityOn(receipt.PackageIDs[1], w.s2.ID))

	pkg, _ := w.ledger.PackageByID(receipt.PackageIDs[0])
	assert.Equal(t, 12, pkg.OriginalQuantity)
	assert.Equal(t, 0, pkg.Deducted)
	assert.Equal(t, productA, pkg.ProductID)

	assert.Empty(t, w.ledger.History(), "intake is not a movement")
	w.requireConserved(t)
}

func TestReceiveLoad_Validation(t *testing.T) {
	w := newWarehouse(t)

	tests := []struct {
		name   string
		mutate func(*domain.LoadRequest)
	}{
		{"missing_supplier", func(r *domain.LoadRequest) { r.SupplierID = uuid.Nil }},
		{"blank_document_number", func(r *domain.LoadRequest) { r.DocumentNumber = "  " }},
		{"negative_declared_value", func(r *domain.LoadRequest) { r.DeclaredValue = decimal.NewFromInt(-1) }},
		{"no_packages", func(r *domain.LoadRequest) { r.Packages = nil }},
		{"zero_quantity", func(r *domain.LoadRequest) { r.Packages[0].Quantity = 0 }},
		{"missing_target_shelf", func(r *domain.LoadRequest) { r.Packages[0].TargetShelfID = uuid.Nil }},
		{"unknown_package_type", func(r *domain.LoadRequest) { r.Packages[0].Type = "XX" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := domain.LoadRequest{
				SupplierID:     uuid.New(),
				DocumentNumber: "DOC-1",
				ActingUserID:   w.user,
				Packages:       []domain.PackageSpec{w.spec(uuid.New(), 5, w.s1)},
			}
			tt.mutate(&req)

			_, err := w.intake.ReceiveLoad(context.Background(), req)
			assert.ErrorIs(t, err, domain.ErrInvalidRequest)
		})
	}
}

func TestReceiveLoad_IsAtomic(t *testing.T) {
	w := newWarehouse(t)

	calls := 0
	w.ledger.FailOn = func(op string) error {
		if op == "CreateInitialPlacement" {
			calls++
			if calls == 2 {
				return errors.New("disk full")
			}
		}
		return nil
	}

	_, err := w.intake.ReceiveLoad(context.Background(), domain.LoadRequest{
		SupplierID:     uuid.New(),
		DocumentNumber: "DOC-ATOMIC",
		ActingUserID:   w.user,
		Packages: []domain.PackageSpec{
			w.spec(uuid.New(), 4, w.s1),
			w.spec(uuid.New(), 4, w.s2),
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistenceFailure)
	assert.Empty(t, w.ledger.Conservation(), "no package may survive a failed intake")

	locations, err := w.ledger.PlacementStore().ListShelfOccupants(context.Background(), nil, w.s1.ID)
	require.NoError(t, err)
	assert.Empty(t, locations)
}

func TestReceiveLoad_UnknownShelf(t *testing.T) {
	w := newWarehouse(t)

	_, err := w.intake.ReceiveLoad(context.Background(), domain.LoadRequest{
		SupplierID:     uuid.New(),
		DocumentNumber: "DOC-NOSHELF",
		ActingUserID:   w.user,
		Packages:       []domain.PackageSpec{w.spec(uuid.New(), 4, domain.Shelf{ID: uuid.New()})},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, w.ledger.Conservation())
}

func TestReceiveLoad_CapacityValidation(t *testing.T) {
	w := newWarehouse(t)
	w.receive(t, 2, w.s3)

	req := domain.LoadRequest{
		SupplierID:     uuid.New(),
		DocumentNumber: "DOC-CAP",
		ActingUserID:   w.user,
		Packages: []domain.PackageSpec{
			w.spec(uuid.New(), 1, w.s1),
			w.spec(uuid.New(), 1, w.s3),
		},
	}

	t.Run("disabled_by_default", func(t *testing.T) {
		_, err := w.intake.ReceiveLoad(context.Background(), req)
		require.NoError(t, err)
	})

	t.Run("enabled_rejects_occupied_non_stackable_shelf", func(t *testing.T) {
		strict := services.NewLoadIntake(w.intakeDeps(nil),
			services.IntakeConfig{ValidateCapacity: true}, helpers.TestLogger())

		before := len(w.ledger.Conservation())
		_, err := strict.ReceiveLoad(context.Background(), req)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotStackable)

		var le *domain.Error
		require.ErrorAs(t, err, &le)
		assert.Equal(t, 1, le.Details["package_index"])
		assert.Len(t, w.ledger.Conservation(), before)
	})
}

func TestReceiveLoad_InvalidatesTouchedProducts(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := newWarehouse(t)
	product := uuid.New()

	cache := mocks.NewMockCacheRepository(ctrl)
	cache.EXPECT().Delete(gomock.Any(), "loc:product:"+product.String()).Return(nil)

	intake := services.NewLoadIntake(w.intakeDeps(cache), services.IntakeConfig{}, helpers.TestLogger())
	_, err := intake.ReceiveLoad(context.Background(), domain.LoadRequest{
		SupplierID:     uuid.New(),
		DocumentNumber: "DOC-CACHE",
		ActingUserID:   w.user,
		Packages: []domain.PackageSpec{
			w.spec(product, 2, w.s1),
			w.spec(product, 3, w.s2),
		},
	})
	require.NoError(t, err)
}

func TestUpdateLoadStatus(t *testing.T) {
	w := newWarehouse(t)
	ctx := context.Background()
	receipt, err := w.intake.ReceiveLoad(ctx, domain.LoadRequest{
		SupplierID:     uuid.New(),
		DocumentNumber: "DOC-STATUS",
		ActingUserID:   w.user,
		Packages:       []domain.PackageSpec{w.spec(uuid.New(), 6, w.s1)},
	})
	require.NoError(t, err)

	load, err := w.intake.UpdateLoadStatus(ctx, receipt.LoadID, domain.LoadStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, domain.LoadStatusProcessing, load.Status)

	_, err = w.intake.UpdateLoadStatus(ctx, receipt.LoadID, domain.LoadStatusReceived)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
	var le *domain.Error
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "processing", le.Details["from"])
	assert.Equal(t, "received", le.Details["to"])

	_, err = w.intake.UpdateLoadStatus(ctx, receipt.LoadID, "lost")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = w.intake.UpdateLoadStatus(ctx, uuid.New(), domain.LoadStatusStored)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 6, w.ledger.QuantityOn(receipt.PackageIDs[0], w.s1.ID), "status changes never touch placements")
}
