package domain_test

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/wms-ledger/internal/core/domain"
)

func TestLoadStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from domain.LoadStatus
		to   domain.LoadStatus
		want bool
	}{
		{"received_to_processing", domain.LoadStatusReceived, domain.LoadStatusProcessing, true},
		{"received_to_rejected", domain.LoadStatusReceived, domain.LoadStatusRejected, true},
		{"received_to_stored", domain.LoadStatusReceived, domain.LoadStatusStored, false},
		{"processing_to_stored", domain.LoadStatusProcessing, domain.LoadStatusStored, true},
		{"stored_to_dispatched", domain.LoadStatusStored, domain.LoadStatusDispatched, true},
		{"stored_to_processing", domain.LoadStatusStored, domain.LoadStatusProcessing, false},
		{"dispatched_is_terminal", domain.LoadStatusDispatched, domain.LoadStatusCancelled, false},
		{"cancelled_is_terminal", domain.LoadStatusCancelled, domain.LoadStatusReceived, false},
		{"same_status", domain.LoadStatusReceived, domain.LoadStatusReceived, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}

	assert.True(t, domain.LoadStatusRejected.IsTerminal())
	assert.False(t, domain.LoadStatusStored.IsTerminal())
	assert.False(t, domain.LoadStatus("lost").IsValid())
}

func TestLoadRequest_Validate(t *testing.T) {
	spec := domain.PackageSpec{
		ProductID:     uuid.New(),
		Quantity:      10,
		Weight:        decimal.NewFromFloat(2.5),
		Type:          domain.PackageTypeBox,
		TargetShelfID: uuid.New(),
	}

	build := func(mod func(*domain.LoadRequest)) domain.LoadRequest {
		r := domain.LoadRequest{
			SupplierID:     uuid.New(),
			DocumentNumber: "GR-2024-0001",
			DeclaredValue:  decimal.NewFromInt(1500),
			ActingUserID:   uuid.New(),
			Packages:       []domain.PackageSpec{spec},
		}
		if mod != nil {
			mod(&r)
		}
		return r
	}

	tests := []struct {
		name     string
		req      domain.LoadRequest
		errorMsg string
	}{
		{name: "valid_load", req: build(nil)},
		{
			name:     "missing_document_number",
			req:      build(func(r *domain.LoadRequest) { r.DocumentNumber = "  " }),
			errorMsg: "document_number is required",
		},
		{
			name:     "negative_declared_value",
			req:      build(func(r *domain.LoadRequest) { r.DeclaredValue = decimal.NewFromInt(-1) }),
			errorMsg: "declared_value cannot be negative",
		},
		{
			name:     "no_packages",
			req:      build(func(r *domain.LoadRequest) { r.Packages = nil }),
			errorMsg: "at least one package",
		},
		{
			name: "package_with_zero_quantity",
			req: build(func(r *domain.LoadRequest) {
				bad := spec
				bad.Quantity = 0
				r.Packages = []domain.PackageSpec{spec, bad}
			}),
			errorMsg: "package 1: quantity must be positive",
		},
		{
			name: "package_with_unknown_type",
			req: build(func(r *domain.LoadRequest) {
				bad := spec
				bad.Type = "XX"
				r.Packages = []domain.PackageSpec{bad}
			}),
			errorMsg: "invalid package_type",
		},
		{
			name: "package_with_negative_weight",
			req: build(func(r *domain.LoadRequest) {
				bad := spec
				bad.Weight = decimal.NewFromInt(-2)
				r.Packages = []domain.PackageSpec{bad}
			}),
			errorMsg: "weight cannot be negative",
		},
		{
			name: "quantity_at_storage_limit",
			req: build(func(r *domain.LoadRequest) {
				ok := spec
				ok.Quantity = math.MaxInt32
				r.Packages = []domain.PackageSpec{ok}
			}),
		},
		{
			name: "quantity_above_storage_limit",
			req: build(func(r *domain.LoadRequest) {
				bad := spec
				bad.Quantity = math.MaxInt32 + 1
				r.Packages = []domain.PackageSpec{bad}
			}),
			errorMsg: "quantity cannot exceed 2147483647",
		},
		{
			name: "pack_quantity_above_storage_limit",
			req: build(func(r *domain.LoadRequest) {
				bad := spec
				bad.PackQuantity = math.MaxInt32 + 1
				r.Packages = []domain.PackageSpec{bad}
			}),
			errorMsg: "pack_quantity cannot exceed",
		},
		{
			name: "weight_above_precision",
			req: build(func(r *domain.LoadRequest) {
				bad := spec
				bad.Weight = decimal.NewFromInt(1_000_000_000)
				r.Packages = []domain.PackageSpec{bad}
			}),
			errorMsg: "weight must be less than 1000000000",
		},
		{
			name: "width_above_precision",
			req: build(func(r *domain.LoadRequest) {
				bad := spec
				bad.Width = decimal.NewFromInt(100_000_000)
				r.Packages = []domain.PackageSpec{bad}
			}),
			errorMsg: "width must be less than 100000000",
		},
		{
			name:     "declared_value_above_precision",
			req:      build(func(r *domain.LoadRequest) { r.DeclaredValue = decimal.New(1, 12) }),
			errorMsg: "declared_value must be less than 1000000000000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.errorMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidRequest)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestPackageSpec_ToPackage(t *testing.T) {
	loadID := uuid.New()
	spec := domain.PackageSpec{
		ProductID:    uuid.New(),
		Quantity:     12,
		Weight:       decimal.NewFromInt(3),
		Stackable:    true,
		PackQuantity: 6,
		Type:         domain.PackageTypeCarton,
	}

	pkg := spec.ToPackage(loadID)

	assert.NotEqual(t, uuid.Nil, pkg.ID)
	assert.Equal(t, loadID, pkg.LoadID)
	assert.Equal(t, 12, pkg.OriginalQuantity)
	assert.Equal(t, 0, pkg.Deducted)
	assert.Equal(t, 12, pkg.Remaining())
	assert.Equal(t, domain.PackageTypeCarton, pkg.Type)
}

func TestConservation_Balanced(t *testing.T) {
	assert.True(t, domain.Conservation{Original: 10, Placed: 6, Deducted: 4}.Balanced())
	assert.False(t, domain.Conservation{Original: 10, Placed: 6, Deducted: 6}.Balanced())
}
