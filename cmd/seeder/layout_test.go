package main

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/wms-ledger/internal/core/domain"
)

func buildLayoutWorkbook(t *testing.T, types, racks [][]string) *xlsx.File {
	t.Helper()
	file := xlsx.NewFile()
	add := func(name string, header []string, rows [][]string) {
		sheet, err := file.AddSheet(name)
		require.NoError(t, err)
		for _, values := range append([][]string{header}, rows...) {
			row := sheet.AddRow()
			for _, v := range values {
				row.AddCell().SetString(v)
			}
		}
	}
	if types != nil {
		add("shelf_types", []string{"name", "max_weight", "stackable", "width", "height", "depth"}, types)
	}
	if racks != nil {
		add("racks", []string{"name", "shelf_type", "shelves"}, racks)
	}
	return file
}

func TestParseLayout(t *testing.T) {
	tests := []struct {
		name    string
		types   [][]string
		racks   [][]string
		wantErr string
		check   func(t *testing.T, l *Layout)
	}{
		{
			name:  "valid_layout",
			types: [][]string{{"light", "200", "yes", "120", "50", "60"}, {"pallet", "1000", "no", "", "", ""}},
			racks: [][]string{{"A", "light", "3"}, {"P", "pallet", "2"}},
			check: func(t *testing.T, l *Layout) {
				require.Len(t, l.ShelfTypes, 2)
				assert.True(t, l.ShelfTypes[0].MaxWeight.Equal(decimal.NewFromInt(200)))
				assert.True(t, l.ShelfTypes[0].Stackable)
				assert.False(t, l.ShelfTypes[1].Stackable)
				assert.True(t, l.ShelfTypes[1].Depth.IsZero())
				require.Len(t, l.Racks, 2)
				assert.Equal(t, RackSpec{Name: "P", ShelfType: "pallet", Shelves: 2}, l.Racks[1])
			},
		},
		{
			name:  "blank_rows_are_skipped",
			types: [][]string{{"light", "", "", "", "", ""}, {"", "", "", "", "", ""}},
			racks: [][]string{{"A", "light", "1"}, {"", "", ""}},
			check: func(t *testing.T, l *Layout) {
				assert.Len(t, l.ShelfTypes, 1)
				assert.True(t, l.ShelfTypes[0].MaxWeight.IsZero())
				assert.Len(t, l.Racks, 1)
			},
		},
		{
			name:    "missing_shelf_types_sheet",
			racks:   [][]string{{"A", "light", "1"}},
			wantErr: "no shelf_types sheet",
		},
		{
			name:    "missing_racks_sheet",
			types:   [][]string{{"light", "200", "yes", "", "", ""}},
			wantErr: "no racks sheet",
		},
		{
			name:    "unknown_shelf_type",
			types:   [][]string{{"light", "200", "yes", "", "", ""}},
			racks:   [][]string{{"A", "heavy", "1"}},
			wantErr: `unknown shelf type "heavy"`,
		},
		{
			name:    "negative_weight",
			types:   [][]string{{"light", "-5", "yes", "", "", ""}},
			racks:   [][]string{{"A", "light", "1"}},
			wantErr: "max_weight",
		},
		{
			name:    "bad_stackable_flag",
			types:   [][]string{{"light", "5", "maybe", "", "", ""}},
			racks:   [][]string{{"A", "light", "1"}},
			wantErr: "stackable",
		},
		{
			name:    "too_many_shelves",
			types:   [][]string{{"light", "5", "yes", "", "", ""}},
			racks:   [][]string{{"A", "light", "100"}},
			wantErr: "between 1 and 99",
		},
		{
			name:    "no_racks",
			types:   [][]string{{"light", "5", "yes", "", "", ""}},
			racks:   [][]string{},
			wantErr: "defines no racks",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout, err := parseLayout(buildLayoutWorkbook(t, tt.types, tt.racks))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, layout)
		})
	}
}

func TestRackPositions(t *testing.T) {
	assert.Equal(t, []string{"01", "02", "03"}, RackSpec{Shelves: 3}.Positions())
	assert.Empty(t, RackSpec{}.Positions())

	positions := RackSpec{Shelves: 12}.Positions()
	assert.Equal(t, "10", positions[9])
	assert.Less(t, positions[1], positions[9], "positions must sort lexicographically")
}

func TestDefaultLayout(t *testing.T) {
	layout := defaultLayout()

	types := map[string]ShelfTypeSpec{}
	for _, st := range layout.ShelfTypes {
		types[st.Name] = st
	}
	for _, r := range layout.Racks {
		_, ok := types[r.ShelfType]
		assert.True(t, ok, "rack %s references unknown shelf type", r.Name)
	}
	assert.False(t, types["heavy-pallet"].Stackable)
	assert.True(t, types["bulk-unbounded"].MaxWeight.IsZero())
}

func TestDemoLoadRequest(t *testing.T) {
	layout := defaultLayout()
	shelves := map[string]uuid.UUID{}
	for _, r := range layout.Racks {
		for _, p := range r.Positions() {
			shelves[r.Name+"/"+p] = seedID("shelf", r.Name+"/"+p)
		}
	}

	req := demoLoadRequest(layout, shelves)

	require.NoError(t, req.Validate())
	assert.Equal(t, demoDocument, req.DocumentNumber)
	require.Len(t, req.Packages, 3)
	assert.Equal(t, shelves["A/01"], req.Packages[0].TargetShelfID)
	assert.Equal(t, domain.PackageTypeCarton, req.Packages[1].Type)
	assert.Equal(t, seedID("user", seedUsers[0]), req.ActingUserID, "seed IDs are deterministic")
}
