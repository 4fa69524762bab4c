// cmd/seeder/layout.go
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"
)

// ShelfTypeSpec describes one kind of shelf
type ShelfTypeSpec struct {
	Name      string
	MaxWeight decimal.Decimal
	Stackable bool
	Width     decimal.Decimal
	Height    decimal.Decimal
	Depth     decimal.Decimal
}

// RackSpec describes a rack and how many shelves it holds
type RackSpec struct {
	Name      string
	ShelfType string
	Shelves   int
}

// Layout is the physical warehouse to seed
type Layout struct {
	ShelfTypes []ShelfTypeSpec
	Racks      []RackSpec
}

// Positions returns the shelf positions of a rack, zero padded so they
// sort lexicographically: 01, 02, ...
func (r RackSpec) Positions() []string {
	positions := make([]string, r.Shelves)
	for i := range positions {
		positions[i] = fmt.Sprintf("%02d", i+1)
	}
	return positions
}

func defaultLayout() *Layout {
	return &Layout{
		ShelfTypes: []ShelfTypeSpec{
			{Name: "light-stackable", MaxWeight: decimal.NewFromInt(200), Stackable: true,
				Width: decimal.NewFromInt(120), Height: decimal.NewFromInt(50), Depth: decimal.NewFromInt(60)},
			{Name: "heavy-pallet", MaxWeight: decimal.NewFromInt(1000), Stackable: false,
				Width: decimal.NewFromInt(130), Height: decimal.NewFromInt(180), Depth: decimal.NewFromInt(120)},
			{Name: "bulk-unbounded", Stackable: true},
		},
		Racks: []RackSpec{
			{Name: "A", ShelfType: "light-stackable", Shelves: 6},
			{Name: "B", ShelfType: "light-stackable", Shelves: 6},
			{Name: "P", ShelfType: "heavy-pallet", Shelves: 4},
			{Name: "Z", ShelfType: "bulk-unbounded", Shelves: 2},
		},
	}
}

// loadLayout reads a layout workbook with a "shelf_types" sheet
// (name, max_weight, stackable, width, height, depth) and a "racks" sheet
// (name, shelf_type, shelves). The first row of each sheet is a header.
func loadLayout(path string) (*Layout, error) {
	file, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open layout workbook: %w", err)
	}
	return parseLayout(file)
}

func parseLayout(file *xlsx.File) (*Layout, error) {
	types, ok := file.Sheet["shelf_types"]
	if !ok {
		return nil, fmt.Errorf("layout workbook has no shelf_types sheet")
	}
	racks, ok := file.Sheet["racks"]
	if !ok {
		return nil, fmt.Errorf("layout workbook has no racks sheet")
	}

	layout := &Layout{}
	known := map[string]bool{}

	err := forEachDataRow(types, func(n int, get func(int) string) error {
		spec := ShelfTypeSpec{Name: get(0)}
		if spec.Name == "" {
			return nil
		}
		var err error
		if spec.MaxWeight, err = parseDecimal(get(1)); err != nil {
			return fmt.Errorf("shelf_types row %d max_weight: %w", n, err)
		}
		if spec.Stackable, err = parseBool(get(2)); err != nil {
			return fmt.Errorf("shelf_types row %d stackable: %w", n, err)
		}
		for i, dst := range []*decimal.Decimal{&spec.Width, &spec.Height, &spec.Depth} {
			if *dst, err = parseDecimal(get(3 + i)); err != nil {
				return fmt.Errorf("shelf_types row %d dimension %d: %w", n, i, err)
			}
		}
		known[spec.Name] = true
		layout.ShelfTypes = append(layout.ShelfTypes, spec)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = forEachDataRow(racks, func(n int, get func(int) string) error {
		spec := RackSpec{Name: get(0), ShelfType: get(1)}
		if spec.Name == "" {
			return nil
		}
		if !known[spec.ShelfType] {
			return fmt.Errorf("racks row %d: unknown shelf type %q", n, spec.ShelfType)
		}
		shelves, err := strconv.Atoi(get(2))
		if err != nil || shelves <= 0 || shelves > 99 {
			return fmt.Errorf("racks row %d: shelves must be between 1 and 99", n)
		}
		spec.Shelves = shelves
		layout.Racks = append(layout.Racks, spec)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(layout.Racks) == 0 {
		return nil, fmt.Errorf("layout workbook defines no racks")
	}
	return layout, nil
}

func forEachDataRow(sheet *xlsx.Sheet, fn func(n int, get func(int) string) error) error {
	n := 0
	return sheet.ForEachRow(func(r *xlsx.Row) error {
		n++
		if n == 1 {
			return nil
		}
		get := func(i int) string {
			c := r.GetCell(i)
			if c == nil {
				return ""
			}
			return strings.TrimSpace(c.String())
		}
		return fn(n, get)
	})
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative value %s", s)
	}
	return d, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "", "1", "true", "yes", "y":
		return true, nil
	case "0", "false", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}
