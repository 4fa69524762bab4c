package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShelfType carries the physical limits shared by every shelf of a rack.
// A zero dimension is unbounded.
type ShelfType struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	MaxWeight decimal.Decimal `json:"max_weight"`
	Stackable bool            `json:"stackable"`
	Width     decimal.Decimal `json:"width"`
	Height    decimal.Decimal `json:"height"`
	Depth     decimal.Decimal `json:"depth"`
}

// Rack is a named column of shelves.
type Rack struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ShelfTypeID uuid.UUID `json:"shelf_type_id"`
}

// Shelf is a position inside a rack.
type Shelf struct {
	ID       uuid.UUID `json:"id"`
	RackID   uuid.UUID `json:"rack_id"`
	RackName string    `json:"rack_name"`
	Position string    `json:"position"`
	Type     ShelfType `json:"type"`
}

// Placement is the quantity of one package on one shelf. Rows with zero
// quantity are never persisted. Version is 0 for a placement that does not
// exist yet.
type Placement struct {
	PackageID      uuid.UUID `json:"package_id"`
	ShelfID        uuid.UUID `json:"shelf_id"`
	Quantity       int       `json:"quantity"`
	Version        int64     `json:"version"`
	LastModifiedBy uuid.UUID `json:"last_modified_by"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Exists reports whether the placement has a stored row.
func (p Placement) Exists() bool {
	return p.Version > 0
}

// ProductLocation is the read projection of a placement joined with its
// rack, shelf, load and last modifier.
type ProductLocation struct {
	PackageID              uuid.UUID `json:"package_id"`
	ProductID              uuid.UUID `json:"product_id"`
	ShelfID                uuid.UUID `json:"shelf_id"`
	RackName               string    `json:"rack_name"`
	ShelfPosition          string    `json:"shelf_position"`
	Quantity               int       `json:"quantity"`
	LoadDocumentNumber     string    `json:"load_document_number"`
	LastModifiedByUserName string    `json:"last_modified_by"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// User is an acting identity supplied by the upstream auth provider.
type User struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
