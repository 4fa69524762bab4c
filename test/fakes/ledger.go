// Package fakes provides an in-memory ledger store. Transactions are
// serialized and rolled back on error, which gives tests the same
// all-or-nothing behaviour as the Postgres adapters.
package fakes

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/wms-ledger/internal/core/domain"
	"github.com/ammerola/wms-ledger/internal/core/ports"
)

type placementKey struct {
	packageID uuid.UUID
	shelfID   uuid.UUID
}

type state struct {
	loads        map[uuid.UUID]domain.Load
	packages     map[uuid.UUID]domain.Package
	shelves      map[uuid.UUID]domain.Shelf
	placements   map[placementKey]domain.Placement
	transactions []domain.Transaction
}

func (s state) clone() state {
	out := state{
		loads:        make(map[uuid.UUID]domain.Load, len(s.loads)),
		packages:     make(map[uuid.UUID]domain.Package, len(s.packages)),
		shelves:      make(map[uuid.UUID]domain.Shelf, len(s.shelves)),
		placements:   make(map[placementKey]domain.Placement, len(s.placements)),
		transactions: append([]domain.Transaction(nil), s.transactions...),
	}
	for k, v := range s.loads {
		out.loads[k] = v
	}
	for k, v := range s.packages {
		out.packages[k] = v
	}
	for k, v := range s.shelves {
		out.shelves[k] = v
	}
	for k, v := range s.placements {
		out.placements[k] = v
	}
	return out
}

// Ledger is an in-memory implementation of every store port.
type Ledger struct {
	txMu  sync.Mutex
	mu    sync.RWMutex
	state state
	users map[uuid.UUID]string

	// FailOn, when set, is called before every write with the operation
	// name. A non-nil result fails that write.
	FailOn func(op string) error
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		state: state{
			loads:      map[uuid.UUID]domain.Load{},
			packages:   map[uuid.UUID]domain.Package{},
			shelves:    map[uuid.UUID]domain.Shelf{},
			placements: map[placementKey]domain.Placement{},
		},
		users: map[uuid.UUID]string{},
	}
}

// Transaction runs fn with exclusive access and restores the previous state
// when fn fails.
func (l *Ledger) Transaction(ctx context.Context, fn func(pgx.Tx) error) error {
	l.txMu.Lock()
	defer l.txMu.Unlock()

	l.mu.RLock()
	snapshot := l.state.clone()
	l.mu.RUnlock()

	if err := fn(nil); err != nil {
		l.mu.Lock()
		l.state = snapshot
		l.mu.Unlock()
		return err
	}
	return nil
}

func (l *Ledger) fail(op string) error {
	if l.FailOn == nil {
		return nil
	}
	return l.FailOn(op)
}

// AddUser registers an acting user name.
func (l *Ledger) AddUser(name string) uuid.UUID {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := uuid.New()
	l.users[id] = name
	return id
}

// AddShelf registers a shelf in the named rack.
func (l *Ledger) AddShelf(rackName, position string, st domain.ShelfType) domain.Shelf {
	l.mu.Lock()
	defer l.mu.Unlock()

	rackID := uuid.New()
	for _, s := range l.state.shelves {
		if s.RackName == rackName {
			rackID = s.RackID
			break
		}
	}
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	shelf := domain.Shelf{ID: uuid.New(), RackID: rackID, RackName: rackName, Position: position, Type: st}
	l.state.shelves[shelf.ID] = shelf
	return shelf
}

// QuantityOn returns the stored quantity of a package on a shelf.
func (l *Ledger) QuantityOn(packageID, shelfID uuid.UUID) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.placements[placementKey{packageID, shelfID}].Quantity
}

// PackageByID returns the stored package.
func (l *Ledger) PackageByID(id uuid.UUID) (domain.Package, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.state.packages[id]
	return p, ok
}

// History returns every appended transaction in append order.
func (l *Ledger) History() []domain.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.Transaction(nil), l.state.transactions...)
}

// Conservation reports the conservation state of every package.
func (l *Ledger) Conservation() []domain.Conservation {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Conservation, 0, len(l.state.packages))
	for _, pkg := range l.state.packages {
		out = append(out, l.conservationLocked(pkg))
	}
	return out
}

func (l *Ledger) conservationLocked(pkg domain.Package) domain.Conservation {
	placed := 0
	for k, p := range l.state.placements {
		if k.packageID == pkg.ID {
			placed += p.Quantity
		}
	}
	return domain.Conservation{PackageID: pkg.ID, Original: pkg.OriginalQuantity, Placed: placed, Deducted: pkg.Deducted}
}

// Sequence is a monotonic SequenceGenerator.
type Sequence struct {
	n atomic.Int64
}

// Next returns the next sequence number.
func (s *Sequence) Next() int64 {
	return s.n.Add(1)
}

// Statically assert the views implement their ports.
var (
	_ ports.Transactor            = (*Ledger)(nil)
	_ ports.PlacementStore        = placementView{}
	_ ports.PackageRepository     = packageView{}
	_ ports.ShelfRepository       = shelfView{}
	_ ports.LoadRepository        = loadView{}
	_ ports.TransactionRepository = transactionView{}
	_ ports.SequenceGenerator     = (*Sequence)(nil)
)

// PlacementStore returns the placement view of the ledger.
func (l *Ledger) PlacementStore() ports.PlacementStore { return placementView{l} }

// PackageRepository returns the package view of the ledger.
func (l *Ledger) PackageRepository() ports.PackageRepository { return packageView{l} }

// ShelfRepository returns the shelf view of the ledger.
func (l *Ledger) ShelfRepository() ports.ShelfRepository { return shelfView{l} }

// LoadRepository returns the load view of the ledger.
func (l *Ledger) LoadRepository() ports.LoadRepository { return loadView{l} }

// TransactionRepository returns the history view of the ledger.
func (l *Ledger) TransactionRepository() ports.TransactionRepository { return transactionView{l} }

type placementView struct{ l *Ledger }

func (v placementView) location(p domain.Placement) domain.ProductLocation {
	pkg := v.l.state.packages[p.PackageID]
	shelf := v.l.state.shelves[p.ShelfID]
	return domain.ProductLocation{
		PackageID:              p.PackageID,
		ProductID:              pkg.ProductID,
		ShelfID:                p.ShelfID,
		RackName:               shelf.RackName,
		ShelfPosition:          shelf.Position,
		Quantity:               p.Quantity,
		LoadDocumentNumber:     v.l.state.loads[pkg.LoadID].DocumentNumber,
		LastModifiedByUserName: v.l.users[p.LastModifiedBy],
		UpdatedAt:              p.UpdatedAt,
	}
}

func (v placementView) locations(match func(domain.Package) bool) []domain.ProductLocation {
	v.l.mu.RLock()
	defer v.l.mu.RUnlock()

	out := []domain.ProductLocation{}
	for _, p := range v.l.state.placements {
		if p.Quantity > 0 && match(v.l.state.packages[p.PackageID]) {
			out = append(out, v.location(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.RackName != b.RackName {
			return a.RackName < b.RackName
		}
		if a.ShelfPosition != b.ShelfPosition {
			return a.ShelfPosition < b.ShelfPosition
		}
		return a.PackageID.String() < b.PackageID.String()
	})
	return out
}

func (v placementView) GetPlacementsForProduct(ctx context.Context, productID uuid.UUID) ([]domain.ProductLocation, error) {
	return v.locations(func(p domain.Package) bool { return p.ProductID == productID }), nil
}

func (v placementView) ListPackagePlacements(ctx context.Context, packageID uuid.UUID) ([]domain.ProductLocation, error) {
	return v.locations(func(p domain.Package) bool { return p.ID == packageID }), nil
}

func (v placementView) GetPlacement(ctx context.Context, packageID, shelfID uuid.UUID) (*domain.Placement, error) {
	v.l.mu.RLock()
	defer v.l.mu.RUnlock()
	p, ok := v.l.state.placements[placementKey{packageID, shelfID}]
	if !ok {
		return nil, domain.NewError(domain.CodePlacementNotFound, "package %s is not on shelf %s", packageID, shelfID)
	}
	return &p, nil
}

func (v placementView) GetPlacementForUpdate(ctx context.Context, _ pgx.Tx, packageID, shelfID uuid.UUID) (*domain.Placement, error) {
	return v.GetPlacement(ctx, packageID, shelfID)
}

func (v placementView) ListShelfOccupants(ctx context.Context, _ pgx.Tx, shelfID uuid.UUID) ([]domain.Placement, error) {
	v.l.mu.RLock()
	defer v.l.mu.RUnlock()
	out := []domain.Placement{}
	for k, p := range v.l.state.placements {
		if k.shelfID == shelfID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (v placementView) UpsertPlacement(ctx context.Context, _ pgx.Tx, p *domain.Placement) error {
	if err := v.l.fail("UpsertPlacement"); err != nil {
		return err
	}
	if p.Quantity < 0 {
		return domain.NewError(domain.CodeInsufficientQuantity, "placement quantity cannot be negative")
	}

	v.l.mu.Lock()
	defer v.l.mu.Unlock()

	key := placementKey{p.PackageID, p.ShelfID}
	stored, exists := v.l.state.placements[key]
	if (exists && stored.Version != p.Version) || (!exists && p.Version != 0) {
		return domain.NewError(domain.CodeConcurrentModification, "placement changed since it was read")
	}
	if p.Quantity == 0 {
		delete(v.l.state.placements, key)
		return nil
	}
	p.Version++
	p.UpdatedAt = time.Now()
	v.l.state.placements[key] = *p
	return nil
}

func (v placementView) CreateInitialPlacement(ctx context.Context, _ pgx.Tx, p *domain.Placement) error {
	if err := v.l.fail("CreateInitialPlacement"); err != nil {
		return err
	}

	v.l.mu.Lock()
	defer v.l.mu.Unlock()

	key := placementKey{p.PackageID, p.ShelfID}
	if _, ok := v.l.state.placements[key]; ok {
		return domain.NewError(domain.CodeDuplicatePlacement, "package %s already placed on shelf %s", p.PackageID, p.ShelfID)
	}
	if _, ok := v.l.state.shelves[p.ShelfID]; !ok {
		return domain.NewError(domain.CodeNotFound, "shelf %s not found", p.ShelfID)
	}
	p.Version = 1
	p.UpdatedAt = time.Now()
	v.l.state.placements[key] = *p
	return nil
}

type packageView struct{ l *Ledger }

func (v packageView) Create(ctx context.Context, _ pgx.Tx, pkg *domain.Package) error {
	if err := v.l.fail("CreatePackage"); err != nil {
		return err
	}
	v.l.mu.Lock()
	defer v.l.mu.Unlock()
	pkg.CreatedAt = time.Now()
	v.l.state.packages[pkg.ID] = *pkg
	return nil
}

func (v packageView) FindByID(ctx context.Context, id uuid.UUID) (*domain.Package, error) {
	v.l.mu.RLock()
	defer v.l.mu.RUnlock()
	pkg, ok := v.l.state.packages[id]
	if !ok {
		return nil, domain.NewError(domain.CodeNotFound, "package %s not found", id)
	}
	return &pkg, nil
}

func (v packageView) GetForUpdate(ctx context.Context, _ pgx.Tx, id uuid.UUID) (*domain.Package, error) {
	return v.FindByID(ctx, id)
}

func (v packageView) AddDeducted(ctx context.Context, _ pgx.Tx, id uuid.UUID, quantity int) error {
	if err := v.l.fail("AddDeducted"); err != nil {
		return err
	}
	v.l.mu.Lock()
	defer v.l.mu.Unlock()
	pkg, ok := v.l.state.packages[id]
	if !ok {
		return domain.NewError(domain.CodeNotFound, "package %s not found", id)
	}
	if quantity <= 0 || pkg.Deducted+quantity > pkg.OriginalQuantity {
		return domain.NewError(domain.CodeInsufficientQuantity, "deduction exceeds original quantity")
	}
	pkg.Deducted += quantity
	v.l.state.packages[id] = pkg
	return nil
}

func (v packageView) FindByLoad(ctx context.Context, loadID uuid.UUID) ([]domain.Package, error) {
	v.l.mu.RLock()
	defer v.l.mu.RUnlock()
	out := []domain.Package{}
	for _, p := range v.l.state.packages {
		if p.LoadID == loadID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (v packageView) CheckConservation(ctx context.Context, id uuid.UUID) (*domain.Conservation, error) {
	v.l.mu.RLock()
	defer v.l.mu.RUnlock()
	pkg, ok := v.l.state.packages[id]
	if !ok {
		return nil, domain.NewError(domain.CodeNotFound, "package %s not found", id)
	}
	c := v.l.conservationLocked(pkg)
	return &c, nil
}

func (v packageView) FindConservationViolations(ctx context.Context, limit int) ([]domain.Conservation, error) {
	out := []domain.Conservation{}
	for _, c := range v.l.Conservation() {
		if !c.Balanced() {
			out = append(out, c)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type shelfView struct{ l *Ledger }

func (v shelfView) FindByID(ctx context.Context, id uuid.UUID) (*domain.Shelf, error) {
	v.l.mu.RLock()
	defer v.l.mu.RUnlock()
	s, ok := v.l.state.shelves[id]
	if !ok {
		return nil, domain.NewError(domain.CodeNotFound, "shelf %s not found", id)
	}
	return &s, nil
}

func (v shelfView) GetForUpdate(ctx context.Context, _ pgx.Tx, id uuid.UUID) (*domain.Shelf, error) {
	return v.FindByID(ctx, id)
}

type loadView struct{ l *Ledger }

func (v loadView) Create(ctx context.Context, _ pgx.Tx, load *domain.Load) error {
	if err := v.l.fail("CreateLoad"); err != nil {
		return err
	}
	v.l.mu.Lock()
	defer v.l.mu.Unlock()
	if load.Status == "" {
		load.Status = domain.LoadStatusReceived
	}
	now := time.Now()
	load.CreatedAt, load.UpdatedAt = now, now
	stored := *load
	stored.Packages = nil
	v.l.state.loads[load.ID] = stored
	return nil
}

func (v loadView) FindByID(ctx context.Context, id uuid.UUID) (*domain.Load, error) {
	v.l.mu.RLock()
	defer v.l.mu.RUnlock()
	load, ok := v.l.state.loads[id]
	if !ok {
		return nil, domain.NewError(domain.CodeNotFound, "load %s not found", id)
	}
	return &load, nil
}

func (v loadView) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.LoadStatus) (*domain.Load, error) {
	if err := v.l.fail("UpdateLoadStatus"); err != nil {
		return nil, err
	}
	v.l.mu.Lock()
	defer v.l.mu.Unlock()
	load, ok := v.l.state.loads[id]
	if !ok {
		return nil, domain.NewError(domain.CodeNotFound, "load %s not found", id)
	}
	if load.Status != from {
		return nil, domain.NewError(domain.CodeConcurrentModification, "load status changed concurrently")
	}
	load.Status = to
	load.UpdatedAt = time.Now()
	v.l.state.loads[id] = load
	return &load, nil
}

type transactionView struct{ l *Ledger }

func (v transactionView) Append(ctx context.Context, _ pgx.Tx, t *domain.Transaction) error {
	if err := v.l.fail("AppendTransaction"); err != nil {
		return err
	}
	v.l.mu.Lock()
	defer v.l.mu.Unlock()
	t.CommittedAt = time.Now()
	v.l.state.transactions = append(v.l.state.transactions, *t)
	return nil
}

func (v transactionView) ListByPackage(ctx context.Context, packageID uuid.UUID, limit int) ([]domain.Transaction, error) {
	v.l.mu.RLock()
	defer v.l.mu.RUnlock()
	out := []domain.Transaction{}
	for i := len(v.l.state.transactions) - 1; i >= 0; i-- {
		t := v.l.state.transactions[i]
		if t.PackageID != packageID {
			continue
		}
		out = append(out, t)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (v transactionView) ListJournal(ctx context.Context, from, to time.Time) ([]domain.JournalEntry, error) {
	v.l.mu.RLock()
	defer v.l.mu.RUnlock()
	label := func(id uuid.UUID) string {
		s, ok := v.l.state.shelves[id]
		if !ok {
			return ""
		}
		return s.RackName + "/" + s.Position
	}
	out := []domain.JournalEntry{}
	for _, t := range v.l.state.transactions {
		if t.CommittedAt.Before(from) || !t.CommittedAt.Before(to) {
			continue
		}
		e := domain.JournalEntry{
			Transaction:    t,
			ProductID:      v.l.state.packages[t.PackageID].ProductID,
			SourceLocation: label(t.SourceShelfID),
			ActingUserName: v.l.users[t.ActingUserID],
		}
		if t.DestinationShelfID != nil {
			e.DestinationLabel = label(*t.DestinationShelfID)
		}
		out = append(out, e)
	}
	return out, nil
}
