package catchweight_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos del motor de captura. El runner toma snapshot
// antes del callback y restaura si falla, igual que la transacción SQL real.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	mu        sync.Mutex
	positions map[string]*entity.InventoryPosition
	txns      []*entity.InventoryTransaction
	entries   map[string]*entity.CatchWeightEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		positions: make(map[string]*entity.InventoryPosition),
		entries:   make(map[string]*entity.CatchWeightEntry),
	}
}

func copyPosition(p *entity.InventoryPosition) *entity.InventoryPosition {
	cp := *p
	return &cp
}

func copyEntry(e *entity.CatchWeightEntry) *entity.CatchWeightEntry {
	cp := *e
	cp.Pieces = append([]entity.CatchWeightPiece(nil), e.Pieces...)
	return &cp
}

func (s *fakeStore) snapshot() (map[string]*entity.InventoryPosition, []*entity.InventoryTransaction, map[string]*entity.CatchWeightEntry) {
	positions := make(map[string]*entity.InventoryPosition, len(s.positions))
	for k, v := range s.positions {
		positions[k] = copyPosition(v)
	}
	txns := make([]*entity.InventoryTransaction, len(s.txns))
	copy(txns, s.txns)
	entries := make(map[string]*entity.CatchWeightEntry, len(s.entries))
	for k, v := range s.entries {
		entries[k] = copyEntry(v)
	}
	return positions, txns, entries
}

type fakePositionRepo struct{ store *fakeStore }

var _ repository.PositionRepository = (*fakePositionRepo)(nil)

func (r *fakePositionRepo) Get(key entity.PositionKey) (*entity.InventoryPosition, error) {
	if p, ok := r.store.positions[key.String()]; ok {
		return copyPosition(p), nil
	}
	return &entity.InventoryPosition{Key: key}, nil
}

func (r *fakePositionRepo) GetForUpdate(key entity.PositionKey) (*entity.InventoryPosition, error) {
	return r.Get(key)
}

func (r *fakePositionRepo) Upsert(position *entity.InventoryPosition) error {
	r.store.positions[position.Key.String()] = copyPosition(position)
	return nil
}

func (r *fakePositionRepo) ListByProductAndWarehouse(productID, warehouseID string) ([]*entity.InventoryPosition, error) {
	var out []*entity.InventoryPosition
	for _, p := range r.store.positions {
		if p.Key.ProductID == productID && (warehouseID == "" || p.Key.WarehouseID == warehouseID) {
			out = append(out, copyPosition(p))
		}
	}
	return out, nil
}

func (r *fakePositionRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.InventoryPosition, error) {
	var out []*entity.InventoryPosition
	for _, p := range r.store.positions {
		if p.Key.WarehouseID == warehouseID {
			out = append(out, copyPosition(p))
		}
	}
	return out, nil
}

type fakeTxnRepo struct{ store *fakeStore }

var _ repository.TransactionRepository = (*fakeTxnRepo)(nil)

func (r *fakeTxnRepo) Create(tx *entity.InventoryTransaction) error {
	r.store.txns = append(r.store.txns, tx)
	return nil
}

func (r *fakeTxnRepo) GetByID(id string) (*entity.InventoryTransaction, error) {
	for _, tx := range r.store.txns {
		if tx.ID == id {
			return tx, nil
		}
	}
	return nil, nil
}

func (r *fakeTxnRepo) ListByPosition(key entity.PositionKey, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error) {
	var out []*entity.InventoryTransaction
	for _, tx := range r.store.txns {
		if tx.PositionKey() == key {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *fakeTxnRepo) ListByReference(referenceType, referenceNumber string) ([]*entity.InventoryTransaction, error) {
	var out []*entity.InventoryTransaction
	for _, tx := range r.store.txns {
		if tx.ReferenceType == referenceType && tx.ReferenceNumber == referenceNumber {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *fakeTxnRepo) SumByPosition(key entity.PositionKey) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, tx := range r.store.txns {
		if tx.PositionKey() == key {
			sum = sum.Add(tx.Quantity)
		}
	}
	return sum, nil
}

type fakeCatchWeightRepo struct {
	store *fakeStore
	// failOnCreate inyecta un fallo al persistir la captura (prueba de atomicidad).
	failOnCreate error
}

var _ repository.CatchWeightRepository = (*fakeCatchWeightRepo)(nil)

func (r *fakeCatchWeightRepo) Create(entry *entity.CatchWeightEntry) error {
	if r.failOnCreate != nil {
		return r.failOnCreate
	}
	r.store.entries[entry.ID] = copyEntry(entry)
	return nil
}

func (r *fakeCatchWeightRepo) GetByID(id string) (*entity.CatchWeightEntry, error) {
	if e, ok := r.store.entries[id]; ok {
		return copyEntry(e), nil
	}
	return nil, nil
}

func (r *fakeCatchWeightRepo) ListByReference(productID, referenceType, referenceID string) ([]*entity.CatchWeightEntry, error) {
	var out []*entity.CatchWeightEntry
	for _, e := range r.store.entries {
		if e.ProductID == productID && e.ReferenceType == referenceType && e.ReferenceID == referenceID {
			out = append(out, copyEntry(e))
		}
	}
	return out, nil
}

func (r *fakeCatchWeightRepo) UpdateStatus(id, status, overriddenBy string, at time.Time) error {
	e := r.store.entries[id]
	e.Status = status
	e.OverriddenBy = overriddenBy
	e.OverriddenAt = &at
	return nil
}

func (r *fakeCatchWeightRepo) MarkBilled(id string, at time.Time) (bool, error) {
	e := r.store.entries[id]
	if e.IsBilled {
		return false, nil
	}
	e.IsBilled = true
	e.BilledAt = &at
	return true, nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

func (r *fakeProductRepo) Create(product *entity.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.products[id], nil
}

func (r *fakeProductRepo) GetBySKU(companyID, sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.CompanyID == companyID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Update(product *entity.Product) error {
	r.products[product.ID] = product
	return nil
}

type fakeCaptureRunner struct {
	store   *fakeStore
	posRepo *fakePositionRepo
	txnRepo *fakeTxnRepo
	cwRepo  *fakeCatchWeightRepo
}

func newFakeCaptureRunner() *fakeCaptureRunner {
	store := newFakeStore()
	return &fakeCaptureRunner{
		store:   store,
		posRepo: &fakePositionRepo{store: store},
		txnRepo: &fakeTxnRepo{store: store},
		cwRepo:  &fakeCatchWeightRepo{store: store},
	}
}

// Run permite sembrar posiciones usando el ledger real sobre el mismo store.
func (f *fakeCaptureRunner) Run(ctx context.Context, fn func(
	posRepo repository.PositionRepository,
	txnRepo repository.TransactionRepository,
) error) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	positions, txns, entries := f.store.snapshot()
	if err := fn(f.posRepo, f.txnRepo); err != nil {
		f.store.positions = positions
		f.store.txns = txns
		f.store.entries = entries
		return err
	}
	return nil
}

func (f *fakeCaptureRunner) RunCapture(ctx context.Context, fn func(
	posRepo repository.PositionRepository,
	txnRepo repository.TransactionRepository,
	cwRepo repository.CatchWeightRepository,
) error) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	positions, txns, entries := f.store.snapshot()
	if err := fn(f.posRepo, f.txnRepo, f.cwRepo); err != nil {
		f.store.positions = positions
		f.store.txns = txns
		f.store.entries = entries
		return err
	}
	return nil
}
