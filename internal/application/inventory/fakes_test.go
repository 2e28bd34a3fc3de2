package inventory_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos de persistencia. El fakeTxRunner toma un
// snapshot del estado antes de ejecutar el callback y lo restaura si falla,
// imitando el Commit/Rollback de la transacción SQL real.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	mu        sync.Mutex
	positions map[string]*entity.InventoryPosition
	txns      []*entity.InventoryTransaction
}

func newFakeStore() *fakeStore {
	return &fakeStore{positions: make(map[string]*entity.InventoryPosition)}
}

func copyPosition(p *entity.InventoryPosition) *entity.InventoryPosition {
	cp := *p
	return &cp
}

func (s *fakeStore) snapshot() (map[string]*entity.InventoryPosition, []*entity.InventoryTransaction) {
	positions := make(map[string]*entity.InventoryPosition, len(s.positions))
	for k, v := range s.positions {
		positions[k] = copyPosition(v)
	}
	txns := make([]*entity.InventoryTransaction, len(s.txns))
	copy(txns, s.txns)
	return positions, txns
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

type fakeTxnRepo struct {
	store *fakeStore
	// failOnType permite inyectar un fallo al crear un asiento de cierto tipo
	// (prueba de atomicidad de traslados).
	failOnType string
	failErr    error
}

var _ repository.TransactionRepository = (*fakeTxnRepo)(nil)

func (r *fakeTxnRepo) Create(tx *entity.InventoryTransaction) error {
	if r.failOnType != "" && tx.Type == r.failOnType {
		return r.failErr
	}
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

type fakeTxRunner struct {
	store   *fakeStore
	posRepo *fakePositionRepo
	txnRepo *fakeTxnRepo
}

func newFakeTxRunner() *fakeTxRunner {
	store := newFakeStore()
	return &fakeTxRunner{
		store:   store,
		posRepo: &fakePositionRepo{store: store},
		txnRepo: &fakeTxnRepo{store: store},
	}
}

// Run imita la transacción SQL: snapshot antes, restore si el callback falla.
func (f *fakeTxRunner) Run(ctx context.Context, fn func(
	posRepo repository.PositionRepository,
	txnRepo repository.TransactionRepository,
) error) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	positions, txns := f.store.snapshot()
	if err := fn(f.posRepo, f.txnRepo); err != nil {
		f.store.positions = positions
		f.store.txns = txns
		return err
	}
	return nil
}
