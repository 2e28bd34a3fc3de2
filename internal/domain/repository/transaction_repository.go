package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
)

// TransactionRepository define el puerto de persistencia del log append-only de
// transacciones de inventario. Los asientos nunca se actualizan ni se borran.
type TransactionRepository interface {
	Create(tx *entity.InventoryTransaction) error
	GetByID(id string) (*entity.InventoryTransaction, error)
	ListByPosition(key entity.PositionKey, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error)
	ListByReference(referenceType, referenceNumber string) ([]*entity.InventoryTransaction, error)
	// SumByPosition suma las cantidades con signo de todos los asientos de la
	// posición. Debe reproducir QuantityOnHand (propiedad de conciliación).
	SumByPosition(key entity.PositionKey) (decimal.Decimal, error)
}
