package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación del log append-only de transacciones de
// inventario sobre PostgreSQL. Solo INSERT y SELECT: los asientos nunca se
// actualizan ni se borran.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador del log. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

const transactionColumns = `id, transfer_id, product_id, warehouse_id, lot_number, location_code,
		type, quantity, unit_cost, total_cost,
		reference_type, reference_number, notes, created_by, created_at`

// Create inserta un asiento en el log.
func (r *TransactionRepo) Create(tx *entity.InventoryTransaction) error {
	query := `
		INSERT INTO inventory_transactions (id, transfer_id, product_id, warehouse_id, lot_number, location_code,
			type, quantity, unit_cost, total_cost,
			reference_type, reference_number, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		tx.ID, nullIfEmpty(tx.TransferID), tx.ProductID, tx.WarehouseID, tx.LotNumber, tx.LocationCode,
		tx.Type, tx.Quantity, tx.UnitCost, tx.TotalCost,
		tx.ReferenceType, tx.ReferenceNumber, tx.Notes, tx.CreatedBy, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory transaction: %w", err)
	}
	return nil
}

// GetByID obtiene un asiento por ID.
func (r *TransactionRepo) GetByID(id string) (*entity.InventoryTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM inventory_transactions WHERE id = $1`
	tx, err := scanTransaction(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

// ListByPosition lista los asientos de una posición, más recientes primero,
// con filtro opcional de fechas y paginación.
func (r *TransactionRepo) ListByPosition(key entity.PositionKey, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM inventory_transactions
		WHERE product_id = $1 AND warehouse_id = $2 AND lot_number = $3 AND location_code = $4
			AND ($5::timestamptz IS NULL OR created_at >= $5)
			AND ($6::timestamptz IS NULL OR created_at <= $6)
		ORDER BY created_at DESC
		LIMIT $7 OFFSET $8`
	rows, err := r.q.Query(context.Background(), query,
		key.ProductID, key.WarehouseID, key.LotNumber, key.LocationCode, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions by position: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// ListByReference lista los asientos generados por un documento de referencia.
func (r *TransactionRepo) ListByReference(referenceType, referenceNumber string) ([]*entity.InventoryTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM inventory_transactions
		WHERE reference_type = $1 AND reference_number = $2
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, referenceType, referenceNumber)
	if err != nil {
		return nil, fmt.Errorf("list transactions by reference: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// SumByPosition suma las cantidades con signo de los asientos de la posición
// (propiedad de conciliación: debe reproducir quantity_on_hand).
func (r *TransactionRepo) SumByPosition(key entity.PositionKey) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM inventory_transactions
		WHERE product_id = $1 AND warehouse_id = $2 AND lot_number = $3 AND location_code = $4`
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(), query,
		key.ProductID, key.WarehouseID, key.LotNumber, key.LocationCode).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum transactions: %w", err)
	}
	return sum, nil
}

func scanTransaction(row pgx.Row) (*entity.InventoryTransaction, error) {
	var tx entity.InventoryTransaction
	var transferID *string
	err := row.Scan(
		&tx.ID, &transferID, &tx.ProductID, &tx.WarehouseID, &tx.LotNumber, &tx.LocationCode,
		&tx.Type, &tx.Quantity, &tx.UnitCost, &tx.TotalCost,
		&tx.ReferenceType, &tx.ReferenceNumber, &tx.Notes, &tx.CreatedBy, &tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if transferID != nil {
		tx.TransferID = *transferID
	}
	return &tx, nil
}

func collectTransactions(rows pgx.Rows) ([]*entity.InventoryTransaction, error) {
	var list []*entity.InventoryTransaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, tx)
	}
	return list, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
