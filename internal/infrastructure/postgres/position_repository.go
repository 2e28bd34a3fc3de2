package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
)

var _ repository.PositionRepository = (*PositionRepo)(nil)

// PositionRepo implementación de PositionRepository sobre PostgreSQL (usable con pool o tx).
type PositionRepo struct {
	q Querier
}

// NewPositionRepository construye el adaptador de posiciones. Pasar pool o tx (Querier).
func NewPositionRepository(q Querier) *PositionRepo {
	return &PositionRepo{q: q}
}

const positionColumns = `product_id, warehouse_id, lot_number, location_code,
		quantity_on_hand, quantity_allocated, quantity_on_order,
		average_cost, last_cost, production_date, expiry_date, updated_at`

func scanPosition(row pgx.Row) (*entity.InventoryPosition, error) {
	var p entity.InventoryPosition
	err := row.Scan(
		&p.Key.ProductID, &p.Key.WarehouseID, &p.Key.LotNumber, &p.Key.LocationCode,
		&p.QuantityOnHand, &p.QuantityAllocated, &p.QuantityOnOrder,
		&p.AverageCost, &p.LastCost, &p.ProductionDate, &p.ExpiryDate, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Get obtiene la posición; devuelve una posición en cero si aún no existe
// (la fila se crea en la primera recepción).
func (r *PositionRepo) Get(key entity.PositionKey) (*entity.InventoryPosition, error) {
	query := `
		SELECT ` + positionColumns + `
		FROM inventory_positions
		WHERE product_id = $1 AND warehouse_id = $2 AND lot_number = $3 AND location_code = $4`
	p, err := scanPosition(r.q.QueryRow(context.Background(), query,
		key.ProductID, key.WarehouseID, key.LotNumber, key.LocationCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.InventoryPosition{Key: key}, nil
		}
		return nil, fmt.Errorf("get position: %w", err)
	}
	return p, nil
}

// GetForUpdate obtiene la posición y bloquea la fila (SELECT FOR UPDATE).
// Si la fila no existe todavía devuelve una posición en cero; el Upsert
// posterior la crea dentro de la misma transacción.
func (r *PositionRepo) GetForUpdate(key entity.PositionKey) (*entity.InventoryPosition, error) {
	query := `
		SELECT ` + positionColumns + `
		FROM inventory_positions
		WHERE product_id = $1 AND warehouse_id = $2 AND lot_number = $3 AND location_code = $4
		FOR UPDATE`
	p, err := scanPosition(r.q.QueryRow(context.Background(), query,
		key.ProductID, key.WarehouseID, key.LotNumber, key.LocationCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.InventoryPosition{Key: key}, nil
		}
		return nil, fmt.Errorf("get position for update: %w", err)
	}
	return p, nil
}

// Upsert inserta o actualiza la posición (PK compuesta producto+bodega+lote+ubicación).
func (r *PositionRepo) Upsert(position *entity.InventoryPosition) error {
	query := `
		INSERT INTO inventory_positions (product_id, warehouse_id, lot_number, location_code,
			quantity_on_hand, quantity_allocated, quantity_on_order,
			average_cost, last_cost, production_date, expiry_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
		ON CONFLICT (product_id, warehouse_id, lot_number, location_code)
		DO UPDATE SET
			quantity_on_hand = EXCLUDED.quantity_on_hand,
			quantity_allocated = EXCLUDED.quantity_allocated,
			quantity_on_order = EXCLUDED.quantity_on_order,
			average_cost = EXCLUDED.average_cost,
			last_cost = EXCLUDED.last_cost,
			production_date = EXCLUDED.production_date,
			expiry_date = EXCLUDED.expiry_date,
			updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		position.Key.ProductID, position.Key.WarehouseID, position.Key.LotNumber, position.Key.LocationCode,
		position.QuantityOnHand, position.QuantityAllocated, position.QuantityOnOrder,
		position.AverageCost, position.LastCost, position.ProductionDate, position.ExpiryDate,
	)
	if err != nil {
		return fmt.Errorf("upsert position: %w", err)
	}
	return nil
}

// ListByProductAndWarehouse devuelve las posiciones de un producto;
// warehouseID vacío = todas las bodegas. Insumo del plan de picking FEFO.
func (r *PositionRepo) ListByProductAndWarehouse(productID, warehouseID string) ([]*entity.InventoryPosition, error) {
	query := `
		SELECT ` + positionColumns + `
		FROM inventory_positions
		WHERE product_id = $1 AND ($2 = '' OR warehouse_id = $2)
		ORDER BY expiry_date NULLS LAST, lot_number`
	rows, err := r.q.Query(context.Background(), query, productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list positions by product: %w", err)
	}
	defer rows.Close()
	return collectPositions(rows)
}

// ListByWarehouse lista posiciones de una bodega con paginación.
func (r *PositionRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.InventoryPosition, error) {
	query := `
		SELECT ` + positionColumns + `
		FROM inventory_positions
		WHERE warehouse_id = $1
		ORDER BY product_id, lot_number, location_code
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list positions by warehouse: %w", err)
	}
	defer rows.Close()
	return collectPositions(rows)
}

func collectPositions(rows pgx.Rows) ([]*entity.InventoryPosition, error) {
	var list []*entity.InventoryPosition
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
