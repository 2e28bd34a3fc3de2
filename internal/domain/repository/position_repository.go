package repository

import "github.com/jhoicas/Distribuidora-api/internal/domain/entity"

// PositionRepository define el puerto para consultar/actualizar posiciones de
// inventario (producto+bodega+lote+ubicación). Usado dentro de transacciones
// para garantizar consistencia.
type PositionRepository interface {
	// Get obtiene la posición; devuelve una posición en cero si no existe aún.
	Get(key entity.PositionKey) (*entity.InventoryPosition, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(key entity.PositionKey) (*entity.InventoryPosition, error)
	Upsert(position *entity.InventoryPosition) error
	// ListByProductAndWarehouse devuelve las posiciones (lotes/ubicaciones) de un
	// producto en una bodega; warehouseID vacío = todas las bodegas. Insumo del plan FEFO.
	ListByProductAndWarehouse(productID, warehouseID string) ([]*entity.InventoryPosition, error)
	// ListByWarehouse lista posiciones de una bodega con paginación.
	ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.InventoryPosition, error)
}
