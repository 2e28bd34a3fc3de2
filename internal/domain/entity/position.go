package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PositionKey identifica una posición de inventario:
// producto + bodega + lote + ubicación física dentro de la bodega.
type PositionKey struct {
	ProductID    string
	WarehouseID  string
	LotNumber    string
	LocationCode string
}

// String devuelve la llave canónica. Se usa también como orden global
// de bloqueo en traslados (orden lexicográfico, evita deadlocks).
func (k PositionKey) String() string {
	return fmt.Sprintf("%s|%s|%s|%s", k.ProductID, k.WarehouseID, k.LotNumber, k.LocationCode)
}

// InventoryPosition representa la existencia de un producto por bodega, lote y ubicación.
// Se crea en la primera recepción; nunca se borra, solo se lleva a cero.
// Invariantes: QuantityOnHand >= 0, QuantityAllocated >= 0, QuantityAllocated <= QuantityOnHand.
type InventoryPosition struct {
	Key               PositionKey
	QuantityOnHand    decimal.Decimal
	QuantityAllocated decimal.Decimal
	QuantityOnOrder   decimal.Decimal
	AverageCost       decimal.Decimal // costo promedio ponderado
	LastCost          decimal.Decimal // último costo de recepción
	ProductionDate    *time.Time
	ExpiryDate        *time.Time
	UpdatedAt         time.Time
}

// Available devuelve la cantidad disponible para reservar: en mano menos reservado.
func (p *InventoryPosition) Available() decimal.Decimal {
	return p.QuantityOnHand.Sub(p.QuantityAllocated)
}
