package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción del libro de inventario.
const (
	TxTypeReceive     = "RECEIVE"
	TxTypeShip        = "SHIP"
	TxTypeAdjustIn    = "ADJUST_IN"
	TxTypeAdjustOut   = "ADJUST_OUT"
	TxTypeTransferIn  = "TRANSFER_IN"
	TxTypeTransferOut = "TRANSFER_OUT"
	TxTypeReturn      = "RETURN"
)

// Tipos de documento de referencia.
const (
	RefTypeReceiving   = "RECEIVING"
	RefTypeSalesOrder  = "SALES_ORDER"
	RefTypePickList    = "PICK_LIST"
	RefTypeAdjustment  = "ADJUSTMENT"
	RefTypeTransfer    = "TRANSFER"
	RefTypeCatchWeight = "CATCH_WEIGHT"
)

// InventoryTransaction es un asiento inmutable del libro de inventario (append-only).
// Las correcciones se registran como nuevas transacciones compensatorias, nunca
// se actualiza ni borra un asiento. Para cualquier posición, la suma de Quantity
// de sus asientos reproduce exactamente QuantityOnHand (propiedad de conciliación).
type InventoryTransaction struct {
	ID              string
	TransferID      string // agrupa las dos patas de un traslado (mismo UUID)
	ProductID       string
	WarehouseID     string
	LotNumber       string
	LocationCode    string
	Type            string
	Quantity        decimal.Decimal // con signo: positivo entra, negativo sale
	UnitCost        decimal.Decimal
	TotalCost       decimal.Decimal
	ReferenceType   string
	ReferenceNumber string
	Notes           string
	CreatedBy       string // UserID (actor)
	CreatedAt       time.Time
}

// PositionKey devuelve la llave de la posición afectada por el asiento.
func (t *InventoryTransaction) PositionKey() PositionKey {
	return PositionKey{
		ProductID:    t.ProductID,
		WarehouseID:  t.WarehouseID,
		LotNumber:    t.LotNumber,
		LocationCode: t.LocationCode,
	}
}
