package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una captura de peso variable según la política de tolerancia.
const (
	CaptureStatusAccepted   = "ACCEPTED"
	CaptureStatusWarning    = "ACCEPTED_WITH_WARNING"
	CaptureStatusRejected   = "REJECTED"
	CaptureStatusOverridden = "OVERRIDDEN" // rechazada y luego aprobada manualmente
)

// CatchWeightEntry registra el peso esperado vs real de un producto de peso
// variable contra un documento de referencia (recepción, orden, pick list, ajuste).
// Inmutable una vez IsBilled = true; la única mutación posterior a la captura
// es MarkAsBilled (y el override explícito sobre capturas rechazadas).
type CatchWeightEntry struct {
	ID              string
	ProductID       string
	ReferenceType   string // RECEIVING, SALES_ORDER, PICK_LIST, ADJUSTMENT
	ReferenceID     string
	WarehouseID     string
	LotNumber       string
	LocationCode    string
	ExpectedWeight  decimal.Decimal
	ActualWeight    decimal.Decimal
	VarianceWeight  decimal.Decimal // real - esperado
	VariancePercent decimal.Decimal // varianza / esperado * 100
	Unit            string          // kg, lb
	UnitCost        decimal.Decimal // costo por unidad de peso (recepciones)
	Status          string
	Pieces          []CatchWeightPiece
	CapturedBy      string
	CapturedAt      time.Time
	OverriddenBy    string
	OverriddenAt    *time.Time
	IsBilled        bool
	BilledAt        *time.Time
}

// PositionKey devuelve la llave de la posición sobre la que la captura
// publica su efecto en el libro (cuando aplica).
func (e *CatchWeightEntry) PositionKey() PositionKey {
	return PositionKey{
		ProductID:    e.ProductID,
		WarehouseID:  e.WarehouseID,
		LotNumber:    e.LotNumber,
		LocationCode: e.LocationCode,
	}
}

// CatchWeightPiece es el peso individual de una pieza (canal, bloque, caja)
// dentro de una captura. La suma de piezas debe igualar ActualWeight ± epsilon.
type CatchWeightPiece struct {
	ID          string
	EntryID     string
	PieceNumber int
	Weight      decimal.Decimal
	Barcode     string
	Notes       string
}
