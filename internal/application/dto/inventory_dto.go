package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiveRequest body para POST /api/inventory/receive.
type ReceiveRequest struct {
	ProductID       string           `json:"product_id" validate:"required"`
	WarehouseID     string           `json:"warehouse_id" validate:"required"`
	LotNumber       string           `json:"lot_number,omitempty"`
	LocationCode    string           `json:"location_code,omitempty"`
	Quantity        decimal.Decimal  `json:"quantity"`
	UnitCost        decimal.Decimal  `json:"unit_cost"`
	ProductionDate  *time.Time       `json:"production_date,omitempty"`
	ExpiryDate      *time.Time       `json:"expiry_date,omitempty"`
	ReferenceType   string           `json:"reference_type,omitempty"`
	ReferenceNumber string           `json:"reference_number,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

// AllocateRequest body para POST /api/inventory/allocate y /release.
type AllocateRequest struct {
	ProductID    string          `json:"product_id" validate:"required"`
	WarehouseID  string          `json:"warehouse_id" validate:"required"`
	LotNumber    string          `json:"lot_number,omitempty"`
	LocationCode string          `json:"location_code,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// ShipRequest body para POST /api/inventory/ship.
type ShipRequest struct {
	ProductID       string          `json:"product_id" validate:"required"`
	WarehouseID     string          `json:"warehouse_id" validate:"required"`
	LotNumber       string          `json:"lot_number,omitempty"`
	LocationCode    string          `json:"location_code,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	ReferenceType   string          `json:"reference_type,omitempty"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// AdjustRequest body para POST /api/inventory/adjust (cantidad con signo).
type AdjustRequest struct {
	ProductID       string           `json:"product_id" validate:"required"`
	WarehouseID     string           `json:"warehouse_id" validate:"required"`
	LotNumber       string           `json:"lot_number,omitempty"`
	LocationCode    string           `json:"location_code,omitempty"`
	Quantity        decimal.Decimal  `json:"quantity"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason          string           `json:"reason,omitempty"`
	ReferenceType   string           `json:"reference_type,omitempty"` // vacío = ADJUSTMENT
	ReferenceNumber string           `json:"reference_number,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

// TransferRequest body para POST /api/inventory/transfers.
type TransferRequest struct {
	ProductID       string          `json:"product_id" validate:"required"`
	FromWarehouseID string          `json:"from_warehouse_id" validate:"required"`
	ToWarehouseID   string          `json:"to_warehouse_id" validate:"required"`
	LotNumber       string          `json:"lot_number,omitempty"`
	FromLocation    string          `json:"from_location,omitempty"`
	ToLocation      string          `json:"to_location,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// PositionResponse salida de una posición de inventario.
type PositionResponse struct {
	ProductID         string          `json:"product_id"`
	WarehouseID       string          `json:"warehouse_id"`
	LotNumber         string          `json:"lot_number"`
	LocationCode      string          `json:"location_code"`
	QuantityOnHand    decimal.Decimal `json:"quantity_on_hand"`
	QuantityAllocated decimal.Decimal `json:"quantity_allocated"`
	QuantityAvailable decimal.Decimal `json:"quantity_available"`
	AverageCost       decimal.Decimal `json:"average_cost"`
	LastCost          decimal.Decimal `json:"last_cost"`
	ProductionDate    *time.Time      `json:"production_date,omitempty"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// TransferResponse salida de un traslado: las dos posiciones resultantes.
type TransferResponse struct {
	TransferID string           `json:"transfer_id"`
	Source     PositionResponse `json:"source"`
	Dest       PositionResponse `json:"dest"`
}

// TransactionResponse asiento del log de inventario.
type TransactionResponse struct {
	ID              string          `json:"id"`
	TransferID      string          `json:"transfer_id,omitempty"`
	Type            string          `json:"type"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	ReferenceType   string          `json:"reference_type,omitempty"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedBy       string          `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
}

// PickPlanLine línea del plan de picking FEFO.
type PickPlanLine struct {
	WarehouseID  string          `json:"warehouse_id"`
	LotNumber    string          `json:"lot_number"`
	LocationCode string          `json:"location_code"`
	Quantity     decimal.Decimal `json:"quantity"`
	ExpiryDate   *time.Time      `json:"expiry_date,omitempty"`
}

// ExpiryAlertResponse posición con existencia próxima a vencer (o vencida).
type ExpiryAlertResponse struct {
	ProductID    string          `json:"product_id"`
	WarehouseID  string          `json:"warehouse_id"`
	LotNumber    string          `json:"lot_number"`
	LocationCode string          `json:"location_code"`
	Quantity     decimal.Decimal `json:"quantity"`
	ExpiryDate   time.Time       `json:"expiry_date"`
	DaysToExpiry int             `json:"days_to_expiry"`
}

// ReconcileResponse resultado de la conciliación posición vs log.
type ReconcileResponse struct {
	ProductID    string          `json:"product_id"`
	WarehouseID  string          `json:"warehouse_id"`
	LotNumber    string          `json:"lot_number"`
	LocationCode string          `json:"location_code"`
	OnHand       decimal.Decimal `json:"on_hand"`
	LedgerSum    decimal.Decimal `json:"ledger_sum"`
	Difference   decimal.Decimal `json:"difference"`
	InBalance    bool            `json:"in_balance"`
}
