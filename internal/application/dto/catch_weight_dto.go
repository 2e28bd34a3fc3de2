package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CapturePieceRequest peso individual de una pieza dentro de la captura.
type CapturePieceRequest struct {
	Weight  decimal.Decimal `json:"weight"`
	Barcode string          `json:"barcode,omitempty"`
	Notes   string          `json:"notes,omitempty"`
}

// CaptureRequest body para POST /api/catch-weight/captures.
type CaptureRequest struct {
	ProductID      string                `json:"product_id" validate:"required"`
	ReferenceType  string                `json:"reference_type" validate:"required,oneof=RECEIVING SALES_ORDER PICK_LIST ADJUSTMENT"`
	ReferenceID    string                `json:"reference_id" validate:"required"`
	WarehouseID    string                `json:"warehouse_id" validate:"required"`
	LotNumber      string                `json:"lot_number,omitempty"`
	LocationCode   string                `json:"location_code,omitempty"`
	ExpectedWeight decimal.Decimal       `json:"expected_weight"`
	ActualWeight   decimal.Decimal       `json:"actual_weight"`
	UnitCost       decimal.Decimal       `json:"unit_cost,omitempty"`
	ExpiryDate     *time.Time            `json:"expiry_date,omitempty"`
	Pieces         []CapturePieceRequest `json:"pieces,omitempty"`
}

// CapturePieceResponse pieza persistida de una captura.
type CapturePieceResponse struct {
	PieceNumber int             `json:"piece_number"`
	Weight      decimal.Decimal `json:"weight"`
	Barcode     string          `json:"barcode,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// CaptureResponse salida de una captura de peso variable.
type CaptureResponse struct {
	ID              string                 `json:"id"`
	ProductID       string                 `json:"product_id"`
	ReferenceType   string                 `json:"reference_type"`
	ReferenceID     string                 `json:"reference_id"`
	WarehouseID     string                 `json:"warehouse_id"`
	LotNumber       string                 `json:"lot_number,omitempty"`
	LocationCode    string                 `json:"location_code,omitempty"`
	ExpectedWeight  decimal.Decimal        `json:"expected_weight"`
	ActualWeight    decimal.Decimal        `json:"actual_weight"`
	VarianceWeight  decimal.Decimal        `json:"variance_weight"`
	VariancePercent decimal.Decimal        `json:"variance_percent"`
	Unit            string                 `json:"unit"`
	Status          string                 `json:"status"`
	Pieces          []CapturePieceResponse `json:"pieces,omitempty"`
	CapturedBy      string                 `json:"captured_by"`
	CapturedAt      time.Time              `json:"captured_at"`
	OverriddenBy    string                 `json:"overridden_by,omitempty"`
	OverriddenAt    *time.Time             `json:"overridden_at,omitempty"`
	IsBilled        bool                   `json:"is_billed"`
	BilledAt        *time.Time             `json:"billed_at,omitempty"`
}

// CaptureRejectedResponse cuerpo 422 de una captura fuera de tolerancia: la
// captura queda persistida para la ruta de aprobación (override).
type CaptureRejectedResponse struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Capture CaptureResponse `json:"capture"`
}

// BillingAdjustmentResponse delta de facturación por varianza de peso.
type BillingAdjustmentResponse struct {
	EntryID    string          `json:"entry_id"`
	Adjustment decimal.Decimal `json:"adjustment"` // positivo = cargo, negativo = crédito
}
