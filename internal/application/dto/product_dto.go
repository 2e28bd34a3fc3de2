package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para crear un producto (config peso variable opcional).
type CreateProductRequest struct {
	SKU         string          `json:"sku" validate:"required,max=50"`
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	UnitMeasure string          `json:"unit_measure,omitempty"`

	IsCatchWeight        bool            `json:"is_catch_weight,omitempty"`
	CatchWeightUnit      string          `json:"catch_weight_unit,omitempty"`
	AverageWeight        decimal.Decimal `json:"average_weight,omitempty"`
	MinWeight            decimal.Decimal `json:"min_weight,omitempty"`
	MaxWeight            decimal.Decimal `json:"max_weight,omitempty"`
	TolerancePercent     decimal.Decimal `json:"tolerance_percent,omitempty"`
	RequiresPieceWeights bool            `json:"requires_piece_weights,omitempty"`
}

// UpdateProductRequest entrada para actualizar un producto (el SKU es inmutable).
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	UnitMeasure *string          `json:"unit_measure"`

	TolerancePercent     *decimal.Decimal `json:"tolerance_percent"`
	RequiresPieceWeights *bool            `json:"requires_piece_weights"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	UnitMeasure string          `json:"unit_measure,omitempty"`

	IsCatchWeight        bool            `json:"is_catch_weight"`
	CatchWeightUnit      string          `json:"catch_weight_unit,omitempty"`
	AverageWeight        decimal.Decimal `json:"average_weight,omitempty"`
	MinWeight            decimal.Decimal `json:"min_weight,omitempty"`
	MaxWeight            decimal.Decimal `json:"max_weight,omitempty"`
	TolerancePercent     decimal.Decimal `json:"tolerance_percent,omitempty"`
	RequiresPieceWeights bool            `json:"requires_piece_weights"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
