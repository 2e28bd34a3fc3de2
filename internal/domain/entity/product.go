package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo (multi-bodega).
// Price alimenta el cálculo de ajustes de facturación por peso; la
// configuración de peso variable es de solo lectura para el motor de captura
// (la administra el módulo de productos).
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta por unidad de peso/unidad
	UnitMeasure string

	// Configuración catch weight (peso variable).
	IsCatchWeight        bool
	CatchWeightUnit      string          // kg, lb
	AverageWeight        decimal.Decimal // peso nominal por unidad
	MinWeight            decimal.Decimal
	MaxWeight            decimal.Decimal
	TolerancePercent     decimal.Decimal // varianza máxima aceptable sin aprobación manual
	RequiresPieceWeights bool            // exige desglose pieza a pieza

	CreatedAt time.Time
	UpdatedAt time.Time
}
