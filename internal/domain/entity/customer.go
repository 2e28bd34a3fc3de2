package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente de la distribuidora.
// CreditLimit y CreditPolicy alimentan el evaluador de exposición de crédito.
type Customer struct {
	ID           string
	CompanyID    string
	Name         string
	TaxID        string // NIT o Cédula
	Email        string
	Phone        string
	CreditLimit  decimal.Decimal
	CreditPolicy string // strict | soft
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
