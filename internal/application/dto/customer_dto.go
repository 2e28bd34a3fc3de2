package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest body para crear un cliente (cupo y política de crédito).
type CreateCustomerRequest struct {
	Name         string          `json:"name" validate:"required,max=200"`
	TaxID        string          `json:"tax_id" validate:"required,max=20"`
	Email        string          `json:"email,omitempty" validate:"omitempty,email"`
	Phone        string          `json:"phone,omitempty"`
	CreditLimit  decimal.Decimal `json:"credit_limit,omitempty"`
	CreditPolicy string          `json:"credit_policy,omitempty" validate:"omitempty,oneof=strict soft"`
}

// UpdateCustomerRequest entrada para actualizar un cliente (el NIT es inmutable).
type UpdateCustomerRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Email        *string          `json:"email" validate:"omitempty,email"`
	Phone        *string          `json:"phone"`
	CreditLimit  *decimal.Decimal `json:"credit_limit"`
	CreditPolicy *string          `json:"credit_policy" validate:"omitempty,oneof=strict soft"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID           string          `json:"id"`
	CompanyID    string          `json:"company_id"`
	Name         string          `json:"name"`
	TaxID        string          `json:"tax_id"`
	Email        string          `json:"email,omitempty"`
	Phone        string          `json:"phone,omitempty"`
	CreditLimit  decimal.Decimal `json:"credit_limit"`
	CreditPolicy string          `json:"credit_policy,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
