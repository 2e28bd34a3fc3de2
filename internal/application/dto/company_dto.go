package dto

import "time"

// CreateCompanyRequest body para crear una empresa.
type CreateCompanyRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	NIT     string `json:"nit" validate:"required,max=20"`
	Address string `json:"address,omitempty"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	NIT       string    `json:"nit"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
