package entity

import "time"

// Company representa la empresa dueña de los datos (multi-tenant por CompanyID).
type Company struct {
	ID        string
	Name      string
	TaxID     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
