package repository

import "github.com/jhoicas/Distribuidora-api/internal/domain/entity"

// CustomerRepository define el puerto de persistencia para Customer
// (incluye cupo y política de crédito).
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	GetByCompanyAndTaxID(companyID, taxID string) (*entity.Customer, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error)
	Update(customer *entity.Customer) error
}
