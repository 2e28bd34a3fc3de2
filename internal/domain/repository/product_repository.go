package repository

import "github.com/jhoicas/Distribuidora-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para productos
// (catálogo + configuración de peso variable).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(companyID, sku string) (*entity.Product, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error)
	Update(product *entity.Product) error
}
