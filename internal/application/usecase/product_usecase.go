package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Distribuidora-api/internal/application/dto"
	"github.com/jhoicas/Distribuidora-api/internal/domain"
	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos, incluida la configuración
// de peso variable que consume el motor de captura.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto. Un producto de peso variable exige unidad y
// tolerancia no negativa.
func (uc *ProductUseCase) Create(companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	existing, _ := uc.repo.GetBySKU(companyID, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.IsCatchWeight {
		if in.CatchWeightUnit == "" || in.TolerancePercent.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		UnitMeasure: in.UnitMeasure,

		IsCatchWeight:        in.IsCatchWeight,
		CatchWeightUnit:      in.CatchWeightUnit,
		AverageWeight:        in.AverageWeight,
		MinWeight:            in.MinWeight,
		MaxWeight:            in.MaxWeight,
		TolerancePercent:     in.TolerancePercent,
		RequiresPieceWeights: in.RequiresPieceWeights,

		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID; nil si no existe.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update actualiza los campos presentes; nil si el producto no existe. El SKU y
// el carácter de peso variable no cambian después de creado.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.UnitMeasure != nil {
		product.UnitMeasure = *in.UnitMeasure
	}
	if in.TolerancePercent != nil {
		if in.TolerancePercent.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.TolerancePercent = *in.TolerancePercent
	}
	if in.RequiresPieceWeights != nil {
		product.RequiresPieceWeights = *in.RequiresPieceWeights
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos por empresa con paginación.
func (uc *ProductUseCase) List(companyID string, limit, offset int) ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		UnitMeasure: p.UnitMeasure,

		IsCatchWeight:        p.IsCatchWeight,
		CatchWeightUnit:      p.CatchWeightUnit,
		AverageWeight:        p.AverageWeight,
		MinWeight:            p.MinWeight,
		MaxWeight:            p.MaxWeight,
		TolerancePercent:     p.TolerancePercent,
		RequiresPieceWeights: p.RequiresPieceWeights,

		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
