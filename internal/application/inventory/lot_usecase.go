package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	domaininv "github.com/jhoicas/Distribuidora-api/internal/domain/inventory"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
)

// LotUseCase expone el plan de picking FEFO y las alertas de vencimiento sobre
// las posiciones persistidas. Solo lecturas: el plan es una propuesta, el
// consumo real pasa por Allocate/Ship del libro.
type LotUseCase struct {
	posRepo     repository.PositionRepository
	warningDays int
}

// NewLotUseCase construye el caso de uso con la ventana de alerta por defecto.
func NewLotUseCase(posRepo repository.PositionRepository, warningDays int) *LotUseCase {
	if warningDays <= 0 {
		warningDays = 7
	}
	return &LotUseCase{posRepo: posRepo, warningDays: warningDays}
}

// PickPlan arma el plan FEFO para despachar qtyNeeded de un producto;
// warehouseID vacío considera todas las bodegas.
func (uc *LotUseCase) PickPlan(ctx context.Context, productID, warehouseID string, qtyNeeded decimal.Decimal) ([]domaininv.LotAllocation, error) {
	positions, err := uc.posRepo.ListByProductAndWarehouse(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	return domaininv.SelectForPickFEFO(positions, qtyNeeded)
}

// Expiring devuelve las posiciones de una bodega con existencia que vence
// dentro de la ventana (warningDays <= 0 usa la configurada), más urgente primero.
func (uc *LotUseCase) Expiring(ctx context.Context, warehouseID string, warningDays, limit, offset int) ([]domaininv.ExpiryAlert, error) {
	if warningDays <= 0 {
		warningDays = uc.warningDays
	}
	positions, err := uc.posRepo.ListByWarehouse(warehouseID, limit, offset)
	if err != nil {
		return nil, err
	}
	return domaininv.ExpiringSoon(positions, time.Now(), warningDays), nil
}
