package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Distribuidora-api/internal/domain"
	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Distribuidora-api/internal/domain/inventory"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
)

// TransferUseCase coordina traslados entre bodegas como una sola unidad
// atómica: debita el origen (TRANSFER_OUT) y acredita el destino (TRANSFER_IN)
// en la misma transacción. Nunca queda visible un traslado a medias.
type TransferUseCase struct {
	txRunner TxRunner
}

// NewTransferUseCase construye el coordinador de traslados.
func NewTransferUseCase(txRunner TxRunner) *TransferUseCase {
	return &TransferUseCase{txRunner: txRunner}
}

// TransferInput entrada para un traslado entre bodegas.
type TransferInput struct {
	ProductID       string
	FromWarehouseID string
	ToWarehouseID   string
	LotNumber       string
	FromLocation    string
	ToLocation      string
	Quantity        decimal.Decimal
	ReferenceNumber string
	Notes           string
}

// TransferResult las dos posiciones resultantes y el ID que agrupa ambas patas.
type TransferResult struct {
	TransferID string
	Source     *entity.InventoryPosition
	Dest       *entity.InventoryPosition
}

// Transfer ejecuta el traslado:
//  1. Valida destino distinto de origen (ErrInvalidTransferDestination).
//  2. Bloquea ambas posiciones en orden lexicográfico de llave, siempre el
//     mismo orden global, para que dos traslados cruzados no se bloqueen entre
//     sí. El lock_timeout de la transacción acota la espera; la contención se
//     reporta como ErrLockContention (reintentable).
//  3. Debita el origen; si el disponible no alcanza aborta sin efectos.
//  4. Acredita el destino, creando la posición si no existe (hereda lote y
//     vencimiento del origen).
//  5. Commit de ambas patas o Rollback de ambas.
func (uc *TransferUseCase) Transfer(ctx context.Context, actor string, in TransferInput) (*TransferResult, error) {
	if in.ProductID == "" || in.FromWarehouseID == "" || in.ToWarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.ToWarehouseID == in.FromWarehouseID {
		return nil, domain.ErrInvalidTransferDestination
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	fromKey := entity.PositionKey{
		ProductID:    in.ProductID,
		WarehouseID:  in.FromWarehouseID,
		LotNumber:    in.LotNumber,
		LocationCode: in.FromLocation,
	}
	toKey := entity.PositionKey{
		ProductID:    in.ProductID,
		WarehouseID:  in.ToWarehouseID,
		LotNumber:    in.LotNumber,
		LocationCode: in.ToLocation,
	}

	transferID := uuid.New().String()
	now := time.Now()
	result := &TransferResult{TransferID: transferID}

	err := uc.txRunner.Run(ctx, func(posRepo repository.PositionRepository, txnRepo repository.TransactionRepository) error {
		// Orden global de bloqueo: la llave menor primero.
		first, second := fromKey, toKey
		if second.String() < first.String() {
			first, second = second, first
		}
		locked := make(map[string]*entity.InventoryPosition, 2)
		for _, k := range []entity.PositionKey{first, second} {
			pos, err := posRepo.GetForUpdate(k)
			if err != nil {
				return err
			}
			locked[k.String()] = pos
		}
		source := locked[fromKey.String()]
		dest := locked[toKey.String()]

		if in.Quantity.GreaterThan(source.Available()) {
			return domain.ErrInsufficientAvailable
		}

		unitCost := source.AverageCost

		source.QuantityOnHand = source.QuantityOnHand.Sub(in.Quantity)
		source.UpdatedAt = now
		if err := posRepo.Upsert(source); err != nil {
			return err
		}

		// El destino hereda lote y vencimiento del origen al crearse.
		if dest.QuantityOnHand.IsZero() && dest.ExpiryDate == nil {
			dest.ExpiryDate = source.ExpiryDate
			dest.ProductionDate = source.ProductionDate
		}
		dest.AverageCost = domaininv.CostCalculator(dest.QuantityOnHand, dest.AverageCost, in.Quantity, unitCost)
		dest.QuantityOnHand = dest.QuantityOnHand.Add(in.Quantity)
		dest.LastCost = unitCost
		dest.UpdatedAt = now
		if err := posRepo.Upsert(dest); err != nil {
			return err
		}

		outTxn := &entity.InventoryTransaction{
			ID:              uuid.New().String(),
			TransferID:      transferID,
			ProductID:       in.ProductID,
			WarehouseID:     in.FromWarehouseID,
			LotNumber:       in.LotNumber,
			LocationCode:    in.FromLocation,
			Type:            entity.TxTypeTransferOut,
			Quantity:        in.Quantity.Neg(),
			UnitCost:        unitCost,
			TotalCost:       in.Quantity.Neg().Mul(unitCost),
			ReferenceType:   entity.RefTypeTransfer,
			ReferenceNumber: in.ReferenceNumber,
			Notes:           in.Notes,
			CreatedBy:       actor,
			CreatedAt:       now,
		}
		if err := txnRepo.Create(outTxn); err != nil {
			return err
		}
		inTxn := &entity.InventoryTransaction{
			ID:              uuid.New().String(),
			TransferID:      transferID,
			ProductID:       in.ProductID,
			WarehouseID:     in.ToWarehouseID,
			LotNumber:       in.LotNumber,
			LocationCode:    in.ToLocation,
			Type:            entity.TxTypeTransferIn,
			Quantity:        in.Quantity,
			UnitCost:        unitCost,
			TotalCost:       in.Quantity.Mul(unitCost),
			ReferenceType:   entity.RefTypeTransfer,
			ReferenceNumber: in.ReferenceNumber,
			Notes:           in.Notes,
			CreatedBy:       actor,
			CreatedAt:       now,
		}
		if err := txnRepo.Create(inTxn); err != nil {
			return err
		}

		result.Source = source
		result.Dest = dest
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
