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

// LedgerUseCase es el libro de inventario: toda mutación de cantidades pasa
// por aquí. Cada operación corre en una transacción con bloqueo de fila
// (SELECT FOR UPDATE) sobre la posición; la actualización de la posición y el
// asiento append-only hacen Commit o Rollback juntos.
type LedgerUseCase struct {
	txRunner TxRunner
	posRepo  repository.PositionRepository   // lecturas fuera de transacción
	txnRepo  repository.TransactionRepository // lecturas fuera de transacción
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, posRepo repository.PositionRepository, txnRepo repository.TransactionRepository) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, posRepo: posRepo, txnRepo: txnRepo}
}

// ReceiveInput entrada para una recepción de mercancía.
type ReceiveInput struct {
	Key             entity.PositionKey
	Quantity        decimal.Decimal
	UnitCost        decimal.Decimal
	ProductionDate  *time.Time
	ExpiryDate      *time.Time
	ReferenceType   string
	ReferenceNumber string
	Notes           string
}

// Receive crea o actualiza la posición, recalcula el costo promedio ponderado
// y registra el asiento RECEIVE. La posición se crea en la primera recepción
// de la tupla (producto, bodega, lote, ubicación).
func (uc *LedgerUseCase) Receive(ctx context.Context, actor string, in ReceiveInput) (*entity.InventoryPosition, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) || in.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.InventoryPosition
	err := uc.txRunner.Run(ctx, func(posRepo repository.PositionRepository, txnRepo repository.TransactionRepository) error {
		pos, err := uc.ReceiveInTx(posRepo, txnRepo, actor, in, time.Now())
		if err != nil {
			return err
		}
		result = pos
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReceiveInTx ejecuta la recepción con los repositorios de la transacción del
// caller. Lo usa Receive y también el motor de captura de peso variable, que
// publica su efecto en el libro dentro de su propia unidad atómica.
func (uc *LedgerUseCase) ReceiveInTx(
	posRepo repository.PositionRepository,
	txnRepo repository.TransactionRepository,
	actor string,
	in ReceiveInput,
	now time.Time,
) (*entity.InventoryPosition, error) {
	// Bloquea la fila de la posición (SELECT FOR UPDATE); si no existe, el
	// repositorio devuelve una posición en cero lista para crear.
	pos, err := posRepo.GetForUpdate(in.Key)
	if err != nil {
		return nil, err
	}
	newCost := domaininv.CostCalculator(pos.QuantityOnHand, pos.AverageCost, in.Quantity, in.UnitCost)
	pos.QuantityOnHand = pos.QuantityOnHand.Add(in.Quantity)
	pos.AverageCost = newCost
	pos.LastCost = in.UnitCost
	if in.ProductionDate != nil {
		pos.ProductionDate = in.ProductionDate
	}
	if in.ExpiryDate != nil {
		pos.ExpiryDate = in.ExpiryDate
	}
	pos.UpdatedAt = now
	if err := posRepo.Upsert(pos); err != nil {
		return nil, err
	}
	txn := &entity.InventoryTransaction{
		ID:              uuid.New().String(),
		ProductID:       in.Key.ProductID,
		WarehouseID:     in.Key.WarehouseID,
		LotNumber:       in.Key.LotNumber,
		LocationCode:    in.Key.LocationCode,
		Type:            entity.TxTypeReceive,
		Quantity:        in.Quantity,
		UnitCost:        in.UnitCost,
		TotalCost:       in.Quantity.Mul(in.UnitCost),
		ReferenceType:   in.ReferenceType,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
		CreatedBy:       actor,
		CreatedAt:       now,
	}
	if err := txnRepo.Create(txn); err != nil {
		return nil, err
	}
	return pos, nil
}

// Allocate reserva cantidad contra la posición para una orden abierta.
// Falla con ErrInsufficientAvailable si qty > disponible (en mano - reservado).
// Las reservas no son movimientos de stock: no generan asiento en el log.
func (uc *LedgerUseCase) Allocate(ctx context.Context, key entity.PositionKey, qty decimal.Decimal) (*entity.InventoryPosition, error) {
	if !qty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.InventoryPosition
	err := uc.txRunner.Run(ctx, func(posRepo repository.PositionRepository, _ repository.TransactionRepository) error {
		pos, err := posRepo.GetForUpdate(key)
		if err != nil {
			return err
		}
		if qty.GreaterThan(pos.Available()) {
			return domain.ErrInsufficientAvailable
		}
		pos.QuantityAllocated = pos.QuantityAllocated.Add(qty)
		pos.UpdatedAt = time.Now()
		if err := posRepo.Upsert(pos); err != nil {
			return err
		}
		result = pos
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Release libera cantidad reservada (orden cancelada o reducida).
// Falla con ErrOverRelease si dejaría la reserva negativa.
func (uc *LedgerUseCase) Release(ctx context.Context, key entity.PositionKey, qty decimal.Decimal) (*entity.InventoryPosition, error) {
	if !qty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.InventoryPosition
	err := uc.txRunner.Run(ctx, func(posRepo repository.PositionRepository, _ repository.TransactionRepository) error {
		pos, err := posRepo.GetForUpdate(key)
		if err != nil {
			return err
		}
		if qty.GreaterThan(pos.QuantityAllocated) {
			return domain.ErrOverRelease
		}
		pos.QuantityAllocated = pos.QuantityAllocated.Sub(qty)
		pos.UpdatedAt = time.Now()
		if err := posRepo.Upsert(pos); err != nil {
			return err
		}
		result = pos
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ShipInput entrada para un despacho.
type ShipInput struct {
	Key             entity.PositionKey
	Quantity        decimal.Decimal
	ReferenceType   string
	ReferenceNumber string
	Notes           string
}

// Ship despacha cantidad previamente reservada: descuenta en mano y reservado
// y registra el asiento SHIP al costo promedio vigente. Exige reserva previa
// >= qty (ErrInsufficientAllocated).
func (uc *LedgerUseCase) Ship(ctx context.Context, actor string, in ShipInput) (*entity.InventoryPosition, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.InventoryPosition
	err := uc.txRunner.Run(ctx, func(posRepo repository.PositionRepository, txnRepo repository.TransactionRepository) error {
		pos, err := posRepo.GetForUpdate(in.Key)
		if err != nil {
			return err
		}
		if in.Quantity.GreaterThan(pos.QuantityAllocated) {
			return domain.ErrInsufficientAllocated
		}
		pos.QuantityOnHand = pos.QuantityOnHand.Sub(in.Quantity)
		pos.QuantityAllocated = pos.QuantityAllocated.Sub(in.Quantity)
		now := time.Now()
		pos.UpdatedAt = now
		if err := posRepo.Upsert(pos); err != nil {
			return err
		}
		txn := &entity.InventoryTransaction{
			ID:              uuid.New().String(),
			ProductID:       in.Key.ProductID,
			WarehouseID:     in.Key.WarehouseID,
			LotNumber:       in.Key.LotNumber,
			LocationCode:    in.Key.LocationCode,
			Type:            entity.TxTypeShip,
			Quantity:        in.Quantity.Neg(),
			UnitCost:        pos.AverageCost,
			TotalCost:       in.Quantity.Neg().Mul(pos.AverageCost),
			ReferenceType:   in.ReferenceType,
			ReferenceNumber: in.ReferenceNumber,
			Notes:           in.Notes,
			CreatedBy:       actor,
			CreatedAt:       now,
		}
		if err := txnRepo.Create(txn); err != nil {
			return err
		}
		result = pos
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AdjustInput entrada para un ajuste con signo (conteo físico, merma, daño).
type AdjustInput struct {
	Key             entity.PositionKey
	Quantity        decimal.Decimal  // con signo; distinto de cero
	UnitCost        *decimal.Decimal // opcional en ajustes positivos; recosteo promedio
	ReferenceType   string           // vacío = ADJUSTMENT
	ReferenceNumber string
	Reason          string
	Notes           string
}

// Adjust registra ADJUST_IN o ADJUST_OUT según el signo. Falla con
// ErrNegativeQuantity si dejaría la existencia negativa y con
// ErrInsufficientAvailable si dejaría en mano por debajo de lo reservado.
func (uc *LedgerUseCase) Adjust(ctx context.Context, actor string, in AdjustInput) (*entity.InventoryPosition, error) {
	if in.Quantity.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.InventoryPosition
	err := uc.txRunner.Run(ctx, func(posRepo repository.PositionRepository, txnRepo repository.TransactionRepository) error {
		pos, err := uc.AdjustInTx(posRepo, txnRepo, actor, in, time.Now())
		if err != nil {
			return err
		}
		result = pos
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AdjustInTx ejecuta el ajuste con los repositorios de la transacción del
// caller (mismo patrón que ReceiveInTx; lo usan Adjust, los traslados y la
// captura de peso variable).
func (uc *LedgerUseCase) AdjustInTx(
	posRepo repository.PositionRepository,
	txnRepo repository.TransactionRepository,
	actor string,
	in AdjustInput,
	now time.Time,
) (*entity.InventoryPosition, error) {
	// El log se indexa por (reference_type, reference_number): un ajuste manual
	// sin tipo de referencia queda como ADJUSTMENT.
	if in.ReferenceType == "" {
		in.ReferenceType = entity.RefTypeAdjustment
	}
	pos, err := posRepo.GetForUpdate(in.Key)
	if err != nil {
		return nil, err
	}
	newOnHand := pos.QuantityOnHand.Add(in.Quantity)
	if newOnHand.LessThan(decimal.Zero) {
		return nil, domain.ErrNegativeQuantity
	}
	if newOnHand.LessThan(pos.QuantityAllocated) {
		return nil, domain.ErrInsufficientAvailable
	}

	txType := entity.TxTypeAdjustIn
	unitCost := pos.AverageCost
	if in.Quantity.GreaterThan(decimal.Zero) {
		if in.UnitCost != nil {
			unitCost = *in.UnitCost
			pos.AverageCost = domaininv.CostCalculator(pos.QuantityOnHand, pos.AverageCost, in.Quantity, unitCost)
		}
	} else {
		txType = entity.TxTypeAdjustOut
	}

	pos.QuantityOnHand = newOnHand
	pos.UpdatedAt = now
	if err := posRepo.Upsert(pos); err != nil {
		return nil, err
	}
	txn := &entity.InventoryTransaction{
		ID:              uuid.New().String(),
		ProductID:       in.Key.ProductID,
		WarehouseID:     in.Key.WarehouseID,
		LotNumber:       in.Key.LotNumber,
		LocationCode:    in.Key.LocationCode,
		Type:            txType,
		Quantity:        in.Quantity,
		UnitCost:        unitCost,
		TotalCost:       in.Quantity.Mul(unitCost),
		ReferenceType:   in.ReferenceType,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           joinReasonNotes(in.Reason, in.Notes),
		CreatedBy:       actor,
		CreatedAt:       now,
	}
	if err := txnRepo.Create(txn); err != nil {
		return nil, err
	}
	return pos, nil
}

// Query es una lectura puntual de la posición, sin bloqueo. Los callers que
// necesiten garantía de consistencia para reservar/despachar deben revalidar
// bajo el bloqueo (las operaciones mutadoras ya lo hacen).
func (uc *LedgerUseCase) Query(ctx context.Context, key entity.PositionKey) (*entity.InventoryPosition, error) {
	return uc.posRepo.Get(key)
}

// History devuelve el log de asientos de la posición (más recientes primero).
func (uc *LedgerUseCase) History(ctx context.Context, key entity.PositionKey, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error) {
	return uc.txnRepo.ListByPosition(key, from, to, limit, offset)
}

// ReconcileResult resultado de la conciliación posición vs log.
type ReconcileResult struct {
	Key        entity.PositionKey
	OnHand     decimal.Decimal
	LedgerSum  decimal.Decimal
	Difference decimal.Decimal
	InBalance  bool
}

// Reconcile verifica la propiedad de conciliación: la suma de los asientos de
// la posición debe reproducir exactamente la existencia en mano.
func (uc *LedgerUseCase) Reconcile(ctx context.Context, key entity.PositionKey) (*ReconcileResult, error) {
	pos, err := uc.posRepo.Get(key)
	if err != nil {
		return nil, err
	}
	sum, err := uc.txnRepo.SumByPosition(key)
	if err != nil {
		return nil, err
	}
	diff := pos.QuantityOnHand.Sub(sum)
	return &ReconcileResult{
		Key:        key,
		OnHand:     pos.QuantityOnHand,
		LedgerSum:  sum,
		Difference: diff,
		InBalance:  diff.IsZero(),
	}, nil
}

func joinReasonNotes(reason, notes string) string {
	switch {
	case reason == "":
		return notes
	case notes == "":
		return reason
	}
	return reason + ": " + notes
}
