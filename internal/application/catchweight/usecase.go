package catchweight

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Distribuidora-api/internal/application/inventory"
	"github.com/jhoicas/Distribuidora-api/internal/domain"
	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
)

// Policy constantes de política del motor de captura, inyectadas desde
// configuración (nada de números mágicos por call site).
type Policy struct {
	AutoAcceptPercent decimal.Decimal // varianza auto-aceptada sin advertencia (5)
	PieceSumEpsilon   decimal.Decimal // tolerancia de la suma de piezas (0.01)
}

// DefaultPolicy valores de política por defecto.
func DefaultPolicy() Policy {
	return Policy{
		AutoAcceptPercent: decimal.NewFromInt(5),
		PieceSumEpsilon:   decimal.NewFromFloat(0.01),
	}
}

// UseCase es el motor de captura de peso variable: registra peso esperado vs
// real contra un documento de referencia, aplica la política de tolerancia y,
// cuando la captura se acepta, publica el efecto en el libro de inventario
// dentro de la misma transacción.
type UseCase struct {
	runner      CaptureTxRunner
	ledger      *inventory.LedgerUseCase
	productRepo repository.ProductRepository
	cwRepo      repository.CatchWeightRepository // lecturas fuera de transacción
	policy      Policy
}

// NewUseCase construye el motor de captura.
func NewUseCase(
	runner CaptureTxRunner,
	ledger *inventory.LedgerUseCase,
	productRepo repository.ProductRepository,
	cwRepo repository.CatchWeightRepository,
	policy Policy,
) *UseCase {
	return &UseCase{runner: runner, ledger: ledger, productRepo: productRepo, cwRepo: cwRepo, policy: policy}
}

// PieceInput peso individual de una pieza.
type PieceInput struct {
	Weight  decimal.Decimal
	Barcode string
	Notes   string
}

// CaptureInput entrada para registrar una captura.
type CaptureInput struct {
	ProductID      string
	ReferenceType  string // RECEIVING, SALES_ORDER, PICK_LIST, ADJUSTMENT
	ReferenceID    string
	WarehouseID    string
	LotNumber      string
	LocationCode   string
	ExpectedWeight decimal.Decimal
	ActualWeight   decimal.Decimal
	UnitCost       decimal.Decimal // costo por unidad de peso (recepciones)
	ExpiryDate     *time.Time      // vencimiento del lote (recepciones)
	Pieces         []PieceInput
}

// Capture registra la captura y aplica la política de tolerancia:
//
//	|varianza%| <= AutoAcceptPercent            → ACCEPTED
//	<= tolerancia del producto                   → ACCEPTED_WITH_WARNING
//	> tolerancia del producto                    → REJECTED
//
// En ACCEPTED/WARNING con referencia RECEIVING publica la recepción con el
// peso REAL (no el esperado); con referencia ADJUSTMENT publica un ajuste por
// la varianza. Una captura REJECTED se persiste igual para auditoría, pero sin
// ningún efecto en el libro y con IsBilled en false; se devuelve junto con
// ErrToleranceExceeded para que el caller dispare la ruta de aprobación.
func (uc *UseCase) Capture(ctx context.Context, actor string, in CaptureInput) (*entity.CatchWeightEntry, error) {
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if !product.IsCatchWeight {
		return nil, domain.ErrNotCatchWeight
	}
	if !in.ExpectedWeight.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidExpectedWeight
	}
	// El peso real alimenta ReceiveInTx/AdjustInTx sin más validación: se
	// rechaza aquí antes de calcular varianzas o tocar el libro.
	if !in.ActualWeight.GreaterThan(decimal.Zero) || in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	switch in.ReferenceType {
	case entity.RefTypeReceiving, entity.RefTypeSalesOrder, entity.RefTypePickList, entity.RefTypeAdjustment:
	default:
		return nil, domain.ErrInvalidInput
	}

	if product.RequiresPieceWeights && len(in.Pieces) == 0 {
		return nil, domain.ErrPieceRequired
	}
	if len(in.Pieces) > 0 {
		sum := decimal.Zero
		for _, p := range in.Pieces {
			sum = sum.Add(p.Weight)
		}
		if sum.Sub(in.ActualWeight).Abs().GreaterThan(uc.policy.PieceSumEpsilon) {
			return nil, domain.ErrPieceSumMismatch
		}
	}

	variance := in.ActualWeight.Sub(in.ExpectedWeight)
	variancePct := variance.Div(in.ExpectedWeight).Mul(decimal.NewFromInt(100))

	status := entity.CaptureStatusRejected
	switch {
	case variancePct.Abs().LessThanOrEqual(uc.policy.AutoAcceptPercent):
		status = entity.CaptureStatusAccepted
	case variancePct.Abs().LessThanOrEqual(product.TolerancePercent):
		status = entity.CaptureStatusWarning
	}

	now := time.Now()
	entry := &entity.CatchWeightEntry{
		ID:              uuid.New().String(),
		ProductID:       in.ProductID,
		ReferenceType:   in.ReferenceType,
		ReferenceID:     in.ReferenceID,
		WarehouseID:     in.WarehouseID,
		LotNumber:       in.LotNumber,
		LocationCode:    in.LocationCode,
		ExpectedWeight:  in.ExpectedWeight,
		ActualWeight:    in.ActualWeight,
		VarianceWeight:  variance,
		VariancePercent: variancePct,
		Unit:            product.CatchWeightUnit,
		UnitCost:        in.UnitCost,
		Status:          status,
		CapturedBy:      actor,
		CapturedAt:      now,
	}
	for i, p := range in.Pieces {
		entry.Pieces = append(entry.Pieces, entity.CatchWeightPiece{
			ID:          uuid.New().String(),
			EntryID:     entry.ID,
			PieceNumber: i + 1,
			Weight:      p.Weight,
			Barcode:     p.Barcode,
			Notes:       p.Notes,
		})
	}

	err = uc.runner.RunCapture(ctx, func(
		posRepo repository.PositionRepository,
		txnRepo repository.TransactionRepository,
		cwRepo repository.CatchWeightRepository,
	) error {
		if err := cwRepo.Create(entry); err != nil {
			return err
		}
		if status == entity.CaptureStatusRejected {
			return nil // se guarda para auditoría, sin efecto en el libro
		}
		return uc.postLedgerEffect(posRepo, txnRepo, actor, entry, in.ExpiryDate, now)
	})
	if err != nil {
		return nil, err
	}
	if status == entity.CaptureStatusRejected {
		return entry, domain.ErrToleranceExceeded
	}
	return entry, nil
}

// postLedgerEffect publica el efecto de una captura aceptada (u overrideada)
// usando los repositorios de la transacción en curso.
func (uc *UseCase) postLedgerEffect(
	posRepo repository.PositionRepository,
	txnRepo repository.TransactionRepository,
	actor string,
	entry *entity.CatchWeightEntry,
	expiry *time.Time,
	now time.Time,
) error {
	key := entry.PositionKey()
	switch entry.ReferenceType {
	case entity.RefTypeReceiving:
		// Se recepciona el peso REAL medido en báscula, no el nominal.
		_, err := uc.ledger.ReceiveInTx(posRepo, txnRepo, actor, inventory.ReceiveInput{
			Key:             key,
			Quantity:        entry.ActualWeight,
			UnitCost:        entry.UnitCost,
			ExpiryDate:      expiry,
			ReferenceType:   entity.RefTypeCatchWeight,
			ReferenceNumber: entry.ID,
			Notes:           "captura de peso " + entry.ReferenceType + " " + entry.ReferenceID,
		}, now)
		return err
	case entity.RefTypeAdjustment:
		if entry.VarianceWeight.IsZero() {
			return nil
		}
		_, err := uc.ledger.AdjustInTx(posRepo, txnRepo, actor, inventory.AdjustInput{
			Key:             key,
			Quantity:        entry.VarianceWeight,
			ReferenceType:   entity.RefTypeCatchWeight,
			ReferenceNumber: entry.ID,
			Reason:          "varianza de peso",
		}, now)
		return err
	}
	// SALES_ORDER y PICK_LIST capturan el peso para facturación; el movimiento
	// de stock lo registra el flujo de despacho.
	return nil
}

// GetByID devuelve la captura con sus piezas; ErrNotFound si no existe.
func (uc *UseCase) GetByID(ctx context.Context, entryID string) (*entity.CatchWeightEntry, error) {
	entry, err := uc.cwRepo.GetByID(entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	return entry, nil
}

// ListByReference devuelve las capturas de un producto contra un documento de
// referencia (todas las básculas de una misma recepción u orden).
func (uc *UseCase) ListByReference(ctx context.Context, productID, referenceType, referenceID string) ([]*entity.CatchWeightEntry, error) {
	if productID == "" || referenceType == "" || referenceID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.cwRepo.ListByReference(productID, referenceType, referenceID)
}

// Override aprueba explícitamente una captura REJECTED (operación distinta y
// autorizada: el handler exige rol supervisor/admin). Publica el efecto en el
// libro con los pesos ya capturados y marca la captura como OVERRIDDEN. El
// recálculo de facturación queda en manos del caller, vía BillingAdjustment.
func (uc *UseCase) Override(ctx context.Context, actor string, entryID string) (*entity.CatchWeightEntry, error) {
	entry, err := uc.cwRepo.GetByID(entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	if entry.IsBilled {
		return nil, domain.ErrAlreadyBilled
	}
	if entry.Status != entity.CaptureStatusRejected {
		return nil, domain.ErrNotRejected
	}

	now := time.Now()
	err = uc.runner.RunCapture(ctx, func(
		posRepo repository.PositionRepository,
		txnRepo repository.TransactionRepository,
		cwRepo repository.CatchWeightRepository,
	) error {
		if err := uc.postLedgerEffect(posRepo, txnRepo, actor, entry, nil, now); err != nil {
			return err
		}
		return cwRepo.UpdateStatus(entry.ID, entity.CaptureStatusOverridden, actor, now)
	})
	if err != nil {
		return nil, err
	}
	entry.Status = entity.CaptureStatusOverridden
	entry.OverriddenBy = actor
	entry.OverriddenAt = &now
	return entry, nil
}

// CalculateBillingAdjustment calcula el delta de facturación por la varianza
// de peso: varianza × precio del producto. Función pura: no muta el libro ni
// la captura; el sistema de facturación externo decide si lo aplica.
func CalculateBillingAdjustment(entry *entity.CatchWeightEntry, product *entity.Product) decimal.Decimal {
	return entry.VarianceWeight.Mul(product.Price)
}

// BillingAdjustment resuelve el producto y delega en CalculateBillingAdjustment.
func (uc *UseCase) BillingAdjustment(ctx context.Context, entryID string) (decimal.Decimal, error) {
	entry, err := uc.cwRepo.GetByID(entryID)
	if err != nil {
		return decimal.Zero, err
	}
	if entry == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	product, err := uc.productRepo.GetByID(entry.ProductID)
	if err != nil {
		return decimal.Zero, err
	}
	if product == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	return CalculateBillingAdjustment(entry, product), nil
}

// MarkAsBilled marca la captura como facturada. Es la única mutación permitida
// después de la captura y es idempotente: la primera llamada marca, las
// siguientes devuelven ErrAlreadyBilled sin doble efecto.
func (uc *UseCase) MarkAsBilled(ctx context.Context, entryID string) error {
	entry, err := uc.cwRepo.GetByID(entryID)
	if err != nil {
		return err
	}
	if entry == nil {
		return domain.ErrNotFound
	}
	updated, err := uc.cwRepo.MarkBilled(entryID, time.Now())
	if err != nil {
		return err
	}
	if !updated {
		return domain.ErrAlreadyBilled
	}
	return nil
}
